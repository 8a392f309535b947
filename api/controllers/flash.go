package controllers

import (
	"context"
	"net/http"

	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/pkg/session"
)

// Flash texts shown to the user.
const (
	FlashAddedGeneric   = "Item added to cart successfully!"
	FlashLoginOK        = "Login successful!"
	FlashLoginInvalid   = "Please enter valid credentials"
	FlashSignupOK       = "Account created successfully! Please login."
	FlashOrderPlaced    = "Order placed successfully!"
	FlashOrderConfirmed = "Order confirmed! You will receive an email shortly."
	FlashMessageSent    = "Message sent successfully!"
	FlashSubscribed     = "Thank you for subscribing!"
	FlashWriteFailed    = "Sorry, we could not save that. Please try again."

	flashAddedNamed = "%s added to cart successfully!"
)

// SuccessPath is where completed form posts land.
const SuccessPath = "/sucess"

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		session.FromContext(r.Context()).AddFlash(message)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// redirect is where a write path ends up after the reporting policy had its say.
type redirect struct {
	okTarget   string
	okFlash    string
	failTarget string
}

// finish resolves err through the policy and redirects accordingly. It
// reports whether the user was told the write succeeded.
func (d redirect) finish(ctx context.Context, w http.ResponseWriter, r *http.Request, policy reporting.Policy, op string, err error) bool {
	if resolved := policy.Resolve(ctx, op, err); resolved != nil {
		redirectWithFlash(w, r, d.failTarget, FlashWriteFailed)
		return false
	}
	redirectWithFlash(w, r, d.okTarget, d.okFlash)
	return true
}
