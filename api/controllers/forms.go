package controllers

import (
	"net/http"

	"github.com/homemade/pickleshop/api/validators"
	"github.com/homemade/pickleshop/internal/contacts"
	"github.com/homemade/pickleshop/internal/orders"
	"github.com/homemade/pickleshop/internal/reporting"
)

type orderForm struct {
	Name     string `form:"name"`
	Item     string `form:"item"`
	Quantity int    `form:"quantity"`
	Email    string `form:"email,omitempty"`
}

type contactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Message string `form:"message"`
}

type subscribeForm struct {
	Email string `form:"email"`
}

func PlaceOrder(svc orders.Service, policy reporting.Policy) http.HandlerFunc {
	done := redirect{okTarget: SuccessPath, okFlash: FlashOrderPlaced, failTarget: "/order"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var form orderForm
		if err := validators.DecodeForm(r, &form); err != nil {
			done.finish(ctx, w, r, policy, "orders.intent.decode", err)
			return
		}
		_, err := svc.PlaceIntent(ctx, orders.IntentInput{
			Name:     form.Name,
			Item:     form.Item,
			Quantity: form.Quantity,
			Email:    form.Email,
		})
		done.finish(ctx, w, r, policy, "orders.intent", err)
	}
}

func SubmitContact(svc contacts.Service, policy reporting.Policy) http.HandlerFunc {
	done := redirect{okTarget: SuccessPath, okFlash: FlashMessageSent, failTarget: "/contact"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var form contactForm
		if err := validators.DecodeForm(r, &form); err != nil {
			done.finish(ctx, w, r, policy, "contacts.submit.decode", err)
			return
		}
		_, err := svc.Submit(ctx, contacts.Input{Name: form.Name, Email: form.Email, Message: form.Message})
		done.finish(ctx, w, r, policy, "contacts.submit", err)
	}
}

func Subscribe(svc contacts.Service, policy reporting.Policy) http.HandlerFunc {
	done := redirect{okTarget: SuccessPath, okFlash: FlashSubscribed, failTarget: "/home"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var form subscribeForm
		if err := validators.DecodeForm(r, &form); err != nil {
			done.finish(ctx, w, r, policy, "contacts.subscribe.decode", err)
			return
		}
		done.finish(ctx, w, r, policy, "contacts.subscribe", svc.Subscribe(ctx, form.Email))
	}
}
