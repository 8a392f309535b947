package controllers

import (
	"net/http"

	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/api/validators"
	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/orders"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/session"
)

type checkoutForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	Total   string `form:"total,omitempty"`
}

func ViewCheckout(rdr *render.Renderer, svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rdr.HTML(w, r, http.StatusOK, "checkout", "Checkout", loadView(r, svc, cart.ModeCheckout, logg))
	}
}

// Checkout records the order and empties the cart once the order record is
// written. A failed order write keeps the cart and goes through the policy.
func Checkout(cartSvc cart.Service, orderSvc orders.Service, policy reporting.Policy, logg *logger.Logger) http.HandlerFunc {
	done := redirect{okTarget: SuccessPath, okFlash: FlashOrderConfirmed, failTarget: "/checkout"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := session.FromContext(ctx)

		var form checkoutForm
		if err := validators.DecodeForm(r, &form); err != nil {
			done.finish(ctx, w, r, policy, "orders.checkout.decode", err)
			return
		}

		view, err := cartSvc.View(ctx, sess, cart.ModeCheckout)
		if err != nil {
			done.finish(ctx, w, r, policy, "orders.checkout.cart", err)
			return
		}

		orderID, err := orderSvc.Checkout(ctx, orders.CheckoutInput{
			CustomerName: form.Name,
			Email:        form.Email,
			Address:      form.Address,
			Items:        view.Items,
			Totals:       view.Totals,
			ClientTotal:  form.Total,
		})
		if orderID == "" {
			done.finish(ctx, w, r, policy, "orders.checkout", err)
			return
		}

		// The order is recorded; line snapshot failures are only logged.
		orderCtx := logg.WithField(ctx, "order_id", orderID)
		if err != nil {
			logg.Warn(orderCtx, "orders.checkout.snapshot.failed", err)
		}
		if clearErr := cartSvc.Clear(ctx, sess); clearErr != nil {
			logg.Error(orderCtx, "cart.clear.failed", clearErr)
		}
		done.finish(ctx, w, r, policy, "orders.checkout", nil)
	}
}
