package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/api/validators"
	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/session"
)

type addToCartForm struct {
	ItemName string          `form:"item_name"`
	Price    decimal.Decimal `form:"price" validate:"gte=0"`
	Quantity int             `form:"quantity,omitempty" validate:"min=1"`
}

type updateCartForm struct {
	CartID string `form:"cart_id" validate:"required"`
	Action string `form:"action" validate:"oneof=increase decrease remove"`
}

// CartCounter feeds the cart badge in the page header.
func CartCounter(svc cart.Service) render.CartCounter {
	return func(ctx context.Context, sess *session.Session) int {
		view, err := svc.View(ctx, sess, cart.ModeCart)
		if err != nil {
			return 0
		}
		count := 0
		for _, item := range view.Items {
			count += item.Quantity
		}
		return count
	}
}

func AddToCart(svc cart.Service, policy reporting.Policy) http.HandlerFunc {
	fallback := redirect{okTarget: "/cart", okFlash: FlashAddedGeneric, failTarget: "/cart"}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		// A missing quantity means one unit; an explicit zero is rejected.
		form := addToCartForm{Quantity: 1}
		if err := validators.DecodeForm(r, &form); err != nil {
			fallback.finish(ctx, w, r, policy, "cart.add.decode", err)
			return
		}

		item, err := svc.Add(ctx, session.FromContext(ctx), cart.AddInput{
			Name:      form.ItemName,
			UnitPrice: form.Price,
			Quantity:  form.Quantity,
		})
		if err != nil {
			fallback.finish(ctx, w, r, policy, "cart.add", err)
			return
		}
		redirectWithFlash(w, r, "/cart", fmt.Sprintf(flashAddedNamed, item.Name))
	}
}

func ViewCart(rdr *render.Renderer, svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rdr.HTML(w, r, http.StatusOK, "cart", "Your Cart", loadView(r, svc, cart.ModeCart, logg))
	}
}

// UpdateCart always lands back on /cart, even for malformed input.
func UpdateCart(svc cart.Service, policy reporting.Policy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var form updateCartForm
		if err := validators.DecodeForm(r, &form); err != nil {
			logg.Debug(logg.WithField(ctx, "error", err.Error()), "cart.update.ignored")
			http.Redirect(w, r, "/cart", http.StatusFound)
			return
		}
		action, _ := cart.ParseAction(form.Action)
		err := svc.Update(ctx, session.FromContext(ctx), form.CartID, action)
		if resolved := policy.Resolve(ctx, "cart.update", err); resolved != nil {
			redirectWithFlash(w, r, "/cart", FlashWriteFailed)
			return
		}
		http.Redirect(w, r, "/cart", http.StatusFound)
	}
}

func loadView(r *http.Request, svc cart.Service, mode cart.Mode, logg *logger.Logger) cart.View {
	ctx := r.Context()
	view, err := svc.View(ctx, session.FromContext(ctx), mode)
	if err != nil {
		logg.Error(ctx, "cart.view.failed", err)
		return cart.View{}
	}
	return view
}
