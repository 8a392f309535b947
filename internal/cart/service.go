package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/session"
)

// Service exposes the cart operations used by the storefront handlers.
type Service interface {
	Add(ctx context.Context, sess *session.Session, input AddInput) (Item, error)
	Update(ctx context.Context, sess *session.Session, itemID string, action Action) error
	View(ctx context.Context, sess *session.Session, mode Mode) (View, error)
	Clear(ctx context.Context, sess *session.Session) error
}

// AddInput is a validated add-to-cart request.
type AddInput struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// View is a ledger snapshot together with its derived totals.
type View struct {
	Items  []Item
	Totals Totals
}

type service struct {
	repo    Repository
	pricing Pricing
	logg    *logger.Logger
}

// NewService builds a cart service over the provided repository.
func NewService(repo Repository, pricing Pricing, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo, pricing: pricing, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, sess *session.Session, input AddInput) (Item, error) {
	ledger, err := s.repo.Load(ctx, sess)
	if err != nil {
		return Item{}, err
	}
	id, err := ledger.Add(input.Name, input.UnitPrice, input.Quantity)
	if err != nil {
		return Item{}, err
	}
	if err := s.repo.Save(ctx, sess, ledger); err != nil {
		return Item{}, err
	}

	item, _ := ledger.Find(id)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"cart_id":  item.ID,
		"item":     item.Name,
		"quantity": item.Quantity,
	}), "cart.item.added")
	return item, nil
}

func (s *service) Update(ctx context.Context, sess *session.Session, itemID string, action Action) error {
	ledger, err := s.repo.Load(ctx, sess)
	if err != nil {
		return err
	}
	if !ledger.Update(itemID, action) {
		return nil
	}
	return s.repo.Save(ctx, sess, ledger)
}

func (s *service) View(ctx context.Context, sess *session.Session, mode Mode) (View, error) {
	ledger, err := s.repo.Load(ctx, sess)
	if err != nil {
		return View{}, err
	}
	return View{
		Items:  ledger.Items,
		Totals: ledger.Totals(mode, s.pricing),
	}, nil
}

func (s *service) Clear(ctx context.Context, sess *session.Session) error {
	ledger := &Ledger{}
	return s.repo.Save(ctx, sess, ledger)
}
