package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/records"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/metrics"
	"github.com/homemade/pickleshop/pkg/notify"
)

// StatusPending is the only status ever written by the storefront.
const StatusPending = "pending"

const timestampLayout = time.RFC3339Nano

// Service records order intents and checkouts.
type Service interface {
	PlaceIntent(ctx context.Context, input IntentInput) (string, error)
	Checkout(ctx context.Context, input CheckoutInput) (string, error)
}

// IntentInput is the quick order form: one item, no cart.
type IntentInput struct {
	Name     string
	Item     string
	Quantity int
	Email    string
}

// CheckoutInput carries the customer details and the cart being checked out.
type CheckoutInput struct {
	CustomerName string
	Email        string
	Address      string
	Items        []cart.Item
	Totals       cart.Totals
	// ClientTotal is the total posted by the form; only used for an empty cart.
	ClientTotal string
}

// Deps bundles what the orders service needs.
type Deps struct {
	Store    records.Store
	Tables   records.Tables
	Notifier notify.Publisher
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

type service struct {
	store    records.Store
	tables   records.Tables
	notifier notify.Publisher
	metrics  *metrics.Metrics
	logg     *logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(deps Deps) (Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if deps.Tables.Orders == "" || deps.Tables.CartItems == "" {
		return nil, fmt.Errorf("orders and cart items tables required")
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &service{
		store:    deps.Store,
		tables:   deps.Tables,
		notifier: notifier,
		metrics:  deps.Metrics,
		logg:     deps.Logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

func (s *service) PlaceIntent(ctx context.Context, input IntentInput) (string, error) {
	orderID := s.newID()
	err := s.store.Put(ctx, s.tables.Orders, records.Record{
		"order_id":  orderID,
		"name":      input.Name,
		"item":      input.Item,
		"quantity":  input.Quantity,
		"email":     input.Email,
		"timestamp": s.timestamp(),
	})
	if err != nil {
		return "", err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "item": input.Item}), "orders.intent.placed")
	return orderID, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (string, error) {
	orderID := s.newID()
	ts := s.timestamp()
	total := totalAmount(input)

	err := s.store.Put(ctx, s.tables.Orders, records.Record{
		"order_id":      orderID,
		"customer_name": input.CustomerName,
		"email":         input.Email,
		"address":       input.Address,
		"total_amount":  total,
		"status":        StatusPending,
		"timestamp":     ts,
	})
	if err != nil {
		return "", err
	}

	var snapshotErr error
	for _, item := range input.Items {
		snapshotErr = multierr.Append(snapshotErr, s.store.Put(ctx, s.tables.CartItems, records.Record{
			"cart_id":   item.ID,
			"order_id":  orderID,
			"item_name": item.Name,
			"quantity":  item.Quantity,
			"price":     item.UnitPrice.StringFixed(2),
			"total":     item.LineTotal().StringFixed(2),
			"timestamp": ts,
		}))
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "total_amount": total, "lines": len(input.Items)})
	s.logg.Info(ctx, "orders.checkout.recorded")
	s.confirm(ctx, orderID, total, input)

	return orderID, snapshotErr
}

// confirm is fire and forget: a failed publish never fails the checkout.
func (s *service) confirm(ctx context.Context, orderID, total string, input CheckoutInput) {
	if _, ok := s.notifier.(notify.Noop); ok {
		s.metrics.IncNotification(metrics.OutcomeSkipped)
		return
	}
	subject := fmt.Sprintf("Order Confirmation %s", shortID(orderID))
	if err := s.notifier.Publish(ctx, subject, confirmationMessage(orderID, total, input)); err != nil {
		s.metrics.IncNotification(metrics.OutcomeFailed)
		s.logg.Warn(ctx, "orders.confirmation.failed", err)
		return
	}
	s.metrics.IncNotification(metrics.OutcomeOK)
}

func (s *service) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func totalAmount(input CheckoutInput) string {
	if len(input.Items) > 0 {
		return input.Totals.GrandTotal.StringFixed(2)
	}
	if total := strings.TrimSpace(input.ClientTotal); total != "" {
		return total
	}
	return "0"
}

func confirmationMessage(orderID, total string, input CheckoutInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order %s.\n\n", input.CustomerName, orderID)
	for _, item := range input.Items {
		fmt.Fprintf(&b, "%d x %s  %s\n", item.Quantity, item.Name, item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nDelivering to: %s\n", total, input.Address)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
