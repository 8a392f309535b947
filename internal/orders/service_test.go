package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/records"
)

type put struct {
	table  string
	record records.Record
}

type recordingStore struct {
	puts   []put
	failOn map[string]error
}

func (s *recordingStore) Put(_ context.Context, table string, record records.Record) error {
	if err := s.failOn[table]; err != nil {
		return err
	}
	s.puts = append(s.puts, put{table: table, record: record})
	return nil
}

func (s *recordingStore) Backend() string { return "test" }

type recordingNotifier struct {
	subjects []string
	messages []string
	err      error
}

func (n *recordingNotifier) Publish(_ context.Context, subject, message string) error {
	n.subjects = append(n.subjects, subject)
	n.messages = append(n.messages, message)
	return n.err
}

func newTestService(t *testing.T, store records.Store, notifier *recordingNotifier) *service {
	t.Helper()
	deps := Deps{Store: store, Tables: records.DefaultTables()}
	if notifier != nil {
		deps.Notifier = notifier
	}
	svc, err := NewService(deps)
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	ids := []string{"order-0001-aaaa", "order-0002-bbbb"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	return s
}

func checkoutCart(t *testing.T) ([]cart.Item, cart.Totals) {
	t.Helper()
	var ledger cart.Ledger
	_, err := ledger.Add("Mango Pickle", decimal.RequireFromString("200.00"), 2)
	require.NoError(t, err)
	return ledger.Items, ledger.Totals(cart.ModeCheckout, cart.DefaultPricing())
}

func TestPlaceIntentWritesOrderRecord(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(t, store, nil)

	id, err := svc.PlaceIntent(context.Background(), IntentInput{Name: "Asha", Item: "Mango Pickle", Quantity: 3, Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "order-0001-aaaa", id)

	require.Len(t, store.puts, 1)
	assert.Equal(t, "PickleOrders", store.puts[0].table)
	assert.Equal(t, records.Record{
		"order_id":  "order-0001-aaaa",
		"name":      "Asha",
		"item":      "Mango Pickle",
		"quantity":  3,
		"email":     "asha@example.com",
		"timestamp": "2024-03-01T10:00:00Z",
	}, store.puts[0].record)
}

func TestCheckoutWritesOrderSnapshotAndNotifies(t *testing.T) {
	store := &recordingStore{}
	notifier := &recordingNotifier{}
	svc := newTestService(t, store, notifier)
	items, totals := checkoutCart(t)

	id, err := svc.Checkout(context.Background(), CheckoutInput{
		CustomerName: "Asha",
		Email:        "asha@example.com",
		Address:      "12 Market Road",
		Items:        items,
		Totals:       totals,
		ClientTotal:  "1.00",
	})
	require.NoError(t, err)

	require.Len(t, store.puts, 2)
	order := store.puts[0]
	assert.Equal(t, "PickleOrders", order.table)
	assert.Equal(t, id, order.record["order_id"])
	assert.Equal(t, StatusPending, order.record["status"])
	assert.Equal(t, "470.00", order.record["total_amount"], "server-side checkout total wins over the posted one")

	line := store.puts[1]
	assert.Equal(t, "CartItems", line.table)
	assert.Equal(t, id, line.record["order_id"])
	assert.Equal(t, items[0].ID, line.record["cart_id"])
	assert.Equal(t, "200.00", line.record["price"])
	assert.Equal(t, "400.00", line.record["total"])

	require.Len(t, notifier.subjects, 1)
	assert.Equal(t, "Order Confirmation order-00", notifier.subjects[0])
	assert.Contains(t, notifier.messages[0], "2 x Mango Pickle  400.00")
	assert.Contains(t, notifier.messages[0], "Total: 470.00")
}

func TestCheckoutEmptyCartUsesPostedTotal(t *testing.T) {
	store := &recordingStore{}
	svc := newTestService(t, store, nil)

	_, err := svc.Checkout(context.Background(), CheckoutInput{CustomerName: "Asha", ClientTotal: "99.50"})
	require.NoError(t, err)
	require.Len(t, store.puts, 1)
	assert.Equal(t, "99.50", store.puts[0].record["total_amount"])

	_, err = svc.Checkout(context.Background(), CheckoutInput{CustomerName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "0", store.puts[1].record["total_amount"])
}

func TestCheckoutOrderFailureStopsEarly(t *testing.T) {
	boom := errors.New("table missing")
	store := &recordingStore{failOn: map[string]error{"PickleOrders": boom}}
	notifier := &recordingNotifier{}
	svc := newTestService(t, store, notifier)
	items, totals := checkoutCart(t)

	id, err := svc.Checkout(context.Background(), CheckoutInput{CustomerName: "Asha", Items: items, Totals: totals})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, id, "no order id when the order record was not written")
	assert.Empty(t, store.puts)
	assert.Empty(t, notifier.subjects)
}

func TestCheckoutSnapshotFailureStillConfirms(t *testing.T) {
	boom := errors.New("throttled")
	store := &recordingStore{failOn: map[string]error{"CartItems": boom}}
	notifier := &recordingNotifier{}
	svc := newTestService(t, store, notifier)
	items, totals := checkoutCart(t)

	_, err := svc.Checkout(context.Background(), CheckoutInput{CustomerName: "Asha", Items: items, Totals: totals})
	assert.ErrorIs(t, err, boom)
	require.Len(t, store.puts, 1)
	assert.Len(t, notifier.subjects, 1)
}

func TestCheckoutIgnoresNotificationFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("sns down")}
	svc := newTestService(t, &recordingStore{}, notifier)
	items, totals := checkoutCart(t)

	_, err := svc.Checkout(context.Background(), CheckoutInput{CustomerName: "Asha", Items: items, Totals: totals})
	assert.NoError(t, err)
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(Deps{Tables: records.DefaultTables()})
	assert.Error(t, err)
	_, err = NewService(Deps{Store: &recordingStore{}})
	assert.Error(t, err)
}
