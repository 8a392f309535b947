package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/homemade/pickleshop/pkg/errors"
)

// Action is a quantity change applied to a single line item.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionRemove   Action = "remove"
)

// ParseAction maps a form value to an Action.
func ParseAction(value string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(value))) {
	case ActionIncrease:
		return ActionIncrease, true
	case ActionDecrease:
		return ActionDecrease, true
	case ActionRemove:
		return ActionRemove, true
	}
	return "", false
}

// Item is one line of the ledger. Repeated adds of the same product produce
// separate items.
type Item struct {
	ID        string          `json:"cart_id"`
	Name      string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// LineTotal is always derived from the current quantity and unit price.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Ledger is the ordered list of items held for one session.
type Ledger struct {
	Items []Item `json:"items"`
}

// Add appends a new line and returns its id.
func (l *Ledger) Add(name string, unitPrice decimal.Decimal, quantity int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if unitPrice.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if quantity < 1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	item := Item{
		ID:        uuid.NewString(),
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	l.Items = append(l.Items, item)
	return item.ID, nil
}

// Update applies action to the first item with the given id. Unknown ids and
// decreases at quantity 1 leave the ledger untouched. It reports whether the
// ledger changed.
func (l *Ledger) Update(id string, action Action) bool {
	for idx := range l.Items {
		if l.Items[idx].ID != id {
			continue
		}
		switch action {
		case ActionIncrease:
			l.Items[idx].Quantity++
			return true
		case ActionDecrease:
			if l.Items[idx].Quantity > 1 {
				l.Items[idx].Quantity--
				return true
			}
			return false
		case ActionRemove:
			l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
			return true
		}
		return false
	}
	return false
}

// Find returns the item with the given id.
func (l *Ledger) Find(id string) (Item, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Count is the number of units across all lines.
func (l *Ledger) Count() int {
	if l == nil {
		return 0
	}
	total := 0
	for _, item := range l.Items {
		total += item.Quantity
	}
	return total
}

// Clear empties the ledger. Clearing an empty ledger is a no-op.
func (l *Ledger) Clear() {
	l.Items = nil
}

// Subtotal sums every line total; an empty ledger yields zero.
func (l *Ledger) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	if l == nil {
		return subtotal
	}
	for _, item := range l.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// Totals derives the monetary summary for the given view.
func (l *Ledger) Totals(mode Mode, pricing Pricing) Totals {
	subtotal := l.Subtotal()
	delivery := pricing.DeliveryFee(subtotal)

	totals := Totals{
		Mode:       mode,
		Subtotal:   subtotal,
		Delivery:   delivery,
		Tax:        decimal.Zero,
		GrandTotal: subtotal.Add(delivery),
	}
	if mode == ModeCheckout {
		totals.Tax = pricing.Tax(subtotal)
		totals.GrandTotal = totals.GrandTotal.Add(totals.Tax)
	}
	return totals
}
