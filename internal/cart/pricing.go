package cart

import (
	"github.com/shopspring/decimal"

	"github.com/homemade/pickleshop/pkg/config"
)

// Mode selects which totals a view shows. Tax only applies at checkout.
type Mode string

const (
	ModeCart     Mode = "cart"
	ModeCheckout Mode = "checkout"
)

// Pricing holds the delivery and tax rules.
type Pricing struct {
	FreeDeliveryThreshold decimal.Decimal
	StandardDeliveryFee   decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(500),
		StandardDeliveryFee:   decimal.NewFromInt(50),
		TaxRate:               decimal.RequireFromString("0.05"),
	}
}

func PricingFromConfig(cfg config.PricingConfig) Pricing {
	return Pricing{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		StandardDeliveryFee:   cfg.StandardDeliveryFee,
		TaxRate:               cfg.TaxRate,
	}
}

// DeliveryFee is free for an empty cart or once the threshold is reached.
func (p Pricing) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.StandardDeliveryFee
}

func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// Totals is the derived monetary summary of a ledger.
type Totals struct {
	Mode       Mode
	Subtotal   decimal.Decimal
	Delivery   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
}

func (t Totals) HasTax() bool {
	return t.Mode == ModeCheckout
}
