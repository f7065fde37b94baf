package services

import (
	"math"

	"github.com/werawoot/krua-thai/internal/model"

	"go.uber.org/zap"
)

// Pricing constants. Deliberately hard-coded, not configuration.
const (
	TaxRate               = 0.0825
	FreeDeliveryThreshold = 25.00
	FlatDeliveryFee       = 3.99

	// Anti-corruption guard, separate from the normalizer's clamp.
	// A quantity this large never comes from the UI.
	suspiciousQuantity = 100
)

// ComputeTotals derives the subtotal/fee/tax/total tuple from a
// normalized cart. Pure and total: it never fails, and the same cart
// always yields the same result. Monetary fields are rounded to cents.
func ComputeTotals(log *zap.Logger, items []model.CartItem) model.Totals {
	if log == nil {
		log = zap.NewNop()
	}

	var t model.Totals
	for _, it := range items {
		qty := it.Quantity
		if qty > suspiciousQuantity {
			log.Warn("suspicious cart item quantity, resetting to 1",
				zap.String("id", it.ID), zap.Int("quantity", qty))
			qty = 1
		}
		t.Subtotal += ItemTotal(it.UnitPrice, qty, it.Customizations)
		t.TotalItems += qty
	}

	t.Subtotal = round2(t.Subtotal)
	if t.Subtotal < FreeDeliveryThreshold {
		t.DeliveryFee = FlatDeliveryFee
	}
	t.TaxAmount = round2(t.Subtotal * TaxRate)
	t.Total = round2(t.Subtotal + t.DeliveryFee + t.TaxAmount)
	return t
}

// ItemTotal computes one line's price: unit price times quantity plus
// per-unit customization surcharges.
func ItemTotal(unitPrice float64, qty int, customizations []model.Customization) float64 {
	perUnit := unitPrice
	for _, c := range customizations {
		perUnit += c.SurchargePerUnit()
	}
	return round2(perUnit * float64(qty))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
