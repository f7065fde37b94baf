package services

import (
	"testing"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsFreeDeliveryOverThreshold(t *testing.T) {
	items := []model.CartItem{
		{ID: "menu-1", Name: "Pad Thai Kit", UnitPrice: 18.99, Quantity: 2},
	}

	totals := ComputeTotals(nil, items)

	assert.Equal(t, 37.98, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DeliveryFee)
	assert.Equal(t, 3.13, totals.TaxAmount)
	assert.Equal(t, 41.11, totals.Total)
	assert.Equal(t, 2, totals.TotalItems)
}

func TestComputeTotalsFlatFeeUnderThreshold(t *testing.T) {
	items := []model.CartItem{
		{ID: "menu-2", Name: "Spring Rolls", UnitPrice: 10.00, Quantity: 1},
	}

	totals := ComputeTotals(nil, items)

	assert.Equal(t, 10.00, totals.Subtotal)
	assert.Equal(t, FlatDeliveryFee, totals.DeliveryFee)
	assert.Equal(t, 0.83, totals.TaxAmount)
	assert.Equal(t, 14.82, totals.Total)
}

func TestComputeTotalsThresholdBoundary(t *testing.T) {
	// Exactly at the threshold ships free; a cent under does not.
	at := ComputeTotals(nil, []model.CartItem{{ID: "a", UnitPrice: 25.00, Quantity: 1}})
	under := ComputeTotals(nil, []model.CartItem{{ID: "b", UnitPrice: 24.99, Quantity: 1}})

	assert.Equal(t, 0.0, at.DeliveryFee)
	assert.Equal(t, FlatDeliveryFee, under.DeliveryFee)
}

func TestComputeTotalsCustomizationSurcharges(t *testing.T) {
	items := []model.CartItem{
		{
			ID:        "menu-1",
			UnitPrice: 18.99,
			Quantity:  2,
			Customizations: []model.Customization{
				model.CustomizationExtraProtein,
				model.CustomizationExtraVegetables,
			},
		},
	}

	totals := ComputeTotals(nil, items)

	// (18.99 + 2.99 + 1.99) * 2
	assert.Equal(t, 47.94, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DeliveryFee)
}

func TestComputeTotalsSuspiciousQuantityResetsToOne(t *testing.T) {
	items := []model.CartItem{
		{ID: "menu-1", UnitPrice: 10.00, Quantity: 150},
	}

	totals := ComputeTotals(nil, items)

	assert.Equal(t, 10.00, totals.Subtotal)
	assert.Equal(t, 1, totals.TotalItems)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil, nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, FlatDeliveryFee, totals.DeliveryFee)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, FlatDeliveryFee, totals.Total)
	assert.Equal(t, 0, totals.TotalItems)
}

func TestComputeTotalsDeterministic(t *testing.T) {
	items := []model.CartItem{
		{ID: "menu-1", UnitPrice: 18.99, Quantity: 2,
			Customizations: []model.Customization{model.CustomizationExtraProtein}},
		{ID: "menu-2", UnitPrice: 12.50, Quantity: 1},
	}

	first := ComputeTotals(nil, items)
	second := ComputeTotals(nil, items)

	assert.Equal(t, first, second)
}

func TestItemTotal(t *testing.T) {
	assert.Equal(t, 37.98, ItemTotal(18.99, 2, nil))
	assert.Equal(t, 43.96, ItemTotal(18.99, 2, []model.Customization{model.CustomizationExtraProtein}))
	assert.Equal(t, 0.0, ItemTotal(0, 5, nil))
}
