package services

import (
	"strings"
	"testing"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func TestNormalizeCartWellFormedItemPassesThrough(t *testing.T) {
	raw := []model.RawCartItem{
		{
			ID:             strPtr("menu-3"),
			Name:           strPtr("Pad Thai Kit"),
			UnitPrice:      f64Ptr(18.99),
			Quantity:       intPtr(2),
			Customizations: []string{"extra_protein"},
		},
	}

	items := NormalizeCart(nil, raw)

	assert.Len(t, items, 1)
	assert.Equal(t, "menu-3", items[0].ID)
	assert.Equal(t, "Pad Thai Kit", items[0].Name)
	assert.Equal(t, 18.99, items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, []model.Customization{model.CustomizationExtraProtein}, items[0].Customizations)
}

func TestNormalizeCartMissingFieldsGetDefaults(t *testing.T) {
	items := NormalizeCart(nil, []model.RawCartItem{{}})

	assert.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].ID, "unknown-"))
	assert.Equal(t, "Unknown Item", items[0].Name)
	assert.Equal(t, DefaultUnitPrice, items[0].UnitPrice)
	assert.Equal(t, DefaultQuantity, items[0].Quantity)
	assert.Empty(t, items[0].Customizations)
}

func TestNormalizeCartClampsPrice(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative clamps to zero", -5.00, MinUnitPrice},
		{"above max clamps to max", 999.99, MaxUnitPrice},
		{"zero is kept", 0, 0},
		{"boundary max is kept", 200, 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := []model.RawCartItem{{
				ID:        strPtr("menu-1"),
				Name:      strPtr("Kit"),
				UnitPrice: f64Ptr(tc.in),
				Quantity:  intPtr(1),
			}}
			items := NormalizeCart(nil, raw)
			assert.Equal(t, tc.want, items[0].UnitPrice)
		})
	}
}

func TestNormalizeCartClampsQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero clamps to one", 0, MinQuantity},
		{"negative clamps to one", -3, MinQuantity},
		{"above max clamps to max", 50, MaxQuantity},
		{"boundary max is kept", 10, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := []model.RawCartItem{{
				ID:        strPtr("menu-1"),
				Name:      strPtr("Kit"),
				UnitPrice: f64Ptr(10),
				Quantity:  intPtr(tc.in),
			}}
			items := NormalizeCart(nil, raw)
			assert.Equal(t, tc.want, items[0].Quantity)
		})
	}
}

func TestNormalizeCartDropsUnknownCustomizationsAndDedupes(t *testing.T) {
	raw := []model.RawCartItem{{
		ID:             strPtr("menu-1"),
		Name:           strPtr("Kit"),
		UnitPrice:      f64Ptr(10),
		Quantity:       intPtr(1),
		Customizations: []string{"extra_protein", "free_gold", "extra_protein", "extra_vegetables"},
	}}

	items := NormalizeCart(nil, raw)

	assert.Equal(t, []model.Customization{
		model.CustomizationExtraProtein,
		model.CustomizationExtraVegetables,
	}, items[0].Customizations)
}

func TestNormalizeCartDoesNotMutateInput(t *testing.T) {
	price := -1.0
	qty := 99
	raw := []model.RawCartItem{{
		ID:        strPtr("menu-1"),
		Name:      strPtr("Kit"),
		UnitPrice: &price,
		Quantity:  &qty,
	}}

	NormalizeCart(nil, raw)

	assert.Equal(t, -1.0, price)
	assert.Equal(t, 99, qty)
}

func TestNormalizeCartEmptyInput(t *testing.T) {
	assert.Empty(t, NormalizeCart(nil, nil))
	assert.Empty(t, NormalizeCart(nil, []model.RawCartItem{}))
}

func TestRawFromStoredRoundTripsThroughNormalizer(t *testing.T) {
	stored := []model.StoredCartItem{{
		MenuID:         7,
		Name:           "Green Curry Kit",
		UnitPrice:      21.50,
		Quantity:       3,
		Customizations: []model.Customization{model.CustomizationExtraVegetables},
	}}

	items := NormalizeCart(nil, RawFromStored(stored))

	assert.Len(t, items, 1)
	assert.Equal(t, "menu-7", items[0].ID)
	assert.Equal(t, "Green Curry Kit", items[0].Name)
	assert.Equal(t, 21.50, items[0].UnitPrice)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, []model.Customization{model.CustomizationExtraVegetables}, items[0].Customizations)
}

func TestNormalizeCartWarnsOnEveryCoercion(t *testing.T) {
	core, logged := observer.New(zapcore.WarnLevel)

	NormalizeCart(zap.New(core), []model.RawCartItem{{}})

	messages := make([]string, 0, logged.Len())
	for _, e := range logged.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"cart item missing id, generated placeholder",
		"cart item missing name",
		"cart item missing unit price, using default",
		"cart item missing quantity, using default",
	}, messages)
}
