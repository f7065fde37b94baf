package model

import "time"

// Customization is an optional add-on carrying a fixed per-unit surcharge.
type Customization string

const (
	CustomizationExtraProtein    Customization = "extra_protein"
	CustomizationExtraVegetables Customization = "extra_vegetables"
)

// SurchargePerUnit returns the add-on's per-unit surcharge in dollars.
func (c Customization) SurchargePerUnit() float64 {
	switch c {
	case CustomizationExtraProtein:
		return 2.99
	case CustomizationExtraVegetables:
		return 1.99
	}
	return 0
}

// ParseCustomization maps a raw string onto a known customization.
// Unknown values are dropped rather than rejected.
func ParseCustomization(s string) (Customization, bool) {
	switch Customization(s) {
	case CustomizationExtraProtein:
		return CustomizationExtraProtein, true
	case CustomizationExtraVegetables:
		return CustomizationExtraVegetables, true
	}
	return "", false
}

// RawCartItem is a loosely-typed cart record as submitted by a client or
// loaded from a stored guest cart. Missing or invalid fields are nil and
// get coerced during normalization.
type RawCartItem struct {
	ID             *string  `json:"id"`
	Name           *string  `json:"name"`
	UnitPrice      *float64 `json:"unit_price"`
	Quantity       *int     `json:"quantity"`
	Customizations []string `json:"customizations"`
}

// CartItem is a normalized cart record: price and quantity are inside
// their allowed bounds and customizations are a known set.
type CartItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	UnitPrice      float64         `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// StoredCartItem is a row in the cart_items table: a guest's server-side
// cart, keyed by an opaque guest token. Name and price are snapshotted
// from the menu at add time.
type StoredCartItem struct {
	CartItemID     int64           `json:"cart_item_id"`
	GuestToken     string          `json:"-"`
	MenuID         int64           `json:"menu_id"`
	Name           string          `json:"name"`
	UnitPrice      float64         `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}

// Totals is the derived subtotal/fee/tax/total tuple for a cart.
// Never persisted directly; recomputed per request.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	TaxAmount   float64 `json:"tax_amount"`
	Total       float64 `json:"total"`
	TotalItems  int     `json:"total_items"`
}

// CartResponse is returned when calling GET /cart.
type CartResponse struct {
	GuestToken string           `json:"guest_token"`
	Items      []StoredCartItem `json:"items"`
	Totals     Totals           `json:"totals"`
}

// FieldError is a single validation failure tied to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
