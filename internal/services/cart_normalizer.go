package services

import (
	"fmt"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Normalization bounds. Malformed cart data is coerced into these ranges
// rather than rejected, so checkout stays usable even with a corrupted
// client-side cart.
const (
	MinUnitPrice     = 0.0
	MaxUnitPrice     = 200.0
	DefaultUnitPrice = 18.99

	MinQuantity     = 1
	MaxQuantity     = 10
	DefaultQuantity = 1
)

// NormalizeCart converts a loosely-typed cart into well-formed records.
// It never fails: missing ids and names get placeholders, prices and
// quantities are clamped, unknown customizations are dropped. Every
// coercion is logged at warn level. The input slice is not mutated.
func NormalizeCart(log *zap.Logger, raw []model.RawCartItem) []model.CartItem {
	if log == nil {
		log = zap.NewNop()
	}
	items := make([]model.CartItem, 0, len(raw))
	for i, r := range raw {
		items = append(items, normalizeItem(log, i, r))
	}
	return items
}

func normalizeItem(log *zap.Logger, idx int, r model.RawCartItem) model.CartItem {
	var it model.CartItem

	if r.ID != nil && *r.ID != "" {
		it.ID = *r.ID
	} else {
		it.ID = "unknown-" + uuid.NewString()[:8]
		log.Warn("cart item missing id, generated placeholder",
			zap.Int("index", idx), zap.String("id", it.ID))
	}

	if r.Name != nil && *r.Name != "" {
		it.Name = *r.Name
	} else {
		it.Name = "Unknown Item"
		log.Warn("cart item missing name", zap.Int("index", idx), zap.String("id", it.ID))
	}

	switch {
	case r.UnitPrice == nil:
		it.UnitPrice = DefaultUnitPrice
		log.Warn("cart item missing unit price, using default",
			zap.String("id", it.ID), zap.Float64("unit_price", DefaultUnitPrice))
	case *r.UnitPrice < MinUnitPrice:
		it.UnitPrice = MinUnitPrice
		log.Warn("cart item unit price below minimum, clamped",
			zap.String("id", it.ID), zap.Float64("raw", *r.UnitPrice))
	case *r.UnitPrice > MaxUnitPrice:
		it.UnitPrice = MaxUnitPrice
		log.Warn("cart item unit price above maximum, clamped",
			zap.String("id", it.ID), zap.Float64("raw", *r.UnitPrice))
	default:
		it.UnitPrice = *r.UnitPrice
	}

	switch {
	case r.Quantity == nil:
		it.Quantity = DefaultQuantity
		log.Warn("cart item missing quantity, using default",
			zap.String("id", it.ID), zap.Int("quantity", DefaultQuantity))
	case *r.Quantity < MinQuantity:
		it.Quantity = MinQuantity
		log.Warn("cart item quantity below minimum, clamped",
			zap.String("id", it.ID), zap.Int("raw", *r.Quantity))
	case *r.Quantity > MaxQuantity:
		it.Quantity = MaxQuantity
		log.Warn("cart item quantity above maximum, clamped",
			zap.String("id", it.ID), zap.Int("raw", *r.Quantity))
	default:
		it.Quantity = *r.Quantity
	}

	for _, s := range r.Customizations {
		c, ok := model.ParseCustomization(s)
		if !ok {
			log.Warn("unknown customization dropped",
				zap.String("id", it.ID), zap.String("customization", s))
			continue
		}
		it.Customizations = appendUnique(it.Customizations, c)
	}

	return it
}

func appendUnique(cs []model.Customization, c model.Customization) []model.Customization {
	for _, existing := range cs {
		if existing == c {
			return cs
		}
	}
	return append(cs, c)
}

// RawFromStored converts stored guest-cart rows into raw records so the
// same normalization path covers both inline and server-side carts.
func RawFromStored(items []model.StoredCartItem) []model.RawCartItem {
	raw := make([]model.RawCartItem, 0, len(items))
	for _, it := range items {
		id := fmt.Sprintf("menu-%d", it.MenuID)
		cs := make([]string, 0, len(it.Customizations))
		for _, c := range it.Customizations {
			cs = append(cs, string(c))
		}
		raw = append(raw, model.RawCartItem{
			ID:             &id,
			Name:           &it.Name,
			UnitPrice:      &it.UnitPrice,
			Quantity:       &it.Quantity,
			Customizations: cs,
		})
	}
	return raw
}
