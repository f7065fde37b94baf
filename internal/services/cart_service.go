package services

import (
	"context"
	"errors"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"

	"go.uber.org/zap"
)

type cartStore interface {
	GetItems(ctx context.Context, guestToken string) ([]model.StoredCartItem, error)
	AddItem(ctx context.Context, guestToken string, menuID int64, name string, unitPrice float64, qty, maxQty int, customizations []model.Customization) error
	SetQuantity(ctx context.Context, guestToken string, menuID int64, qty int) error
	RemoveItem(ctx context.Context, guestToken string, menuID int64) error
	Clear(ctx context.Context, guestToken string) error
	ReplaceWithItem(ctx context.Context, guestToken string, menuID int64, name string, unitPrice float64, customizations []model.Customization) error
}

type menuStore interface {
	GetByID(ctx context.Context, id int64) (*model.Menu, error)
}

// CartService manages the server-side guest cart. Quantities are clamped
// silently on the way in, matching the checkout fail-open policy.
type CartService struct {
	Repo     cartStore
	MenuRepo menuStore
	Log      *zap.Logger
}

func NewCartService(r *repository.CartRepository, mr *repository.MenuRepository, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{Repo: r, MenuRepo: mr, Log: log}
}

// Get returns the cart items plus totals computed over the normalized
// view of the cart, so the displayed quote matches what checkout will see.
func (s *CartService) Get(ctx context.Context, guestToken string) (*model.CartResponse, error) {
	items, err := s.Repo.GetItems(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.StoredCartItem{}
	}
	totals := ComputeTotals(s.Log, NormalizeCart(s.Log, RawFromStored(items)))
	return &model.CartResponse{
		GuestToken: guestToken,
		Items:      items,
		Totals:     totals,
	}, nil
}

// Add puts a menu item in the cart, snapshotting its current name and
// price. Unknown customizations are dropped, quantity is clamped.
func (s *CartService) Add(ctx context.Context, guestToken string, menuID int64, qty int, customizations []string) error {
	menu, err := s.MenuRepo.GetByID(ctx, menuID)
	if err != nil {
		return err
	}
	if !menu.Available {
		return errors.New("menu item is not available")
	}

	qty = s.clampQuantity(menuID, qty)
	return s.Repo.AddItem(ctx, guestToken, menuID, menu.Name, menu.Price, qty, MaxQuantity, s.parseCustomizations(menuID, customizations))
}

// SelectKit replaces the whole cart with a single unit of one menu item,
// backing the "order this kit now" shortcut.
func (s *CartService) SelectKit(ctx context.Context, guestToken string, menuID int64, customizations []string) error {
	menu, err := s.MenuRepo.GetByID(ctx, menuID)
	if err != nil {
		return err
	}
	if !menu.Available {
		return errors.New("menu item is not available")
	}
	return s.Repo.ReplaceWithItem(ctx, guestToken, menuID, menu.Name, menu.Price, s.parseCustomizations(menuID, customizations))
}

// Update sets an exact quantity for an item already in the cart.
func (s *CartService) Update(ctx context.Context, guestToken string, menuID int64, qty int) error {
	return s.Repo.SetQuantity(ctx, guestToken, menuID, s.clampQuantity(menuID, qty))
}

func (s *CartService) Remove(ctx context.Context, guestToken string, menuID int64) error {
	return s.Repo.RemoveItem(ctx, guestToken, menuID)
}

func (s *CartService) Clear(ctx context.Context, guestToken string) error {
	return s.Repo.Clear(ctx, guestToken)
}

func (s *CartService) clampQuantity(menuID int64, qty int) int {
	switch {
	case qty < MinQuantity:
		if qty != 0 {
			s.Log.Warn("cart quantity below minimum, clamped", zap.Int64("menuid", menuID), zap.Int("raw", qty))
		}
		return MinQuantity
	case qty > MaxQuantity:
		s.Log.Warn("cart quantity above maximum, clamped", zap.Int64("menuid", menuID), zap.Int("raw", qty))
		return MaxQuantity
	}
	return qty
}

func (s *CartService) parseCustomizations(menuID int64, raw []string) []model.Customization {
	var out []model.Customization
	for _, v := range raw {
		c, ok := model.ParseCustomization(v)
		if !ok {
			s.Log.Warn("unknown customization dropped", zap.Int64("menuid", menuID), zap.String("customization", v))
			continue
		}
		out = appendUnique(out, c)
	}
	return out
}
