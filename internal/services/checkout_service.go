package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MaxOrderTotal is the gate on a single guest order. Anything above it is
// rejected before the writer runs.
const MaxOrderTotal = 500.00

var (
	zipRegex   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRegex = regexp.MustCompile(`^[\d\s()+.-]{7,20}$`)
)

// ErrOrderFailed is the single generic error surfaced when the checkout
// transaction fails; the specific cause is logged, not returned.
var ErrOrderFailed = errors.New("could not place your order, please try again")

// CheckoutRequest carries the guest checkout form plus either an inline
// cart or a guest token referencing a stored cart.
type CheckoutRequest struct {
	FirstName            string              `json:"first_name"`
	LastName             string              `json:"last_name"`
	Email                string              `json:"email"`
	Phone                string              `json:"phone"`
	Address              string              `json:"address"`
	City                 string              `json:"city"`
	State                string              `json:"state"`
	Zip                  string              `json:"zip"`
	DeliveryDate         string              `json:"delivery_date"`
	DeliveryInstructions string              `json:"delivery_instructions"`
	PaymentMethod        string              `json:"payment_method"`
	Items                []model.RawCartItem `json:"items"`
	GuestToken           string              `json:"-"`
}

// OrderConfirmation is returned to the client after a successful commit.
type OrderConfirmation struct {
	OrderID       int64        `json:"orderid"`
	OrderNumber   string       `json:"order_number"`
	TransactionID string       `json:"transaction_id"`
	Totals        model.Totals `json:"totals"`
}

// txBeginner is the one pool method the writers need; satisfied by
// *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type checkoutUserStore interface {
	FindIDByEmailTx(ctx context.Context, tx pgx.Tx, email string) (int64, error)
	CreateGuestTx(ctx context.Context, tx pgx.Tx, email, passwordhash string, firstName, lastName, phone *string) (int64, error)
}

type checkoutOrderStore interface {
	CreateOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error)
	CreateOrderItemTx(ctx context.Context, tx pgx.Tx, it *model.OrderItem) error
}

type checkoutPaymentStore interface {
	CreatePendingTx(ctx context.Context, tx pgx.Tx, p *model.Payment) (int64, error)
}

type checkoutCartStore interface {
	GetItems(ctx context.Context, guestToken string) ([]model.StoredCartItem, error)
	Clear(ctx context.Context, guestToken string) error
}

type CheckoutService struct {
	DB       txBeginner
	Users    checkoutUserStore
	Orders   checkoutOrderStore
	Payments checkoutPaymentStore
	Cart     checkoutCartStore
	Log      *zap.Logger
}

func NewCheckoutService(ur *repository.UserRepository, or *repository.OrderRepository,
	pr *repository.PaymentRepository, cr *repository.CartRepository, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{
		DB:       ur.DB,
		Users:    ur,
		Orders:   or,
		Payments: pr,
		Cart:     cr,
		Log:      log,
	}
}

// Quote normalizes a raw cart and returns its totals; used by the cart
// page for display and never persisted.
func (s *CheckoutService) Quote(raw []model.RawCartItem) model.Totals {
	return ComputeTotals(s.Log, NormalizeCart(s.Log, raw))
}

// ValidateCheckout collects all field-level failures for re-render above
// the form. Totals must already be computed from the normalized cart.
func ValidateCheckout(req *CheckoutRequest, itemCount int, totals model.Totals) []model.FieldError {
	var errs []model.FieldError
	add := func(field, message string) {
		errs = append(errs, model.FieldError{Field: field, Message: message})
	}

	if strings.TrimSpace(req.FirstName) == "" {
		add("first_name", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		add("last_name", "last name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		add("email", "email is required")
	} else if !emailRegex.MatchString(req.Email) {
		add("email", "invalid email format")
	}
	if strings.TrimSpace(req.Phone) == "" {
		add("phone", "phone is required")
	} else if !phoneRegex.MatchString(req.Phone) {
		add("phone", "invalid phone number")
	}
	if strings.TrimSpace(req.Address) == "" {
		add("address", "delivery address is required")
	}
	if strings.TrimSpace(req.City) == "" {
		add("city", "city is required")
	}
	if strings.TrimSpace(req.State) == "" {
		add("state", "state is required")
	}
	if strings.TrimSpace(req.Zip) == "" {
		add("zip", "zip code is required")
	} else if !zipRegex.MatchString(req.Zip) {
		add("zip", "invalid zip code")
	}

	if strings.TrimSpace(req.DeliveryDate) == "" {
		add("delivery_date", "delivery date is required")
	} else if d, err := time.Parse("2006-01-02", req.DeliveryDate); err != nil {
		add("delivery_date", "invalid delivery date")
	} else if d.Before(time.Now().Truncate(24 * time.Hour)) {
		add("delivery_date", "delivery date cannot be in the past")
	}

	switch req.PaymentMethod {
	case "cash", "card", "online":
	default:
		add("payment_method", "invalid payment method")
	}

	if itemCount == 0 {
		add("cart", "your cart is empty")
	} else if totals.Total <= 0 {
		add("cart", "order total must be greater than zero")
	} else if totals.Total > MaxOrderTotal {
		add("cart", fmt.Sprintf("order total cannot exceed $%.2f", MaxOrderTotal))
	}

	return errs
}

// PlaceOrder runs the guest checkout: normalize, re-validate, then write
// user, order, order items and payment in one atomic transaction.
//
// There is no idempotency key: a double submission after a UI-level
// failure creates a second order with the same content. The email lookup
// makes retries idempotent for user creation only.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*OrderConfirmation, []model.FieldError, error) {
	raw := req.Items
	if len(raw) == 0 && req.GuestToken != "" {
		stored, err := s.Cart.GetItems(ctx, req.GuestToken)
		if err != nil {
			s.Log.Error("load stored cart failed", zap.Error(err))
			return nil, nil, ErrOrderFailed
		}
		raw = RawFromStored(stored)
	}

	items := NormalizeCart(s.Log, raw)
	totals := ComputeTotals(s.Log, items)

	if errs := ValidateCheckout(req, len(items), totals); len(errs) > 0 {
		return nil, errs, nil
	}

	deliveryDate, _ := time.Parse("2006-01-02", req.DeliveryDate)
	now := time.Now()
	orderNumber := newReference("GUEST", now)
	transactionID := newReference("TXN", now)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		s.Log.Error("begin checkout tx failed", zap.Error(err))
		return nil, nil, ErrOrderFailed
	}
	defer tx.Rollback(ctx)

	userID, err := s.upsertGuestUserTx(ctx, tx, req)
	if err != nil {
		s.Log.Error("guest user upsert failed", zap.Error(err), zap.String("email", req.Email))
		return nil, nil, ErrOrderFailed
	}

	order := &model.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		DeliveryDate:    deliveryDate,
		DeliveryAddress: composeAddress(req),
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		Status:          model.OrderStatusPending,
	}
	if instr := strings.TrimSpace(req.DeliveryInstructions); instr != "" {
		order.DeliveryInstructions = &instr
	}
	orderID, err := s.Orders.CreateOrderTx(ctx, tx, order)
	if err != nil {
		s.Log.Error("order insert failed", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, nil, ErrOrderFailed
	}

	for _, it := range items {
		oi := &model.OrderItem{
			OrderID:        orderID,
			MenuID:         menuIDFromCartID(it.ID),
			MenuName:       it.Name,
			MenuPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
			TotalPrice:     ItemTotal(it.UnitPrice, it.Quantity, it.Customizations),
			Customizations: it.Customizations,
		}
		if err := s.Orders.CreateOrderItemTx(ctx, tx, oi); err != nil {
			s.Log.Error("order item insert failed", zap.Error(err),
				zap.String("order_number", orderNumber), zap.String("item", it.ID))
			return nil, nil, ErrOrderFailed
		}
	}

	description := "Guest order " + orderNumber
	payment := &model.Payment{
		OrderID:       orderID,
		UserID:        userID,
		TransactionID: transactionID,
		Amount:        totals.Total,
		Currency:      "USD",
		PaymentMethod: req.PaymentMethod,
		Description:   &description,
	}
	if _, err := s.Payments.CreatePendingTx(ctx, tx, payment); err != nil {
		s.Log.Error("payment insert failed", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, nil, ErrOrderFailed
	}

	if err := tx.Commit(ctx); err != nil {
		s.Log.Error("checkout commit failed", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, nil, ErrOrderFailed
	}

	// The stored cart is cleared only after a successful commit; a failed
	// checkout leaves it untouched.
	if req.GuestToken != "" {
		if err := s.Cart.Clear(ctx, req.GuestToken); err != nil {
			s.Log.Warn("cart clear after checkout failed", zap.Error(err))
		}
	}

	s.Log.Info("guest order placed",
		zap.String("order_number", orderNumber),
		zap.Int64("orderid", orderID),
		zap.Float64("total", totals.Total),
		zap.Int("items", len(items)))

	return &OrderConfirmation{
		OrderID:       orderID,
		OrderNumber:   orderNumber,
		TransactionID: transactionID,
		Totals:        totals,
	}, nil, nil
}

// upsertGuestUserTx reuses an existing user by email or creates a guest
// row with a random placeholder password hash.
func (s *CheckoutService) upsertGuestUserTx(ctx context.Context, tx pgx.Tx, req *CheckoutRequest) (int64, error) {
	userID, err := s.Users.FindIDByEmailTx(ctx, tx, req.Email)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	phone := strings.TrimSpace(req.Phone)
	return s.Users.CreateGuestTx(ctx, tx, req.Email, string(hash), &first, &last, &phone)
}

func composeAddress(req *CheckoutRequest) string {
	return fmt.Sprintf("%s, %s, %s %s",
		strings.TrimSpace(req.Address),
		strings.TrimSpace(req.City),
		strings.TrimSpace(req.State),
		strings.TrimSpace(req.Zip))
}

// menuIDFromCartID recovers the catalog id from a "menu-<id>" cart id.
// Placeholder ids yield nil; the snapshot fields stand on their own.
func menuIDFromCartID(id string) *int64 {
	var menuID int64
	if _, err := fmt.Sscanf(id, "menu-%d", &menuID); err != nil || menuID <= 0 {
		return nil
	}
	return &menuID
}

// newReference builds a human-readable reference such as
// GUEST-20250901-153012-A3F09C or TXN-20250901-153012-0D77B1.
func newReference(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102-150405"), suffix)
}
