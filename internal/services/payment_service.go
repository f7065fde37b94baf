package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	mt "github.com/werawoot/krua-thai/external/midtrans"
	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
)

type paymentOrderStore interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64) error
	MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64) error
}

type paymentRecordStore interface {
	GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error)
	MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error
	MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error
}

type paymentUserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type snapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type PaymentService struct {
	DB          txBeginner
	PaymentRepo paymentRecordStore
	OrderRepo   paymentOrderStore
	UserRepo    paymentUserStore
	Snap        snapGateway
	ServerKey   string
	Log         *zap.Logger
}

func NewPaymentService(
	pr *repository.PaymentRepository,
	or *repository.OrderRepository,
	ur *repository.UserRepository,
	snap *snap.Client,
	serverKey string,
	log *zap.Logger,
) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{
		DB:          pr.DB,
		PaymentRepo: pr,
		OrderRepo:   or,
		UserRepo:    ur,
		Snap:        snap,
		ServerKey:   serverKey,
		Log:         log,
	}
}

// grossAmountCents converts a dollar total to provider cents. Rounds
// rather than truncates: 0.29*100 is 28.999... in float64 and a plain
// int64 conversion would drop a cent.
func grossAmountCents(total float64) int64 {
	return int64(math.Round(total * 100))
}

// CreateSnapPayment starts an online payment for a pending order and
// returns the provider's redirect URL. The checkout transaction already
// wrote the pending payments row; this only attaches a provider session.
func (s *PaymentService) CreateSnapPayment(ctx context.Context, orderNumber, email string) (string, error) {
	order, err := s.OrderRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return "", errors.New("order not found")
	}
	// guests authenticate the order with its email, like the lookup page
	u, err := s.UserRepo.GetByID(ctx, order.UserID)
	if err != nil || !strings.EqualFold(u.Email, strings.TrimSpace(email)) {
		return "", errors.New("order not found")
	}
	if order.Status != model.OrderStatusPending {
		return "", errors.New("order cannot be paid")
	}

	payment, err := s.PaymentRepo.GetByOrderID(ctx, order.OrderID)
	if err != nil {
		return "", err
	}
	if payment == nil {
		return "", errors.New("no payment for order")
	}
	if payment.Status != model.PaymentStatusPending {
		return "", errors.New("payment already settled")
	}
	if payment.PaymentMethod != "online" {
		return "", errors.New("order is not an online payment")
	}

	externalRef := fmt.Sprintf("ORDER-%d-%s", order.OrderID, uuid.NewString())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  externalRef,
			GrossAmt: grossAmountCents(order.Total),
		},
	}

	resp, snapErr := s.Snap.CreateTransaction(req)
	if snapErr != nil {
		return "", snapErr
	}

	s.Log.Info("snap payment session created",
		zap.String("order_number", orderNumber),
		zap.String("provider_ref", externalRef))

	return resp.RedirectURL, nil
}

// HandleMidtransNotification processes the asynchronous payment webhook.
// Safe to call repeatedly for the same order.
func (s *PaymentService) HandleMidtransNotification(ctx context.Context, payload map[string]interface{}) error {
	orderIDStr, ok := payload["order_id"].(string)
	if !ok {
		return errors.New("missing order_id")
	}

	// Extract internal order ID from ORDER-{id}-UUID
	var orderID int64
	if _, err := fmt.Sscanf(orderIDStr, "ORDER-%d-", &orderID); err != nil {
		return errors.New("invalid order reference")
	}

	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == model.OrderStatusPaid {
		// already processed, safely ignore
		return nil
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)

	if !mt.VerifySignature(
		orderIDStr,
		statusCode,
		grossAmount,
		signature,
		s.ServerKey,
	) {
		return errors.New("invalid signature")
	}

	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)

	switch transactionStatus {

	case "settlement":
		return s.finalizePayment(ctx, orderID, payload)

	case "capture":
		if fraudStatus == "accept" {
			return s.finalizePayment(ctx, orderID, payload)
		}

	case "expire", "cancel", "deny":
		return s.markPaymentFailed(ctx, orderID, payload)
	}

	return nil
}

// finalizePayment marks payment and order paid in one transaction.
func (s *PaymentService) finalizePayment(ctx context.Context, orderID int64, payload map[string]interface{}) error {
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == model.OrderStatusPaid {
		return nil
	}

	providerRef, _ := payload["transaction_id"].(string)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.PaymentRepo.MarkPaidTx(ctx, tx, orderID, "midtrans:"+providerRef); err != nil {
		return err
	}
	if err := s.OrderRepo.MarkPaidTx(ctx, tx, orderID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.Log.Info("payment settled",
		zap.Int64("orderid", orderID),
		zap.String("provider_ref", providerRef))
	return nil
}

// markPaymentFailed marks payment and order failed in one transaction,
// so a partial write can never leave the order failed while its payment
// row still reads pending.
func (s *PaymentService) markPaymentFailed(ctx context.Context, orderID int64, payload map[string]interface{}) error {
	// Idempotency guard
	order, err := s.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == model.OrderStatusPaid || order.Status == model.OrderStatusFailed {
		return nil
	}

	status, _ := payload["transaction_status"].(string)
	data, _ := json.Marshal(payload)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.OrderRepo.MarkFailedTx(ctx, tx, orderID); err != nil {
		return err
	}
	if err := s.PaymentRepo.MarkFailedTx(ctx, tx, orderID, "midtrans:"+status); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.Log.Warn("payment failed",
		zap.Int64("orderid", orderID),
		zap.String("transaction_status", status),
		zap.ByteString("payload", data))
	return nil
}
