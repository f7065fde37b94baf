package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentOrders struct {
	order *model.Order

	markPaidCalls   int
	markFailedCalls int
}

func (f *fakePaymentOrders) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if f.order == nil || f.order.OrderID != id {
		return nil, pgx.ErrNoRows
	}
	return f.order, nil
}

func (f *fakePaymentOrders) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	if f.order == nil || f.order.OrderNumber != orderNumber {
		return nil, pgx.ErrNoRows
	}
	return f.order, nil
}

func (f *fakePaymentOrders) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	f.markPaidCalls++
	return nil
}

func (f *fakePaymentOrders) MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64) error {
	f.markFailedCalls++
	return nil
}

type fakePaymentRecords struct {
	payment *model.Payment

	markPaidCalls   int
	markFailedCalls int
	markFailedErr   error
}

func (f *fakePaymentRecords) GetByOrderID(ctx context.Context, orderID int64) (*model.Payment, error) {
	return f.payment, nil
}

func (f *fakePaymentRecords) MarkPaidTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error {
	f.markPaidCalls++
	return nil
}

func (f *fakePaymentRecords) MarkFailedTx(ctx context.Context, tx pgx.Tx, orderID int64, description string) error {
	if f.markFailedErr != nil {
		return f.markFailedErr
	}
	f.markFailedCalls++
	return nil
}

type fakePaymentUsers struct {
	user *model.User
}

func (f *fakePaymentUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if f.user == nil || f.user.UserID != id {
		return nil, pgx.ErrNoRows
	}
	return f.user, nil
}

type fakeSnap struct {
	captured *snap.Request
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.captured = req
	return &snap.Response{RedirectURL: "https://pay.example/redirect"}, nil
}

const testServerKey = "SB-Mid-server-testkey"

func pendingOnlineOrder(total float64) (*fakePaymentOrders, *fakePaymentRecords, *fakePaymentUsers) {
	orders := &fakePaymentOrders{order: &model.Order{
		OrderID:     5,
		OrderNumber: "GUEST-20250901-153012-A3F09C",
		UserID:      7,
		Total:       total,
		Status:      model.OrderStatusPending,
	}}
	payments := &fakePaymentRecords{payment: &model.Payment{
		OrderID:       5,
		UserID:        7,
		Amount:        total,
		Status:        model.PaymentStatusPending,
		PaymentMethod: "online",
	}}
	users := &fakePaymentUsers{user: &model.User{UserID: 7, Email: "somchai@example.com"}}
	return orders, payments, users
}

func newPaymentTestService(db *fakeDB, orders *fakePaymentOrders, payments *fakePaymentRecords,
	users *fakePaymentUsers, gateway snapGateway) *PaymentService {
	return &PaymentService{
		DB:          db,
		PaymentRepo: payments,
		OrderRepo:   orders,
		UserRepo:    users,
		Snap:        gateway,
		ServerKey:   testServerKey,
		Log:         zap.NewNop(),
	}
}

func webhookSignature(orderID, statusCode, grossAmount string) string {
	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(hash[:])
}

func settlementPayload(orderID string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "41.11",
		"signature_key":      webhookSignature(orderID, "200", "41.11"),
		"transaction_status": "settlement",
		"transaction_id":     "mid-abc-123",
	}
}

func TestGrossAmountCents(t *testing.T) {
	cases := []struct {
		total float64
		cents int64
	}{
		{0.29, 29},
		{0.57, 57},
		{18.99, 1899},
		{41.11, 4111},
		{500.00, 50000},
	}
	for _, c := range cases {
		assert.Equal(t, c.cents, grossAmountCents(c.total), "total %.2f", c.total)
	}
}

func TestCreateSnapPaymentSendsWholeCentAmount(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(0.29)
	gateway := &fakeSnap{}
	svc := newPaymentTestService(&fakeDB{}, orders, payments, users, gateway)

	url, err := svc.CreateSnapPayment(context.Background(), orders.order.OrderNumber, "somchai@example.com")

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/redirect", url)
	require.NotNil(t, gateway.captured)
	assert.Equal(t, int64(29), gateway.captured.TransactionDetails.GrossAmt)
}

func TestCreateSnapPaymentRejectsMismatchedEmail(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	gateway := &fakeSnap{}
	svc := newPaymentTestService(&fakeDB{}, orders, payments, users, gateway)

	_, err := svc.CreateSnapPayment(context.Background(), orders.order.OrderNumber, "stranger@example.com")

	assert.EqualError(t, err, "order not found")
	assert.Nil(t, gateway.captured)
}

func TestCreateSnapPaymentRejectsOfflineMethod(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	payments.payment.PaymentMethod = "cash"
	gateway := &fakeSnap{}
	svc := newPaymentTestService(&fakeDB{}, orders, payments, users, gateway)

	_, err := svc.CreateSnapPayment(context.Background(), orders.order.OrderNumber, "somchai@example.com")

	assert.EqualError(t, err, "order is not an online payment")
	assert.Nil(t, gateway.captured)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	db := &fakeDB{}
	svc := newPaymentTestService(db, orders, payments, users, &fakeSnap{})

	payload := settlementPayload("ORDER-5-deadbeef")
	payload["signature_key"] = "forged"

	err := svc.HandleMidtransNotification(context.Background(), payload)

	assert.EqualError(t, err, "invalid signature")
	assert.Empty(t, db.txs)
	assert.Zero(t, orders.markPaidCalls)
}

func TestWebhookSettlementMarksOrderAndPaymentPaid(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	db := &fakeDB{}
	svc := newPaymentTestService(db, orders, payments, users, &fakeSnap{})

	err := svc.HandleMidtransNotification(context.Background(), settlementPayload("ORDER-5-deadbeef"))

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, 1, orders.markPaidCalls)
	assert.Equal(t, 1, payments.markPaidCalls)
}

func TestWebhookIgnoresAlreadyPaidOrder(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	orders.order.Status = model.OrderStatusPaid
	db := &fakeDB{}
	svc := newPaymentTestService(db, orders, payments, users, &fakeSnap{})

	err := svc.HandleMidtransNotification(context.Background(), settlementPayload("ORDER-5-deadbeef"))

	require.NoError(t, err)
	assert.Empty(t, db.txs)
	assert.Zero(t, orders.markPaidCalls)
	assert.Zero(t, payments.markPaidCalls)
}

func TestWebhookExpireFailsBothRowsTogether(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	db := &fakeDB{}
	svc := newPaymentTestService(db, orders, payments, users, &fakeSnap{})

	payload := settlementPayload("ORDER-5-deadbeef")
	payload["transaction_status"] = "expire"

	// first delivery hits a write failure on the payments row; the order
	// update in the same transaction must not stick
	payments.markFailedErr = errors.New("write failed")
	err := svc.HandleMidtransNotification(context.Background(), payload)
	require.Error(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)

	// the order is still pending, so the provider's retry completes both
	payments.markFailedErr = nil
	err = svc.HandleMidtransNotification(context.Background(), payload)
	require.NoError(t, err)
	require.Len(t, db.txs, 2)
	assert.True(t, db.txs[1].committed)
	assert.Equal(t, 2, orders.markFailedCalls)
	assert.Equal(t, 1, payments.markFailedCalls)
}

func TestWebhookExpireIsIdempotentAfterFailure(t *testing.T) {
	orders, payments, users := pendingOnlineOrder(41.11)
	orders.order.Status = model.OrderStatusFailed
	db := &fakeDB{}
	svc := newPaymentTestService(db, orders, payments, users, &fakeSnap{})

	payload := settlementPayload("ORDER-5-deadbeef")
	payload["transaction_status"] = "expire"

	err := svc.HandleMidtransNotification(context.Background(), payload)

	require.NoError(t, err)
	assert.Empty(t, db.txs)
	assert.Zero(t, orders.markFailedCalls)
}
