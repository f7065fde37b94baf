package services

import (
	"context"
	"errors"
	"testing"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTx satisfies pgx.Tx and records terminal calls.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeDB struct {
	txs []*fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

// fakeWriterStores backs the user, order and payment stores of the
// checkout writer in one struct.
type fakeWriterStores struct {
	existingUserID int64
	failOnItem     int

	guestCreated  bool
	orderCreated  bool
	itemInserts   int
	paymentMade   bool
	paymentAmount float64
}

func (f *fakeWriterStores) FindIDByEmailTx(ctx context.Context, tx pgx.Tx, email string) (int64, error) {
	if f.existingUserID != 0 {
		return f.existingUserID, nil
	}
	return 0, pgx.ErrNoRows
}

func (f *fakeWriterStores) CreateGuestTx(ctx context.Context, tx pgx.Tx, email, passwordhash string, firstName, lastName, phone *string) (int64, error) {
	f.guestCreated = true
	return 7, nil
}

func (f *fakeWriterStores) CreateOrderTx(ctx context.Context, tx pgx.Tx, o *model.Order) (int64, error) {
	f.orderCreated = true
	return 11, nil
}

func (f *fakeWriterStores) CreateOrderItemTx(ctx context.Context, tx pgx.Tx, it *model.OrderItem) error {
	f.itemInserts++
	if f.failOnItem != 0 && f.itemInserts == f.failOnItem {
		return errors.New("insert failed")
	}
	return nil
}

func (f *fakeWriterStores) CreatePendingTx(ctx context.Context, tx pgx.Tx, p *model.Payment) (int64, error) {
	f.paymentMade = true
	f.paymentAmount = p.Amount
	return 21, nil
}

type fakeGuestCart struct {
	items   []model.StoredCartItem
	cleared bool
}

func (f *fakeGuestCart) GetItems(ctx context.Context, guestToken string) ([]model.StoredCartItem, error) {
	return f.items, nil
}

func (f *fakeGuestCart) Clear(ctx context.Context, guestToken string) error {
	f.cleared = true
	return nil
}

func newWriterService(db *fakeDB, stores *fakeWriterStores, cart *fakeGuestCart) *CheckoutService {
	return &CheckoutService{
		DB:       db,
		Users:    stores,
		Orders:   stores,
		Payments: stores,
		Cart:     cart,
		Log:      zap.NewNop(),
	}
}

func inlineItems(n int) []model.RawCartItem {
	items := make([]model.RawCartItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, model.RawCartItem{
			Name:      strPtr("Pad Thai Kit"),
			UnitPrice: f64Ptr(18.99),
			Quantity:  intPtr(1),
		})
	}
	return items
}

func TestPlaceOrderRollsBackWhenItemInsertFails(t *testing.T) {
	db := &fakeDB{}
	stores := &fakeWriterStores{failOnItem: 2}
	cart := &fakeGuestCart{}

	req := validCheckoutRequest()
	req.Items = inlineItems(3)
	req.GuestToken = "tok"

	conf, fieldErrs, err := newWriterService(db, stores, cart).PlaceOrder(context.Background(), req)

	assert.ErrorIs(t, err, ErrOrderFailed)
	assert.Nil(t, conf)
	assert.Empty(t, fieldErrs)

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
	assert.False(t, stores.paymentMade)
	assert.False(t, cart.cleared)
}

func TestPlaceOrderCommitsAllFourWrites(t *testing.T) {
	db := &fakeDB{}
	stores := &fakeWriterStores{}
	cart := &fakeGuestCart{}

	req := validCheckoutRequest()
	req.Items = inlineItems(2)

	conf, fieldErrs, err := newWriterService(db, stores, cart).PlaceOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.NotNil(t, conf)
	assert.Equal(t, int64(11), conf.OrderID)

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.True(t, stores.guestCreated)
	assert.True(t, stores.orderCreated)
	assert.Equal(t, 2, stores.itemInserts)
	assert.True(t, stores.paymentMade)
	assert.Equal(t, conf.Totals.Total, stores.paymentAmount)
}

func TestPlaceOrderReusesExistingUserByEmail(t *testing.T) {
	db := &fakeDB{}
	stores := &fakeWriterStores{existingUserID: 42}
	cart := &fakeGuestCart{}

	req := validCheckoutRequest()
	req.Items = inlineItems(1)

	_, _, err := newWriterService(db, stores, cart).PlaceOrder(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, stores.guestCreated)
}

func TestPlaceOrderClearsStoredCartOnlyAfterCommit(t *testing.T) {
	stored := []model.StoredCartItem{
		{MenuID: 3, Name: "Green Curry Kit", UnitPrice: 18.99, Quantity: 2},
	}

	// success path clears the cart
	db := &fakeDB{}
	stores := &fakeWriterStores{}
	cart := &fakeGuestCart{items: stored}
	req := validCheckoutRequest()
	req.GuestToken = "tok"

	conf, fieldErrs, err := newWriterService(db, stores, cart).PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	require.NotNil(t, conf)
	assert.True(t, cart.cleared)

	// a failed write leaves it untouched
	db = &fakeDB{}
	stores = &fakeWriterStores{failOnItem: 1}
	cart = &fakeGuestCart{items: stored}

	_, _, err = newWriterService(db, stores, cart).PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrOrderFailed)
	assert.False(t, cart.cleared)

	// so does a validation failure, before any transaction is begun
	db = &fakeDB{}
	stores = &fakeWriterStores{}
	cart = &fakeGuestCart{items: stored}
	bad := validCheckoutRequest()
	bad.GuestToken = "tok"
	bad.Email = ""

	_, fieldErrs, err = newWriterService(db, stores, cart).PlaceOrder(context.Background(), bad)
	require.NoError(t, err)
	assert.NotEmpty(t, fieldErrs)
	assert.Empty(t, db.txs)
	assert.False(t, cart.cleared)
}
