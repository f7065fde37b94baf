package repository

import (
	"context"
	"errors"
	"time"

	"github.com/werawoot/krua-thai/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `userid, first_name, last_name, email, phone, address, city, state, zip, passwordhash, role, status, guest, auth_provider, created_at, deleted_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.Address, &u.City, &u.State, &u.Zip, &u.PasswordHash,
		&u.Role, &u.Status, &u.Guest, &u.AuthProvider, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a registered user and returns the new userid.
func (r *UserRepository) Create(ctx context.Context, email, passwordhash, role string, firstName, lastName *string) (int64, error) {
	var id int64
	query := `INSERT INTO users (email, passwordhash, role, status, guest, first_name, last_name, created_at)
		VALUES ($1, $2, $3, 'active', false, $4, $5, $6) RETURNING userid`
	if err := r.DB.QueryRow(ctx, query, email, passwordhash, role, firstName, lastName, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1 AND deleted_at IS NULL`
	u, err := scanUser(r.DB.QueryRow(ctx, query, email))
	if err != nil {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE userid=$1 AND deleted_at IS NULL`
	u, err := scanUser(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		return nil, errors.New("user not found")
	}
	return u, nil
}

// FindIDByEmailTx looks up a userid inside a transaction. Returns
// pgx.ErrNoRows when no such user exists.
func (r *UserRepository) FindIDByEmailTx(ctx context.Context, tx pgx.Tx, email string) (int64, error) {
	var id int64
	query := `SELECT userid FROM users WHERE email=$1 AND deleted_at IS NULL`
	if err := tx.QueryRow(ctx, query, email).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateGuestTx inserts a guest user created on the fly during checkout.
// The password hash is a random placeholder; the account is claimable by
// registering later with the same email.
func (r *UserRepository) CreateGuestTx(ctx context.Context, tx pgx.Tx, email, passwordhash string, firstName, lastName, phone *string) (int64, error) {
	var id int64
	query := `INSERT INTO users (email, passwordhash, role, status, guest, first_name, last_name, phone, created_at)
		VALUES ($1, $2, 'customer', 'active', true, $3, $4, $5, $6) RETURNING userid`
	if err := tx.QueryRow(ctx, query, email, passwordhash, firstName, lastName, phone, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateProfile lets a user update their own contact and address fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone, address, city, state, zip *string) error {
	query := `UPDATE users SET first_name=$1, last_name=$2, phone=$3, address=$4, city=$5, state=$6, zip=$7
		WHERE userid=$8 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, firstName, lastName, phone, address, city, state, zip, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found or deleted")
	}
	return nil
}

// ClaimGuest converts a guest row into a registered account: sets a real
// password hash and drops the guest flag.
func (r *UserRepository) ClaimGuest(ctx context.Context, id int64, passwordhash string, firstName, lastName *string) error {
	query := `UPDATE users SET passwordhash=$1, guest=false,
		first_name=COALESCE($2, first_name), last_name=COALESCE($3, last_name)
		WHERE userid=$4 AND guest=true AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, passwordhash, firstName, lastName, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("guest account not found")
	}
	return nil
}

func (r *UserRepository) SetAuthProvider(ctx context.Context, id int64, provider string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET auth_provider=$1, guest=false WHERE userid=$2`, provider, id)
	return err
}

// SoftDelete bans a user by setting deleted_at.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE users SET deleted_at=$1 WHERE userid=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found or already deleted")
	}
	return nil
}
