package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UserRepo provides methods for user operations.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Ensure creates the user row if it does not already exist.
func (r *UserRepo) Ensure(ctx context.Context, id string) error {
	return ensureUser(ctx, r.db.Driver, r.db, id)
}

func ensureUser(ctx context.Context, driver string, ex execer, id string) error {
	_, err := ex.ExecContext(ctx,
		rebind(driver, "INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING"),
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// GetByID gets a user by ID.
// Returns nil and ErrNotFound if not found.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	var wallet, email sql.NullString

	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT id, wallet_address, email, created_at FROM users WHERE id = ?"),
		id,
	).Scan(&u.ID, &wallet, &email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.WalletAddress = nullString(wallet)
	u.Email = nullString(email)
	return &u, nil
}

// SetWalletAddress records the wallet a user anchored with.
func (r *UserRepo) SetWalletAddress(ctx context.Context, id, address string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE users SET wallet_address = ? WHERE id = ?"),
		address, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet address: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}
