package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bindcast/internal/domain"
)

// UserRepository persists local mirrors of Telegram accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository wires the repository to the shared connection pool.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns it with generated id and timestamps.
// Returns domain.ErrAlreadyExists when the account id is already registered.
func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (account_id, first_name, last_name, username)
		VALUES ($1, $2, $3, $4)
		RETURNING id, account_id, first_name, last_name, username, created_at, updated_at`

	var created domain.User
	err := r.db.GetContext(ctx, &created, query, u.AccountID, u.FirstName, u.LastName, u.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("create user account_id=%d: %w", u.AccountID, domain.ErrAlreadyExists)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetByAccountID looks a user up by Telegram account id.
func (r *UserRepository) GetByAccountID(ctx context.Context, accountID int64) (domain.User, error) {
	const query = `
		SELECT id, account_id, first_name, last_name, username, created_at, updated_at
		FROM users
		WHERE account_id = $1`

	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, accountID); err != nil {
		if isNoRows(err) {
			return domain.User{}, fmt.Errorf("user account_id=%d: %w", accountID, domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
