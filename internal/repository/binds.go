package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bindcast/internal/domain"
)

// BindRepository persists user-channel bindings.
type BindRepository struct {
	db *sqlx.DB
}

// NewBindRepository wires the repository to the shared connection pool.
func NewBindRepository(db *sqlx.DB) *BindRepository {
	return &BindRepository{db: db}
}

// Create inserts a bind. Returns domain.ErrAlreadyExists when the
// (user, channel) pair is already bound.
func (r *BindRepository) Create(ctx context.Context, userID, channelID int64) (domain.Bind, error) {
	const query = `
		INSERT INTO binds (user_id, channel_id)
		VALUES ($1, $2)
		RETURNING user_id, channel_id, description, created_at, updated_at`

	var created domain.Bind
	err := r.db.GetContext(ctx, &created, query, userID, channelID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Bind{}, fmt.Errorf("create bind user=%d channel=%d: %w", userID, channelID, domain.ErrAlreadyExists)
		}
		return domain.Bind{}, fmt.Errorf("create bind: %w", err)
	}
	return created, nil
}

// UpdateDescription changes the caption of a single bind. Both predicates
// must match so that only the targeted (user, channel) row changes; a zero
// row match is reported as success.
func (r *BindRepository) UpdateDescription(ctx context.Context, userID, channelID int64, description string) error {
	const query = `
		UPDATE binds
		SET description = $3, updated_at = NOW()
		WHERE user_id = $1 AND channel_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, channelID, description); err != nil {
		return fmt.Errorf("update bind description user=%d channel=%d: %w", userID, channelID, err)
	}
	return nil
}

// Delete removes a single bind scoped by both user and channel. A zero row
// match is reported as success.
func (r *BindRepository) Delete(ctx context.Context, userID, channelID int64) error {
	const query = `DELETE FROM binds WHERE user_id = $1 AND channel_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, channelID); err != nil {
		return fmt.Errorf("delete bind user=%d channel=%d: %w", userID, channelID, err)
	}
	return nil
}

// ListByUser returns the user's binds joined with their channels, ordered by
// channel title for stable menu rendering.
func (r *BindRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BindWithChannel, error) {
	const query = `
		SELECT b.user_id, b.channel_id, b.description, b.created_at, b.updated_at,
		       c.id AS "channel.id", c.channel_id AS "channel.channel_id",
		       c.title AS "channel.title", c.username AS "channel.username",
		       c.created_at AS "channel.created_at", c.updated_at AS "channel.updated_at"
		FROM binds b
		JOIN channels c ON c.id = b.channel_id
		WHERE b.user_id = $1
		ORDER BY c.title`

	var binds []domain.BindWithChannel
	if err := r.db.SelectContext(ctx, &binds, query, userID); err != nil {
		return nil, fmt.Errorf("list binds user=%d: %w", userID, err)
	}
	return binds, nil
}

// Count returns the number of binds.
func (r *BindRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM binds`); err != nil {
		return 0, fmt.Errorf("count binds: %w", err)
	}
	return n, nil
}
