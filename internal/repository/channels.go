package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bindcast/internal/domain"
)

// ChannelRepository persists channels the bot was added to.
type ChannelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository wires the repository to the shared connection pool.
func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Create inserts a new channel and returns it with generated id and
// timestamps. Returns domain.ErrAlreadyExists for a known channel id.
func (r *ChannelRepository) Create(ctx context.Context, ch domain.Channel) (domain.Channel, error) {
	const query = `
		INSERT INTO channels (channel_id, title, username)
		VALUES ($1, $2, $3)
		RETURNING id, channel_id, title, username, created_at, updated_at`

	var created domain.Channel
	err := r.db.GetContext(ctx, &created, query, ch.ChannelID, ch.Title, ch.Username)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Channel{}, fmt.Errorf("create channel channel_id=%d: %w", ch.ChannelID, domain.ErrAlreadyExists)
		}
		return domain.Channel{}, fmt.Errorf("create channel: %w", err)
	}
	return created, nil
}

// GetByExternalID looks a channel up by its Telegram chat id.
func (r *ChannelRepository) GetByExternalID(ctx context.Context, channelID int64) (domain.Channel, error) {
	const query = `
		SELECT id, channel_id, title, username, created_at, updated_at
		FROM channels
		WHERE channel_id = $1`

	var ch domain.Channel
	if err := r.db.GetContext(ctx, &ch, query, channelID); err != nil {
		if isNoRows(err) {
			return domain.Channel{}, fmt.Errorf("channel channel_id=%d: %w", channelID, domain.ErrChannelNotFound)
		}
		return domain.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

// Count returns the number of registered channels.
func (r *ChannelRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM channels`); err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}
