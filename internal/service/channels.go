package service

import (
	"context"
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"bindcast/core/logger"
	"bindcast/internal/domain"
)

// ChannelStore is the persistence surface the channel service needs.
type ChannelStore interface {
	Create(ctx context.Context, ch domain.Channel) (domain.Channel, error)
	GetByExternalID(ctx context.Context, channelID int64) (domain.Channel, error)
}

// ChannelService registers and resolves broadcast channels.
type ChannelService struct {
	channels ChannelStore
}

// NewChannelService builds the service on top of the injected store.
func NewChannelService(channels ChannelStore) *ChannelService {
	return &ChannelService{channels: channels}
}

// Register mirrors a channel the bot was just added to. A channel the bot
// re-joins is already known and is not an error.
func (s *ChannelService) Register(ctx context.Context, chat *tele.Chat) error {
	if chat == nil {
		return errors.New("register channel: nil chat")
	}

	start := time.Now()
	ch := domain.Channel{
		ChannelID: chat.ID,
		Title:     chat.Title,
	}
	if chat.Username != "" {
		ch.Username = &chat.Username
	}

	created, err := s.channels.Create(ctx, ch)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.SVCChannels.LogAttrs(ctx, slog.LevelDebug, "channel already registered",
				slog.String("event", "channel.register"),
				slog.String("status", "skip"),
				slog.Int64("channel_ext_id", chat.ID),
			)
			return nil
		}
		return err
	}

	logger.SVCChannels.LogAttrs(ctx, slog.LevelInfo, "channel registered",
		slog.String("event", "channel.register"),
		slog.String("status", "ok"),
		slog.Int64("channel_ext_id", created.ChannelID),
		slog.String("channel_title", logger.SanitizeLimit(created.Title, 64)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// ByExternalID resolves the local channel row for a Telegram chat id.
func (s *ChannelService) ByExternalID(ctx context.Context, channelID int64) (domain.Channel, error) {
	return s.channels.GetByExternalID(ctx, channelID)
}
