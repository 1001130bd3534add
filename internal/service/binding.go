package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"bindcast/core/logger"
	"bindcast/internal/domain"
)

// ChatAdminAPI is the slice of the Telegram API the admin check needs.
// *tele.Bot satisfies it; tests supply fakes.
type ChatAdminAPI interface {
	AdminsOf(chat *tele.Chat) ([]tele.ChatMember, error)
}

// BindStore is the persistence surface the binding service needs.
type BindStore interface {
	Create(ctx context.Context, userID, channelID int64) (domain.Bind, error)
	UpdateDescription(ctx context.Context, userID, channelID int64, description string) error
	Delete(ctx context.Context, userID, channelID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.BindWithChannel, error)
}

// BindingService creates and mutates user-channel bindings.
type BindingService struct {
	binds BindStore
}

// NewBindingService builds the service on top of the injected store.
func NewBindingService(binds BindStore) *BindingService {
	return &BindingService{binds: binds}
}

// VerifyAdmin checks that the account administers the channel. The bot being
// unable to query the channel (403) maps to ErrBotNotInChannel; an account
// absent from the administrator list maps to ErrNotChannelAdmin.
func (s *BindingService) VerifyAdmin(ctx context.Context, api ChatAdminAPI, accountID, channelExternalID int64) error {
	start := time.Now()
	admins, err := api.AdminsOf(&tele.Chat{ID: channelExternalID})
	if err != nil {
		if isForbidden(err) {
			return fmt.Errorf("admins of channel %d: %w", channelExternalID, domain.ErrBotNotInChannel)
		}
		return fmt.Errorf("admins of channel %d: %w", channelExternalID, err)
	}

	for _, admin := range admins {
		if admin.User != nil && admin.User.ID == accountID {
			logger.SVCBinds.LogAttrs(ctx, slog.LevelDebug, "admin verified",
				slog.String("event", "bind.verify_admin"),
				slog.String("status", "ok"),
				slog.Int64("account_id", accountID),
				slog.Int64("channel_ext_id", channelExternalID),
				slog.Duration("duration", logger.Took(start)),
			)
			return nil
		}
	}
	return fmt.Errorf("account %d in channel %d: %w", accountID, channelExternalID, domain.ErrNotChannelAdmin)
}

// CreateBinding links the user to the channel; ErrAlreadyExists propagates.
func (s *BindingService) CreateBinding(ctx context.Context, userID, channelID int64) error {
	if _, err := s.binds.Create(ctx, userID, channelID); err != nil {
		return err
	}
	logger.SVCBinds.LogAttrs(ctx, slog.LevelInfo, "bind created",
		slog.String("event", "bind.create"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("channel_id", channelID),
	)
	return nil
}

// UpdateDescription replaces the caption of one bind.
func (s *BindingService) UpdateDescription(ctx context.Context, userID, channelID int64, description string) error {
	if err := s.binds.UpdateDescription(ctx, userID, channelID, description); err != nil {
		return err
	}
	logger.SVCBinds.LogAttrs(ctx, slog.LevelInfo, "bind description updated",
		slog.String("event", "bind.update_description"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("channel_id", channelID),
	)
	return nil
}

// RemoveBinding unbinds one channel from the user.
func (s *BindingService) RemoveBinding(ctx context.Context, userID, channelID int64) error {
	if err := s.binds.Delete(ctx, userID, channelID); err != nil {
		return err
	}
	logger.SVCBinds.LogAttrs(ctx, slog.LevelInfo, "bind removed",
		slog.String("event", "bind.remove"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Int64("channel_id", channelID),
	)
	return nil
}

// UserBinds returns the user's binds joined with their channels.
func (s *BindingService) UserBinds(ctx context.Context, userID int64) ([]domain.BindWithChannel, error) {
	return s.binds.ListByUser(ctx, userID)
}

// isForbidden reports whether the Telegram API rejected the call with a 403.
func isForbidden(err error) bool {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 403
	}
	return false
}
