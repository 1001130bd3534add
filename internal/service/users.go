// Package service holds the application workflows: account and channel
// registration, binding with admin verification, and attachment fan-out.
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

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByAccountID(ctx context.Context, accountID int64) (domain.User, error)
}

// UserService registers and resolves local user mirrors.
type UserService struct {
	users UserStore
}

// NewUserService builds the service on top of the injected store.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register mirrors the Telegram sender locally. Re-registration of a known
// account is not an error.
func (s *UserService) Register(ctx context.Context, sender *tele.User) error {
	if sender == nil {
		return errors.New("register user: nil sender")
	}

	start := time.Now()
	u := domain.User{
		AccountID: sender.ID,
		FirstName: sender.FirstName,
	}
	if sender.LastName != "" {
		u.LastName = &sender.LastName
	}
	if sender.Username != "" {
		u.Username = &sender.Username
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.SVCUsers.LogAttrs(ctx, slog.LevelDebug, "user already registered",
				slog.String("event", "user.register"),
				slog.String("status", "skip"),
				slog.Int64("account_id", sender.ID),
			)
			return nil
		}
		return err
	}

	logger.SVCUsers.LogAttrs(ctx, slog.LevelInfo, "user registered",
		slog.String("event", "user.register"),
		slog.String("status", "ok"),
		slog.Int64("account_id", created.AccountID),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// ByAccountID resolves the local user row for a Telegram account.
func (s *UserService) ByAccountID(ctx context.Context, accountID int64) (domain.User, error) {
	return s.users.GetByAccountID(ctx, accountID)
}
