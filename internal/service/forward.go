package service

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"
	"log/slog"

	"bindcast/core/logger"
	"bindcast/core/telegram/format"
	"bindcast/internal/domain"
)

// MediaSender is the slice of the Telegram API fan-out needs.
// *tele.Bot satisfies it; tests supply fakes.
type MediaSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// DeliveryFailure names a channel an attachment could not be delivered to.
type DeliveryFailure struct {
	ChannelTitle string
	BotRemoved   bool
}

// Forwarder re-sends attachments to every channel bound to a user.
type Forwarder struct {
	users UserStore
	binds BindStore
}

// NewForwarder builds the dispatcher on top of the injected stores.
func NewForwarder(users UserStore, binds BindStore) *Forwarder {
	return &Forwarder{users: users, binds: binds}
}

// Dispatch sends the attachment to each bound channel with the bind's
// caption. A failed delivery is recorded and the loop continues; failures
// are isolated per destination. The returned slice lists channels that were
// not reached.
func (f *Forwarder) Dispatch(ctx context.Context, sender MediaSender, accountID int64, att domain.Attachment) ([]DeliveryFailure, error) {
	if att.Sendable("") == nil {
		return nil, domain.ErrUnsupportedAttachment
	}

	user, err := f.users.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	binds, err := f.binds.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var failures []DeliveryFailure
	for _, bind := range binds {
		caption := format.DerefString(bind.Description, "")
		_, sendErr := sender.Send(tele.ChatID(bind.Channel.ChannelID), att.Sendable(caption))
		if sendErr == nil {
			continue
		}

		failures = append(failures, DeliveryFailure{
			ChannelTitle: bind.Channel.Title,
			BotRemoved:   isForbidden(sendErr),
		})
		logger.SVCForward.LogAttrs(ctx, slog.LevelWarn, "delivery failed",
			slog.String("event", "forward.send"),
			slog.String("status", "fail"),
			slog.Int64("channel_ext_id", bind.Channel.ChannelID),
			slog.String("channel_title", logger.SanitizeLimit(bind.Channel.Title, 64)),
			slog.String("kind", string(att.Kind)),
			slog.String("err", sendErr.Error()),
		)
	}

	logger.SVCForward.LogAttrs(ctx, slog.LevelInfo, "fan-out complete",
		slog.String("event", "forward.dispatch"),
		slog.String("status", logger.Status(nil)),
		slog.Int64("account_id", accountID),
		slog.String("kind", string(att.Kind)),
		slog.Int("channels", len(binds)),
		slog.Int("delivered", len(binds)-len(failures)),
		slog.Int("failed", len(failures)),
		slog.Duration("duration", logger.Took(start)),
	)
	return failures, nil
}
