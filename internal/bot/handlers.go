package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "bindcast/core/telegram/helpers"
	"bindcast/internal/bot/session"
	"bindcast/internal/domain"
)

// Start greets the user and registers the account locally. Repeated /start
// is silent about the duplicate.
func (h *Handlers) Start(c tele.Context) error {
	if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.users.Register(ctx, c.Sender()); err != nil {
		return err
	}
	h.sessions.SetForwardSuspended(c.Sender().ID, false)
	return tghelpers.SendText(c, textStart)
}

// RegisterChannel persists a channel the bot was just added to. Only
// absent/removed → member transitions of channel-type chats count.
func (h *Handlers) RegisterChannel(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.Chat == nil || upd.Chat.Type != tele.ChatChannel {
		return nil
	}
	if upd.OldChatMember == nil || upd.NewChatMember == nil {
		return nil
	}
	switch upd.OldChatMember.Role {
	case tele.Left, tele.Kicked:
	default:
		return nil
	}
	switch upd.NewChatMember.Role {
	case tele.Left, tele.Kicked:
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	return h.channels.Register(ctx, upd.Chat)
}

// HandleMedia routes an incoming animation/photo/video. While the session is
// in the binding state the message feeds the binding flow; while fan-out is
// suspended it is dropped; otherwise it is re-sent to every bound channel.
func (h *Handlers) HandleMedia(c tele.Context) error {
	if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
		return nil
	}
	userID := c.Sender().ID
	if h.sessions.State(userID) == session.StateBinding {
		return h.BindChannel(c)
	}
	if h.sessions.ForwardSuspended(userID) {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	att, err := domain.AttachmentFromMessage(c.Message())
	if err != nil {
		return c.Send(textUnsupportedKind)
	}

	failures, err := h.forward.Dispatch(ctx, c.Bot(), userID, att)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Send(textNotRegistered)
		}
		return err
	}
	for _, failure := range failures {
		if sendErr := tghelpers.SendText(c, deliveryWarningText(failure.ChannelTitle, failure.BotRemoved)); sendErr != nil {
			return sendErr
		}
	}
	return nil
}

// Stats reports row counts to the bot administrator.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	users, channels, binds, err := h.stats.Totals(ctx)
	if err != nil {
		return err
	}
	return c.Send(fmt.Sprintf("Пользователи: %d\nКаналы: %d\nПривязки: %d", users, channels, binds))
}

// fallbacks implements ui.FallbackProvider for unmapped updates.
type fallbacks struct{}

func (fallbacks) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
			return nil
		}
		return c.Send(textMenuClosed)
	}
}

func (fallbacks) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Send(textUnsupportedKind)
	}
}

func (fallbacks) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	}
}
