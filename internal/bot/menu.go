package bot

import (
	tele "gopkg.in/telebot.v4"

	"bindcast/core/telegram/callbacks"
	tghelpers "bindcast/core/telegram/helpers"
	"bindcast/internal/bot/session"
	"bindcast/internal/service"
)

// Handlers wires the menu state machine and message handlers to the
// application services.
type Handlers struct {
	sessions *session.Manager
	users    *service.UserService
	channels *service.ChannelService
	binding  *service.BindingService
	forward  *service.Forwarder
	stats    *service.StatsService

	// chatAdmin resolves the admin-list API for the current update.
	chatAdmin func(tele.Context) service.ChatAdminAPI
}

// NewHandlers builds the handler set on top of the injected services.
func NewHandlers(
	sessions *session.Manager,
	users *service.UserService,
	channels *service.ChannelService,
	binding *service.BindingService,
	forward *service.Forwarder,
	stats *service.StatsService,
) *Handlers {
	return &Handlers{
		sessions: sessions,
		users:    users,
		channels: channels,
		binding:  binding,
		forward:  forward,
		stats:    stats,
		chatAdmin: func(c tele.Context) service.ChatAdminAPI {
			return c.Bot()
		},
	}
}

// requireState reports whether the user's session is in one of the expected
// states. Callback taps arriving in a wrong state are ignored; /menu is the
// universal reset.
func (h *Handlers) requireState(c tele.Context, expected ...session.State) bool {
	current := h.sessions.State(c.Sender().ID)
	for _, st := range expected {
		if current == st {
			return true
		}
	}
	return false
}

// MainMenu renders the top-level menu. It is the /menu entry point, the
// "back" target of the channels menu, and the landing state after binding.
// Entering it re-enables attachment fan-out.
func (h *Handlers) MainMenu(c tele.Context) error {
	if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
		return nil
	}
	userID := c.Sender().ID
	h.sessions.SetForwardSuspended(userID, false)
	h.sessions.SetState(userID, session.StateMainMenu)
	return c.EditOrSend(textMainMenu, mainMenuMarkup())
}

// CallBinding switches the conversation into the binding state and suspends
// fan-out until the flow completes.
func (h *Handlers) CallBinding(c tele.Context) error {
	if !h.requireState(c, session.StateMainMenu) {
		return nil
	}
	userID := c.Sender().ID
	h.sessions.SetForwardSuspended(userID, true)
	h.sessions.SetState(userID, session.StateBinding)
	return c.Edit(textBindingPrompt)
}

// BindChannel consumes the next message while in the binding state. Every
// branch sends exactly one status line and returns to the main menu.
func (h *Handlers) BindChannel(c tele.Context) error {
	msg := c.Message()

	var status string
	if msg == nil || msg.OriginalChat == nil {
		status = textNotRepost
	} else {
		status = bindingStatusText(h.bindForwarded(c, msg), msg.OriginalChat.Title)
	}

	if err := c.Send(status); err != nil {
		return err
	}
	return h.MainMenu(c)
}

// bindForwarded runs the binding pipeline: local channel lookup, local user
// lookup, admin verification, bind creation. Lookup failures abort before
// the admin check runs.
func (h *Handlers) bindForwarded(c tele.Context, msg *tele.Message) error {
	ctx := tghelpers.BuildContext(c)

	channel, err := h.channels.ByExternalID(ctx, msg.OriginalChat.ID)
	if err != nil {
		return err
	}
	user, err := h.users.ByAccountID(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	if err := h.binding.VerifyAdmin(ctx, h.chatAdmin(c), c.Sender().ID, channel.ChannelID); err != nil {
		return err
	}
	return h.binding.CreateBinding(ctx, user.ID, channel.ID)
}

// UserChannels lists the user's bound channels, one button per channel.
func (h *Handlers) UserChannels(c tele.Context) error {
	if !h.requireState(c, session.StateMainMenu, session.StateChannelMenu) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	user, err := h.users.ByAccountID(ctx, userID)
	if err != nil {
		return c.Edit(textNotRegistered)
	}
	binds, err := h.binding.UserBinds(ctx, user.ID)
	if err != nil {
		return err
	}

	h.sessions.SetState(userID, session.StateUserChannels)
	return c.Edit(textUserChannels, userChannelsMarkup(binds))
}

// ChannelMenu shows the actions for the channel picked in the list. The
// callback payload carries the channel's Telegram chat id.
func (h *Handlers) ChannelMenu(c tele.Context) error {
	if !h.requireState(c, session.StateUserChannels, session.StateTypingDescription) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if extID, err := callbacks.PayloadInt64(c); err == nil {
		channel, chErr := h.channels.ByExternalID(ctx, extID)
		if chErr != nil {
			return chErr
		}
		h.sessions.SelectChannel(userID, channel.ChannelID, channel.Title)
	}

	h.sessions.SetState(userID, session.StateChannelMenu)
	return c.EditOrSend(textChannelMenu, channelMenuMarkup())
}

// EditDescription prompts for new caption text.
func (h *Handlers) EditDescription(c tele.Context) error {
	if !h.requireState(c, session.StateChannelMenu) {
		return nil
	}
	h.sessions.SetState(c.Sender().ID, session.StateTypingDescription)
	return c.Edit(textEditPrompt)
}

// InputDescription consumes the next text message while typing a
// description and stores it as the selected bind's caption.
func (h *Handlers) InputDescription(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess.SelectedChannelID == 0 {
		return h.MainMenu(c)
	}

	user, err := h.users.ByAccountID(ctx, userID)
	if err != nil {
		return err
	}
	channel, err := h.channels.ByExternalID(ctx, sess.SelectedChannelID)
	if err != nil {
		return err
	}

	description := c.Text()
	if err := h.binding.UpdateDescription(ctx, user.ID, channel.ID, description); err != nil {
		return err
	}
	if err := c.Send(descriptionChangedText(description)); err != nil {
		return err
	}
	return h.ChannelMenu(c)
}

// RemoveBinding unbinds the selected channel and re-renders the channel
// list.
func (h *Handlers) RemoveBinding(c tele.Context) error {
	if !h.requireState(c, session.StateChannelMenu) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess := h.sessions.Get(userID)
	if sess.SelectedChannelID == 0 {
		return h.MainMenu(c)
	}

	user, err := h.users.ByAccountID(ctx, userID)
	if err != nil {
		return err
	}
	channel, err := h.channels.ByExternalID(ctx, sess.SelectedChannelID)
	if err != nil {
		return err
	}
	if err := h.binding.RemoveBinding(ctx, user.ID, channel.ID); err != nil {
		return err
	}
	return h.UserChannels(c)
}

// CloseMenu exits the conversation; re-entry requires /menu.
func (h *Handlers) CloseMenu(c tele.Context) error {
	if !h.requireState(c, session.StateMainMenu) {
		return nil
	}
	h.sessions.Reset(c.Sender().ID)
	return c.Edit(textMenuClosed)
}
