package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"bindcast/core/telegram/keyboard"
	"bindcast/internal/domain"
)

// Callback tokens carried by inline buttons. Registered once in Register and
// dispatched through the callback registry.
const (
	cbBinding         = "call_binding"
	cbUserChannels    = "user_channels"
	cbCloseMenu       = "close_menu"
	cbChannelMenu     = "channel_menu"
	cbBackToMain      = "back_to_main"
	cbEditDescription = "edit_description"
	cbRemoveBinding   = "remove_binding"
	cbBackToChannels  = "back_to_channels"
)

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnBinding, Unique: cbBinding},
		{Text: btnUserChannels, Unique: cbUserChannels},
		{Text: btnCloseMenu, Unique: cbCloseMenu},
	})
}

// userChannelsMarkup renders one button per bound channel, payload carrying
// the channel's Telegram chat id, plus a back button.
func userChannelsMarkup(binds []domain.BindWithChannel) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(binds)+1)
	for _, bind := range binds {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   bind.Channel.Title,
			Unique: cbChannelMenu,
			Data:   strconv.FormatInt(bind.Channel.ChannelID, 10),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: btnBack, Unique: cbBackToMain})
	return keyboard.InlineButtons(buttons)
}

func channelMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnEditDescription, Unique: cbEditDescription},
		{Text: btnRemoveBinding, Unique: cbRemoveBinding},
		{Text: btnBack, Unique: cbBackToChannels},
	})
}
