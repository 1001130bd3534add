// Package bot implements the Telegram surface of bindcast: the menu state
// machine, the binding flow, and attachment fan-out routing.
package bot

import (
	tele "gopkg.in/telebot.v4"

	tg "bindcast/core/telegram"
	"bindcast/core/telegram/commands"
	"bindcast/core/telegram/middleware"
	"bindcast/core/telegram/ui"
	"bindcast/internal/bot/session"
)

// Fallbacks returns the handlers used for unmapped updates.
func Fallbacks() ui.FallbackProvider {
	return fallbacks{}
}

// Register wires commands, callbacks, and FSM state handlers into the
// registry and session manager.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Начать работу с ботом",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     h.MainMenu,
		Description: "Открыть меню",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats,
		Description: "Статистика бота",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbBinding, h.CallBinding)
	_ = reg.RegisterCallback(cbUserChannels, h.UserChannels)
	_ = reg.RegisterCallback(cbCloseMenu, h.CloseMenu)
	_ = reg.RegisterCallback(cbChannelMenu, h.ChannelMenu)
	_ = reg.RegisterCallback(cbBackToMain, h.MainMenu)
	_ = reg.RegisterCallback(cbEditDescription, h.EditDescription)
	_ = reg.RegisterCallback(cbRemoveBinding, h.RemoveBinding)
	_ = reg.RegisterCallback(cbBackToChannels, h.UserChannels)

	reg.SetCallbackNotFound(Fallbacks().UnknownCallback())
	reg.SetTextFallback(Fallbacks().UnknownText())

	h.sessions.RegisterHandler(session.StateBinding, h.BindChannel)
	h.sessions.RegisterHandler(session.StateTypingDescription, h.InputDescription)
}

// Sessions exposes the session manager for text-route FSM dispatch.
func (h *Handlers) Sessions() *session.Manager {
	return h.sessions
}

// MediaRoutes binds the attachment endpoints the dispatcher consumes.
func (h *Handlers) MediaRoutes() []tg.Route {
	handler := middleware.RecoverMiddleware(middleware.LoggerMiddleware(h.HandleMedia))
	return []tg.Route{
		{Endpoint: tele.OnAnimation, Handler: handler},
		{Endpoint: tele.OnPhoto, Handler: handler},
		{Endpoint: tele.OnVideo, Handler: handler},
	}
}

// FallthroughRoutes consumes message kinds that have no flow of their own:
// voice, audio, sticker and the other non-rebroadcast types. The binding and
// description states accept any message, so while a conversation is in
// progress the update still has to reach the state handler; otherwise it is
// dropped.
func (h *Handlers) FallthroughRoutes() []tg.Route {
	handler := middleware.RecoverMiddleware(middleware.LoggerMiddleware(func(c tele.Context) error {
		if h.sessions.InProgress(c.Sender().ID) {
			return h.sessions.ManagerHandler(c)
		}
		return nil
	}))
	endpoints := []any{
		tele.OnMedia,
		tele.OnLocation,
		tele.OnVenue,
		tele.OnContact,
		tele.OnDice,
		tele.OnGame,
		tele.OnPoll,
	}
	routes := make([]tg.Route, 0, len(endpoints))
	for _, endpoint := range endpoints {
		routes = append(routes, tg.Route{Endpoint: endpoint, Handler: handler})
	}
	return routes
}

// MembershipRoute binds the my_chat_member endpoint used for channel
// auto-registration.
func (h *Handlers) MembershipRoute() tg.Route {
	return tg.Route{
		Endpoint: tele.OnMyChatMember,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(h.RegisterChannel)),
	}
}
