package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bindcast/core/bootstrap"
	corecmd "bindcast/core/cmd"
	coretelegram "bindcast/core/telegram"
	"bindcast/core/telegram/router"
	"bindcast/internal/bot"
	"bindcast/internal/bot/session"
	"bindcast/internal/repository"
	"bindcast/internal/service"
)

// App carries the wired service graph and implements the runner's
// TelegramApp contract.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	handlers *bot.Handlers
}

// Bootstrap initializes infrastructure and wires repositories, services, and
// handlers.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	result, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(result.DB)
	channels := repository.NewChannelRepository(result.DB)
	binds := repository.NewBindRepository(result.DB)

	handlers := bot.NewHandlers(
		session.NewManager(),
		service.NewUserService(users),
		service.NewChannelService(channels),
		service.NewBindingService(binds),
		service.NewForwarder(users, binds),
		service.NewStatsService(users, channels, binds),
	)

	return &App{cfg: cfg, db: result.DB, handlers: handlers}, nil
}

// TelegramRunOptions assembles routes and middlewares for the bot runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	sessions := a.handlers.Sessions()
	fallbacks := bot.Fallbacks()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: fallbacks.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(sessions, reg, router.TextOptions{
		UnknownText:     fallbacks.UnknownText(),
		UnknownDocument: fallbacks.UnknownDocument(),
	})...)
	routes = append(routes, a.handlers.MediaRoutes()...)
	routes = append(routes, a.handlers.FallthroughRoutes()...)
	routes = append(routes, a.handlers.MembershipRoute())

	opts := coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
	}
	opts.OnStop = func(_ context.Context, _ coretelegram.Runtime) error {
		return a.db.Close()
	}
	return opts, nil
}
