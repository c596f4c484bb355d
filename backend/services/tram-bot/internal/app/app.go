package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	libredis "metrotram/backend/libs/redis"
	"metrotram/backend/services/tram-bot/internal/bot"
	"metrotram/backend/services/tram-bot/internal/clients"
	"metrotram/backend/services/tram-bot/internal/config"
	httpserver "metrotram/backend/services/tram-bot/internal/http"
	"metrotram/backend/services/tram-bot/internal/http/handlers"
	"metrotram/backend/services/tram-bot/internal/scraper"
	"metrotram/backend/services/tram-bot/internal/service"
	"metrotram/backend/services/tram-bot/internal/session"
	"metrotram/backend/services/tram-bot/internal/ws"
)

// App wires all dependencies for the tram bot.
type App struct {
	runner     *bot.Runner
	httpServer *httpserver.Server
	manager    *ws.Manager
	redis      *goredis.Client
	logger     *zap.Logger
}

// New builds the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	base := clients.NewBaseClient(clients.NewDefaultHTTPClient(cfg.BoardTimeout()), cfg.Board.UserAgent)
	boardClient := clients.NewBoardClient(cfg.Board.URL, base, logger.Named("board_client"))
	boardService := service.NewBoardService(boardClient, scraper.NewScriptExtractor(), logger.Named("board_service"))

	a := &App{logger: logger}

	if cfg.Telegram.Enabled {
		sessions, err := a.sessionStore(cfg)
		if err != nil {
			return nil, err
		}

		if err := tgbotapi.SetLogger(zap.NewStdLog(logger.Named("telegram"))); err != nil {
			a.Close()
			return nil, fmt.Errorf("app: telegram logger: %w", err)
		}
		pollTimeout := time.Duration(cfg.Telegram.PollTimeoutSeconds) * time.Second
		api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, tgbotapi.APIEndpoint, &http.Client{Timeout: pollTimeout + 15*time.Second})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("app: telegram login: %w", err)
		}
		api.Debug = cfg.Telegram.Debug
		logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

		handler := bot.NewHandler(boardService, sessions, api, logger.Named("bot"))
		a.runner = bot.NewRunner(api, handler, cfg.Telegram.PollTimeoutSeconds, logger.Named("bot"))
	}

	if cfg.HTTP.Enabled {
		a.manager = ws.NewManager(cfg.RefreshInterval())
		wsServer := ws.NewServer(a.manager, boardService, cfg.WriteTimeout(), cfg.PingInterval(), logger.Named("ws"))

		router := httpserver.NewRouter(httpserver.RouterDeps{
			BoardHandlers: handlers.NewBoardHandlers(boardService, logger.Named("http")),
			HealthHandler: handlers.NewHealthHandler(),
			PanelsStream:  wsServer,
		}, logger.Named("http"))
		a.httpServer = httpserver.NewServer(cfg.HTTPAddress(), router, logger)
	}

	return a, nil
}

// sessionStore picks redis when an address is configured, memory otherwise.
func (a *App) sessionStore(cfg *config.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		a.logger.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	}
	client, err := libredis.NewRedisClient(context.Background(), libredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("app: connect redis: %w", err)
	}
	a.redis = client
	a.logger.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	return session.NewRedisStore(client, cfg.SessionTTL()), nil
}

// Run starts the bot loop, the live board manager and the HTTP API; the
// first one to fail stops the others.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.runner != nil {
		g.Go(func() error { return a.runner.Run(gctx) })
	}
	if a.httpServer != nil {
		g.Go(func() error { return a.manager.Start(gctx) })
		g.Go(func() error { return a.httpServer.Run(gctx) })
	}

	return g.Wait()
}

// Close releases resources.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
