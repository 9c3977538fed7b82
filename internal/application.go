package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-history/transport/rest"
	"github.com/rocketscienceinc/tictactoe-history/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// NewLogger - JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionRepo, closeRepo, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeRepo(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	gameUseCase := usecase.NewGameManager(logger, sessionRepo)

	restServer := rest.New(logger, gameUseCase)
	wsServer := websocket.New(logger, gameUseCase)

	err = runServers(ctx, log,
		server{name: "HTTP", port: conf.HTTPPort, start: restServer.Start},
		server{name: "WebSocket", port: conf.SocketPort, start: wsServer.Start},
	)
	if err != nil {
		return err
	}

	log.Info("All servers stopped")

	return nil
}

type server struct {
	name  string
	port  string
	start func(ctx context.Context, port string) error
}

// runServers - runs every server until ctx is done or one of them fails,
// then waits for all of them to finish shutting down.
func runServers(ctx context.Context, log *slog.Logger, servers ...server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(servers))

	for _, srv := range servers {
		srv := srv

		go func() {
			log.Info("Starting server", "server", srv.name, "port", srv.port)

			if err := srv.start(ctx, srv.port); err != nil {
				errCh <- fmt.Errorf("%s server error: %w", srv.name, err)
				return
			}

			errCh <- nil
		}()
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down servers")
	}()

	var firstErr error

	for range servers {
		if err := <-errCh; err != nil {
			log.Error("server stopped with error", "error", err)

			if firstErr == nil {
				firstErr = err
				cancel()
			}
		}
	}

	return firstErr
}

// newSessionRepository - picks the session storage named in the config.
func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemorySessionRepository(conf.SessionTTL), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSessionRepository(redisStorage, conf.SessionTTL), redisStorage.Close, nil
}
