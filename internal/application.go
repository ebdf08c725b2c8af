package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/config"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository/storage"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
	"github.com/rocketscienceinc/monopoly-backend/transport/rest"
	"github.com/rocketscienceinc/monopoly-backend/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	theme, err := entity.ParseTheme(conf.Game.Theme)
	if err != nil {
		return fmt.Errorf("invalid game theme: %w", err)
	}

	settings := usecase.Settings{
		Theme:       theme,
		BoardSize:   conf.Game.BoardSize,
		Rules:       conf.Game.Rules(),
		MaxMessages: conf.Game.MaxMessages,
	}
	if err = settings.Validate(); err != nil {
		return err
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Game.SnapshotTTL)
	gameManager := usecase.NewGameManager(logger, gameRepo, settings)

	wsServer := websocket.New(logger, gameManager)

	// run HTTP server
	restServer := rest.New(logger, gameManager, wsServer)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if shutdownErr := restServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("could not shutdown HTTP server", "error", shutdownErr)
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
