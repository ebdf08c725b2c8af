package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

const maxBodySize = "1M"

type gameService interface {
	CreateGame(ctx context.Context, theme string) (*usecase.Result, error)
	GetGame(ctx context.Context, gameID string) (*usecase.Result, error)
	GetBoard(ctx context.Context, gameID string) (*usecase.BoardView, error)
	ReplaceSnapshot(ctx context.Context, gameID string, snapshot []byte) (*usecase.Result, error)
	DeleteGame(ctx context.Context, gameID string) error
}

// publisher pushes a changed game to the players connected to it.
type publisher interface {
	Publish(gameID string, result *usecase.Result)
}

type Server struct {
	logger    *slog.Logger
	games     gameService
	publisher publisher

	echo *echo.Echo
}

func New(logger *slog.Logger, games gameService, publisher publisher) *Server {
	server := &Server{
		logger:    logger.With("component", "rest"),
		games:     games,
		publisher: publisher,
		echo:      echo.New(),
	}

	server.echo.HideBanner = true
	server.echo.HidePort = true
	server.echo.Server.ReadTimeout = 10 * time.Second
	server.echo.Server.WriteTimeout = 10 * time.Second
	server.echo.Server.IdleTimeout = 30 * time.Second

	server.echo.Use(middleware.Recover())
	server.echo.Use(middleware.BodyLimit(maxBodySize))
	server.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			server.logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
			return nil
		},
	}))

	server.echo.GET("/ping", server.ping)

	gamesGroup := server.echo.Group("/games")
	gamesGroup.POST("", server.createGame)
	gamesGroup.GET("/:id", server.getGame)
	gamesGroup.GET("/:id/board", server.getBoard)
	gamesGroup.PUT("/:id", server.replaceGame)
	gamesGroup.DELETE("/:id", server.deleteGame)

	return server
}

func (that *Server) Handler() http.Handler {
	return that.echo
}

// Start serves until Shutdown is called.
func (that *Server) Start(port string) error {
	if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	return that.echo.Shutdown(ctx)
}
