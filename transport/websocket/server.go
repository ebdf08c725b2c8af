package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/pkg"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

type gameService interface {
	GetGame(ctx context.Context, gameID string) (*usecase.Result, error)

	AddPlayer(ctx context.Context, gameID, playerID, name string) (*usecase.Result, error)
	RemovePlayer(ctx context.Context, gameID, playerID string) (*usecase.Result, error)

	Roll(ctx context.Context, gameID, playerID string) (*usecase.Result, error)
	EndTurn(ctx context.Context, gameID, playerID string) (*usecase.Result, error)
	BuyProperty(ctx context.Context, gameID, playerID string) (*usecase.Result, error)
	PassProperty(ctx context.Context, gameID, playerID string) (*usecase.Result, error)
	BuyHouse(ctx context.Context, gameID, playerID string, propertyID int) (*usecase.Result, error)
	Mortgage(ctx context.Context, gameID, playerID string, squareID int) (*usecase.Result, error)

	ProposeTrade(ctx context.Context, gameID, playerID string, trade entity.Trade) (*usecase.Result, error)
	AcceptTrade(ctx context.Context, gameID, playerID string) (*usecase.Result, error)
	DenyTrade(ctx context.Context, gameID, playerID string) (*usecase.Result, error)

	SendMessage(ctx context.Context, gameID, playerID, title, text string) (*usecase.Result, error)
	ReplaceSnapshot(ctx context.Context, gameID string, snapshot []byte) (*usecase.Result, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) (*usecase.Result, error)

type Server struct {
	logger *slog.Logger
	games  gameService

	upgrader websocket.Upgrader
	rooms    *rooms
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, games gameService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms:    newRooms(),
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionLeave] = server.handleLeave
	server.handlers[actionRoll] = server.handleRoll
	server.handlers[actionEndTurn] = server.handleEndTurn
	server.handlers[actionBuy] = server.handleBuy
	server.handlers[actionPass] = server.handlePass
	server.handlers[actionBuild] = server.handleBuild
	server.handlers[actionMortgage] = server.handleMortgage
	server.handlers[actionPropose] = server.handleProposeTrade
	server.handlers[actionAccept] = server.handleAcceptTrade
	server.handlers[actionDeny] = server.handleDenyTrade
	server.handlers[actionChatSend] = server.handleChat
	server.handlers[actionSync] = server.handleSync

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection and binds it to a game room.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	gameID := req.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(writer, "gameId is required", http.StatusBadRequest)
		return
	}

	state, err := that.games.GetGame(req.Context(), gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		http.Error(writer, "game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get game", "gameID", gameID, "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connectionID := pkg.GenerateConnectionID()

	playerID := req.URL.Query().Get("playerId")
	if playerID == "" {
		playerID = connectionID
	}

	c := newClient(that.logger, conn, connectionID, gameID, playerID)
	that.rooms.join(c)

	go c.writePump()

	_ = c.enqueue(actionSession, sessionPayload{GameID: gameID, PlayerID: playerID, ConnectionID: connectionID})
	_ = c.enqueue(actionState, state)

	c.logger.Info("WebSocket connection established")

	c.readPump(func(data []byte) {
		that.dispatch(req.Context(), c, data)
	})

	that.rooms.leave(c)
	c.close()

	c.logger.Info("WebSocket connection closed")
}

// dispatch runs one client message. Success is broadcast to the room, failure goes back to the sender.
func (that *Server) dispatch(ctx context.Context, c *client, data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		that.sendError(c, "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.sendError(c, message.Action, apperror.ErrInvalidAction)
		return
	}

	result, err := handler(ctx, c, &message)
	if err != nil {
		that.sendError(c, message.Action, err)
		return
	}

	that.broadcast(c.gameID, result)
}

// Publish sends a game changed outside the socket, such as a REST snapshot push, to its room.
func (that *Server) Publish(gameID string, result *usecase.Result) {
	that.broadcast(gameID, result)
}

func (that *Server) broadcast(gameID string, result *usecase.Result) {
	for _, member := range that.rooms.members(gameID) {
		if err := member.enqueue(actionState, result); err != nil {
			member.logger.Error("failed to send game update", "error", err)
		}
	}
}

func (that *Server) sendError(c *client, action string, err error) {
	c.logger.Debug("action failed", "action", action, "error", err)

	if sendErr := c.enqueue(actionError, errorPayload{Action: action, Error: publicError(err)}); sendErr != nil {
		c.logger.Error("failed to send error response", "error", sendErr)
	}
}
