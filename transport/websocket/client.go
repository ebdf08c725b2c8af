package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 32
)

// client is one websocket connection bound to a player of a game.
type client struct {
	id       string
	gameID   string
	playerID string

	logger *slog.Logger
	conn   *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn, id, gameID, playerID string) *client {
	return &client{
		id:       id,
		gameID:   gameID,
		playerID: playerID,

		logger: logger.With("connectionID", id, "gameID", gameID, "playerID", playerID),
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// enqueue queues a frame for the writer. A client that can not keep up is dropped.
func (that *client) enqueue(action string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(Message{Action: action, Payload: data})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}

	select {
	case that.send <- frame:
	default:
		that.logger.Warn("send buffer full, dropping connection")
		that.closed = true
		close(that.send)
	}

	return nil
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.closed {
		that.closed = true
		close(that.send)
	}
}

// writePump owns all writes to the connection.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				that.logger.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump hands every text frame to handle until the connection fails.
func (that *client) readPump(handle func(data []byte)) {
	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				that.logger.Error("error reading message", "error", err)
			}
			return
		}

		handle(data)
	}
}
