package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

const (
	actionSession = "session"
	actionState   = "game:state"
	actionError   = "error"

	actionJoin     = "game:join"
	actionLeave    = "game:leave"
	actionRoll     = "game:roll"
	actionEndTurn  = "game:end-turn"
	actionBuy      = "game:buy"
	actionPass     = "game:pass"
	actionBuild    = "game:build"
	actionMortgage = "game:mortgage"
	actionSync     = "game:sync"
	actionPropose  = "trade:propose"
	actionAccept   = "trade:accept"
	actionDeny     = "trade:deny"
	actionChatSend = "chat:send"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	Name string `json:"name"`
}

type squarePayload struct {
	PropertyID *int `json:"propertyId"`
}

type chatPayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type syncPayload struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

type tradePayload = entity.Trade

type sessionPayload struct {
	GameID       string `json:"gameId"`
	PlayerID     string `json:"playerId"`
	ConnectionID string `json:"connectionId"`
}

type errorPayload struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}
