package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

const internalError = "internal error"

// errors a player may see verbatim; anything else is reported as an internal error.
var publicErrors = []error{
	apperror.ErrGameNotFound,
	apperror.ErrNotYourTurn,
	apperror.ErrNotTradeParty,
	apperror.ErrInvalidAction,
	apperror.ErrInvalidPayload,
	apperror.ErrPlayerNotInGame,

	entity.ErrSquareNotFound,
	entity.ErrNotBuyable,
	entity.ErrNotProperty,
	entity.ErrNoPendingPurchase,
	entity.ErrAlreadyOwned,
	entity.ErrNotOwner,
	entity.ErrTurnLocked,
	entity.ErrTurnNotFinished,
	entity.ErrNegativeBalance,
	entity.ErrNoPlayers,
	entity.ErrPlayerNotFound,
	entity.ErrDuplicatePlayer,
	entity.ErrGameFull,
	entity.ErrInvalidPlayer,
	entity.ErrTradePending,
	entity.ErrNoTradePending,
	entity.ErrInvalidTrade,
	entity.ErrTradeStale,
	entity.ErrInvalidSnapshot,
}

func publicError(err error) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return err.Error()
		}
	}

	return internalError
}

func decodePayload(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: payload is required", apperror.ErrInvalidPayload)
	}

	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return nil
}

func (that *Server) handleJoin(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	var payload joinPayload
	if len(msg.Payload) > 0 {
		if err := decodePayload(msg, &payload); err != nil {
			return nil, err
		}
	}

	result, err := that.games.AddPlayer(ctx, c.gameID, c.playerID, payload.Name)
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined")

	return result, nil
}

func (that *Server) handleLeave(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	result, err := that.games.RemovePlayer(ctx, c.gameID, c.playerID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("player left")

	return result, nil
}

func (that *Server) handleRoll(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.Roll(ctx, c.gameID, c.playerID)
}

func (that *Server) handleEndTurn(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.EndTurn(ctx, c.gameID, c.playerID)
}

func (that *Server) handleBuy(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.BuyProperty(ctx, c.gameID, c.playerID)
}

func (that *Server) handlePass(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.PassProperty(ctx, c.gameID, c.playerID)
}

func (that *Server) handleBuild(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	propertyID, err := squareFrom(msg)
	if err != nil {
		return nil, err
	}

	return that.games.BuyHouse(ctx, c.gameID, c.playerID, propertyID)
}

func (that *Server) handleMortgage(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	squareID, err := squareFrom(msg)
	if err != nil {
		return nil, err
	}

	return that.games.Mortgage(ctx, c.gameID, c.playerID, squareID)
}

func (that *Server) handleProposeTrade(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	var trade tradePayload
	if err := decodePayload(msg, &trade); err != nil {
		return nil, err
	}

	return that.games.ProposeTrade(ctx, c.gameID, c.playerID, trade)
}

func (that *Server) handleAcceptTrade(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.AcceptTrade(ctx, c.gameID, c.playerID)
}

func (that *Server) handleDenyTrade(ctx context.Context, c *client, _ *Message) (*usecase.Result, error) {
	return that.games.DenyTrade(ctx, c.gameID, c.playerID)
}

func (that *Server) handleChat(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	var payload chatPayload
	if err := decodePayload(msg, &payload); err != nil {
		return nil, err
	}

	return that.games.SendMessage(ctx, c.gameID, c.playerID, payload.Title, payload.Text)
}

// handleSync stores a full snapshot pushed by a peer.
func (that *Server) handleSync(ctx context.Context, c *client, msg *Message) (*usecase.Result, error) {
	var payload syncPayload
	if err := decodePayload(msg, &payload); err != nil {
		return nil, err
	}

	if len(payload.Snapshot) == 0 {
		return nil, fmt.Errorf("%w: snapshot is required", apperror.ErrInvalidPayload)
	}

	result, err := that.games.ReplaceSnapshot(ctx, c.gameID, payload.Snapshot)
	if err != nil {
		return nil, err
	}

	c.logger.Info("snapshot replaced")

	return result, nil
}

func squareFrom(msg *Message) (int, error) {
	var payload squarePayload
	if err := decodePayload(msg, &payload); err != nil {
		return 0, err
	}

	if payload.PropertyID == nil {
		return 0, fmt.Errorf("%w: propertyId is required", apperror.ErrInvalidPayload)
	}

	return *payload.PropertyID, nil
}
