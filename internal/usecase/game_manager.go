package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/pkg"
)

const (
	systemUser     = "system"
	maxIDAttempts  = 5
	maxMessageSize = 500
)

var ErrGameIDExhausted = errors.New("could not find a free game id")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot, decks []byte) error
	GetByID(ctx context.Context, id string) ([]byte, error)
	GetDecksByID(ctx context.Context, id string) ([]byte, error)
	DeleteByID(ctx context.Context, id string) error
}

// Settings are the session defaults applied to every game the manager loads or creates.
type Settings struct {
	Theme       entity.Theme
	BoardSize   int
	Rules       entity.Rules
	MaxMessages int
}

// Validate builds a game from the settings once, so that a board size the theme
// can not lay out fails at startup instead of on the first CreateGame.
func (that Settings) Validate() error {
	opts := []entity.Option{entity.WithRules(that.Rules)}
	if that.BoardSize > 0 {
		opts = append(opts, entity.WithBoardSize(that.BoardSize))
	}

	if _, err := entity.NewGameState(that.Theme, opts...); err != nil {
		return fmt.Errorf("invalid game settings: %w", err)
	}

	return nil
}

// Result is the state of a game after an action together with what the action reported.
type Result struct {
	GameID        string                `json:"gameId"`
	Snapshot      json.RawMessage       `json:"snapshot"`
	Notifications []entity.Notification `json:"notifications,omitempty"`
}

type action func(game *entity.GameState, notify entity.Notifier) error

type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	settings Settings

	locks   *keyedMutex
	newID   func() (string, error)
	options []entity.Option
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, settings Settings) *GameManager {
	return &GameManager{
		logger:   logger,
		gameRepo: gameRepo,
		settings: settings,

		locks: newKeyedMutex(),
		newID: pkg.GenerateGameID,
	}
}

// CreateGame stores a fresh game under a new join code. An empty theme uses the configured one.
func (that *GameManager) CreateGame(ctx context.Context, themeName string) (*Result, error) {
	log := that.logger.With("method", "CreateGame")

	theme := that.settings.Theme
	if themeName != "" {
		parsed, err := entity.ParseTheme(themeName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}
		theme = parsed
	}

	game, err := that.newGameState(theme)
	if err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}

	gameID, err := that.freeGameID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := that.save(ctx, gameID, game, nil)
	if err != nil {
		return nil, err
	}

	log.Info("game created", "gameID", gameID, "theme", theme)

	return result, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*Result, error) {
	data, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &Result{GameID: gameID, Snapshot: data}, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, gameID string) error {
	log := that.logger.With("method", "DeleteGame", "gameID", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	log.Info("game deleted")

	return nil
}

// AddPlayer seats playerID in the game. Joining a game one already sits in is a no-op.
func (that *GameManager) AddPlayer(ctx context.Context, gameID, playerID, name string) (*Result, error) {
	return that.apply(ctx, "AddPlayer", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if _, err := game.Player(playerID); err == nil {
			return nil
		}

		if name == "" {
			name = playerID
		}

		player, err := game.AddPlayer(playerID, name)
		if err != nil {
			return err
		}

		notify(entity.Notification{Title: "Player Joined", Description: player.Name + " joined the game"})

		return nil
	})
}

func (that *GameManager) RemovePlayer(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "RemovePlayer", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		player, err := game.Player(playerID)
		if err != nil {
			return apperror.ErrPlayerNotInGame
		}

		if err = game.RemovePlayer(playerID); err != nil {
			return err
		}

		notify(entity.Notification{Title: "Player Left", Description: player.Name + " left the game"})

		return nil
	})
}

func (that *GameManager) Roll(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "Roll", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		return game.MovePlayer(notify)
	})
}

func (that *GameManager) EndTurn(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "EndTurn", gameID, func(game *entity.GameState, _ entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		return game.EndTurn()
	})
}

func (that *GameManager) BuyProperty(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "BuyProperty", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		_, err := game.BuyProperty(notify)
		return err
	})
}

func (that *GameManager) PassProperty(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "PassProperty", gameID, func(game *entity.GameState, _ entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		return game.PassProperty()
	})
}

func (that *GameManager) BuyHouse(ctx context.Context, gameID, playerID string, propertyID int) (*Result, error) {
	return that.apply(ctx, "BuyHouse", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		_, err := game.BuyHouse(propertyID, notify)
		return err
	})
}

func (that *GameManager) Mortgage(ctx context.Context, gameID, playerID string, squareID int) (*Result, error) {
	return that.apply(ctx, "Mortgage", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if err := requireTurn(game, playerID); err != nil {
			return err
		}

		_, err := game.Mortgage(squareID, notify)
		return err
	})
}

// ProposeTrade puts a trade from playerID into the pending slot. The proposer is always the caller.
func (that *GameManager) ProposeTrade(ctx context.Context, gameID, playerID string, trade entity.Trade) (*Result, error) {
	return that.apply(ctx, "ProposeTrade", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		if _, err := game.Player(playerID); err != nil {
			return apperror.ErrPlayerNotInGame
		}

		trade.Proposer = playerID

		return game.ProposeTrade(trade, notify)
	})
}

// AcceptTrade executes the pending trade. Only its counterparty may accept it.
func (that *GameManager) AcceptTrade(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "AcceptTrade", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		trade, ok := game.ProposedTrade()
		if !ok {
			return entity.ErrNoTradePending
		}

		if trade.SelectedPlayer != playerID {
			return apperror.ErrNotTradeParty
		}

		_, err := game.ExecuteTrade(notify)
		return err
	})
}

// DenyTrade discards the pending trade. Either party may deny it.
func (that *GameManager) DenyTrade(ctx context.Context, gameID, playerID string) (*Result, error) {
	return that.apply(ctx, "DenyTrade", gameID, func(game *entity.GameState, notify entity.Notifier) error {
		trade, ok := game.ProposedTrade()
		if !ok {
			return entity.ErrNoTradePending
		}

		if trade.Proposer != playerID && trade.SelectedPlayer != playerID {
			return apperror.ErrNotTradeParty
		}

		return game.DenyTrade(notify)
	})
}

// SendMessage appends a chat line from playerID to the game log.
func (that *GameManager) SendMessage(ctx context.Context, gameID, playerID, title, text string) (*Result, error) {
	return that.apply(ctx, "SendMessage", gameID, func(game *entity.GameState, _ entity.Notifier) error {
		player, err := game.Player(playerID)
		if err != nil {
			return apperror.ErrPlayerNotInGame
		}

		if text == "" || len(text) > maxMessageSize {
			return fmt.Errorf("%w: message must be 1..%d bytes", apperror.ErrInvalidPayload, maxMessageSize)
		}

		game.AddMessage(entity.Message{
			User:        player.Name,
			Type:        entity.MessagePlayer,
			Title:       title,
			Description: text,
		})

		return nil
	})
}

// ReplaceSnapshot overwrites a stored game with a snapshot pushed by a peer. The last write wins.
func (that *GameManager) ReplaceSnapshot(ctx context.Context, gameID string, snapshot []byte) (*Result, error) {
	return that.apply(ctx, "ReplaceSnapshot", gameID, func(game *entity.GameState, _ entity.Notifier) error {
		if err := game.ImportFromJSON(snapshot); err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
		}

		return nil
	})
}

// apply runs fn against the stored game while holding the game's lock and saves the outcome.
// Nothing is written when fn fails.
func (that *GameManager) apply(ctx context.Context, method, gameID string, fn action) (*Result, error) {
	log := that.logger.With("method", method, "gameID", gameID)

	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var notifications []entity.Notification
	notify := func(n entity.Notification) {
		notifications = append(notifications, n)
	}

	if err = fn(game, notify); err != nil {
		log.Debug("action rejected", "error", err)
		return nil, err
	}

	result, err := that.save(ctx, gameID, game, notifications)
	if err != nil {
		log.Error("failed to save game", "error", err)
		return nil, err
	}

	return result, nil
}

func (that *GameManager) load(ctx context.Context, gameID string) (*entity.GameState, error) {
	data, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err := that.newGameState(that.settings.Theme)
	if err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}

	if err = game.ImportFromJSON(data); err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	if err = that.loadDecks(ctx, gameID, game); err != nil {
		return nil, err
	}

	return game, nil
}

// loadDecks continues the stored card decks. A game without usable decks keeps the fresh shuffle.
func (that *GameManager) loadDecks(ctx context.Context, gameID string, game *entity.GameState) error {
	data, err := that.gameRepo.GetDecksByID(ctx, gameID)
	if errors.Is(err, apperror.ErrDecksNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get card decks: %w", err)
	}

	if err = game.ImportDecksFromJSON(data); err != nil {
		that.logger.Warn("stored card decks discarded", "gameID", gameID, "error", err)
	}

	return nil
}

func (that *GameManager) save(ctx context.Context, gameID string, game *entity.GameState, notifications []entity.Notification) (*Result, error) {
	for _, n := range notifications {
		game.AddMessage(entity.Message{
			User:        systemUser,
			Type:        entity.MessageSystem,
			Title:       n.Title,
			Description: n.Description,
		})
	}
	game.TrimMessages(that.settings.MaxMessages)

	data, err := game.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode game: %w", err)
	}

	decks, err := game.DecksToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode card decks: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, gameID, data, decks); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return &Result{
		GameID:        gameID,
		Snapshot:      data,
		Notifications: notifications,
	}, nil
}

func (that *GameManager) newGameState(theme entity.Theme) (*entity.GameState, error) {
	opts := []entity.Option{entity.WithRules(that.settings.Rules)}
	if that.settings.BoardSize > 0 {
		opts = append(opts, entity.WithBoardSize(that.settings.BoardSize))
	}
	opts = append(opts, that.options...)

	return entity.NewGameState(theme, opts...)
}

func (that *GameManager) freeGameID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		gameID, err := that.newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate game id: %w", err)
		}

		_, err = that.gameRepo.GetByID(ctx, gameID)
		if errors.Is(err, apperror.ErrGameNotFound) {
			return gameID, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check game id: %w", err)
		}
	}

	return "", ErrGameIDExhausted
}

func requireTurn(game *entity.GameState, playerID string) error {
	current, err := game.CurrentPlayer()
	if err != nil {
		return err
	}

	if current.ID != playerID {
		return apperror.ErrNotYourTurn
	}

	return nil
}
