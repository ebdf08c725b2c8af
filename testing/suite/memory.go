package suite

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

// MemoryRepository keeps snapshots and card decks in process for transport tests.
type MemoryRepository struct {
	mu    sync.Mutex
	games map[string][]byte
	decks map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		games: make(map[string][]byte),
		decks: make(map[string][]byte),
	}
}

func (that *MemoryRepository) CreateOrUpdate(_ context.Context, id string, snapshot, decks []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[id] = slices.Clone(snapshot)
	that.decks[id] = slices.Clone(decks)

	return nil
}

func (that *MemoryRepository) GetDecksByID(_ context.Context, id string) ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	decks, ok := that.decks[id]
	if !ok {
		return nil, apperror.ErrDecksNotFound
	}

	return slices.Clone(decks), nil
}

func (that *MemoryRepository) GetByID(_ context.Context, id string) ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return slices.Clone(snapshot), nil
}

func (that *MemoryRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, id)
	delete(that.decks, id)

	return nil
}

// NewGameManager wires a GameManager with default rules over repo and a silent logger.
func NewGameManager(repo *MemoryRepository) *usecase.GameManager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return usecase.NewGameManager(logger, repo, usecase.Settings{
		Theme:       entity.ThemeUK,
		BoardSize:   entity.DefaultBoardSize,
		Rules:       entity.DefaultRules(),
		MaxMessages: 100,
	})
}
