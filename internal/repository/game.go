package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

const (
	gameKeyPrefix  = "game:"
	decksKeySuffix = ":decks"
)

// GameRepository stores serialized game snapshots by game id.
// The card decks of a game live under their own key so that reading a snapshot never reveals them.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot, decks []byte) error
	GetByID(ctx context.Context, id string) ([]byte, error)
	GetDecksByID(ctx context.Context, id string) ([]byte, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository keeps games for ttl after their last write. A zero ttl keeps them forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func decksKey(id string) string {
	return gameKeyPrefix + id + decksKeySuffix
}

// CreateOrUpdate writes the snapshot and the decks in one transaction.
func (that *dbGame) CreateOrUpdate(ctx context.Context, id string, snapshot, decks []byte) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(id), snapshot, that.ttl)
		pipe.Set(ctx, decksKey(id), decks, that.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) ([]byte, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return response, nil
}

func (that *dbGame) GetDecksByID(ctx context.Context, id string) ([]byte, error) {
	response, err := that.client.Get(ctx, decksKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrDecksNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get decks by id: %w", err)
	}

	return response, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id), decksKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}
