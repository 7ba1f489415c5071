package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// GameRepository keeps a snapshot of the live game so its final state stays readable
// for a while after the registry has forgotten it.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameDetails) error
	GetByID(ctx context.Context, id string) (*entity.GameDetails, error)
	DeleteByID(ctx context.Context, id string) error
	Expire(ctx context.Context, id string, ttl time.Duration) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.GameDetails) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKey(game.ID), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.GameDetails, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.GameDetails{}, apperror.ErrGameNotFound
	}

	if err != nil {
		return &entity.GameDetails{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	var game entity.GameDetails
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return &entity.GameDetails{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, gameKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}

func (that *dbGame) Expire(ctx context.Context, id string, ttl time.Duration) error {
	if err := that.client.Expire(ctx, gameKey(id), ttl).Err(); err != nil {
		return fmt.Errorf("failed to expire game: %w", err)
	}

	return nil
}
