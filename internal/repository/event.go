package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// EventRepository mirrors a game's event log into a redis sorted set scored by event id.
// Ids may have gaps when an event never reached storage.
type EventRepository interface {
	Append(ctx context.Context, gameID string, event entity.Event, ttl time.Duration) error
	GetSince(ctx context.Context, gameID string, since int) ([]entity.Event, error)
}

type dbEvent struct {
	client *redis.Client
}

func NewEventRepository(client *redis.Client) EventRepository {
	return &dbEvent{
		client: client,
	}
}

func eventsKey(gameID string) string {
	return gameKey(gameID) + ":events"
}

// Append adds the event and refreshes the set TTL in one transaction.
func (that *dbEvent) Append(ctx context.Context, gameID string, event entity.Event, ttl time.Duration) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	key := eventsKey(gameID)

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(event.ID), Member: string(eventJSON)})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

func (that *dbEvent) GetSince(ctx context.Context, gameID string, since int) ([]entity.Event, error) {
	if since < 0 {
		return nil, fmt.Errorf("%w: %d", apperror.ErrIllegalEventID, since)
	}

	key := eventsKey(gameID)

	exists, err := that.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check events: %w", err)
	}

	if exists == 0 {
		return nil, apperror.ErrGameNotFound
	}

	response, err := that.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.Itoa(since),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	events := make([]entity.Event, 0, len(response))
	for _, raw := range response {
		var event entity.Event
		if err = json.Unmarshal([]byte(raw), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}

		events = append(events, event)
	}

	return events, nil
}
