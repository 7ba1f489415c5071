package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

const drainTimeout = 5 * time.Second

// FeedService mirrors game events into storage off the game worker. Publish never
// blocks; events that do not fit in the buffer are dropped with a warning.
type FeedService interface {
	Publish(gameID string, event entity.Event)
	Since(ctx context.Context, gameID string, since int) ([]entity.Event, error)
	Run(ctx context.Context) error
}

type eventRepo interface {
	Append(ctx context.Context, gameID string, event entity.Event, ttl time.Duration) error
	GetSince(ctx context.Context, gameID string, since int) ([]entity.Event, error)
}

type published struct {
	gameID string
	event  entity.Event
}

type feedService struct {
	logger    *slog.Logger
	eventRepo eventRepo
	ttl       time.Duration
	queue     chan published
}

func NewFeedService(logger *slog.Logger, eventRepo eventRepo, buffer int, ttl time.Duration) FeedService {
	return &feedService{
		logger:    logger.With("component", "feed"),
		eventRepo: eventRepo,
		ttl:       ttl,
		queue:     make(chan published, buffer),
	}
}

func (that *feedService) Publish(gameID string, event entity.Event) {
	select {
	case that.queue <- published{gameID: gameID, event: event}:
	default:
		that.logger.Warn("feed buffer is full, event dropped", "game_id", gameID, "event_id", event.ID)
	}
}

func (that *feedService) Since(ctx context.Context, gameID string, since int) ([]entity.Event, error) {
	events, err := that.eventRepo.GetSince(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get events from storage: %w", err)
	}

	return events, nil
}

// Run writes published events until ctx is done, then flushes what is still queued.
func (that *feedService) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("feed started")

	for {
		select {
		case item := <-that.queue:
			that.store(ctx, item)
		case <-ctx.Done():
			that.drain(context.WithoutCancel(ctx))
			log.Info("feed stopped")

			return nil
		}
	}
}

func (that *feedService) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for {
		select {
		case item := <-that.queue:
			that.store(ctx, item)
		default:
			return
		}
	}
}

func (that *feedService) store(ctx context.Context, item published) {
	if err := that.eventRepo.Append(ctx, item.gameID, item.event, that.ttl); err != nil {
		that.logger.Error("failed to store event", "game_id", item.gameID, "event_id", item.event.ID, "error", err)
	}
}
