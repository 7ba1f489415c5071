package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/monopoly"
)

const storageTimeout = 5 * time.Second

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameDetails) error
	GetByID(ctx context.Context, id string) (*entity.GameDetails, error)
	Expire(ctx context.Context, id string, ttl time.Duration) error
}

type eventFeed interface {
	Publish(gameID string, event entity.Event)
	Since(ctx context.Context, gameID string, since int) ([]entity.Event, error)
}

// GameManager is the registry of the single live game. It owns the game from
// creation until the worker reports the end, then keeps only its mirrored
// snapshot and events in storage.
type GameManager struct {
	logger   *slog.Logger
	board    *board.Definition
	rules    monopoly.Rules
	ttl      time.Duration
	options  []monopoly.Option
	gameRepo gameRepo
	feed     eventFeed

	mu     sync.Mutex
	game   *monopoly.Game
	cancel context.CancelFunc
	done   chan struct{}

	snapshotMu sync.Mutex
	sealed     string
}

func NewGameManager(
	logger *slog.Logger,
	def *board.Definition,
	rules monopoly.Rules,
	ttl time.Duration,
	gameRepo gameRepo,
	feed eventFeed,
	options ...monopoly.Option,
) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		board:    def,
		rules:    rules,
		ttl:      ttl,
		options:  options,
		gameRepo: gameRepo,
		feed:     feed,
	}
}

// StartGame creates the live game. Only one game may exist at a time.
func (that *GameManager) StartGame(ctx context.Context, name string, humans, computers int, autoDice bool) (entity.GameDetails, error) {
	log := that.logger.With("method", "StartGame")

	game, err := that.register(name, humans, computers, autoDice)
	if err != nil {
		return entity.GameDetails{}, err
	}

	details := game.Details()
	that.saveSnapshot(ctx, details)

	log.Info("game created", "game_id", details.ID, "name", name, "humans", humans, "computers", computers)

	return details, nil
}

func (that *GameManager) register(name string, humans, computers int, autoDice bool) (*monopoly.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game != nil {
		return nil, fmt.Errorf("%w: %s is still running", apperror.ErrGameAlreadyExists, that.game.Name())
	}

	gameID := uuid.NewString()
	settings := monopoly.Settings{
		ID:        gameID,
		Name:      name,
		Humans:    humans,
		Computers: computers,
		AutoDice:  autoDice,
	}

	options := append([]monopoly.Option{
		monopoly.WithRules(that.rules),
		monopoly.WithEventHook(func(event entity.Event) {
			that.feed.Publish(gameID, event)
			that.trace(gameID, event)
		}),
	}, that.options...)

	game, err := monopoly.NewGame(that.logger, that.board, settings, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.game = game

	return game, nil
}

func (that *GameManager) GameDetails(name string) (entity.GameDetails, error) {
	game, err := that.gameNamed(name)
	if err != nil {
		return entity.GameDetails{}, err
	}

	return game.Details(), nil
}

func (that *GameManager) WaitingGames() []string {
	return that.gamesWhere((*entity.GameDetails).IsWaiting)
}

func (that *GameManager) ActiveGames() []string {
	return that.gamesWhere((*entity.GameDetails).IsActive)
}

func (that *GameManager) gamesWhere(match func(*entity.GameDetails) bool) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	names := []string{}
	if that.game == nil {
		return names
	}

	if details := that.game.Details(); match(&details) {
		names = append(names, details.Name)
	}

	return names
}

// JoinGame adds a human to the waiting game and starts it once the roster is full.
func (that *GameManager) JoinGame(ctx context.Context, gameName, playerName string) (int, error) {
	playerID, details, err := that.join(ctx, gameName, playerName)
	if err != nil {
		return 0, err
	}

	that.saveSnapshot(ctx, details)

	return playerID, nil
}

func (that *GameManager) join(ctx context.Context, gameName, playerName string) (int, entity.GameDetails, error) {
	log := that.logger.With("method", "JoinGame")

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameNamedLocked(gameName)
	if err != nil {
		return 0, entity.GameDetails{}, err
	}

	playerID, err := game.Join(playerName)
	if err != nil {
		return 0, entity.GameDetails{}, fmt.Errorf("failed to join game: %w", err)
	}

	if game.IsFull() {
		// the worker outlives the request that filled the roster
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done := make(chan struct{})

		if err = game.Run(runCtx, func() { that.teardown(game, done) }); err != nil {
			cancel()
			return 0, entity.GameDetails{}, fmt.Errorf("failed to run game: %w", err)
		}

		that.cancel = cancel
		that.done = done

		log.Info("game is full and running", "game_id", game.ID())
	}

	return playerID, game.Details(), nil
}

func (that *GameManager) PlayersDetails(name string) ([]entity.PlayerDetails, error) {
	game, err := that.gameNamed(name)
	if err != nil {
		return nil, err
	}

	return game.Players(), nil
}

// Events returns the live game's events with ids greater than since.
func (that *GameManager) Events(since int) ([]entity.Event, error) {
	game, err := that.liveGame()
	if err != nil {
		return nil, err
	}

	events, err := game.Events(since)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

func (that *GameManager) SetDiceRollResults(playerID, eventID, first, second int) error {
	game, err := that.liveGame()
	if err != nil {
		return err
	}

	if err = game.SubmitDice(playerID, eventID, first, second); err != nil {
		return fmt.Errorf("failed to set dice roll results: %w", err)
	}

	return nil
}

func (that *GameManager) Buy(playerID, eventID int, buy bool) error {
	game, err := that.liveGame()
	if err != nil {
		return err
	}

	if err = game.SubmitBuy(playerID, eventID, buy); err != nil {
		return fmt.Errorf("failed to buy: %w", err)
	}

	return nil
}

func (that *GameManager) Resign(playerID int) error {
	game, err := that.liveGame()
	if err != nil {
		return err
	}

	if err = game.Resign(playerID); err != nil {
		return fmt.Errorf("failed to resign: %w", err)
	}

	return nil
}

func (that *GameManager) Board() *board.Definition {
	return that.board
}

// Feed reads the mirrored events of any game, live or torn down, until they expire.
func (that *GameManager) Feed(ctx context.Context, gameID string, since int) ([]entity.Event, error) {
	if since < 0 {
		return nil, fmt.Errorf("%w: %d", apperror.ErrIllegalEventID, since)
	}

	events, err := that.feed.Since(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	return events, nil
}

// Snapshot returns the last stored details of a game, live or torn down.
func (that *GameManager) Snapshot(ctx context.Context, gameID string) (*entity.GameDetails, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return game, nil
}

// Shutdown stops a running game worker and waits for its teardown.
func (that *GameManager) Shutdown(ctx context.Context) error {
	that.mu.Lock()
	cancel, done := that.cancel, that.done
	that.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop game: %w", ctx.Err())
	}
}

func (that *GameManager) teardown(game *monopoly.Game, done chan struct{}) {
	log := that.logger.With("method", "teardown")
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	that.snapshotMu.Lock()
	that.writeSnapshot(ctx, game.Details())

	if err := that.gameRepo.Expire(ctx, game.ID(), that.ttl); err != nil {
		log.Error("failed to expire game snapshot", "game_id", game.ID(), "error", err)
	}

	that.sealed = game.ID()
	that.snapshotMu.Unlock()

	that.mu.Lock()
	if that.game == game {
		if that.cancel != nil {
			that.cancel()
		}

		that.game = nil
		that.cancel = nil
		that.done = nil
	}
	that.mu.Unlock()

	log.Info("game torn down", "game_id", game.ID())
}

func (that *GameManager) trace(gameID string, event entity.Event) {
	switch {
	case event.IsPrompt():
		that.logger.Debug("waiting for player", "game_id", gameID, "player", event.PlayerName, "event_id", event.ID)
	case event.IsFinal():
		that.logger.Info("game reached its end", "game_id", gameID, "events", event.ID)
	}
}

// saveSnapshot mirrors the game details outside the registry lock. A torn-down
// game is sealed, so a late write never replaces its final snapshot.
func (that *GameManager) saveSnapshot(ctx context.Context, details entity.GameDetails) {
	that.snapshotMu.Lock()
	defer that.snapshotMu.Unlock()

	if details.ID == that.sealed {
		return
	}

	that.writeSnapshot(ctx, details)
}

// writeSnapshot logs a failed write and lets the game go on.
func (that *GameManager) writeSnapshot(ctx context.Context, details entity.GameDetails) {
	if err := that.gameRepo.CreateOrUpdate(ctx, &details); err != nil {
		that.logger.Error("failed to save game snapshot", "game_id", details.ID, "error", err)
	}
}

func (that *GameManager) liveGame() (*monopoly.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrNoActiveGame
	}

	return that.game, nil
}

func (that *GameManager) gameNamed(name string) (*monopoly.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.gameNamedLocked(name)
}

func (that *GameManager) gameNamedLocked(name string) (*monopoly.Game, error) {
	if that.game == nil || that.game.Name() != name {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, name)
	}

	return that.game, nil
}
