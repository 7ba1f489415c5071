package monopoly

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRules() Rules {
	rules := DefaultRules()
	rules.StartPause = 0
	rules.EndPause = 0
	rules.PromptTimeout = 2 * time.Second

	return rules
}

// scriptedDice returns the queued rolls and then a non-double (1, 2) forever.
type scriptedDice struct {
	mu    sync.Mutex
	rolls [][2]int
}

func newDice(rolls ...[2]int) *scriptedDice {
	return &scriptedDice{rolls: rolls}
}

func (that *scriptedDice) Roll() (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.rolls) == 0 {
		return 1, 2
	}

	roll := that.rolls[0]
	that.rolls = that.rolls[1:]

	return roll[0], roll[1]
}

func newTestGame(t *testing.T, settings Settings, opts ...Option) *Game {
	t.Helper()

	defaults := []Option{WithRules(testRules()), WithRand(rand.New(rand.NewSource(1)))} //nolint: gosec // it's ok
	game, err := NewGame(testLogger(), board.Default(), settings, append(defaults, opts...)...)
	require.NoError(t, err)

	return game
}

func joinAll(t *testing.T, game *Game, names ...string) []*Player {
	t.Helper()

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		id, err := game.Join(name)
		require.NoError(t, err)
		players = append(players, game.humanByID(id))
	}

	return players
}

func activate(game *Game) {
	game.mu.Lock()
	defer game.mu.Unlock()

	game.status = entity.StatusActive
}

// playTurn runs one scheduler step for player the way the worker does.
func playTurn(ctx context.Context, game *Game, player *Player) {
	game.mu.Lock()
	defer game.mu.Unlock()

	game.playTurn(ctx, player)
	game.removeLosers(player)
}

func eventTypes(t *testing.T, game *Game, since int) []entity.EventType {
	t.Helper()

	events, err := game.events.Since(since)
	require.NoError(t, err)

	types := make([]entity.EventType, 0, len(events))
	for _, event := range events {
		types = append(types, event.Type)
	}

	return types
}

func waitForPrompt(t *testing.T, game *Game) entity.Event {
	t.Helper()

	require.Eventually(t, func() bool {
		_, ok := game.gate.Pending()
		return ok
	}, 2*time.Second, time.Millisecond)

	id, _ := game.gate.Pending()
	events, err := game.events.Since(id - 1)
	require.NoError(t, err)

	return events[0]
}

func assetAt(game *Game, square int) *Asset {
	return game.ledger.Asset(game.board[square].(*assetSquare).asset)
}
