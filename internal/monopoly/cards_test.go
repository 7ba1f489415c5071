package monopoly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func surpriseSquare(game *Game) *actionSquare {
	return game.board[3].(*actionSquare)
}

func warrantSquare(game *Game, index int) *actionSquare {
	return game.board[index].(*actionSquare)
}

// newCrowdedGame returns an active game with comp1, alice and bob.
func newCrowdedGame(t *testing.T) (*Game, *Player, *Player, *Player) {
	t.Helper()

	game := newTestGame(t, Settings{Name: "g", Humans: 2, Computers: 1})
	joinAll(t, game, "alice", "bob")
	activate(game)

	return game, game.players[0], game.players[1], game.players[2]
}

func TestFinancialCard_Treasury(t *testing.T) {
	ctx := context.Background()

	t.Run("Surprise pays the drawer", func(t *testing.T) {
		game, comp := newComputerGame(t)

		(&financialCard{text: "bonus", amount: 50}).apply(ctx, game, comp, surpriseSquare(game))

		assert.Equal(t, 1550, comp.cash)
		events, err := game.events.Since(0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].PaymentWithTreasury)
		assert.False(t, events[0].PaymentFromPlayer)
	})

	t.Run("Warrant charges the drawer", func(t *testing.T) {
		game, comp := newComputerGame(t)

		(&financialCard{text: "fine", amount: 50}).apply(ctx, game, comp, warrantSquare(game, 8))

		assert.Equal(t, 1450, comp.cash)
		events, err := game.events.Since(0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.True(t, events[0].PaymentFromPlayer)
	})

	t.Run("Warrant the drawer cannot afford bankrupts them", func(t *testing.T) {
		game, comp := newComputerGame(t)
		comp.cash = 30

		(&financialCard{text: "fine", amount: 50}).apply(ctx, game, comp, warrantSquare(game, 8))

		assert.Zero(t, comp.cash)
		assert.True(t, comp.bankrupt)
		assert.Equal(t, 30, game.events.events[0].PaymentAmount)
	})
}

func TestFinancialCard_Others(t *testing.T) {
	ctx := context.Background()
	birthday := &financialCard{text: "birthday", toOthers: true, amount: 20}
	chairman := &financialCard{text: "chairman", toOthers: true, amount: 25}

	t.Run("Surprise collects from every opponent", func(t *testing.T) {
		game, comp, alice, bob := newCrowdedGame(t)

		birthday.apply(ctx, game, comp, surpriseSquare(game))

		assert.Equal(t, 1540, comp.cash)
		assert.Equal(t, 1480, alice.cash)
		assert.Equal(t, 1480, bob.cash)
		assert.Equal(t, 2, game.events.Len())
	})

	t.Run("Surprise collection stops at the first shortfall", func(t *testing.T) {
		// Given: alice, first in line, has only 5
		game, comp, alice, bob := newCrowdedGame(t)
		alice.cash = 5

		// When: the computer draws the birthday card
		birthday.apply(ctx, game, comp, surpriseSquare(game))

		// Then: alice pays what she has and bob is never charged
		assert.Equal(t, 1505, comp.cash)
		assert.True(t, alice.bankrupt)
		assert.Equal(t, 1500, bob.cash)
	})

	t.Run("Warrant pays every opponent", func(t *testing.T) {
		game, comp, alice, bob := newCrowdedGame(t)

		chairman.apply(ctx, game, comp, warrantSquare(game, 8))

		assert.Equal(t, 1450, comp.cash)
		assert.Equal(t, 1525, alice.cash)
		assert.Equal(t, 1525, bob.cash)
	})

	t.Run("Warrant payments stop when the drawer runs dry", func(t *testing.T) {
		game, comp, alice, bob := newCrowdedGame(t)
		comp.cash = 20

		chairman.apply(ctx, game, comp, warrantSquare(game, 8))

		assert.Zero(t, comp.cash)
		assert.True(t, comp.bankrupt)
		assert.Equal(t, 1520, alice.cash)
		assert.Equal(t, 1500, bob.cash)
	})

	t.Run("Players out of the game are skipped", func(t *testing.T) {
		game, comp, alice, bob := newCrowdedGame(t)
		alice.inGame = false

		birthday.apply(ctx, game, comp, surpriseSquare(game))

		assert.Equal(t, 1500, alice.cash)
		assert.Equal(t, 1480, bob.cash)
	})
}

func TestGotoCard(t *testing.T) {
	ctx := context.Background()

	t.Run("Start teleports and pays the landing bonus", func(t *testing.T) {
		game, comp := newComputerGame(t)
		comp.position = 3

		(&gotoCard{text: "start", target: board.TargetStart}).apply(ctx, game, comp, surpriseSquare(game))

		assert.Equal(t, board.StartIndex, comp.position)
		assert.Equal(t, 1900, comp.cash)
		assert.Equal(t, []entity.EventType{
			entity.EventPlayerMoved,
			entity.EventLandedOnStart,
			entity.EventPayment,
		}, eventTypes(t, game, 0))
	})

	t.Run("Jail never pays the pass-start bonus", func(t *testing.T) {
		// Given: a computer on the warrant square past the jail
		game, comp := newComputerGame(t)
		comp.position = 22

		// When: it draws "go to jail"
		(&gotoCard{text: "jail", target: board.TargetJail}).apply(ctx, game, comp, warrantSquare(game, 22))

		// Then: it is jailed without any payment
		assert.Equal(t, board.JailIndex, comp.position)
		assert.False(t, comp.canMove)
		assert.Equal(t, 1500, comp.cash)
		assert.Equal(t, []entity.EventType{entity.EventGoToJail, entity.EventPlayerMoved}, eventTypes(t, game, 0))
	})

	t.Run("Next warrant square draws again without a bonus", func(t *testing.T) {
		// Given: a warrant deck holding a single fine
		game, comp := newComputerGame(t)
		comp.position = 22
		warrantSquare(game, 22).deck.cards = []Card{&financialCard{text: "fine", amount: 10}}

		// When: it advances to the next warrant square, wrapping the board
		(&gotoCard{text: "next", target: board.TargetNext}).apply(ctx, game, comp, warrantSquare(game, 22))

		// Then: it lands on square 8 and pays the fine drawn there
		assert.Equal(t, 8, comp.position)
		assert.Equal(t, 1490, comp.cash)
		assert.Equal(t, []entity.EventType{
			entity.EventPlayerMoved,
			entity.EventWarrantCard,
			entity.EventPayment,
		}, eventTypes(t, game, 0))
	})

	t.Run("Next surprise square collects the bonus when passing start", func(t *testing.T) {
		// Given: the only surprise square and a deck holding a single gift
		game, comp := newComputerGame(t)
		comp.position = 3
		surpriseSquare(game).deck.cards = []Card{&financialCard{text: "gift", amount: 50}}

		// When: it advances to the next surprise square
		(&gotoCard{text: "next", target: board.TargetNext}).apply(ctx, game, comp, surpriseSquare(game))

		// Then: it goes round the board, collecting the bonus on the way
		assert.Equal(t, 3, comp.position)
		assert.Equal(t, 1750, comp.cash)
		assert.Equal(t, []entity.EventType{
			entity.EventPassedStart,
			entity.EventPayment,
			entity.EventPlayerMoved,
			entity.EventSurpriseCard,
			entity.EventPayment,
		}, eventTypes(t, game, 0))
	})
}

func TestActionSquare_Pardon(t *testing.T) {
	ctx := context.Background()

	// Given: a surprise deck with two pardons on top
	game, comp := newComputerGame(t)
	square := surpriseSquare(game)
	square.deck.cards = []Card{
		&pardonCard{text: "free"},
		&pardonCard{text: "free again"},
		&financialCard{text: "gift", amount: 5},
	}

	// When: the computer draws the first pardon
	square.Arrived(ctx, game, comp)

	// Then: it keeps the card and the deck shrinks
	require.NotNil(t, comp.pardon)
	assert.Equal(t, square.deck, comp.pardon.deck)
	assert.Equal(t, 2, square.deck.Len())
	assert.Equal(t, []entity.EventType{entity.EventGetOutOfJailCard, entity.EventSurpriseCard}, eventTypes(t, game, 0))
	assert.Equal(t, "free", game.events.events[1].Message)

	// When: it draws a second pardon while holding one
	square.Arrived(ctx, game, comp)

	// Then: the second card goes back to the deck
	assert.Equal(t, "free", comp.pardon.card.Text())
	assert.Equal(t, 2, square.deck.Len())
}
