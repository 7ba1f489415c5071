package monopoly

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
)

func cardTexts(deck *Deck) []string {
	texts := make([]string, 0, deck.Len())
	for _, card := range deck.cards {
		texts = append(texts, card.Text())
	}

	return texts
}

func TestDeck_Draw(t *testing.T) {
	t.Run("Regular cards go back to the bottom", func(t *testing.T) {
		// Given: an unshuffled warrant deck
		deck := newDeck(board.KindWarrant, board.Default().WarrantCards)
		size := deck.Len()
		first := deck.cards[0].Text()

		// When: every card is drawn once
		for range size {
			_, ok := deck.Draw()
			require.True(t, ok)
		}

		// Then: the deck keeps its size and order
		assert.Equal(t, size, deck.Len())
		assert.Equal(t, first, deck.cards[0].Text())
	})

	t.Run("Pardon cards leave the deck until returned", func(t *testing.T) {
		// Given: a deck with a single pardon on top
		deck := newDeck(board.KindSurprise, []board.Card{
			{Text: "free", Kind: board.CardPardon},
			{Text: "cash", Kind: board.CardFinancial, Target: board.TargetTreasury, Amount: 10},
		})

		// When: the pardon is drawn
		card, ok := deck.Draw()

		// Then: the deck shrinks until the card is surrendered
		require.True(t, ok)
		require.True(t, card.IsPardon())
		assert.Equal(t, []string{"cash"}, cardTexts(deck))

		deck.Return(card)
		assert.Equal(t, []string{"cash", "free"}, cardTexts(deck))
	})

	t.Run("Empty deck draws nothing", func(t *testing.T) {
		deck := newDeck(board.KindSurprise, nil)

		_, ok := deck.Draw()

		assert.False(t, ok)
	})
}

func TestDeck_Shuffle(t *testing.T) {
	// Given: the default surprise deck
	deck := newDeck(board.KindSurprise, board.Default().SurpriseCards)
	before := cardTexts(deck)

	// When: it is shuffled with zero swaps
	deck.Shuffle(rand.New(rand.NewSource(7)), 0) //nolint: gosec // it's ok

	// Then: nothing moves
	assert.Equal(t, before, cardTexts(deck))

	// When: it is shuffled for real
	deck.Shuffle(rand.New(rand.NewSource(7)), 100) //nolint: gosec // it's ok

	// Then: the same cards are still there
	assert.ElementsMatch(t, before, cardTexts(deck))
	assert.NotEqual(t, before, cardTexts(deck))
}
