package monopoly

import (
	"context"
	"math/rand"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
)

// Card is an action card drawn from a surprise or warrant deck.
type Card interface {
	Text() string
	IsPardon() bool
	apply(ctx context.Context, game *Game, player *Player, from *actionSquare)
}

// Deck is a cyclic queue of cards. Drawn cards go back to the bottom,
// except pardon cards which stay with the player until surrendered.
type Deck struct {
	kind  board.SquareKind
	cards []Card
}

func newDeck(kind board.SquareKind, defs []board.Card) *Deck {
	deck := &Deck{kind: kind}

	for _, def := range defs {
		switch def.Kind {
		case board.CardFinancial:
			deck.cards = append(deck.cards, &financialCard{
				text:     def.Text,
				toOthers: def.Target == board.TargetOthers,
				amount:   def.Amount,
			})
		case board.CardGoto:
			deck.cards = append(deck.cards, &gotoCard{text: def.Text, target: def.Target})
		case board.CardPardon:
			deck.cards = append(deck.cards, &pardonCard{text: def.Text})
		}
	}

	return deck
}

func (that *Deck) IsSurprise() bool {
	return that.kind == board.KindSurprise
}

// Shuffle mixes the deck with a fixed number of random pairwise swaps.
func (that *Deck) Shuffle(rnd *rand.Rand, swaps int) {
	if len(that.cards) < 2 {
		return
	}

	for range swaps {
		i, j := rnd.Intn(len(that.cards)), rnd.Intn(len(that.cards))
		if i == j {
			continue
		}

		that.cards[i], that.cards[j] = that.cards[j], that.cards[i]
	}
}

// Draw pops the top card and requeues it unless it is a pardon.
func (that *Deck) Draw() (Card, bool) {
	if len(that.cards) == 0 {
		return nil, false
	}

	card := that.cards[0]
	that.cards = that.cards[1:]

	if !card.IsPardon() {
		that.cards = append(that.cards, card)
	}

	return card, true
}

// Return puts a surrendered card at the bottom of the deck.
func (that *Deck) Return(card Card) {
	that.cards = append(that.cards, card)
}

func (that *Deck) Len() int {
	return len(that.cards)
}

type financialCard struct {
	text     string
	toOthers bool
	amount   int
}

func (that *financialCard) Text() string   { return that.text }
func (that *financialCard) IsPardon() bool { return false }

// Surprise cards pay the drawer, warrant cards charge them. A transfer fan-out
// stops at the first payer who cannot pay in full.
func (that *financialCard) apply(_ context.Context, game *Game, player *Player, from *actionSquare) {
	surprise := from.deck.IsSurprise()

	switch {
	case !that.toOthers && surprise:
		player.credit(that.amount)
		game.emitTreasuryPayment(player, that.amount, false)
	case !that.toOthers:
		if paid := player.charge(that.amount); paid > 0 {
			game.emitTreasuryPayment(player, paid, true)
		}
	case surprise:
		for _, other := range game.opponents(player) {
			paid := other.charge(that.amount)
			if paid > 0 {
				player.credit(paid)
				game.emitPlayerPayment(other, player, paid)
			}

			if paid < that.amount {
				return
			}
		}
	default:
		for _, other := range game.opponents(player) {
			paid := player.charge(that.amount)
			if paid > 0 {
				other.credit(paid)
				game.emitPlayerPayment(player, other, paid)
			}

			if paid < that.amount {
				return
			}
		}
	}
}

type gotoCard struct {
	text   string
	target board.CardTarget
}

func (that *gotoCard) Text() string   { return that.text }
func (that *gotoCard) IsPardon() bool { return false }

func (that *gotoCard) apply(ctx context.Context, game *Game, player *Player, from *actionSquare) {
	switch that.target {
	case board.TargetStart:
		game.teleport(player, board.StartIndex)
		game.board[board.StartIndex].Arrived(ctx, game, player)
	case board.TargetJail:
		game.sendToJail(player)
	case board.TargetNext:
		size := len(game.board)
		for step := 1; step <= size; step++ {
			i := (player.position + step) % size

			if i == board.StartIndex && from.deck.IsSurprise() {
				game.passStart(player)
			}

			next, ok := game.board[i].(*actionSquare)
			if ok && next.Kind() == from.Kind() {
				game.teleport(player, i)
				next.Arrived(ctx, game, player)

				return
			}
		}
	}
}

type pardonCard struct {
	text string
}

func (that *pardonCard) Text() string   { return that.text }
func (that *pardonCard) IsPardon() bool { return true }

// A player holds at most one pardon; a second one goes straight back to its deck.
func (that *pardonCard) apply(_ context.Context, _ *Game, player *Player, from *actionSquare) {
	if player.pardon != nil {
		from.deck.Return(that)
		return
	}

	player.pardon = &heldPardon{card: that, deck: from.deck}
}
