package monopoly

import (
	"sync/atomic"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

const computerID = -1

type heldPardon struct {
	card Card
	deck *Deck
}

// Player is a human or computer participant. Everything except the resignation
// flag is owned by the game worker.
type Player struct {
	index int
	id    int
	name  string
	human bool

	position int
	cash     int
	inGame   bool
	bankrupt bool
	canMove  bool
	pardon   *heldPardon

	resigned atomic.Bool
}

func newPlayer(index, id int, name string, human bool, cash int) *Player {
	return &Player{
		index:   index,
		id:      id,
		name:    name,
		human:   human,
		cash:    cash,
		inGame:  true,
		canMove: true,
	}
}

func (that *Player) IsResigned() bool {
	return that.resigned.Load()
}

// charge takes up to amount from the player and returns what was actually paid.
// A shortfall empties the player's cash and marks them bankrupt.
func (that *Player) charge(amount int) int {
	if amount <= 0 {
		return 0
	}

	if amount > that.cash {
		paid := that.cash
		that.cash = 0
		that.bankrupt = true

		return paid
	}

	that.cash -= amount

	return amount
}

func (that *Player) credit(amount int) {
	that.cash += amount
}

func (that *Player) details() entity.PlayerDetails {
	return entity.PlayerDetails{
		ID:       that.id,
		Name:     that.name,
		Human:    that.human,
		Active:   that.inGame,
		Cash:     that.cash,
		Position: that.position,
	}
}
