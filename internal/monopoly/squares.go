package monopoly

import (
	"context"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// Square is one board position. The scheduler asks it whether the player standing
// on it may roll and move, and notifies it when a player arrives.
type Square interface {
	Kind() board.SquareKind
	ShouldRollDice(game *Game, player *Player) bool
	ShouldMove(game *Game, player *Player, first, second int) bool
	Arrived(ctx context.Context, game *Game, player *Player)
}

type plainSquare struct {
	kind board.SquareKind
}

func (that *plainSquare) Kind() board.SquareKind { return that.kind }

func (that *plainSquare) ShouldRollDice(*Game, *Player) bool { return true }

func (that *plainSquare) ShouldMove(*Game, *Player, int, int) bool { return true }

func (that *plainSquare) Arrived(context.Context, *Game, *Player) {}

type startSquare struct {
	plainSquare
}

func (that *startSquare) Arrived(_ context.Context, game *Game, player *Player) {
	bonus := game.rules.LandOnStartBonus
	player.credit(bonus)

	game.emit(entity.Event{Type: entity.EventLandedOnStart, PlayerName: player.name, SquareID: player.position})
	game.emitTreasuryPayment(player, bonus, false)
}

// jailSquare holds a player whose may-move flag is cleared until they roll a double
// or surrender a pardon card.
type jailSquare struct {
	plainSquare
}

func (that *jailSquare) ShouldRollDice(game *Game, player *Player) bool {
	if !player.canMove && player.pardon != nil {
		held := player.pardon
		held.deck.Return(held.card)
		player.pardon = nil
		player.canMove = true

		game.emit(entity.Event{Type: entity.EventUsedPardonCard, PlayerName: player.name, SquareID: player.position})
	}

	return true
}

func (that *jailSquare) ShouldMove(_ *Game, player *Player, first, second int) bool {
	if player.canMove {
		return true
	}

	// a double lets the player leave on the next turn
	player.canMove = first == second

	return false
}

// parkingSquare costs the player one turn, sharing the may-move flag with jail.
type parkingSquare struct {
	plainSquare
}

func (that *parkingSquare) ShouldRollDice(_ *Game, player *Player) bool {
	if !player.canMove {
		player.canMove = true
		return false
	}

	return true
}

func (that *parkingSquare) Arrived(_ context.Context, _ *Game, player *Player) {
	player.canMove = false
}

type goToJailSquare struct {
	plainSquare
}

func (that *goToJailSquare) Arrived(_ context.Context, game *Game, player *Player) {
	game.sendToJail(player)
}

type assetSquare struct {
	plainSquare
	asset int
}

func (that *assetSquare) Arrived(ctx context.Context, game *Game, player *Player) {
	ledger := game.ledger
	asset := ledger.Asset(that.asset)

	switch {
	case !asset.IsOwned():
		if !game.decideBuy(ctx, player, asset.cost, entity.EventPromptBuyAsset) {
			return
		}

		paid := player.charge(asset.cost)
		ledger.Assign(asset, player.index)

		game.emitTreasuryPayment(player, paid, true)
		game.emit(entity.Event{Type: entity.EventAssetBought, PlayerName: player.name, SquareID: player.position})
	case asset.owner == player.index:
		if !ledger.CanBuildHouse(asset, player.index) {
			return
		}

		if !game.decideBuy(ctx, player, asset.houseCost, entity.EventPromptBuyHouse) {
			return
		}

		paid := player.charge(asset.houseCost)
		ledger.AddHouse(asset)

		game.emitTreasuryPayment(player, paid, true)
		game.emit(entity.Event{Type: entity.EventHouseBought, PlayerName: player.name, SquareID: player.position})
	default:
		owner := game.players[asset.owner]

		paid := player.charge(ledger.RentFor(asset))
		if paid > 0 {
			owner.credit(paid)
			game.emitPlayerPayment(player, owner, paid)
		}
	}
}

type actionSquare struct {
	plainSquare
	deck *Deck
}

func (that *actionSquare) Arrived(ctx context.Context, game *Game, player *Player) {
	card, ok := that.deck.Draw()
	if !ok {
		return
	}

	if card.IsPardon() {
		game.emit(entity.Event{Type: entity.EventGetOutOfJailCard, PlayerName: player.name, SquareID: player.position})
	}

	cardEvent := entity.EventWarrantCard
	if that.deck.IsSurprise() {
		cardEvent = entity.EventSurpriseCard
	}

	game.emit(entity.Event{Type: cardEvent, PlayerName: player.name, SquareID: player.position, Message: card.Text()})

	card.apply(ctx, game, player, that)
}
