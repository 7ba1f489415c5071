package monopoly

import (
	"context"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/board"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// run is the game worker. It holds the game lock while simulating and releases it
// only while sleeping or waiting for a human decision.
func (that *Game) run(ctx context.Context, onOver func()) {
	log := that.logger.With("method", "run")

	that.mu.Lock()
	that.emit(entity.Event{Type: entity.EventGameStart})
	that.mu.Unlock()

	log.Info("game started", "players", len(that.players))
	pause(ctx, that.rules.StartPause)

	that.mu.Lock()
	that.playRounds(ctx)

	if ctx.Err() == nil && that.activeHumans == 1 {
		if winner := that.firstInGame(); winner != nil {
			that.emit(entity.Event{Type: entity.EventGameWinner, PlayerName: winner.name})
			log.Info("game won", "winner", winner.name)
		}
		that.emit(entity.Event{Type: entity.EventGameOver})
	}

	that.status = entity.StatusFinished
	that.mu.Unlock()

	if err := ctx.Err(); err != nil {
		log.Info("game interrupted", "error", err)
	}

	pause(ctx, that.rules.EndPause)
	log.Info("game over")

	if onOver != nil {
		onOver()
	}
}

func (that *Game) playRounds(ctx context.Context) {
	for that.isRunning(ctx) {
		for _, player := range that.players {
			if !player.inGame {
				continue
			}

			that.playTurn(ctx, player)
			that.removeLosers(player)

			if !that.isRunning(ctx) {
				return
			}
		}
	}
}

func (that *Game) isRunning(ctx context.Context) bool {
	return ctx.Err() == nil && that.activeCount() >= MinPlayers && that.activeHumans > 0
}

func (that *Game) playTurn(ctx context.Context, player *Player) {
	square := that.board[player.position]
	if !square.ShouldRollDice(that, player) {
		return
	}

	first, second := that.rollFor(ctx, player)
	that.emit(entity.Event{
		Type:       entity.EventDiceRoll,
		PlayerName: player.name,
		SquareID:   player.position,
		FirstDice:  first,
		SecondDice: second,
	})

	if square.ShouldMove(that, player, first, second) {
		that.move(ctx, player, first+second)
	}
}

// rollFor rolls automatically for auto-dice games, computers and resigned humans.
// Other humans are prompted; an unanswered prompt resigns them and rolls for them.
func (that *Game) rollFor(ctx context.Context, player *Player) (int, int) {
	if that.settings.AutoDice || !player.human || player.IsResigned() {
		return that.roller.Roll()
	}

	answer := that.await(ctx, player, entity.Event{
		Type:       entity.EventPromptDiceRoll,
		PlayerName: player.name,
		SquareID:   player.position,
	})

	if answer.expired {
		player.resigned.Store(true)
		that.logger.Info("dice prompt expired, player resigned", "player", player.name)

		return that.roller.Roll()
	}

	return answer.first, answer.second
}

// decideBuy asks the player whether to pay price. Computers buy when they can afford it
// with cash to spare; humans are prompted when they can afford it at all.
func (that *Game) decideBuy(ctx context.Context, player *Player, price int, prompt entity.EventType) bool {
	if !player.human {
		return player.cash > price
	}

	if player.cash < price || player.IsResigned() {
		return false
	}

	answer := that.await(ctx, player, entity.Event{
		Type:       prompt,
		PlayerName: player.name,
		SquareID:   player.position,
	})

	return !answer.expired && answer.buy
}

// await must be called with the game lock held by the worker.
func (that *Game) await(ctx context.Context, player *Player, prompt entity.Event) decision {
	prompt.TimeoutSeconds = int(that.rules.PromptTimeout / time.Second)

	pending := that.gate.open(func() entity.Event {
		return that.emit(prompt)
	}, player.id, that.rules.PromptTimeout)

	that.mu.Unlock()
	defer that.mu.Lock()

	return that.gate.wait(ctx, pending)
}

func (that *Game) move(ctx context.Context, player *Player, steps int) {
	from := player.position
	to := (from + steps) % len(that.board)

	that.emit(entity.Event{
		Type:         entity.EventPlayerMoved,
		PlayerName:   player.name,
		Message:      entity.MoveRegular,
		SquareID:     from,
		NextSquareID: to,
	})
	player.position = to

	if from > to && to != board.StartIndex {
		that.passStart(player)
	}

	that.board[to].Arrived(ctx, that, player)
}

func (that *Game) teleport(player *Player, to int) {
	that.emit(entity.Event{
		Type:         entity.EventPlayerMoved,
		PlayerName:   player.name,
		Message:      entity.MoveTeleport,
		SquareID:     player.position,
		NextSquareID: to,
	})
	player.position = to
}

func (that *Game) sendToJail(player *Player) {
	that.emit(entity.Event{Type: entity.EventGoToJail, PlayerName: player.name, SquareID: player.position})
	that.teleport(player, board.JailIndex)
	player.canMove = false
}

func (that *Game) passStart(player *Player) {
	bonus := that.rules.PassStartBonus
	player.credit(bonus)

	that.emit(entity.Event{Type: entity.EventPassedStart, PlayerName: player.name})
	that.emitTreasuryPayment(player, bonus, false)
}

// removeLosers takes every bankrupt player out of the game, then the current player
// if they resigned.
func (that *Game) removeLosers(current *Player) {
	for _, player := range that.players {
		if player.inGame && player.bankrupt {
			that.remove(player)
			that.emit(entity.Event{Type: entity.EventPlayerLost, PlayerName: player.name, SquareID: player.position})
		}
	}

	if current.inGame && current.human && current.IsResigned() {
		that.remove(current)
		that.emit(entity.Event{Type: entity.EventPlayerResigned, PlayerName: current.name})
	}
}

func (that *Game) remove(player *Player) {
	player.inGame = false
	if player.human {
		that.activeHumans--
	}

	released := that.ledger.Release(player.index)
	that.logger.Info("player removed", "player", player.name, "bankrupt", player.bankrupt, "released_assets", released)
}

func (that *Game) activeCount() int {
	count := 0
	for _, player := range that.players {
		if player.inGame {
			count++
		}
	}

	return count
}

func (that *Game) firstInGame() *Player {
	for _, player := range that.players {
		if player.inGame {
			return player
		}
	}

	return nil
}

func (that *Game) opponents(player *Player) []*Player {
	var others []*Player
	for _, other := range that.players {
		if other != player && other.inGame {
			others = append(others, other)
		}
	}

	return others
}

func (that *Game) emit(event entity.Event) entity.Event {
	event.GameName = that.settings.Name
	event = that.events.Append(event)

	that.logger.Debug("event emitted", "id", event.ID, "type", event.Type, "player", event.PlayerName)

	if that.hook != nil {
		that.hook(event)
	}

	return event
}

func (that *Game) emitTreasuryPayment(player *Player, amount int, fromPlayer bool) {
	that.emit(entity.Event{
		Type:                entity.EventPayment,
		PlayerName:          player.name,
		SquareID:            player.position,
		PaymentAmount:       amount,
		PaymentFromPlayer:   fromPlayer,
		PaymentWithTreasury: true,
	})
}

func (that *Game) emitPlayerPayment(payer, payee *Player, amount int) {
	that.emit(entity.Event{
		Type:                entity.EventPayment,
		PlayerName:          payer.name,
		SquareID:            payer.position,
		PaymentAmount:       amount,
		PaymentFromPlayer:   true,
		PaymentToPlayerName: payee.name,
	})
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
