package monopoly

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

type decision struct {
	first   int
	second  int
	buy     bool
	expired bool
}

type pendingDecision struct {
	eventID  int
	playerID int
	prompt   entity.EventType
	timer    *time.Timer
	done     chan struct{}
	answer   decision
}

// DecisionGate is the rendezvous between the game worker and a remote human.
// At most one decision is pending; the first of an answer, a timeout or a
// cancellation resolves it and every later attempt is a no-op.
type DecisionGate struct {
	mu      sync.Mutex
	pending *pendingDecision
}

func NewDecisionGate() *DecisionGate {
	return &DecisionGate{}
}

// open emits the prompt and registers it atomically, so an answer can never
// arrive for a prompt the gate does not know yet.
func (that *DecisionGate) open(emit func() entity.Event, playerID int, timeout time.Duration) *pendingDecision {
	that.mu.Lock()
	defer that.mu.Unlock()

	prompt := emit()
	pending := &pendingDecision{
		eventID:  prompt.ID,
		playerID: playerID,
		prompt:   prompt.Type,
		done:     make(chan struct{}),
	}
	pending.timer = time.AfterFunc(timeout, func() {
		that.resolve(pending, decision{expired: true})
	})
	that.pending = pending

	return pending
}

// wait blocks until the decision is resolved. A cancelled context resolves it as expired.
func (that *DecisionGate) wait(ctx context.Context, pending *pendingDecision) decision {
	select {
	case <-pending.done:
	case <-ctx.Done():
		that.resolve(pending, decision{expired: true})
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return pending.answer
}

func (that *DecisionGate) resolve(pending *pendingDecision, answer decision) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.resolveLocked(pending, answer)
}

func (that *DecisionGate) resolveLocked(pending *pendingDecision, answer decision) bool {
	if that.pending != pending {
		return false
	}

	that.pending = nil
	pending.timer.Stop()
	pending.answer = answer
	close(pending.done)

	return true
}

// Submit answers the pending prompt identified by eventID on behalf of playerID.
func (that *DecisionGate) Submit(eventID, playerID int, dice bool, answer decision) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	pending := that.pending
	if pending == nil || pending.eventID != eventID {
		return fmt.Errorf("%w: event %d is not the pending prompt", apperror.ErrStaleRequest, eventID)
	}

	if dice != (pending.prompt == entity.EventPromptDiceRoll) {
		return fmt.Errorf("%w: event %d expects a different answer", apperror.ErrStaleRequest, eventID)
	}

	if pending.playerID != playerID {
		return fmt.Errorf("%w: prompt %d is addressed to another player", apperror.ErrIllegalPlayerID, eventID)
	}

	that.resolveLocked(pending, answer)

	return nil
}

// Cancel resolves a prompt addressed to playerID as expired.
func (that *DecisionGate) Cancel(playerID int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil || that.pending.playerID != playerID {
		return false
	}

	return that.resolveLocked(that.pending, decision{expired: true})
}

// Pending returns the id of the prompt waiting for an answer.
func (that *DecisionGate) Pending() (int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending == nil {
		return 0, false
	}

	return that.pending.eventID, true
}
