package monopoly

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func openPrompt(gate *DecisionGate, log *EventLog, prompt entity.EventType, playerID int, timeout time.Duration) *pendingDecision {
	return gate.open(func() entity.Event {
		return log.Append(entity.Event{Type: prompt})
	}, playerID, timeout)
}

func TestDecisionGate_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Answer resolves the pending prompt", func(t *testing.T) {
		// Given: a pending dice prompt for player 1
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptDiceRoll, 1, time.Minute)

		// When: the player submits dice for that prompt
		err := gate.Submit(pending.eventID, 1, true, decision{first: 2, second: 5})

		// Then: the worker receives the dice and nothing is pending anymore
		require.NoError(t, err)
		answer := gate.wait(ctx, pending)
		assert.False(t, answer.expired)
		assert.Equal(t, 2, answer.first)
		assert.Equal(t, 5, answer.second)

		_, ok := gate.Pending()
		assert.False(t, ok)
	})

	t.Run("Wrong event id is stale", func(t *testing.T) {
		// Given: a pending buy prompt
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyAsset, 1, time.Minute)

		// When: an answer for another event arrives
		err := gate.Submit(pending.eventID+1, 1, false, decision{buy: true})

		// Then: it is rejected and the prompt is still pending
		require.ErrorIs(t, err, apperror.ErrStaleRequest)
		id, ok := gate.Pending()
		require.True(t, ok)
		assert.Equal(t, pending.eventID, id)
	})

	t.Run("Dice for a buy prompt is stale", func(t *testing.T) {
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyHouse, 1, time.Minute)

		err := gate.Submit(pending.eventID, 1, true, decision{first: 1, second: 1})

		require.ErrorIs(t, err, apperror.ErrStaleRequest)
	})

	t.Run("Another player cannot answer", func(t *testing.T) {
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptDiceRoll, 1, time.Minute)

		err := gate.Submit(pending.eventID, 2, true, decision{first: 1, second: 1})

		require.ErrorIs(t, err, apperror.ErrIllegalPlayerID)
		require.ErrorIs(t, err, apperror.ErrPrecondition)
	})

	t.Run("Second answer is a no-op", func(t *testing.T) {
		// Given: a prompt that was already answered
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyAsset, 1, time.Minute)
		require.NoError(t, gate.Submit(pending.eventID, 1, false, decision{buy: true}))

		// When: a duplicate answer arrives
		err := gate.Submit(pending.eventID, 1, false, decision{buy: false})

		// Then: it is stale and the first answer wins
		require.ErrorIs(t, err, apperror.ErrStaleRequest)
		assert.True(t, gate.wait(ctx, pending).buy)
	})
}

func TestDecisionGate_Timeout(t *testing.T) {
	t.Run("Expired prompt rejects late answers", func(t *testing.T) {
		// Given: a prompt with a short timeout
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptDiceRoll, 1, 10*time.Millisecond)

		// When: the worker waits without an answer
		answer := gate.wait(context.Background(), pending)

		// Then: the decision is expired and a late answer is stale
		assert.True(t, answer.expired)
		err := gate.Submit(pending.eventID, 1, true, decision{first: 3, second: 3})
		require.ErrorIs(t, err, apperror.ErrStaleRequest)
	})

	t.Run("Cancelled context expires the prompt", func(t *testing.T) {
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyAsset, 1, time.Minute)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		answer := gate.wait(ctx, pending)

		assert.True(t, answer.expired)
		_, ok := gate.Pending()
		assert.False(t, ok)
	})

	t.Run("Cancel releases only the addressed player", func(t *testing.T) {
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyAsset, 1, time.Minute)

		assert.False(t, gate.Cancel(2))
		assert.True(t, gate.Cancel(1))
		assert.True(t, gate.wait(context.Background(), pending).expired)
	})
}

func TestDecisionGate_AnswerRacesTimer(t *testing.T) {
	for i := 0; i < 200; i++ {
		// Given: a prompt whose timer fires at about the same time as the answer
		gate, log := NewDecisionGate(), NewEventLog()
		pending := openPrompt(gate, log, entity.EventPromptBuyAsset, 1, time.Millisecond)

		errCh := make(chan error, 1)
		go func() {
			time.Sleep(time.Millisecond)
			errCh <- gate.Submit(pending.eventID, 1, false, decision{buy: true})
		}()

		// When: both wake sources fire
		answer := gate.wait(context.Background(), pending)
		err := <-errCh

		// Then: exactly one of them claimed the decision
		if err == nil {
			require.False(t, answer.expired)
			require.True(t, answer.buy)
		} else {
			require.ErrorIs(t, err, apperror.ErrStaleRequest)
			require.True(t, answer.expired)
			require.False(t, answer.buy)
		}
	}
}
