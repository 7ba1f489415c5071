package monopoly

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func TestEventLog_Append(t *testing.T) {
	// Given: an empty log
	log := NewEventLog()
	require.Zero(t, log.Len())

	// When: three events are appended
	for range 3 {
		log.Append(entity.Event{Type: entity.EventDiceRoll, ID: 42})
	}

	// Then: ids start at 1 and grow by one, ignoring any preset id
	events, err := log.Since(0)
	require.NoError(t, err)
	for i, event := range events {
		assert.Equal(t, i+1, event.ID)
	}

	require.Len(t, events, 3)
	assert.Equal(t, 3, log.Len())
}

func TestEventLog_Since(t *testing.T) {
	log := NewEventLog()
	for range 5 {
		log.Append(entity.Event{Type: entity.EventPayment})
	}

	t.Run("Returns events after the given id", func(t *testing.T) {
		events, err := log.Since(3)

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, 4, events[0].ID)
		assert.Equal(t, 5, events[1].ID)
	})

	t.Run("Id equal to the length returns nothing", func(t *testing.T) {
		events, err := log.Since(5)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Out of range ids are rejected", func(t *testing.T) {
		for _, id := range []int{-1, 6} {
			_, err := log.Since(id)

			require.ErrorIs(t, err, apperror.ErrIllegalEventID)
		}
	})
}

func TestEventLog_ConcurrentReaders(t *testing.T) {
	// Given: one writer and several pollers
	log := NewEventLog()
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen := 0
			for seen < 100 {
				events, err := log.Since(seen)
				if err != nil {
					t.Error(err)
					return
				}
				for _, event := range events {
					seen++
					if event.ID != seen {
						t.Errorf("got id %d, want %d", event.ID, seen)
						return
					}
				}
			}
		}()
	}

	// When: the writer appends 100 events
	for range 100 {
		log.Append(entity.Event{Type: entity.EventDiceRoll})
	}

	// Then: every poller sees a gapless sequence
	wg.Wait()
	assert.Equal(t, 100, log.Len())
}
