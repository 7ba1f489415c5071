package monopoly

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// EventLog is an append-only sequence of events with ids starting at 1.
// It is written by the game worker and read concurrently by pollers.
type EventLog struct {
	mu     sync.RWMutex
	events []entity.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append assigns the next id to the event and stores it.
func (that *EventLog) Append(event entity.Event) entity.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	event.ID = len(that.events) + 1
	that.events = append(that.events, event)

	return event
}

// Since returns the events whose id is greater than id. Zero means from the beginning.
func (that *EventLog) Since(id int) ([]entity.Event, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if id < 0 || id > len(that.events) {
		return nil, fmt.Errorf("%w: %d", apperror.ErrIllegalEventID, id)
	}

	events := make([]entity.Event, len(that.events)-id)
	copy(events, that.events[id:])

	return events, nil
}

func (that *EventLog) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.events)
}
