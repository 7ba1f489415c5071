package entity

import (
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusActive   = "active"
	StatusFinished = "finished"
)

// GameDetails is the public view of a game used by the registry and the feed snapshot.
type GameDetails struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	TotalHumans  int             `json:"total_humans"`
	Computers    int             `json:"computers"`
	JoinedHumans int             `json:"joined_humans"`
	AutoDice     bool            `json:"auto_dice"`
	Players      []PlayerDetails `json:"players,omitempty"`
}

func (that *GameDetails) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *GameDetails) IsActive() bool {
	return that.Status == StatusActive
}

func (that *GameDetails) IsFinished() bool {
	return that.Status == StatusFinished
}

// ConfirmStarted reports whether events can be read from the game.
func (that *GameDetails) ConfirmStarted() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrNoActiveGame
	case that.IsActive(), that.IsFinished():
		return nil
	default:
		return fmt.Errorf("unknown game status: %s", that.Status)
	}
}
