package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrConfig       = errors.New("invalid board configuration")
	ErrPrecondition = errors.New("precondition violated")
	ErrStaleRequest = errors.New("stale request")

	ErrGameAlreadyExists = errors.New("only one game allowed")
	ErrGameNotFound      = errors.New("this game does not exist")
	ErrNoActiveGame      = errors.New("no active game")
)

var (
	ErrIllegalGameName      = fmt.Errorf("%w: illegal game name", ErrPrecondition)
	ErrIllegalPlayerCount   = fmt.Errorf("%w: illegal number of players", ErrPrecondition)
	ErrIllegalPlayerName    = fmt.Errorf("%w: illegal player name", ErrPrecondition)
	ErrIllegalPlayerID      = fmt.Errorf("%w: illegal player id", ErrPrecondition)
	ErrIllegalDice          = fmt.Errorf("%w: illegal dice value", ErrPrecondition)
	ErrIllegalEventID       = fmt.Errorf("%w: illegal event id", ErrPrecondition)
	ErrGameFull             = fmt.Errorf("%w: game is full", ErrPrecondition)
	ErrCannotJoinActiveGame = fmt.Errorf("%w: cannot join an active game", ErrPrecondition)
	ErrPlayerNotInGame      = fmt.Errorf("%w: player not in game", ErrPrecondition)
)
