package monopoly

import "math/rand"

const (
	minDie = 1
	maxDie = 6
)

type Roller interface {
	Roll() (int, int)
}

type randomRoller struct {
	rnd *rand.Rand
}

// NewRandomRoller rolls two fair dice. The roller is used by the game worker only.
func NewRandomRoller(rnd *rand.Rand) Roller {
	return &randomRoller{rnd: rnd}
}

func (that *randomRoller) Roll() (int, int) {
	return that.rnd.Intn(maxDie) + minDie, that.rnd.Intn(maxDie) + minDie
}

func validDie(value int) bool {
	return value >= minDie && value <= maxDie
}
