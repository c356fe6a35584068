package teleop

import (
	"github.com/pkg/errors"
)

// Direction is a discrete drive intent.
type Direction int

const (
	Stop Direction = iota
	Forward
	Backward
	Left
	Right
)

var directionNames = [...]string{"stop", "forward", "backward", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection accepts the names returned by String.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if s == name {
			return Direction(i), nil
		}
	}
	return Stop, errors.Errorf("unknown direction %q", s)
}
