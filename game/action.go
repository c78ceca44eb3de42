package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidNotation = errors.New("invalid action notation")

// Action places a mark on cell (Row, Col) of sub-board (R, C). All coordinates
// are in 0..2.
type Action struct {
	R, C     int
	Row, Col int
}

func (a Action) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", a.R, a.C, a.Row, a.Col)
}

func (a Action) valid() bool {
	for _, v := range []int{a.R, a.C, a.Row, a.Col} {
		if v < 0 || v > 2 {
			return false
		}
	}
	return true
}

// ParseAction reads the "R,C,r,c" notation produced by Action.String.
func ParseAction(notation string) (Action, error) {
	parts := strings.Split(strings.TrimSpace(notation), ",")
	if len(parts) != 4 {
		return Action{}, fmt.Errorf("%w: %q: expected 4 coordinates", ErrInvalidNotation, notation)
	}

	coords := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Action{}, fmt.Errorf("%w: %q: %v", ErrInvalidNotation, notation, err)
		}
		coords[i] = v
	}

	action := Action{R: coords[0], C: coords[1], Row: coords[2], Col: coords[3]}
	if !action.valid() {
		return Action{}, fmt.Errorf("%w: %q: coordinates must be in 0..2", ErrInvalidNotation, notation)
	}
	return action, nil
}
