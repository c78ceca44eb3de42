package game

import (
	"errors"
	"fmt"
)

var ErrIllegalAction = errors.New("illegal action")

// UltimateBoard implements Board for Ultimate Tic-Tac-Toe: a 3x3 grid of 3x3
// sub-boards where each move sends the opponent to the sub-board matching the
// cell just played.
type UltimateBoard struct{}

var _ Board[State, Action] = UltimateBoard{}

func NewUltimateBoard() UltimateBoard {
	return UltimateBoard{}
}

func (UltimateBoard) CurrentPlayer(state State) Player {
	return state.player
}

func (UltimateBoard) LegalActions(state State) []Action {
	return state.legalActions()
}

// NextState panics on an illegal action; use Play for untrusted input.
func (UltimateBoard) NextState(state State, action Action) State {
	if !state.isLegal(action) {
		panic(fmt.Sprintf("illegal action %s", action))
	}
	return state.play(action)
}

// Play applies an action after checking it is legal.
func (UltimateBoard) Play(state State, action Action) (State, error) {
	if !state.isLegal(action) {
		return state, fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}
	return state.play(action), nil
}

func (UltimateBoard) IsEnded(state State) bool {
	return state.ended
}

func (UltimateBoard) PointsValues(state State) (map[Player]float64, bool) {
	if !state.ended {
		return nil, false
	}
	if state.winner == Drawn {
		return map[Player]float64{1: 0, 2: 0}, true
	}
	return map[Player]float64{
		state.winner:            1,
		state.winner.Opponent(): -1,
	}, true
}

func (UltimateBoard) OwnedRegions(state State) map[Region]Player {
	owned := make(map[Region]Player, 9)
	for R := 0; R < 3; R++ {
		for C := 0; C < 3; C++ {
			owned[Region{R: R, C: C}] = state.boxes[R][C]
		}
	}
	return owned
}

func (UltimateBoard) RegionOf(action Action) Region {
	return Region{R: action.R, C: action.C}
}
