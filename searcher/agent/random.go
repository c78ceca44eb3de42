package agent

import (
	"errors"

	"mctsbot/experiments/metrics"
	"mctsbot/game"

	"golang.org/x/exp/rand"
)

var ErrNoLegalMoves = errors.New("no legal moves")

type randomAgent[S any, A comparable] struct {
	name  string
	board game.Board[S, A]
	rng   *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays uniformly at random.
func NewRandomAgent[S any, A comparable](name string, board game.Board[S, A], seed uint64) Agent[S, A] {
	return &randomAgent[S, A]{
		name:  name,
		board: board,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *randomAgent[S, A]) Name() string {
	return a.name
}

func (a *randomAgent[S, A]) FindMove(state S) (A, metrics.SearchMetric, error) {
	moves := a.board.LegalActions(state)
	if len(moves) == 0 {
		var none A
		return none, metrics.SearchMetric{}, ErrNoLegalMoves
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}
