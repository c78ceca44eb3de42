package agent

import (
	"mctsbot/experiments/metrics"
	"mctsbot/searcher"
)

type mctsAgent[S any, A comparable] struct {
	name string
	mcts *searcher.MCTS[S, A]
}

// NewMCTSAgent returns an agent that plays the searcher's recommended action.
func NewMCTSAgent[S any, A comparable](name string, mcts *searcher.MCTS[S, A]) Agent[S, A] {
	return mctsAgent[S, A]{name: name, mcts: mcts}
}

func (a mctsAgent[S, A]) Name() string {
	return a.name
}

func (a mctsAgent[S, A]) FindMove(state S) (A, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(state)
	if err != nil {
		var none A
		return none, metrics.SearchMetric{}, err
	}
	return result.Action, result.Metric, nil
}
