package agent

import (
	"mctsbot/experiments/metrics"
)

type Agent[S any, A comparable] interface {
	Name() string
	// FindMove returns the action to play and the metrics of the search behind it
	FindMove(state S) (A, metrics.SearchMetric, error)
}
