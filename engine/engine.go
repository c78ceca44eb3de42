package engine

import "mctsbot/experiments/metrics"

type Engine interface {
	// Run plays a game till it ends or a max number of turns is reached
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
