package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int // Configured simulation budget
	Exploration  float64
	Duration     time.Duration
	Episodes     int // Completed simulations
	Expansions   int
	Playouts     int
	PlayoutMoves int
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	SearchMetric
}

type GameMetric struct {
	StartingAgent string
	Winner        string // Agent name, "" for a draw
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

// Collector gathers statistics for one search at a time. Start resets it.
type Collector interface {
	Start(iterations int, exploration float64)
	AddIteration()
	AddExpansion()
	AddPlayout(moves int)
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	exploration  float64
	startTime    time.Time
	episodes     atomic.Int32
	expansions   atomic.Int32
	playouts     atomic.Int32
	playoutMoves atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(iterations int, exploration float64) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.exploration = exploration
	m.episodes.Store(0)
	m.expansions.Store(0)
	m.playouts.Store(0)
	m.playoutMoves.Store(0)
}

func (m *collector) AddIteration() {
	m.episodes.Add(1)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddPlayout(moves int) {
	m.playouts.Add(1)
	m.playoutMoves.Add(int32(moves))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Exploration:  m.exploration,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Expansions:   int(m.expansions.Load()),
		Playouts:     int(m.playouts.Load()),
		PlayoutMoves: int(m.playoutMoves.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations int, exploration float64) {}
func (m *dummyCollector) AddIteration()                             {}
func (m *dummyCollector) AddExpansion()                             {}
func (m *dummyCollector) AddPlayout(moves int)                      {}
func (m *dummyCollector) Complete() SearchMetric                    { return SearchMetric{} }
