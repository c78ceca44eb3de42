package searcher

import (
	"errors"
	"fmt"
	"math"
	"time"

	"mctsbot/experiments/metrics"
	"mctsbot/game"
	"mctsbot/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	ErrNoDecision       = errors.New("no decision available: root has no visited children")
	ErrTerminalState    = errors.New("cannot search a terminal state")
	ErrRolloutExhausted = errors.New("rollout excluded every legal action")
)

type Option func(s *settings)

type settings struct {
	iterations  int
	exploration float64
	seed        uint64
	metrics     metrics.Collector
}

func WithIterations(iterations int) Option {
	return func(s *settings) {
		if iterations > 0 {
			s.iterations = iterations
		}
	}
}

func WithExploration(exploration float64) Option {
	return func(s *settings) {
		if exploration > 0 {
			s.exploration = exploration
		}
	}
}

// WithSeed fixes the random source used to break ties during rollouts.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// MCTS picks actions for the player to move by running a fixed number of
// simulations over a fresh tree. Each Search builds its own tree and drops it
// before returning.
type MCTS[S any, A comparable] struct {
	settings
	board game.Board[S, A]
	rng   *rand.Rand
}

type Result[A comparable] struct {
	Action     A
	Policy     map[A]float64 // Win rate of each root child
	Visits     map[A]int
	RootVisits int
	Metric     metrics.SearchMetric
}

func NewMCTS[S any, A comparable](board game.Board[S, A], options ...Option) *MCTS[S, A] {
	m := &MCTS[S, A]{ // Default values
		settings: settings{
			iterations:  meta.DEFAULT_ITERATIONS,
			exploration: meta.DEFAULT_EXPLORATION,
			seed:        uint64(time.Now().UnixNano()),
			metrics:     metrics.NewDummyCollector(),
		},
		board: board,
	}
	for _, option := range options {
		option(&m.settings)
	}
	m.rng = rand.New(rand.NewSource(m.seed))
	return m
}

// Decide returns the action to play in state.
func (m *MCTS[S, A]) Decide(state S) (A, error) {
	result, err := m.Search(state)
	return result.Action, err
}

func (m *MCTS[S, A]) Search(state S) (Result[A], error) {
	root, err := m.buildTree(state)
	if err != nil {
		return Result[A]{}, err
	}
	metric := m.metrics.Complete()

	action, err := bestAction(root)
	if err != nil {
		return Result[A]{}, err
	}
	log.Debug().Msgf("action chosen: %v (%d simulations)", action, root.visits)

	result := Result[A]{
		Action:     action,
		Policy:     make(map[A]float64, len(root.children)),
		Visits:     make(map[A]int, len(root.children)),
		RootVisits: root.visits,
		Metric:     metric,
	}
	for _, child := range root.children {
		result.Visits[child.action] = child.visits
		if child.visits > 0 {
			result.Policy[child.action] = child.winRate()
		}
	}
	return result, nil
}

func (m *MCTS[S, A]) buildTree(state S) (*node[A], error) {
	if m.board.IsEnded(state) {
		return nil, ErrTerminalState
	}

	bot := m.board.CurrentPlayer(state)
	var none A
	root := newNode[A](nil, none, m.board.LegalActions(state))

	m.metrics.Start(m.iterations, m.exploration)
	for i := 0; i < m.iterations; i++ {
		if err := m.simulate(root, state, bot); err != nil {
			return nil, fmt.Errorf("simulation %d: %w", i+1, err)
		}
		m.metrics.AddIteration()
	}
	return root, nil
}

func (m *MCTS[S, A]) simulate(root *node[A], state S, bot game.Player) error {
	leaf, leafState := m.selects(root, state, bot)
	leaf, leafState = m.expands(leaf, leafState)

	terminal, err := m.rollout(leafState)
	if err != nil {
		log.Error().Err(err).Msg("rollout failed")
		return err
	}

	backup(leaf, outcome(m.board, terminal, bot))
	return nil
}

// selects descends from n while it is fully expanded and not terminal.
func (m *MCTS[S, A]) selects(n *node[A], state S, bot game.Player) (*node[A], S) {
	for n.isFullyExpanded() && !m.board.IsEnded(state) {
		// Compare against the bot, not against the child's mover
		ownTurn := m.board.CurrentPlayer(state) == bot

		if len(n.children) == 0 {
			panic("non-terminal node has no children")
		}

		policy := newUCB(m.exploration, n.visits)
		best := n.children[0]
		bestScore := math.Inf(-1)
		for _, child := range n.children {
			// Unvisited children are taken before any UCB comparison
			if child.visits == 0 {
				return child, m.board.NextState(state, child.action)
			}

			if score := policy.evaluate(child.wins, child.visits, ownTurn); score > bestScore {
				bestScore = score
				best = child
			}
		}

		n = best
		state = m.board.NextState(state, best.action)
	}
	return n, state
}

// expands adds one child to n, or returns n unchanged if nothing is untried.
func (m *MCTS[S, A]) expands(n *node[A], state S) (*node[A], S) {
	if n.isFullyExpanded() {
		return n, state
	}

	var next S
	child := n.addChild(func(action A) []A {
		next = m.board.NextState(state, action)
		return m.board.LegalActions(next)
	})
	m.metrics.AddExpansion()
	return child, next
}

func outcome[S any, A comparable](board game.Board[S, A], state S, bot game.Player) float64 {
	points, ok := board.PointsValues(state)
	if !ok {
		panic("outcome requested for a non-terminal state")
	}
	return points[bot]
}

func backup[A comparable](n *node[A], value float64) {
	for n != nil {
		n = n.update(value)
	}
}

// bestAction returns the root child with the highest win rate, keeping the
// first one found on ties.
func bestAction[A comparable](root *node[A]) (A, error) {
	var action A
	found := false
	bestRate := math.Inf(-1)
	for _, child := range root.children {
		if child.visits == 0 {
			continue
		}
		if rate := child.winRate(); rate > bestRate {
			bestRate = rate
			action = child.action
			found = true
		}
	}
	if !found {
		return action, ErrNoDecision
	}
	return action, nil
}
