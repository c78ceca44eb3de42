package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"mctsbot/experiments/metrics"
	"mctsbot/game"
	"mctsbot/meta"
	"mctsbot/searcher/agent"

	"github.com/rs/zerolog/log"
)

var ErrIllegalMove = errors.New("agent returned an illegal move")

// LocalEngine runs a game between two agents in-process. The first agent plays
// as player 1 and the second as player 2.
type LocalEngine[S any, A comparable] struct {
	Board    game.Board[S, A]
	State    S
	Agents   []agent.Agent[S, A]
	MaxTurns int
}

var _ Engine = (*LocalEngine[game.State, game.Action])(nil)

func NewLocalEngine[S any, A comparable](board game.Board[S, A], state S, agents ...agent.Agent[S, A]) *LocalEngine[S, A] {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	return &LocalEngine[S, A]{
		Board:    board,
		State:    state,
		Agents:   agents,
		MaxTurns: meta.MAX_TURNS,
	}
}

// Run executes the game loop until the game ends or MaxTurns moves were played.
func (e *LocalEngine[S, A]) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingAgent: e.agentFor(e.Board.CurrentPlayer(e.State)).Name(),
		StartTime:     time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting", gameMetric.StartingAgent)

	turn := 1
	for !e.Board.IsEnded(e.State) && turn <= e.MaxTurns {
		player := e.Board.CurrentPlayer(e.State)
		current := e.agentFor(player)

		move, searchMetric, err := current.FindMove(e.State)
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("turn %d: %s failed to find a move: %w", turn, current.Name(), err)
		}
		if !slices.Contains(e.Board.LegalActions(e.State), move) {
			return "", gameMetric, moveMetrics, fmt.Errorf("turn %d: %s played %v: %w", turn, current.Name(), move, ErrIllegalMove)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       int(player),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("turn %d: %s (player %d) played %v", turn, current.Name(), player, move)

		e.State = e.Board.NextState(e.State, move)
		turn++
	}

	winner := e.winner()
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if !e.Board.IsEnded(e.State) {
		log.Warn().Msgf("stopped after %d turns without a result", e.MaxTurns)
	}
	return winner, gameMetric, moveMetrics, nil
}

func (e *LocalEngine[S, A]) agentFor(player game.Player) agent.Agent[S, A] {
	index := int(player) - 1
	if index < 0 || index >= len(e.Agents) {
		panic(fmt.Sprintf("no agent seated as player %d", player))
	}
	return e.Agents[index]
}

// winner returns the name of the winning agent, "" for a draw or an
// unfinished game.
func (e *LocalEngine[S, A]) winner() string {
	points, ok := e.Board.PointsValues(e.State)
	if !ok {
		return ""
	}
	for i, a := range e.Agents {
		if points[game.Player(i+1)] > 0 {
			return a.Name()
		}
	}
	return ""
}
