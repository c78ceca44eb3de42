package experiments

import (
	"fmt"
	"path/filepath"

	"mctsbot/engine"
	"mctsbot/experiments/metrics"
	"mctsbot/game"
	"mctsbot/searcher"
	"mctsbot/searcher/agent"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Results struct {
	Dir   string // Directory holding the CSV records
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Run plays every matchup cfg.Games times, alternating which agent starts, and
// stores agent configs, game records and move records under
// <output>/<name>/<run id>. With cfg.Prometheus set, search metrics are
// registered on reg; a nil reg leaves them unregistered.
func Run(cfg Config, reg prometheus.Registerer) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var exporter *metrics.PrometheusCollector
	if cfg.Prometheus {
		exporter = metrics.NewPrometheusCollector(reg)
	}

	runID := uuid.NewString()
	results := &Results{}

	log.Info().Msgf("starting %s experiment (run %s)...", cfg.Name, runID)

	for mi, matchup := range cfg.Matchups {
		config1 := cfg.agent(matchup[0])
		config2 := cfg.agent(matchup[1])

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(cfg.Matchups), config1, config2)

		for i := 0; i < cfg.Games; i++ {
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}

			gameID := uuid.NewString()
			winner, gameMetric, moveMetrics, err := runGame(first, second, uint64(i), exporter)
			if err != nil {
				return nil, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			results.Games = append(results.Games, metrics.GameRecord{
				ID:         gameID,
				Matchup:    mi + 1,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				results.Moves = append(results.Moves, metrics.MoveRecord{
					Game:       gameID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(cfg.Matchups), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	writer, err := metrics.NewWriter(filepath.Join(cfg.Output, cfg.Name, runID))
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	results.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return nil, err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(results.Games); err != nil {
		return nil, err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return nil, err
	}
	log.Info().Msg("stored move records")

	return results, nil
}

// runGame plays one Ultimate Tic-Tac-Toe game with config1 seated as player 1.
// round offsets configured seeds so repeated games differ.
func runGame(config1, config2 metrics.AgentConfig, round uint64, exporter *metrics.PrometheusCollector) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	board := game.NewUltimateBoard()
	e := engine.NewLocalEngine[game.State, game.Action](board, game.NewState(),
		createAgent(board, config1, round, exporter),
		createAgent(board, config2, round, exporter))
	return e.Run()
}

func createAgent(board game.UltimateBoard, config metrics.AgentConfig, round uint64, exporter *metrics.PrometheusCollector) agent.Agent[game.State, game.Action] {
	name := fmt.Sprintf("%s-%d", config.Kind, config.ID)
	seed := config.Seed
	if seed != 0 {
		seed += round
	} else {
		seed = rand.Uint64()
	}

	if config.Kind == KindRandom {
		return agent.NewRandomAgent[game.State, game.Action](name, board, seed)
	}

	options := []searcher.Option{searcher.WithSeed(seed)}
	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	if exporter != nil {
		options = append(options, searcher.WithMetrics(exporter.ForAgent(name)))
	} else {
		options = append(options, searcher.WithMetrics(metrics.NewCollector()))
	}
	return agent.NewMCTSAgent(name, searcher.NewMCTS[game.State, game.Action](board, options...))
}
