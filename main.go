package main

import (
	"fmt"
	"os"
	"time"

	"mctsbot/engine"
	"mctsbot/experiments"
	"mctsbot/experiments/metrics"
	"mctsbot/game"
	"mctsbot/meta"
	"mctsbot/searcher"
	"mctsbot/searcher/agent"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "mctsbot",
		Short:        "Monte Carlo Tree Search player for Ultimate Tic-Tac-Toe",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newPlayCommand(), newExperimentCommand())
	return root
}

func setupLogging(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func newPlayCommand() *cobra.Command {
	var (
		iterations         int
		exploration        float64
		opponent           string
		opponentIterations int
		seed               uint64
		second             bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game between the MCTS bot and an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}

			board := game.NewUltimateBoard()
			bot := agent.NewMCTSAgent("bot", searcher.NewMCTS[game.State, game.Action](board,
				searcher.WithIterations(iterations),
				searcher.WithExploration(exploration),
				searcher.WithSeed(seed),
				searcher.WithMetrics(metrics.NewCollector())))

			var other agent.Agent[game.State, game.Action]
			switch opponent {
			case experiments.KindRandom:
				other = agent.NewRandomAgent[game.State, game.Action]("random", board, seed+1)
			case experiments.KindMCTS:
				other = agent.NewMCTSAgent("opponent", searcher.NewMCTS[game.State, game.Action](board,
					searcher.WithIterations(opponentIterations),
					searcher.WithExploration(exploration),
					searcher.WithSeed(seed+1)))
			default:
				return fmt.Errorf("unknown opponent %q", opponent)
			}

			agents := []agent.Agent[game.State, game.Action]{bot, other}
			if second {
				agents[0], agents[1] = other, bot
			}

			e := engine.NewLocalEngine[game.State, game.Action](board, game.NewState(), agents...)
			winner, gameMetric, _, err := e.Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, e.State.String())
			if winner == "" {
				winner = "draw"
			}
			fmt.Fprintf(out, "winner: %s after %d moves (%s)\n", winner, gameMetric.TotalMoves, gameMetric.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", meta.DEFAULT_ITERATIONS, "Simulations per move for the bot")
	cmd.Flags().Float64Var(&exploration, "exploration", meta.DEFAULT_EXPLORATION, "UCB exploration constant")
	cmd.Flags().StringVar(&opponent, "opponent", experiments.KindRandom, "Opponent kind (mcts or random)")
	cmd.Flags().IntVar(&opponentIterations, "opponent-iterations", meta.DEFAULT_ITERATIONS, "Simulations per move for an mcts opponent")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&second, "second", false, "Let the opponent move first")
	return cmd
}

func newExperimentCommand() *cobra.Command {
	var (
		configPath string
		metricsOut string
	)

	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run the matchups of an experiment config and store CSV records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := experiments.LoadConfig(configPath)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			results, err := experiments.Run(*cfg, reg)
			if err != nil {
				return err
			}

			if metricsOut != "" {
				if err := prometheus.WriteToTextfile(metricsOut, reg); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored %d games in %s\n", len(results.Games), results.Dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Experiment config file")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this file")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
