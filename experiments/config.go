package experiments

import (
	"fmt"
	"strings"

	"mctsbot/experiments/metrics"
	"mctsbot/meta"

	"github.com/spf13/viper"
)

const (
	KindMCTS   = "mcts"
	KindRandom = "random"
)

type Config struct {
	Name       string                `mapstructure:"name"`
	Output     string                `mapstructure:"output"`
	Games      int                   `mapstructure:"games"` // Per matchup
	Agents     []metrics.AgentConfig `mapstructure:"agents"`
	Matchups   [][]int               `mapstructure:"matchups"` // Pairs of agent IDs
	Prometheus bool                  `mapstructure:"prometheus"`
}

// LoadConfig reads an experiment file (any format viper supports). Scalar
// settings can be overridden with MCTSBOT_ environment variables, e.g.
// MCTSBOT_GAMES=4.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("MCTSBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("name", "experiment")
	v.SetDefault("output", "experiments")
	v.SetDefault("games", meta.DEFAULT_GAMES)

	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read experiment config: %w", err)
	}

	var cfg Config
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode experiment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Games <= 0 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if len(c.Matchups) == 0 {
		return fmt.Errorf("no matchups configured")
	}

	ids := make(map[int]bool, len(c.Agents))
	for _, a := range c.Agents {
		if ids[a.ID] {
			return fmt.Errorf("duplicate agent id %d", a.ID)
		}
		ids[a.ID] = true
		if a.Kind != KindMCTS && a.Kind != KindRandom {
			return fmt.Errorf("agent %d: unknown kind %q", a.ID, a.Kind)
		}
	}

	for i, matchup := range c.Matchups {
		if len(matchup) != 2 {
			return fmt.Errorf("matchup %d: expected 2 agent ids, got %d", i+1, len(matchup))
		}
		for _, id := range matchup {
			if !ids[id] {
				return fmt.Errorf("matchup %d: unknown agent id %d", i+1, id)
			}
		}
	}
	return nil
}

func (c *Config) agent(id int) metrics.AgentConfig {
	for _, a := range c.Agents {
		if a.ID == id {
			return a
		}
	}
	panic(fmt.Sprintf("unknown agent id %d", id))
}
