package uct

import (
	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/mcts"
)

// Config configures an Arena.
type Config struct {
	Name  string
	A, B  AgentConfig
	Games int // number of games Run plays

	// Seed seeds the choice of first mover when RandomStart is set. 0 means seed from the clock.
	Seed        int64
	RandomStart bool // pick the first mover at random. Otherwise the agents take turns going first.
}

// AgentConfig configures one side of an Arena.
type AgentConfig struct {
	Name   string
	Budget int         // search iterations per move
	Policy mcts.Policy // nil means UCT
}

func DefaultConfig() Config {
	return Config{
		Name:  "UNKNOWN GAME",
		A:     AgentConfig{Name: "A", Budget: 1000},
		B:     AgentConfig{Name: "B", Budget: 1000},
		Games: 10,
	}
}

func (c Config) IsValid() bool {
	return c.A.IsValid() && c.B.IsValid() && c.A.Name != c.B.Name && c.Games >= 0
}

func (c AgentConfig) IsValid() bool { return c.Name != "" && c.Budget > 0 }

func (c AgentConfig) mctsConfig() mcts.Config {
	conf := mcts.DefaultConfig()
	if c.Policy != nil {
		conf.Policy = c.Policy
	}
	return conf
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}
