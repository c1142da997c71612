// Command gtp plays a game over a GTP-style text protocol on stdin and stdout.
package main

import (
	"flag"
	"os"

	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/game/c4"
	"github.com/gorgonia/uct/game/mnk"
	"github.com/gorgonia/uct/gtp"
	"github.com/gorgonia/uct/mcts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "0.1"

var (
	gameName = flag.String("game", "ttt", "game to play: ttt, mnk or c4")
	m        = flag.Int("m", 4, "rows of the mnk board")
	n        = flag.Int("n", 4, "columns of the mnk board")
	k        = flag.Int("k", 3, "stones in a row to win an mnk game")
	budget   = flag.Int("budget", 1000, "search iterations per generated move")
	c        = flag.Float64("c", 0, "exploration constant. 0 means UCT")
	level    = flag.String("level", "warn", "log level. Logs go to stderr")
)

func config() mcts.Config {
	conf := mcts.DefaultConfig()
	if *c != 0 {
		conf.Policy = mcts.UCB1(float32(*c))
	}
	return conf
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to parse log level")
	}
	zerolog.SetGlobalLevel(lvl)

	var s gtp.Session
	switch *gameName {
	case "ttt", "mnk":
		g := mnk.TicTacToe()
		if *gameName == "mnk" {
			g = mnk.New(*m, *n, *k)
		}
		t := mcts.NewWithConfig[*mnk.MNK, game.Single, game.Outcome, game.Colour](g, config())
		s = gtp.Bind[*mnk.MNK, game.Single, game.Outcome, game.Colour](t, g.Notation(), *budget)
	case "c4":
		g := c4.Standard()
		t := mcts.NewWithConfig[*c4.Game, game.Single, game.Outcome, game.Colour](g, config())
		s = gtp.Bind[*c4.Game, game.Single, game.Outcome, game.Colour](t, g.Notation(), *budget)
	default:
		log.Fatal().Str("game", *gameName).Msg("Unknown game")
	}

	e := gtp.New(s, "uct", version, nil)
	if err := e.Serve(os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Engine stopped")
	}
}
