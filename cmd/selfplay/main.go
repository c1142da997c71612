// Command selfplay plays games between two tree search agents and reports how they fared.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorgonia/uct"
	"github.com/gorgonia/uct/encoding/gif"
	"github.com/gorgonia/uct/encoding/mjpeg"
	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/game/c4"
	"github.com/gorgonia/uct/game/mnk"
	"github.com/gorgonia/uct/mcts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "net/http/pprof"
)

var (
	gameName = flag.String("game", "ttt", "game to play: ttt, mnk or c4")
	m        = flag.Int("m", 4, "rows of the mnk board")
	n        = flag.Int("n", 4, "columns of the mnk board")
	k        = flag.Int("k", 3, "stones in a row to win an mnk game")
	games    = flag.Int("games", 10, "number of games to play")
	budgetA  = flag.Int("budgetA", 1000, "search iterations per move of agent A")
	budgetB  = flag.Int("budgetB", 1000, "search iterations per move of agent B")
	cA       = flag.Float64("cA", 0, "exploration constant of agent A. 0 means UCT")
	cB       = flag.Float64("cB", 0, "exploration constant of agent B. 0 means UCT")
	random   = flag.Bool("random", false, "pick the first mover of every game at random")
	seed     = flag.Int64("seed", 0, "seed for picking the first mover. 0 seeds from the clock")

	statsFile = flag.String("stats", "", "write the win rates after every game to this CSV file")
	gifFile   = flag.String("gif", "", "record the games as an animated GIF in this file")
	httpAddr  = flag.String("http", "", "serve the games as MJPEG on /mjpeg and as a websocket feed on /ws at this address. e.g. :8080")
	dotFile   = flag.String("dot", "", "write agent A's last search tree in Graphviz DOT to this file")
	dumpLog   = flag.Bool("log", false, "dump the arena log to stderr when done")
	level     = flag.String("level", "info", "log level")
)

type options struct {
	gif     *gif.Encoder
	encoder uct.OutputEncoder
}

func policy(c float64) mcts.Policy {
	if c == 0 {
		return nil
	}
	return mcts.UCB1(float32(c))
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to parse log level")
	}
	zerolog.SetGlobalLevel(lvl)

	conf := uct.DefaultConfig()
	conf.Games = *games
	conf.A.Budget = *budgetA
	conf.A.Policy = policy(*cA)
	conf.B.Budget = *budgetB
	conf.B.Policy = policy(*cB)
	conf.RandomStart = *random
	conf.Seed = *seed

	var opts options
	var encs encoders
	if *gifFile != "" {
		opts.gif = gif.NewGifEncoder(600, 800)
		encs = append(encs, opts.gif)
	}
	if *httpAddr != "" {
		stream := mjpeg.NewEncoder(600, 800)
		defer stream.Close()
		ws := NewEncoder(64)
		encs = append(encs, stream, ws)

		mux := http.NewServeMux()
		mux.Handle("/mjpeg", stream)
		mux.Handle("/ws", ws)
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
		go func() {
			log.Info().Str("addr", *httpAddr).Msg("Serving")
			if err := http.ListenAndServe(*httpAddr, mux); err != nil {
				log.Error().Err(err).Msg("Stopped serving")
			}
		}()
	}
	if len(encs) > 0 {
		opts.encoder = encs
	}

	switch *gameName {
	case "ttt":
		conf.Name = "Tic Tac Toe"
		err = run[*mnk.MNK, game.Single, game.Outcome, game.Colour](mnk.TicTacToe(), conf, opts)
	case "mnk":
		conf.Name = fmt.Sprintf("%d,%d,%d game", *m, *n, *k)
		err = run[*mnk.MNK, game.Single, game.Outcome, game.Colour](mnk.New(*m, *n, *k), conf, opts)
	case "c4":
		conf.Name = "Connect Four"
		err = run[*c4.Game, game.Single, game.Outcome, game.Colour](c4.Standard(), conf, opts)
	default:
		err = errors.Errorf("Unknown game %q", *gameName)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Self play failed")
	}
}

func run[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](g S, conf uct.Config, opts options) (err error) {
	if !conf.IsValid() {
		return errors.Errorf("Invalid configuration %+v", conf)
	}
	arena := uct.NewArena[S, M, O, P](g, conf)
	if err = arena.Run(opts.encoder); err != nil {
		return err
	}

	fmt.Printf("%v after %d games\n", conf.Name, conf.Games)
	fmt.Printf("%v: wins %v, losses %v, draws %v\n", arena.A.Name(), arena.A.Wins, arena.A.Loss, arena.A.Draw)
	fmt.Printf("%v: wins %v, losses %v, draws %v\n", arena.B.Name(), arena.B.Wins, arena.B.Loss, arena.B.Draw)

	if *dumpLog {
		arena.Log(os.Stderr)
	}
	if *statsFile != "" {
		if err = arena.Dump(*statsFile); err != nil {
			return err
		}
	}
	if opts.gif != nil {
		f, err := os.Create(*gifFile)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		opts.gif.Writer = f
	}
	if opts.encoder != nil {
		if err = opts.encoder.Flush(); err != nil {
			return err
		}
	}
	if *dotFile != "" {
		if err = os.WriteFile(*dotFile, []byte(arena.A.MCTS.ToDot()), 0644); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
