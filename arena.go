package uct

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Arena plays games between two agents. Both agents see every move, so each keeps the part of its tree that is still relevant.
type Arena[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]] struct {
	r     *rand.Rand
	start S
	game  S
	moves []M
	A, B  *Agent[S, M, O, P]
	Statistics

	// state
	currentPlayer *Agent[S, M, O, P]
	buf           bytes.Buffer
	logger        zerolog.Logger

	name        string
	games       int
	gameNumber  int // which game is this in
	randomStart bool
}

// NewArena makes an arena where every game starts from g. It panics if the config is not valid.
func NewArena[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](g S, conf Config) *Arena[S, M, O, P] {
	if !conf.IsValid() {
		panic("Arena Config is not valid. Unable to proceed")
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	name := conf.Name
	if name == "" {
		name = "UNKNOWN GAME"
	}

	retVal := &Arena[S, M, O, P]{
		r:           rand.New(rand.NewSource(seed)),
		start:       g,
		game:        g,
		A:           newAgent[S, M, O, P](g, conf.A),
		B:           newAgent[S, M, O, P](g, conf.B),
		Statistics:  makeStatistics(),
		name:        name,
		games:       conf.Games,
		randomStart: conf.RandomStart,
	}
	retVal.logger = zerolog.New(&retVal.buf).With().Timestamp().Str("arena", name).Logger()
	return retVal
}

// Play plays a game from the starting position and returns the outcome. enc may be nil.
// After every move the meta state is encoded by enc.
func (a *Arena[S, M, O, P]) Play(enc OutputEncoder) (outcome O, err error) {
	a.game = a.start
	a.moves = a.moves[:0]
	a.A.reset(a.start)
	a.B.reset(a.start)
	if _, ended := a.game.Outcome(); ended {
		return outcome, errors.New("Cannot play a game that has already ended")
	}

	first := a.gameNumber%2 == 0
	if a.randomStart {
		first = a.r.Intn(2) == 0
	}
	if first {
		a.currentPlayer = a.A
	} else {
		a.currentPlayer = a.B
	}
	a.logger.Info().Int("game", a.gameNumber).Str("first", a.currentPlayer.Name()).Msg("Playing")

	var ended bool
	for outcome, ended = a.game.Outcome(); !ended; outcome, ended = a.game.Outcome() {
		best, ok := a.currentPlayer.Search()
		if !ok {
			return outcome, errors.Errorf("%v found no move in a game that has not ended. Move %d", a.currentPlayer.Name(), len(a.moves))
		}
		a.logger.Debug().
			Str("agent", a.currentPlayer.Name()).
			Str("player", fmt.Sprintf("%v", a.currentPlayer.Player)).
			Str("move", fmt.Sprintf("%v", best)).
			Float32("visits", a.currentPlayer.MCTS.Root().Visits()).
			Msg("Best move")

		if err = a.A.Observe(best); err != nil {
			return outcome, errors.WithMessagef(err, "%v observing move %d", a.A.Name(), len(a.moves))
		}
		if err = a.B.Observe(best); err != nil {
			return outcome, errors.WithMessagef(err, "%v observing move %d", a.B.Name(), len(a.moves))
		}
		a.game = a.A.MCTS.State()
		a.moves = append(a.moves, best)
		a.switchPlayer()
		if enc != nil {
			if err = enc.Encode(a); err != nil {
				return outcome, errors.WithMessage(err, "Unable to encode")
			}
		}
	}

	rewardA, rewardB := a.rewards(outcome)
	a.A.score(rewardA)
	a.B.score(rewardB)
	a.record(a.A.Name(), a.A.Wins, a.A.Loss, a.A.Draw)
	a.record(a.B.Name(), a.B.Wins, a.B.Loss, a.B.Draw)
	a.logger.Info().Int("game", a.gameNumber).Int("moves", len(a.moves)).Str("outcome", fmt.Sprintf("%v", outcome)).Msg("Done playing")
	log.Info().Str("arena", a.name).Int("game", a.gameNumber).Str("outcome", fmt.Sprintf("%v", outcome)).
		Float32("A", rewardA).Float32("B", rewardB).Msg("Game over")
	return outcome, nil
}

// Run plays the configured number of games.
func (a *Arena[S, M, O, P]) Run(enc OutputEncoder) error {
	a.A.resetStats()
	a.B.resetStats()
	for a.gameNumber = 0; a.gameNumber < a.games; a.gameNumber++ {
		if _, err := a.Play(enc); err != nil {
			return errors.WithMessagef(err, "game %d", a.gameNumber)
		}
	}
	log.Info().Str("arena", a.name).
		Float32("A wins", a.A.Wins).Float32("A losses", a.A.Loss).Float32("A draws", a.A.Draw).
		Float32("B wins", a.B.Wins).Float32("B losses", a.B.Loss).Float32("B draws", a.B.Draw).
		Msg("Arena done")
	return nil
}

// rewards works out what each agent got out of the game. An agent that never moved gets what its opponent did not.
func (a *Arena[S, M, O, P]) rewards(outcome O) (rewardA, rewardB float32) {
	switch {
	case a.A.moved && a.B.moved:
		return a.A.Player.RewardFor(outcome), a.B.Player.RewardFor(outcome)
	case a.A.moved:
		rewardA = a.A.Player.RewardFor(outcome)
		return rewardA, 1 - rewardA
	default:
		rewardB = a.B.Player.RewardFor(outcome)
		return 1 - rewardB, rewardB
	}
}

func (a *Arena[S, M, O, P]) switchPlayer() {
	switch a.currentPlayer {
	case a.A:
		a.currentPlayer = a.B
	case a.B:
		a.currentPlayer = a.A
	}
}

func (a *Arena[S, M, O, P]) GameNumber() int { return a.gameNumber }
func (a *Arena[S, M, O, P]) Name() string    { return a.name }
func (a *Arena[S, M, O, P]) MoveNumber() int { return len(a.moves) }
func (a *Arena[S, M, O, P]) State() S        { return a.game }

// Moves returns the moves played so far in the current game.
func (a *Arena[S, M, O, P]) Moves() []M { return a.moves }

// Board renders the current position.
func (a *Arena[S, M, O, P]) Board() string { return fmt.Sprintf("%v", a.game) }

// Result returns whether the current game has ended, and if so, its outcome as text.
func (a *Arena[S, M, O, P]) Result() (bool, string) {
	outcome, ended := a.game.Outcome()
	if !ended {
		return false, ""
	}
	return true, fmt.Sprintf("%v", outcome)
}

// Log writes the arena's log, followed by the trace logs of both trees.
func (a *Arena[S, M, O, P]) Log(w io.Writer) {
	fmt.Fprint(w, a.buf.String())
	fmt.Fprintf(w, "\n%v:\n", a.A.Name())
	fmt.Fprintln(w, a.A.MCTS.Log())
	fmt.Fprintf(w, "\n%v:\n", a.B.Name())
	fmt.Fprintln(w, a.B.MCTS.Log())
}
