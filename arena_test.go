package uct

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/game/mnk"
	"github.com/gorgonia/uct/mcts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tttArena = Arena[*mnk.MNK, game.Single, game.Outcome, game.Colour]

var _ game.MetaState = &tttArena{}

func newTTTArena(conf Config) *tttArena {
	return NewArena[*mnk.MNK, game.Single, game.Outcome, game.Colour](mnk.TicTacToe(), conf)
}

type countingEncoder struct {
	frames  int
	boards  []string
	results []string
	fail    bool
}

func (e *countingEncoder) Encode(ms game.MetaState) error {
	if e.fail {
		return errors.New("boom")
	}
	e.frames++
	e.boards = append(e.boards, ms.Board())
	if ended, result := ms.Result(); ended {
		e.results = append(e.results, result)
	}
	return nil
}

func (e *countingEncoder) Flush() error { return nil }

func testConfig() Config {
	conf := DefaultConfig()
	conf.Name = "Tic Tac Toe"
	conf.A.Budget = 300
	conf.B.Budget = 300
	conf.Games = 4
	conf.Seed = 1337
	return conf
}

func TestConfig(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())

	conf := DefaultConfig()
	conf.B.Name = conf.A.Name
	assert.False(t, conf.IsValid(), "agents need distinct names")

	conf = DefaultConfig()
	conf.A.Budget = 0
	assert.False(t, conf.IsValid())

	assert.Panics(t, func() { newTTTArena(conf) })
}

func TestArena_Play(t *testing.T) {
	a := newTTTArena(testConfig())
	enc := new(countingEncoder)
	outcome, err := a.Play(enc)
	require.NoError(t, err)

	ended, result := a.Result()
	require.True(t, ended)
	assert.Equal(t, fmt.Sprintf("%v", outcome), result)
	assert.Equal(t, []string{result}, enc.results)
	assert.Equal(t, a.MoveNumber(), enc.frames)
	assert.Equal(t, a.Board(), enc.boards[len(enc.boards)-1])

	// A goes first in the first game
	assert.Equal(t, mnk.Cross, a.A.Player)
	assert.Equal(t, mnk.Nought, a.B.Player)

	// both trees followed the game
	assert.Equal(t, a.State().Board(), a.A.MCTS.State().Board())
	assert.Equal(t, a.State().Board(), a.B.MCTS.State().Board())

	replay := mnk.TicTacToe()
	for _, m := range a.Moves() {
		replay = replay.Apply(m)
	}
	assert.True(t, replay.Eq(a.State()))

	assert.Equal(t, float32(1), a.A.Wins+a.A.Loss+a.A.Draw)
	assert.Equal(t, a.A.Wins, a.B.Loss)
	assert.Equal(t, a.A.Draw, a.B.Draw)
	assert.Equal(t, []string{"A", "B"}, a.Creation)
}

func TestArena_Run(t *testing.T) {
	conf := testConfig()
	conf.B.Policy = mcts.UCB1(0.7)
	a := newTTTArena(conf)
	require.NoError(t, a.Run(nil))

	assert.Equal(t, float32(4), a.A.Wins+a.A.Loss+a.A.Draw)
	assert.Equal(t, float32(4), a.B.Wins+a.B.Loss+a.B.Draw)
	assert.Equal(t, a.A.Wins, a.B.Loss)
	assert.Equal(t, a.B.Wins, a.A.Loss)
	assert.Len(t, a.Wins["A"], 4)
	assert.Len(t, a.Draws["B"], 4)

	// the last game was game 3, so B went first
	assert.Equal(t, mnk.Nought, a.A.Player)
	assert.Equal(t, mnk.Cross, a.B.Player)

	var buf bytes.Buffer
	a.Log(&buf)
	assert.Contains(t, buf.String(), `"arena":"Tic Tac Toe"`)
	assert.Contains(t, buf.String(), "Done playing")
}

func TestArena_RandomStart(t *testing.T) {
	conf := testConfig()
	conf.RandomStart = true
	conf.Games = 2
	a := newTTTArena(conf)
	require.NoError(t, a.Run(nil))
	assert.Equal(t, float32(2), a.A.Wins+a.A.Loss+a.A.Draw)
}

func TestArena_Errors(t *testing.T) {
	a := newTTTArena(testConfig())
	_, err := a.Play(&countingEncoder{fail: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	ended := mnk.TicTacToe().Apply(0).Apply(3).Apply(1).Apply(4).Apply(2)
	b := NewArena[*mnk.MNK, game.Single, game.Outcome, game.Colour](ended, testConfig())
	_, err = b.Play(nil)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already ended"))
}
