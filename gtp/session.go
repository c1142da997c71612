package gtp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gorgonia/uct/game"
	"github.com/gorgonia/uct/mcts"
	"github.com/pkg/errors"
)

// Session is a game in progress as the engine sees it. Moves and players are text.
type Session interface {
	Clear()
	Show() string
	Play(player, vertex string) error
	Genmove(player string) (vertex string, err error)
	Undo() error
	Tree() string   // the search tree in Graphviz DOT
	Visits() string // how the root's visits are split among its children
}

// Notation converts between moves and their text.
type Notation[M any] interface {
	Format(m M) string
	Parse(a string) (M, error)
}

// binding is a Session over a search tree.
type binding[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]] struct {
	t        *mcts.MCTS[S, M, O, P]
	start    S
	history  []M
	notation Notation[M]
	budget   int
}

// Bind makes a Session of the tree. Every genmove searches for budget iterations. clear_board goes back to the tree's current state.
func Bind[S game.State[S, M, O, P], M comparable, O comparable, P game.Player[O]](t *mcts.MCTS[S, M, O, P], notation Notation[M], budget int) Session {
	return &binding[S, M, O, P]{
		t:        t,
		start:    t.State(),
		notation: notation,
		budget:   budget,
	}
}

func (b *binding[S, M, O, P]) Clear() {
	b.t.Reset(b.start)
	b.history = b.history[:0]
}

func (b *binding[S, M, O, P]) Show() string {
	state := b.t.State()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%v", state)
	if outcome, ended := state.Outcome(); ended {
		fmt.Fprintf(&buf, "\n%v", outcome)
	} else {
		fmt.Fprintf(&buf, "\n%v to move", state.ToMove())
	}
	return buf.String()
}

func (b *binding[S, M, O, P]) Play(player, vertex string) error {
	if err := b.checkPlayer(player); err != nil {
		return err
	}
	m, err := b.notation.Parse(vertex)
	if err != nil {
		return errors.WithMessage(err, "illegal move")
	}
	return b.advance(m)
}

func (b *binding[S, M, O, P]) Genmove(player string) (string, error) {
	if err := b.checkPlayer(player); err != nil {
		return "", err
	}
	if _, ended := b.t.State().Outcome(); ended {
		return "", errors.New("The game has ended")
	}
	m, ok := b.t.Search(b.budget)
	if !ok {
		return "", errors.New("No move found")
	}
	if err := b.advance(m); err != nil {
		return "", err
	}
	return b.notation.Format(m), nil
}

func (b *binding[S, M, O, P]) Undo() error {
	if len(b.history) == 0 {
		return errors.New("cannot undo")
	}
	history := b.history[:len(b.history)-1]
	b.t.Reset(b.start)
	for _, m := range history {
		if err := b.t.AdvanceRoot(m); err != nil {
			return errors.Wrapf(err, "Unable to replay %v", b.notation.Format(m))
		}
	}
	b.history = history
	return nil
}

func (b *binding[S, M, O, P]) Tree() string { return b.t.ToDot() }

func (b *binding[S, M, O, P]) Visits() string {
	var buf bytes.Buffer
	for _, kid := range b.t.Root().Children() {
		m, _ := kid.Move()
		fmt.Fprintf(&buf, "%v %v %v\n", b.notation.Format(m), kid.Visits(), kid.Wins())
	}
	return buf.String()
}

func (b *binding[S, M, O, P]) advance(m M) error {
	if err := b.t.AdvanceRoot(m); err != nil {
		return errors.WithMessage(err, "illegal move")
	}
	b.history = append(b.history, m)
	return nil
}

// checkPlayer checks that the named player is the one to move. "b" names "Black", as does "black".
func (b *binding[S, M, O, P]) checkPlayer(player string) error {
	toMove := strings.ToLower(fmt.Sprintf("%v", b.t.State().ToMove()))
	if player == "" || !strings.HasPrefix(toMove, strings.ToLower(player)) {
		return errors.Errorf("It is not %v's turn. %v to move", player, toMove)
	}
	return nil
}
