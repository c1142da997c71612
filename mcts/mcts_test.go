package mcts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/uct/game"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nim is a pile of stones. Players take one or two stones in turn; whoever takes the last stone wins.
type nim struct {
	left int
	next game.Colour
}

func newNim(left int) nim { return nim{left: left, next: game.Black} }

func (g nim) ToMove() game.Colour { return g.next }

func (g nim) Outcome() (game.Outcome, bool) {
	if g.left > 0 {
		return game.Outcome{}, false
	}
	return game.Outcome{Winner: g.next.Opponent()}, true
}

func (g nim) LegalMoves() []int {
	var retVal []int
	for take := 1; take <= 2 && take <= g.left; take++ {
		retVal = append(retVal, take)
	}
	return retVal
}

func (g nim) Apply(take int) nim { return nim{left: g.left - take, next: g.next.Opponent()} }

// fork is a game of a single move. Every move ends the game in a draw.
type fork struct {
	moves  int
	played bool
}

func (g fork) ToMove() game.Colour { return game.Black }

func (g fork) Outcome() (game.Outcome, bool) { return game.Draw, g.played }

func (g fork) LegalMoves() []int {
	if g.played {
		return nil
	}
	retVal := make([]int, g.moves)
	for i := range retVal {
		retVal[i] = i
	}
	return retVal
}

func (g fork) Apply(m int) fork { return fork{moves: g.moves, played: true} }

// broken never ends, and has no moves.
type broken struct{}

func (broken) ToMove() game.Colour { return game.Black }

func (broken) Outcome() (game.Outcome, bool) { return game.Outcome{}, false }

func (broken) LegalMoves() []int { return nil }

func (broken) Apply(m int) broken { return broken{} }

type (
	nimTree  = MCTS[nim, int, game.Outcome, game.Colour]
	forkTree = MCTS[fork, int, game.Outcome, game.Colour]
)

func newNimTree(left int) *nimTree { return New[nim, int, game.Outcome, game.Colour](newNim(left)) }

func newForkTree(moves int) *forkTree {
	return New[fork, int, game.Outcome, game.Colour](fork{moves: moves})
}

// nodeStats is a flattened view of a node, used to compare trees.
type nodeStats struct {
	Depth  int
	Move   int
	Wins   float32
	Visits float32
}

func snapshot(t *nimTree) []nodeStats {
	var retVal []nodeStats
	var walk func(n *Node[nim, int, game.Outcome, game.Colour], depth int)
	walk = func(n *Node[nim, int, game.Outcome, game.Colour], depth int) {
		move, _ := n.Move()
		retVal = append(retVal, nodeStats{Depth: depth, Move: move, Wins: n.Wins(), Visits: n.Visits()})
		for _, kid := range n.Children() {
			walk(kid, depth+1)
		}
	}
	walk(t.Root(), 0)
	return retVal
}

func TestExpand(t *testing.T) {
	tree := newNimTree(5)
	tree.expand(tree.root)
	first := append([]naughty(nil), tree.children[tree.root]...)
	require.Len(t, first, 2)

	tree.expand(tree.root)
	assert.Equal(t, first, tree.children[tree.root], "expand must be idempotent")
	assert.Equal(t, 3, tree.Nodes())

	root := tree.State()
	for i, kid := range tree.Root().Children() {
		move, ok := kid.Move()
		require.True(t, ok)
		assert.Equal(t, i+1, move, "children are in move order")
		assert.Equal(t, root.Apply(move), kid.State())
		assert.Zero(t, kid.Wins())
		assert.Zero(t, kid.Visits())
		assert.False(t, kid.IsExpanded())
	}
}

func TestSelectChild(t *testing.T) {
	tree := newForkTree(3)
	tree.expand(tree.root)
	kids := tree.children[tree.root]

	t.Run("first unvisited", func(t *testing.T) {
		tree.nodeFromNaughty(kids[0]).visits = 1
		assert.Equal(t, kids[1], tree.selectChild(tree.root))
	})

	t.Run("ties go to the first child", func(t *testing.T) {
		for _, kid := range kids {
			n := tree.nodeFromNaughty(kid)
			n.visits, n.wins = 2, 1
		}
		tree.nodeFromNaughty(tree.root).visits = 6
		assert.Equal(t, kids[0], tree.selectChild(tree.root))
	})

	t.Run("highest score", func(t *testing.T) {
		tree.nodeFromNaughty(kids[2]).wins = 2
		assert.Equal(t, kids[2], tree.selectChild(tree.root))
	})

	t.Run("no children", func(t *testing.T) {
		assert.Panics(t, func() { tree.selectChild(kids[0]) })
	})
}

func TestBackpropagate(t *testing.T) {
	// Black takes one, White takes the last one and wins.
	tree := newNimTree(2)
	move, ok := tree.Search(1)
	require.True(t, ok)
	assert.Equal(t, 1, move)

	root := tree.Root()
	assert.Equal(t, float32(1), root.Visits())
	assert.Equal(t, float32(0), root.Wins(), "the root keeps the rewards of its own mover")

	takeOne := root.Children()[0]
	assert.Equal(t, float32(1), takeOne.Visits())
	assert.Equal(t, float32(0), takeOne.Wins(), "a child keeps the rewards of the player that moved into it")

	last := takeOne.Children()[0]
	assert.Equal(t, float32(1), last.Visits())
	assert.Equal(t, float32(1), last.Wins())

	assert.Zero(t, root.Children()[1].Visits())
}

func TestStatisticsInvariants(t *testing.T) {
	tree := newNimTree(7)
	tree.Search(500)

	root := tree.Root()
	assert.Equal(t, float32(500), root.Visits())
	assert.Equal(t, 1+root.countChildren(), tree.Nodes())

	var kidWins float32
	for _, kid := range root.Children() {
		kidWins += kid.Wins()
	}
	assert.Equal(t, root.Wins(), kidWins)

	var walk func(n *Node[nim, int, game.Outcome, game.Colour])
	walk = func(n *Node[nim, int, game.Outcome, game.Colour]) {
		kids := n.Children()
		if len(kids) > 0 {
			var visits, wins float32
			for _, kid := range kids {
				visits += kid.Visits()
				wins += kid.Wins()
				walk(kid)
			}
			// every pass through a node that has not ended carries on into exactly one child
			assert.Equal(t, n.Visits(), visits, "%v", n)
			if n != root {
				// nim has no draws, so what one player gains the other loses
				assert.Equal(t, n.Visits()-wins, n.Wins(), "%v", n)
			}
		}
		assert.True(t, n.Wins() <= n.Visits(), "%v", n)
	}
	walk(root)
}

func TestSearchIsCumulative(t *testing.T) {
	a := newNimTree(9)
	a.Search(120)
	a.Search(80)

	b := newNimTree(9)
	b.Search(200)

	if diff := cmp.Diff(snapshot(b), snapshot(a)); diff != "" {
		t.Errorf("Search(120)+Search(80) differs from Search(200) (-want +got):\n%s", diff)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	a := newNimTree(10)
	b := newNimTree(10)
	moveA, okA := a.Search(300)
	moveB, okB := b.Search(300)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, moveA, moveB)
	assert.Empty(t, cmp.Diff(snapshot(a), snapshot(b)))
}

func TestSearchNoDecision(t *testing.T) {
	tree := newNimTree(4)
	_, ok := tree.Search(0)
	assert.False(t, ok, "no iterations, no decision")
	assert.False(t, tree.Root().IsExpanded())

	ended := New[fork, int, game.Outcome, game.Colour](fork{moves: 2, played: true})
	_, ok = ended.Search(10)
	assert.False(t, ok, "the game has ended")
	assert.Equal(t, float32(10), ended.Root().Visits())
	assert.Equal(t, float32(5), ended.Root().Wins())
}

func TestMostVisitedTieBreak(t *testing.T) {
	tree := newForkTree(2)
	move, ok := tree.Search(4)
	require.True(t, ok)
	kids := tree.Root().Children()
	require.Equal(t, kids[0].Visits(), kids[1].Visits())
	assert.Equal(t, 0, move)
}

func TestSearchFindsWin(t *testing.T) {
	tree := newNimTree(2)
	move, ok := tree.Search(100)
	require.True(t, ok)
	assert.Equal(t, 2, move)
	assert.Equal(t, []int{2}, tree.PV())
}

func TestAdvanceRoot(t *testing.T) {
	t.Run("unexplored", func(t *testing.T) {
		tree := newNimTree(5)
		require.NoError(t, tree.AdvanceRoot(2))
		assert.Equal(t, nim{left: 3, next: game.White}, tree.State())
		assert.Equal(t, 1, tree.Nodes())
		move, ok := tree.Root().Move()
		assert.True(t, ok)
		assert.Equal(t, 2, move)
	})

	t.Run("illegal", func(t *testing.T) {
		tree := newNimTree(5)
		tree.Search(50)
		before := snapshot(tree)
		nodes := tree.Nodes()

		err := tree.AdvanceRoot(3)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIllegalMove))
		assert.Equal(t, ErrIllegalMove, errors.Cause(err))
		assert.Equal(t, newNim(5), tree.State())
		assert.Equal(t, nodes, tree.Nodes())
		assert.Empty(t, cmp.Diff(before, snapshot(tree)))
	})

	t.Run("explored", func(t *testing.T) {
		tree := newNimTree(8)
		tree.Search(300)
		prior := tree.State()
		child := tree.Root().Children()[0]
		visits, wins := child.Visits(), child.Wins()
		subtree := child.countChildren()

		require.NoError(t, tree.AdvanceRoot(1))
		assert.Equal(t, prior.Apply(1), tree.State())
		assert.Equal(t, visits, tree.Root().Visits())
		assert.Equal(t, wins, tree.Root().Wins())
		assert.Equal(t, 1+subtree, tree.Nodes(), "siblings are released")

		// freed slots are reused
		size := len(tree.nodes)
		tree.Search(1)
		assert.Equal(t, size, len(tree.nodes))
		for _, n := range tree.freelist {
			assert.False(t, tree.nodeFromNaughty(n).IsValid())
		}
	})

	t.Run("to the end", func(t *testing.T) {
		tree := newNimTree(3)
		for _, take := range []int{1, 1, 1} {
			require.NoError(t, tree.AdvanceRoot(take))
		}
		outcome, ended := tree.State().Outcome()
		require.True(t, ended)
		assert.Equal(t, game.Black, outcome.Winner)
		_, ok := tree.Search(5)
		assert.False(t, ok)
		assert.Error(t, tree.AdvanceRoot(1))
	})
}

func TestConfigure(t *testing.T) {
	var calls int
	counting := func(wins, visits, parentVisits float32) float32 {
		calls++
		return UCT(wins, visits, parentVisits)
	}

	t.Run("before search", func(t *testing.T) {
		calls = 0
		a := newNimTree(9)
		a.Configure(counting)
		a.Search(200)
		assert.NotZero(t, calls)

		b := newNimTree(9)
		b.Search(200)
		assert.Empty(t, cmp.Diff(snapshot(b), snapshot(a)), "a policy that scores like UCT searches like UCT")
	})

	t.Run("children keep their policy", func(t *testing.T) {
		tree := newNimTree(9)
		tree.Search(50)
		calls = 0
		tree.Configure(counting)
		tree.Search(50)
		// only the root uses the new policy, and it has two children
		assert.Equal(t, 100, calls)
	})

	t.Run("nil", func(t *testing.T) {
		tree := newNimTree(9)
		tree.Configure(Greedy)
		tree.Configure(nil)
		assert.NotPanics(t, func() { tree.Search(50) })
	})
}

func TestContractViolation(t *testing.T) {
	tree := New[broken, int, game.Outcome, game.Colour](broken{})
	assert.Panics(t, func() { tree.Search(1) })
}

func TestNewWithConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewWithConfig[nim, int, game.Outcome, game.Colour](newNim(3), Config{})
	})

	conf := DefaultConfig()
	conf.Policy = UCB1(0.5)
	conf.Capacity = 2
	tree := NewWithConfig[nim, int, game.Outcome, game.Colour](newNim(6), conf)
	_, ok := tree.Search(100)
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	tree := newNimTree(6)
	tree.Search(100)
	tree.Reset(newNim(4))
	assert.Equal(t, 1, tree.Nodes())
	assert.Equal(t, newNim(4), tree.State())
	assert.Zero(t, tree.Root().Visits())

	fresh := newNimTree(4)
	fresh.Search(60)
	tree.Search(60)
	assert.Empty(t, cmp.Diff(snapshot(fresh), snapshot(tree)))
}

func TestResetKeepsPolicy(t *testing.T) {
	var calls int
	counting := func(wins, visits, parentVisits float32) float32 {
		calls++
		return UCT(wins, visits, parentVisits)
	}

	tree := newNimTree(6)
	tree.Configure(counting)
	tree.Search(30)
	tree.Reset(newNim(5))
	calls = 0
	tree.Search(30)
	assert.NotZero(t, calls, "the configured policy survives a reset")

	tree.Reset(newNim(5))
	tree.Reset(newNim(5))
	calls = 0
	tree.Search(30)
	assert.NotZero(t, calls)
}

func TestPolicies(t *testing.T) {
	assert.InDelta(t, 0.5+1.4142135*1.0481471, UCT(1, 2, 9), 1e-5)
	assert.InDelta(t, UCT(3, 4, 20), UCB1(sqrt2)(3, 4, 20), 1e-6)
	assert.Equal(t, float32(0.75), Greedy(3, 4, 20))
}

func TestDistribution(t *testing.T) {
	tree := newNimTree(6)
	assert.Empty(t, tree.Distribution())

	tree.Search(90)
	dist := tree.Distribution()
	require.Len(t, dist, 2)
	var sum float32
	for _, d := range dist {
		sum += d
	}
	assert.InDelta(t, 1, sum, 1e-5)
	kids := tree.Root().Children()
	assert.InDelta(t, kids[0].Visits()/90, dist[0], 1e-5)
}

func TestFormat(t *testing.T) {
	tree := newNimTree(3)
	tree.Search(1)
	s := fmt.Sprintf("%v", tree.Root())
	assert.Equal(t, "{NodeID: 0 Move: none Wins: 1 Visits: 1 Status: Active}", s)

	s = fmt.Sprintf("%+v", tree.Root().Children()[0])
	assert.True(t, strings.HasPrefix(s, "{NodeID: 1 Move: 1 "), s)
	assert.Contains(t, s, "\n{2 ")
}

func TestToDot(t *testing.T) {
	tree := newNimTree(3)
	tree.Search(10)
	var dot string
	require.NotPanics(t, func() { dot = tree.ToDot() })
	assert.Contains(t, dot, "digraph G")
	assert.Contains(t, dot, "Visits")
	assert.Contains(t, dot, "0->1")
}
