package searcher

import (
	"testing"

	"mctsbot/experiments/metrics"
	"mctsbot/game"

	"github.com/stretchr/testify/require"
)

// visited builds a fully expanded node with scripted child statistics.
func visited(parent *node[string], action string, wins float64, visits int) *node[string] {
	n := newNode(parent, action, nil)
	n.wins = wins
	n.visits = visits
	if parent != nil {
		parent.children = append(parent.children, n)
		parent.visits += visits
	}
	return n
}

func twoMoveBoard() *mockBoard {
	board := newMockBoard()
	board.actions[""] = []string{"a", "b"}
	board.actions["a"] = []string{"c"}
	board.actions["b"] = []string{"c"}
	return board
}

func TestSelects(t *testing.T) {
	t.Run("descending to the best child on the bot's own turn", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		maxChild := visited(root, "a", 1, 1)
		visited(root, "b", 0, 1)
		maxChild.untried = []string{"c"}
		m := NewMCTS[string, string](twoMoveBoard())

		gotNode, gotState := m.selects(root, "", 1)

		require.Equal(t, maxChild, gotNode, "Should select the child with the highest win rate")
		require.Equal(t, "a", gotState, "State should follow the selected action")
	})

	t.Run("descending to the child worst for the bot on the opponent's turn", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		visited(root, "a", 1, 1)
		minChild := visited(root, "b", 0, 1)
		minChild.untried = []string{"c"}
		m := NewMCTS[string, string](twoMoveBoard())

		gotNode, gotState := m.selects(root, "", 2)

		require.Equal(t, minChild, gotNode, "Should select the child that minimizes the bot's wins")
		require.Equal(t, "b", gotState)
	})

	t.Run("taking an unvisited child before comparing scores", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		visited(root, "a", 1, 3)
		unvisited := visited(root, "b", 0, 0)
		m := NewMCTS[string, string](twoMoveBoard())

		gotNode, gotState := m.selects(root, "", 1)

		require.Equal(t, unvisited, gotNode)
		require.Equal(t, "b", gotState)
	})

	t.Run("keeping the first child on ties", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		first := visited(root, "a", 1, 2)
		visited(root, "b", 1, 2)
		first.untried = []string{"c"}
		m := NewMCTS[string, string](twoMoveBoard())

		gotNode, _ := m.selects(root, "", 1)

		require.Equal(t, first, gotNode)
	})

	t.Run("descending several levels", func(t *testing.T) {
		board := twoMoveBoard()
		board.actions["ac"] = []string{"d"}
		root := visited(nil, "", 0, 0)
		child := visited(root, "a", 2, 2)
		visited(root, "b", -2, 2)
		grandChild := visited(child, "c", 2, 2)
		child.visits = 2
		grandChild.untried = []string{"d"}
		m := NewMCTS[string, string](board)

		gotNode, gotState := m.selects(root, "", 1)

		require.Equal(t, grandChild, gotNode)
		require.Equal(t, "ac", gotState)
	})

	t.Run("stopping at a node with untried actions", func(t *testing.T) {
		root := newNode[string](nil, "", []string{"a", "b"})
		m := NewMCTS[string, string](twoMoveBoard())

		gotNode, gotState := m.selects(root, "", 1)

		require.Equal(t, root, gotNode, "Should return the same node")
		require.Equal(t, "", gotState, "Should return the same state")
	})

	t.Run("stopping at a terminal state", func(t *testing.T) {
		board := newMockBoard().win("", 1)
		root := newNode[string](nil, "", nil)
		m := NewMCTS[string, string](board)

		gotNode, gotState := m.selects(root, "", 1)

		require.Equal(t, root, gotNode)
		require.Equal(t, "", gotState)
	})
}

func TestExpands(t *testing.T) {
	t.Run("expanding the last untried action", func(t *testing.T) {
		board := twoMoveBoard()
		root := newNode[string](nil, "", board.LegalActions(""))
		m := NewMCTS[string, string](board)

		gotNode, gotState := m.expands(root, "")

		require.Equal(t, "b", gotNode.action)
		require.Equal(t, "b", gotState)
		require.Equal(t, []string{"a"}, root.untried)
		require.Equal(t, []string{"c"}, gotNode.untried, "Child should hold the legal actions of its state")
		require.Equal(t, []*node[string]{gotNode}, root.children)
	})

	t.Run("skipping a node without untried actions", func(t *testing.T) {
		board := newMockBoard().win("", 2)
		root := newNode[string](nil, "", nil)
		m := NewMCTS[string, string](board)

		gotNode, gotState := m.expands(root, "")

		require.Equal(t, root, gotNode)
		require.Equal(t, "", gotState)
		require.Empty(t, root.children)
	})
}

func TestOutcome(t *testing.T) {
	t.Run("reading the bot's points", func(t *testing.T) {
		board := newMockBoard().win("a", 2)

		require.Equal(t, Loss, outcome[string, string](board, "a", 1))
		require.Equal(t, Win, outcome[string, string](board, "a", 2))
	})

	t.Run("panics on a non-terminal state", func(t *testing.T) {
		board := twoMoveBoard()

		require.Panics(t, func() {
			outcome[string, string](board, "", 1)
		})
	})
}

func TestBackup(t *testing.T) {
	t.Run("updating every node on the path with the same value", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		child := visited(root, "a", 0, 0)
		sibling := visited(root, "b", 1, 1)
		leaf := visited(child, "c", 0, 0)

		backup(leaf, Loss)

		for _, n := range []*node[string]{root, child, leaf} {
			require.Equal(t, Loss, n.wins)
		}
		require.Equal(t, 2, root.visits, "Root keeps its earlier visit")
		require.Equal(t, 1, child.visits)
		require.Equal(t, 1, leaf.visits)
		require.Equal(t, 1.0, sibling.wins, "Nodes off the path should not change")
		require.Equal(t, 1, sibling.visits, "Nodes off the path should not change")
	})
}

func TestBestAction(t *testing.T) {
	t.Run("choosing by win rate rather than visits", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		visited(root, "a", 3, 10)
		visited(root, "b", 1, 2)

		got, err := bestAction(root)

		require.NoError(t, err)
		require.Equal(t, "b", got)
	})

	t.Run("keeping the first child on ties", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		visited(root, "a", 1, 2)
		visited(root, "b", 2, 4)

		got, err := bestAction(root)

		require.NoError(t, err)
		require.Equal(t, "a", got)
	})

	t.Run("skipping unvisited children", func(t *testing.T) {
		root := visited(nil, "", 0, 0)
		visited(root, "a", 0, 0)
		visited(root, "b", -1, 1)

		got, err := bestAction(root)

		require.NoError(t, err)
		require.Equal(t, "b", got)
	})

	t.Run("failing without children", func(t *testing.T) {
		root := newNode[string](nil, "", []string{"a"})

		_, err := bestAction(root)

		require.ErrorIs(t, err, ErrNoDecision)
	})
}

func TestDecide(t *testing.T) {
	t.Run("refusing a terminal state", func(t *testing.T) {
		board := newMockBoard().draw("")
		m := NewMCTS[string, string](board)

		_, err := m.Decide("")

		require.ErrorIs(t, err, ErrTerminalState)
	})

	t.Run("returning the only legal action", func(t *testing.T) {
		board := newMockBoard()
		board.actions[""] = []string{"a"}
		board.actions["a"] = []string{"b", "c"}
		board.win("ab", 1)
		board.draw("ac")

		for _, iterations := range []int{1, 7, 100} {
			for _, exploration := range []float64{0.1, 2.0, 10} {
				m := NewMCTS[string, string](board,
					WithIterations(iterations), WithExploration(exploration), WithSeed(3))

				got, err := m.Decide("")

				require.NoError(t, err)
				require.Equal(t, "a", got)
			}
		}
	})

	t.Run("finding an immediate win", func(t *testing.T) {
		board := newMockBoard()
		board.actions[""] = []string{"a", "b"}
		board.win("a", 1)
		board.actions["b"] = []string{"c"}
		board.win("bc", 2)
		m := NewMCTS[string, string](board, WithIterations(50), WithSeed(1))

		result, err := m.Search("")

		require.NoError(t, err)
		require.Equal(t, "a", result.Action)
		require.Equal(t, 50, result.RootVisits)
		require.Equal(t, Win, result.Policy["a"])
		require.Equal(t, Loss, result.Policy["b"])
		require.Equal(t, 50, result.Visits["a"]+result.Visits["b"])
	})

	t.Run("surfacing rollout exhaustion", func(t *testing.T) {
		board := newMockBoard()
		board.actions[""] = []string{"a"}
		board.actions["a"] = []string{"b"}
		board.actions["ab"] = []string{"c"}
		board.win("abc", 2) // Player 1 moves at "ab" and can only lose
		m := NewMCTS[string, string](board, WithSeed(1))

		_, err := m.Decide("")

		require.ErrorIs(t, err, ErrRolloutExhausted)
	})

	t.Run("ignoring invalid options", func(t *testing.T) {
		m := NewMCTS[string, string](newMockBoard(),
			WithIterations(0), WithExploration(-1), WithMetrics(nil))

		require.Equal(t, 100, m.iterations)
		require.Equal(t, 2.0, m.exploration)
		require.NotNil(t, m.metrics)
	})
}

// checkTree walks the tree alongside the game and verifies node accounting.
func checkTree(t *testing.T, board game.UltimateBoard, n *node[game.Action], state game.State) {
	t.Helper()

	legal := board.LegalActions(state)
	seen := make(map[game.Action]bool, len(legal))
	for _, action := range n.untried {
		require.False(t, seen[action], "Untried actions should be unique")
		seen[action] = true
	}
	childVisits := 0
	for _, child := range n.children {
		require.False(t, seen[child.action], "Children and untried actions should be disjoint")
		seen[child.action] = true
		require.Equal(t, n, child.parent)
		childVisits += child.visits
	}
	require.Len(t, seen, len(legal), "Children and untried actions should cover the legal actions")
	for _, action := range legal {
		require.True(t, seen[action])
	}

	require.LessOrEqual(t, childVisits, n.visits)
	require.LessOrEqual(t, n.wins, float64(n.visits))
	require.GreaterOrEqual(t, n.wins, -float64(n.visits))

	for _, child := range n.children {
		require.Positive(t, child.visits, "Every expanded child is visited by its own simulation")
		checkTree(t, board, child, board.NextState(state, child.action))
	}
}

func midGame(t *testing.T) game.State {
	t.Helper()
	board := game.NewUltimateBoard()
	state := game.NewState()
	for _, notation := range []string{"1,1,1,1", "1,1,0,0", "0,0,1,1", "1,1,2,2", "2,2,1,1"} {
		action, err := game.ParseAction(notation)
		require.NoError(t, err)
		state, err = board.Play(state, action)
		require.NoError(t, err)
	}
	return state
}

func TestSearchUltimateTicTacToe(t *testing.T) {
	t.Run("accounting for the full iteration budget", func(t *testing.T) {
		board := game.NewUltimateBoard()
		state := midGame(t)
		m := NewMCTS[game.State, game.Action](board, WithIterations(100), WithSeed(7))

		root, err := m.buildTree(state)

		require.NoError(t, err)
		require.Equal(t, 100, root.visits)
		checkTree(t, board, root, state)
	})

	t.Run("recommending a visited legal action", func(t *testing.T) {
		board := game.NewUltimateBoard()
		state := midGame(t)
		collector := metrics.NewCollector()
		m := NewMCTS[game.State, game.Action](board, WithIterations(60), WithSeed(11), WithMetrics(collector))

		result, err := m.Search(state)

		require.NoError(t, err)
		require.Contains(t, board.LegalActions(state), result.Action)
		require.Positive(t, result.Visits[result.Action])
		require.Equal(t, 60, result.Metric.Iterations)
		require.Equal(t, 60, result.Metric.Episodes)
		require.Equal(t, 60, result.Metric.Playouts)
		require.Positive(t, result.Metric.Expansions)
		require.LessOrEqual(t, result.Metric.Expansions, 60)
	})

	t.Run("repeating a search with the same seed", func(t *testing.T) {
		board := game.NewUltimateBoard()
		state := midGame(t)

		first, err := NewMCTS[game.State, game.Action](board, WithIterations(80), WithSeed(5)).Search(state)
		require.NoError(t, err)
		second, err := NewMCTS[game.State, game.Action](board, WithIterations(80), WithSeed(5)).Search(state)
		require.NoError(t, err)

		require.Equal(t, first.Action, second.Action)
		require.Equal(t, first.Visits, second.Visits)
		require.Equal(t, first.Policy, second.Policy)
	})

	t.Run("leaving the input state untouched", func(t *testing.T) {
		board := game.NewUltimateBoard()
		state := midGame(t)
		before := state

		_, err := NewMCTS[game.State, game.Action](board, WithIterations(30), WithSeed(2)).Decide(state)

		require.NoError(t, err)
		require.Equal(t, before, state)
	})
}
