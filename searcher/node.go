package searcher

// node is one vertex of the search tree. Statistics are always kept from the
// searching bot's perspective, whoever moves at the node.
type node[A comparable] struct {
	parent   *node[A] // nil for the root
	action   A        // Action that led here from parent
	children []*node[A]
	untried  []A // Actions not expanded yet, popped from the end
	wins     float64
	visits   int
}

func newNode[A comparable](parent *node[A], action A, actions []A) *node[A] {
	untried := make([]A, len(actions))
	copy(untried, actions)

	return &node[A]{
		parent:   parent,
		action:   action,
		children: make([]*node[A], 0, len(actions)),
		untried:  untried,
	}
}

func (n *node[A]) isFullyExpanded() bool {
	return len(n.untried) == 0
}

// addChild expands the most recently added untried action.
func (n *node[A]) addChild(actionsOf func(A) []A) *node[A] {
	last := len(n.untried) - 1
	action := n.untried[last]
	n.untried = n.untried[:last]

	child := newNode(n, action, actionsOf(action))
	n.children = append(n.children, child)
	return child
}

func (n *node[A]) child(action A) (*node[A], bool) {
	for _, child := range n.children {
		if child.action == action {
			return child, true
		}
	}
	return nil, false
}

func (n *node[A]) winRate() float64 {
	if n.visits == 0 {
		panic("cannot compute win rate: 0 visits")
	}
	return n.wins / float64(n.visits)
}

// update records one simulation and returns the parent to continue with.
func (n *node[A]) update(value float64) *node[A] {
	n.wins += value
	n.visits++
	return n.parent
}
