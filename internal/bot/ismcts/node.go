package ismcts

import "math"

// node is one decision point of the shared information-set tree. Parents
// own their children outright; nothing points back up.
type node[A comparable] struct {
	action A
	root   bool
	// player owns this node's statistics: the seat that chose action (the
	// perspective seat at the root).
	player int

	visits int
	reward float64
	// availability counts the expansions of the parent in which action was
	// legal, starting with the one that created this node. Earlier
	// expansions where action was legal but not yet added are not counted.
	availability int

	children []*node[A]
	index    map[A]int
}

func newRoot[A comparable](player int) *node[A] {
	return &node[A]{root: true, player: player}
}

func (n *node[A]) child(a A) *node[A] {
	if i, ok := n.index[a]; ok {
		return n.children[i]
	}
	return nil
}

func (n *node[A]) addChild(a A, player int) *node[A] {
	if n.index == nil {
		n.index = make(map[A]int)
	}
	c := &node[A]{action: a, player: player, availability: 1}
	n.index[a] = len(n.children)
	n.children = append(n.children, c)
	return c
}

// record adds one simulation outcome. A nil score vector (unknown outcome)
// still counts as a visit but adds no reward.
func (n *node[A]) record(scores []float64) {
	if n.player < len(scores) {
		n.reward += scores[n.player]
	}
	n.visits++
}

// ucb1 scores a visited child. total is the number of times the child could
// have been chosen.
func (n *node[A]) ucb1(total int, c float64) float64 {
	mean := n.reward / float64(n.visits)
	return mean + c*math.Sqrt(math.Log(float64(total))/float64(n.visits))
}

func (n *node[A]) childVisits() int {
	sum := 0
	for _, c := range n.children {
		sum += c.visits
	}
	return sum
}

// mostVisited returns the child with the most visits, the earliest added
// on ties, or nil without children.
func (n *node[A]) mostVisited() *node[A] {
	var best *node[A]
	for _, c := range n.children {
		if best == nil || c.visits > best.visits {
			best = c
		}
	}
	return best
}
