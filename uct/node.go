package uct

// kind distinguishes the two alternating node types in a rho-UCT search
// tree: a decision node is where the agent picks an action, a chance
// node is where the environment model picks a percept.
type kind int

const (
	decisionNode kind = iota
	chanceNode
)

// perceptKey identifies a chance node's child by the percept that leads
// to it, so that repeated simulations sampling the same percept from the
// same chance node converge on the same subtree.
type perceptKey struct {
	observation int
	reward      int
}

// Node is one node of the search tree. Only one of decisionChildren or
// chanceChildren is populated, depending on kind.
type Node struct {
	kind   kind
	visits int
	mean   float64

	decisionChildren map[int]*Node
	chanceChildren   map[perceptKey]*Node
}

func newNode(kind kind) *Node {
	n := &Node{kind: kind}
	if kind == decisionNode {
		n.decisionChildren = make(map[int]*Node)
	} else {
		n.chanceChildren = make(map[perceptKey]*Node)
	}
	return n
}

func resetNode(n *Node, kind kind) *Node {
	n.kind = kind
	n.visits = 0
	n.mean = 0
	if kind == decisionNode {
		for k := range n.chanceChildren {
			delete(n.chanceChildren, k)
		}
		n.chanceChildren = nil
		if n.decisionChildren == nil {
			n.decisionChildren = make(map[int]*Node)
		} else {
			for k := range n.decisionChildren {
				delete(n.decisionChildren, k)
			}
		}
	} else {
		n.decisionChildren = nil
		if n.chanceChildren == nil {
			n.chanceChildren = make(map[perceptKey]*Node)
		} else {
			for k := range n.chanceChildren {
				delete(n.chanceChildren, k)
			}
		}
	}
	return n
}

// Visits returns the number of simulations that have passed through n.
func (n *Node) Visits() int { return n.visits }

// Mean returns the running average total reward-to-go backed up through n.
func (n *Node) Mean() float64 { return n.mean }

func (n *Node) backup(total float64) {
	n.visits++
	n.mean += (total - n.mean) / float64(n.visits)
}
