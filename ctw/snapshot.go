package ctw

// Snapshot is a deep clone of a Predictor's tree and history, cheap to
// take relative to a long symbol-by-symbol Revert when many updates will
// follow before the predictor needs to be rolled back. It is the
// speed/space trade-off the ρUCT planner relies on: clone once per
// simulation instead of reverting one bit at a time on the way back out.
type Snapshot struct {
	root    *Node
	history []int
	size    int
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		count: n.count,
		logKT: n.logKT,
		logPW: n.logPW,
	}
	clone.child[0] = cloneNode(n.child[0])
	clone.child[1] = cloneNode(n.child[1])
	return clone
}

// Snapshot captures the predictor's full current state.
func (p *Predictor) Snapshot() *Snapshot {
	history := make([]int, len(p.history))
	copy(history, p.history)
	return &Snapshot{
		root:    cloneNode(p.root),
		history: history,
		size:    p.size,
	}
}

// Restore replaces the predictor's state with a previously captured
// snapshot. Any pending Update/UpdateHistory records from after the
// snapshot was taken are discarded, since they can no longer be reverted
// against a tree that has been replaced wholesale.
func (p *Predictor) Restore(s *Snapshot) {
	p.root = cloneNode(s.root)
	p.history = make([]int, len(s.history))
	copy(p.history, s.history)
	p.size = s.size
	p.pending = nil
}
