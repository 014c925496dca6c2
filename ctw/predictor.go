package ctw

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// pathEntry records one node visited while folding a bit into the tree,
// in root-to-leaf order, so the effect can be undone later.
type pathEntry struct {
	node    *Node
	via     int // which child index led to node from its parent; -1 for the root
	created bool
}

// pendingUpdate is one entry on the predictor's undo stack.
type pendingUpdate struct {
	bit         int
	path        []pathEntry
	historyOnly bool
}

// Predictor is a Context Tree Weighting model over a binary alphabet. It
// tracks a bounded context depth and the full symbol history needed to
// address the tree, and supports both permanent updates and symbol-by-
// symbol reverts.
type Predictor struct {
	depth   int
	root    *Node
	history []int
	pending []pendingUpdate
	size    int
}

// NewPredictor returns a predictor with an empty tree and history, whose
// context tree addresses at most depth bits of history.
func NewPredictor(depth int) *Predictor {
	return &Predictor{
		depth: depth,
		root:  &Node{},
		size:  1,
	}
}

// Depth returns the predictor's configured context depth.
func (p *Predictor) Depth() int { return p.depth }

// HistorySize returns the number of symbols the predictor has observed.
func (p *Predictor) HistorySize() int { return len(p.history) }

// Size returns an upper bound on the number of live nodes in the tree.
func (p *Predictor) Size() int { return p.size }

// Clear resets the predictor to a fresh, empty tree with no history.
func (p *Predictor) Clear() {
	p.root = &Node{}
	p.history = nil
	p.pending = nil
	p.size = 1
}

func isBit(s int) bool { return s == 0 || s == 1 }

// contextBits returns up to depth of the most recently observed symbols,
// oldest first.
func (p *Predictor) contextBits() []int {
	n := len(p.history)
	start := n - p.depth
	if start < 0 {
		start = 0
	}
	return p.history[start:n]
}

// applyBit folds bit into the tree along the path addressed by the
// current context, recomputing logPW leaf-to-root, and returns the
// traversed path so the change can be undone.
func (p *Predictor) applyBit(bit int) []pathEntry {
	ctx := p.contextBits()
	path := make([]pathEntry, 0, len(ctx)+1)

	node := p.root
	node.updateLogKT(bit)
	path = append(path, pathEntry{node: node, via: -1})

	for d := 0; d < len(ctx); d++ {
		b := ctx[len(ctx)-1-d]
		created := false
		if node.child[b] == nil {
			node.child[b] = &Node{}
			p.size++
			created = true
		}
		node = node.child[b]
		node.updateLogKT(bit)
		path = append(path, pathEntry{node: node, via: b, created: created})
	}

	for i := len(path) - 1; i >= 0; i-- {
		path[i].node.updateLogPW()
	}
	return path
}

// revertBit undoes the effect of an applyBit(bit) call that produced
// path, pruning any node created solely to serve that call.
func (p *Predictor) revertBit(path []pathEntry, bit int) {
	cut := len(path)
	for i := 1; i < len(path); i++ {
		if path[i].created {
			cut = i
			break
		}
	}

	for i := 0; i < cut; i++ {
		path[i].node.revertLogKT(bit)
	}
	if cut < len(path) {
		parent := path[cut-1].node
		parent.child[path[cut].via] = nil
		p.size -= len(path) - cut
	}
	for i := cut - 1; i >= 0; i-- {
		path[i].node.updateLogPW()
	}
}

// Update permanently folds bit into the tree and appends it to history.
// Until history reaches depth, there is no full-depth context to address
// a leaf with, so the tree is left untouched and bit only extends
// history — exactly what UpdateHistory does, but it still counts as a
// real update once enough context accumulates.
func (p *Predictor) Update(bit int) error {
	if !isBit(bit) {
		return errors.WithStack(ErrMalformedSymbols)
	}
	if len(p.history) < p.depth {
		p.history = append(p.history, bit)
		p.pending = append(p.pending, pendingUpdate{bit: bit, historyOnly: true})
		return nil
	}
	path := p.applyBit(bit)
	p.history = append(p.history, bit)
	p.pending = append(p.pending, pendingUpdate{bit: bit, path: path})
	return nil
}

// UpdateHistory appends bit to history without folding it into the tree's
// counts. It is used to track context for symbols that must not influence
// the model's learned weights, such as the agent's own actions and the
// percepts that arrive after a learning period has ended.
func (p *Predictor) UpdateHistory(bit int) error {
	if !isBit(bit) {
		return errors.WithStack(ErrMalformedSymbols)
	}
	p.history = append(p.history, bit)
	p.pending = append(p.pending, pendingUpdate{bit: bit, historyOnly: true})
	return nil
}

// Revert undoes the last k Update/UpdateHistory calls, in reverse order.
// If undoing a call would drop history below depth, the tree is cleared
// outright rather than risk reverting counts the tree no longer has
// context to address correctly; history continues to shrink normally for
// any remaining reverts in the same call.
func (p *Predictor) Revert(k int) error {
	if k < 0 || k > len(p.pending) {
		return errors.WithStack(ErrInsufficientHistory)
	}
	cleared := false
	for i := 0; i < k; i++ {
		last := len(p.pending) - 1
		u := p.pending[last]
		p.pending = p.pending[:last]

		if !cleared && len(p.history)-1 < p.depth {
			p.root = &Node{}
			p.size = 1
			cleared = true
		}
		p.history = p.history[:len(p.history)-1]

		if !cleared && !u.historyOnly {
			p.revertBit(u.path, u.bit)
		}
	}
	return nil
}

// padToDepth pads history up to depth with independently drawn random
// bits, folded into the tree as real updates, so early predictions have a
// full context to address. This only ever happens before depth real
// symbols have been observed.
func (p *Predictor) padToDepth() error {
	for len(p.history) < p.depth {
		if err := p.Update(rand.Intn(2)); err != nil {
			return err
		}
	}
	return nil
}

// singleBitLogProb returns the log weighted-mixture probability of the
// full history with bit appended, leaving the tree unchanged.
func (p *Predictor) singleBitLogProb(bit int) float64 {
	path := p.applyBit(bit)
	lp := p.root.logPW
	p.revertBit(path, bit)
	return lp
}

// ProbZero returns the predictor's probability that the next symbol is
// zero, given the current history.
func (p *Predictor) ProbZero() (float64, error) {
	if err := p.padToDepth(); err != nil {
		return 0, err
	}
	j0 := p.singleBitLogProb(0)
	j1 := p.singleBitLogProb(1)
	cond := 1.0 / (1 + math.Exp(j1-j0))
	if math.IsNaN(cond) || math.IsInf(cond, 0) {
		return 0, errors.WithStack(ErrNumericInstability)
	}
	return cond, nil
}

// Predict returns the probability that symbols, taken as a block,
// immediately follow the current history. It does not mutate the
// predictor, aside from the (permanent, one-time) history padding
// described by padToDepth.
func (p *Predictor) Predict(symbols []int) (float64, error) {
	for _, s := range symbols {
		if !isBit(s) {
			return 0, errors.WithStack(ErrMalformedSymbols)
		}
	}
	if err := p.padToDepth(); err != nil {
		return 0, err
	}

	before := p.root.logPW
	paths := make([][]pathEntry, len(symbols))
	for i, s := range symbols {
		paths[i] = p.applyBit(s)
		p.history = append(p.history, s)
	}
	after := p.root.logPW
	for i := len(symbols) - 1; i >= 0; i-- {
		p.history = p.history[:len(p.history)-1]
		p.revertBit(paths[i], symbols[i])
	}

	prob := math.Exp(after - before)
	if math.IsNaN(prob) || prob < 0 {
		return 0, errors.WithStack(ErrNumericInstability)
	}
	if prob > 1 {
		prob = 1
	}
	return prob, nil
}

// Sample draws n symbols from the predictor's generative distribution
// without mutating it: each bit is drawn conditioned on the ones drawn
// before it, folded in temporarily, and the whole block is reverted
// before returning.
func (p *Predictor) Sample(n int) ([]int, error) {
	baseline := len(p.pending)
	result := make([]int, 0, n)
	for i := 0; i < n; i++ {
		bit, err := p.drawAndApply()
		if err != nil {
			_ = p.Revert(len(p.pending) - baseline)
			return nil, err
		}
		result = append(result, bit)
	}
	// drawAndApply's first call may also have padded history up to depth
	// with extra permanent updates; undo those along with the n draws so
	// Sample leaves no trace of its call.
	if err := p.Revert(len(p.pending) - baseline); err != nil {
		return nil, err
	}
	return result, nil
}

// SampleAndApply draws n symbols from the predictor's generative
// distribution and permanently folds them into the tree and history.
func (p *Predictor) SampleAndApply(n int) ([]int, error) {
	result := make([]int, 0, n)
	for i := 0; i < n; i++ {
		bit, err := p.drawAndApply()
		if err != nil {
			return nil, err
		}
		result = append(result, bit)
	}
	return result, nil
}

func (p *Predictor) drawAndApply() (int, error) {
	p0, err := p.ProbZero()
	if err != nil {
		return 0, err
	}
	bit := 0
	if rand.Float64() >= p0 {
		bit = 1
	}
	if err := p.Update(bit); err != nil {
		return 0, err
	}
	return bit, nil
}
