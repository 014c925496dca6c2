package uct

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoSimulationsRun is returned by BestAction when Plan has not yet run
// a single simulation, so no action has an estimated value to report.
var ErrNoSimulationsRun = errors.New("uct: no simulations run")

// Search runs rho-UCT over a Planner's model, reusing Node allocations
// across planning calls via a sync.Pool.
type Search struct {
	explorationConstant float64
	simulations         int
	horizon             int

	pool sync.Pool
	root *Node
}

// NewSearch returns a Search configured to run simulations rollouts of up
// to horizon decision/percept pairs each, using explorationConstant to
// weight UCB1's exploration term.
func NewSearch(explorationConstant float64, simulations, horizon int) *Search {
	s := &Search{
		explorationConstant: explorationConstant,
		simulations:         simulations,
		horizon:             horizon,
	}
	s.pool.New = func() interface{} { return &Node{} }
	return s
}

// Plan runs s.simulations rollouts against planner, each up to s.horizon
// steps deep, and returns the action with the highest estimated value at
// the root. Planner state is restored to its pre-Plan value before Plan
// returns, whether it succeeds or fails.
func (s *Search) Plan(planner Planner) (int, error) {
	if s.root != nil {
		s.release(s.root)
	}
	s.root = resetNode(s.pool.Get().(*Node), decisionNode)

	for i := 0; i < s.simulations; i++ {
		state := planner.Save()
		_, err := s.simulate(s.root, planner, s.horizon)
		planner.Load(state)
		if err != nil {
			return 0, err
		}
	}
	return s.BestAction(planner)
}

// BestAction returns the root's highest-mean explored action, breaking
// ties in favor of the lowest action index so the choice is deterministic
// across repeated runs with identical simulation outcomes.
func (s *Search) BestAction(planner Planner) (int, error) {
	if s.root == nil {
		return 0, errors.WithStack(ErrNoSimulationsRun)
	}
	bestAction := -1
	bestMean := math.Inf(-1)
	for a := 0; a < planner.NumActions(); a++ {
		child := s.root.decisionChildren[a]
		if child == nil || child.visits == 0 {
			continue
		}
		if bestAction == -1 || child.mean > bestMean {
			bestAction, bestMean = a, child.mean
		}
	}
	if bestAction == -1 {
		return 0, errors.WithStack(ErrNoSimulationsRun)
	}
	return bestAction, nil
}

// simulate runs one rollout from n to a depth of horizon steps, returning
// the total reward accumulated along the path it took.
func (s *Search) simulate(n *Node, planner Planner, horizon int) (float64, error) {
	if horizon == 0 {
		return 0, nil
	}

	if n.kind == decisionNode {
		return s.simulateDecision(n, planner, horizon)
	}
	return s.simulateChance(n, planner, horizon)
}

func (s *Search) simulateDecision(n *Node, planner Planner, horizon int) (float64, error) {
	if n.visits == 0 {
		total, err := s.playout(planner, horizon)
		if err != nil {
			return 0, err
		}
		n.backup(total)
		return total, nil
	}

	action := s.selectAction(n, planner)
	if err := planner.ApplyAction(action); err != nil {
		return 0, err
	}
	child, ok := n.decisionChildren[action]
	if !ok {
		child = resetNode(s.pool.Get().(*Node), chanceNode)
		n.decisionChildren[action] = child
	}

	total, err := s.simulate(child, planner, horizon)
	if err != nil {
		return 0, err
	}
	n.backup(total)
	return total, nil
}

func (s *Search) simulateChance(n *Node, planner Planner, horizon int) (float64, error) {
	observation, reward, err := planner.SamplePerceptAndApply()
	if err != nil {
		return 0, err
	}
	key := perceptKey{observation: observation, reward: reward}
	child, ok := n.chanceChildren[key]
	if !ok {
		child = resetNode(s.pool.Get().(*Node), decisionNode)
		n.chanceChildren[key] = child
	}

	future, err := s.simulate(child, planner, horizon-1)
	if err != nil {
		return 0, err
	}
	total := planner.RewardValue(reward) + future
	n.backup(total)
	return total, nil
}

// playout accumulates reward for horizon steps of uniformly random
// actions, without creating any search tree nodes. It is the fallback
// used the first time a decision node is reached, in place of expanding
// it immediately.
func (s *Search) playout(planner Planner, horizon int) (float64, error) {
	var total float64
	for h := 0; h < horizon; h++ {
		action := rand.Intn(planner.NumActions())
		if err := planner.ApplyAction(action); err != nil {
			return 0, err
		}
		_, reward, err := planner.SamplePerceptAndApply()
		if err != nil {
			return 0, err
		}
		total += planner.RewardValue(reward)
	}
	return total, nil
}

// selectAction applies UCB1 over the reward range [planner.MinReward(),
// planner.MaxReward()], scaled by the search horizon so the exploitation
// term stays within [0,1] regardless of how many steps a rollout can
// accumulate reward over, expanding any still-unexplored action first,
// and breaking ties deterministically in favor of the lowest action
// index.
func (s *Search) selectAction(n *Node, planner Planner) int {
	numActions := planner.NumActions()
	for a := 0; a < numActions; a++ {
		if _, ok := n.decisionChildren[a]; !ok {
			return a
		}
	}

	lo, hi := planner.MinReward(), planner.MaxReward()
	span := hi - lo + 1
	scale := span * float64(s.horizon)

	bestAction := 0
	bestValue := math.Inf(-1)
	for a := 0; a < numActions; a++ {
		child := n.decisionChildren[a]
		normalized := 0.0
		if scale > 0 {
			normalized = (child.mean - lo) / scale
		}
		ucb := normalized + s.explorationConstant*math.Sqrt(math.Log(float64(n.visits))/float64(child.visits))
		if ucb > bestValue {
			bestValue, bestAction = ucb, a
		}
	}
	return bestAction
}

func (s *Search) release(n *Node) {
	for _, child := range n.decisionChildren {
		s.release(child)
	}
	for _, child := range n.chanceChildren {
		s.release(child)
	}
	s.pool.Put(n)
}
