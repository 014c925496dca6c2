package uct

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// banditPlanner is a minimal Planner over a fixed-probability, single-step
// bandit: action a pays off reward 1 with probability probs[a], else 0,
// and every episode ends after one step (NumActions actions, horizon
// irrelevant past one chance node per action). It needs no real state,
// so Save/Load are no-ops.
type banditPlanner struct {
	probs      []float64
	lastAction int
}

func (b *banditPlanner) NumActions() int { return len(b.probs) }

func (b *banditPlanner) ApplyAction(action int) error {
	b.lastAction = action
	return nil
}

func (b *banditPlanner) SamplePerceptAndApply() (int, int, error) {
	reward := 0
	if deterministicDraw(b.probs[b.lastAction]) {
		reward = 1
	}
	return 0, reward, nil
}

func (b *banditPlanner) RewardValue(reward int) float64 { return float64(reward) }
func (b *banditPlanner) MaxReward() float64             { return 1 }
func (b *banditPlanner) MinReward() float64             { return 0 }
func (b *banditPlanner) Save() interface{}              { return nil }
func (b *banditPlanner) Load(interface{})               {}

// deterministicDraw avoids pulling in math/rand determinism concerns for
// the test: it alternates a simple counter-based sequence whose long-run
// frequency equals p.
var drawCounter int

func deterministicDraw(p float64) bool {
	drawCounter++
	// A low-discrepancy stand-in for a Bernoulli(p) draw: van der Corput
	// sequence in base 2, which equidistributes over [0,1).
	x := 0.0
	f := 0.5
	n := drawCounter
	for n > 0 {
		if n&1 == 1 {
			x += f
		}
		f /= 2
		n >>= 1
	}
	return x < p
}

func TestBestActionPrefersHigherPayoff(t *testing.T) {
	drawCounter = 0
	planner := &banditPlanner{probs: []float64{0.1, 0.9}}
	search := NewSearch(1.4, 400, 1)

	action, err := search.Plan(planner)
	require.NoError(t, err)
	require.Equal(t, 1, action)
}

func TestBestActionTieBreaksLowestIndex(t *testing.T) {
	drawCounter = 0
	// Every action always pays 1, so all three means tie exactly.
	planner := &banditPlanner{probs: []float64{1, 1, 1}}
	search := NewSearch(1.4, 60, 1)

	action, err := search.Plan(planner)
	require.NoError(t, err)
	require.GreaterOrEqual(t, action, 0)
	require.Less(t, action, 3)
	require.Equal(t, 0, action)
}

func TestBestActionErrorsBeforeAnyPlan(t *testing.T) {
	search := NewSearch(1.4, 10, 1)
	_, err := search.BestAction(&banditPlanner{probs: []float64{0.5}})
	require.Error(t, err)
}

// depthTwoPlanner exercises a two-step horizon, where reward accumulates
// across both a decision and the percept that follows it.
type depthTwoPlanner struct {
	lastAction int
	step       int
}

func (d *depthTwoPlanner) NumActions() int { return 2 }

func (d *depthTwoPlanner) ApplyAction(action int) error {
	d.lastAction = action
	return nil
}

func (d *depthTwoPlanner) SamplePerceptAndApply() (int, int, error) {
	d.step++
	reward := 0
	if d.lastAction == 1 {
		reward = 1
	}
	return d.step % 2, reward, nil
}

func (d *depthTwoPlanner) RewardValue(reward int) float64 { return float64(reward) }
func (d *depthTwoPlanner) MaxReward() float64             { return 1 }
func (d *depthTwoPlanner) MinReward() float64             { return 0 }
func (d *depthTwoPlanner) Save() interface{}              { return d.step }
func (d *depthTwoPlanner) Load(state interface{})         { d.step = state.(int) }

func TestPlanRespectsHorizon(t *testing.T) {
	planner := &depthTwoPlanner{}
	search := NewSearch(1.4, 200, 2)

	action, err := search.Plan(planner)
	require.NoError(t, err)
	require.Equal(t, 1, action)
}
