package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// coinFlip is a minimal two-action, two-observation environment: action 0
// guesses tails, action 1 guesses heads, the coin is biased toward heads,
// and the reward is 1 for a correct guess, 0 otherwise. It is the
// smallest fixture able to exercise the full agent loop.
type coinFlip struct {
	headsProbability float64
	draws            int
	observation      int
	reward           int
}

func newCoinFlip(headsProbability float64) *coinFlip {
	return &coinFlip{headsProbability: headsProbability}
}

func (c *coinFlip) NumActions() int      { return 2 }
func (c *coinFlip) NumObservations() int { return 2 }
func (c *coinFlip) MinReward() int       { return 0 }
func (c *coinFlip) MaxReward() int       { return 1 }
func (c *coinFlip) IsFinished() bool     { return false }
func (c *coinFlip) Observation() int     { return c.observation }
func (c *coinFlip) Reward() int          { return c.reward }

func (c *coinFlip) Act(action int) error {
	c.draws++
	x := vanDerCorput(c.draws)
	heads := 0
	if x < c.headsProbability {
		heads = 1
	}
	c.observation = heads
	if action == heads {
		c.reward = 1
	} else {
		c.reward = 0
	}
	return nil
}

func vanDerCorput(n int) float64 {
	x, f := 0.0, 0.5
	for n > 0 {
		if n&1 == 1 {
			x += f
		}
		f /= 2
		n >>= 1
	}
	return x
}

func testConfig() Config {
	return Config{
		AgentHorizon:        4,
		CTDepth:             4,
		MCSimulations:       40,
		LearningPeriod:      1000,
		ExplorationConstant: 2.0,
	}
}

func TestUpdateOrderEnforced(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	err = a.UpdatePercept(0, 0)
	require.ErrorIs(t, err, ErrWrongUpdateOrder)

	require.NoError(t, a.UpdateAction(0))
	err = a.UpdateAction(1)
	require.ErrorIs(t, err, ErrWrongUpdateOrder)
}

func TestUpdateActionRejectsOutOfRange(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	err = a.UpdateAction(5)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestFullCycleAdvancesAgeAndReward(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	require.NoError(t, a.UpdateAction(0))
	require.NoError(t, env.Act(0))
	require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))

	require.Equal(t, 1, a.Age())
	require.Equal(t, float64(env.Reward()), a.TotalReward())
}

func TestPlayoutDoesNotLeakState(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	require.NoError(t, a.UpdateAction(0))
	require.NoError(t, env.Act(0))
	require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))

	ageBefore := a.Age()
	rewardBefore := a.TotalReward()
	sizeBefore := a.ModelSize()

	_, err = a.Playout(3)
	require.NoError(t, err)

	require.Equal(t, ageBefore, a.Age())
	require.Equal(t, rewardBefore, a.TotalReward())
	require.Equal(t, sizeBefore, a.ModelSize())
}

func TestSearchDoesNotLeakState(t *testing.T) {
	env := newCoinFlip(0.7)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	require.NoError(t, a.UpdateAction(1))
	require.NoError(t, env.Act(1))
	require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))

	ageBefore := a.Age()
	rewardBefore := a.TotalReward()
	sizeBefore := a.ModelSize()

	action, err := a.Search()
	require.NoError(t, err)
	require.GreaterOrEqual(t, action, 0)
	require.Less(t, action, env.NumActions())

	require.Equal(t, ageBefore, a.Age())
	require.Equal(t, rewardBefore, a.TotalReward())
	require.Equal(t, sizeBefore, a.ModelSize())
}

func TestActionProbabilitySumsToOne(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	require.NoError(t, a.UpdateAction(0))
	require.NoError(t, env.Act(0))
	require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))

	require.NoError(t, a.UpdateAction(1))

	p0, err := a.ActionProbability(0)
	require.NoError(t, err)
	p1, err := a.ActionProbability(1)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p0+p1, 1e-9)
}

func TestResetClearsModel(t *testing.T) {
	env := newCoinFlip(0.5)
	a, err := New(env, testConfig())
	require.NoError(t, err)

	require.NoError(t, a.UpdateAction(0))
	require.NoError(t, env.Act(0))
	require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))

	a.Reset()
	require.Equal(t, 0, a.Age())
	require.Equal(t, 0.0, a.TotalReward())
}

func TestAgentLoopConverges(t *testing.T) {
	env := newCoinFlip(0.85)
	cfg := testConfig()
	cfg.LearningPeriod = 1000
	a, err := New(env, cfg)
	require.NoError(t, err)

	correct := 0
	const cycles = 120
	for i := 0; i < cycles; i++ {
		action, err := a.Search()
		require.NoError(t, err)
		require.NoError(t, a.UpdateAction(action))
		require.NoError(t, env.Act(action))
		require.NoError(t, a.UpdatePercept(env.Observation(), env.Reward()))
		if env.Reward() == 1 {
			correct++
		}
	}

	require.Greater(t, a.AverageReward(), 0.5)
	_ = correct
}
