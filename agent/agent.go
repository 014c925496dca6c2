// Package agent implements the MC-AIXI-CTW agent loop: an agent that
// learns a Context Tree Weighting model of its interaction history and
// plans with rho-UCT over that model.
package agent

import (
	"log"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/yuxi-liu-wired/mc-aixi-ctw/bitcodec"
	"github.com/yuxi-liu-wired/mc-aixi-ctw/ctw"
	"github.com/yuxi-liu-wired/mc-aixi-ctw/uct"
)

// updateKind tracks which half of the action/percept cycle was last
// completed, so UpdateAction and UpdatePercept can enforce strict
// alternation.
type updateKind int

const (
	perceptUpdate updateKind = iota
	actionUpdate
)

// Agent is an MC-AIXI-CTW agent: a context tree predictor coupled with a
// rho-UCT planner, interacting with an Environment through an
// action/percept cycle.
type Agent struct {
	environment Environment
	predictor   *ctw.Predictor
	search      *uct.Search

	age         int
	totalReward float64
	lastUpdate  updateKind

	horizon             int
	simulations         int
	learningPeriod      int
	explorationConstant float64

	actionWidth      int
	observationWidth int
	rewardWidth      int

	logger *log.Logger
}

// New returns an agent configured per cfg, ready to interact with env.
// The agent expects its first call to be UpdateAction.
func New(env Environment, cfg Config) (*Agent, error) {
	if env.NumActions() <= 0 {
		return nil, errors.Wrap(ErrInvalidAction, "environment reports zero actions")
	}

	a := &Agent{
		environment:         env,
		predictor:           ctw.NewPredictor(cfg.CTDepth),
		horizon:             cfg.AgentHorizon,
		simulations:         cfg.MCSimulations,
		learningPeriod:      cfg.LearningPeriod,
		explorationConstant: cfg.ExplorationConstant,
		lastUpdate:          perceptUpdate,
		logger:              log.Default(),
	}
	a.actionWidth = bitcodec.WidthForValues(env.NumActions())
	a.observationWidth = bitcodec.WidthForValues(env.NumObservations())
	a.rewardWidth = bitcodec.WidthForValues(env.MaxReward() - env.MinReward() + 1)
	a.search = uct.NewSearch(a.explorationConstant, a.simulations, a.horizon)
	return a, nil
}

// SetLogger overrides the agent's logger, which defaults to log.Default().
func (a *Agent) SetLogger(logger *log.Logger) { a.logger = logger }

// Age returns the number of completed action/percept cycles.
func (a *Agent) Age() int { return a.age }

// TotalReward returns the sum of every reward received so far.
func (a *Agent) TotalReward() float64 { return a.totalReward }

// AverageReward returns TotalReward()/Age(), or 0 before any cycle
// completes.
func (a *Agent) AverageReward() float64 {
	if a.age == 0 {
		return 0
	}
	return a.totalReward / float64(a.age)
}

// ModelSize returns an upper bound on the number of nodes in the
// predictor's context tree.
func (a *Agent) ModelSize() int { return a.predictor.Size() }

// GenerateRandomAction returns an action drawn uniformly from the
// environment's action set, for use in rollouts.
func (a *Agent) GenerateRandomAction() int {
	return rand.Intn(a.environment.NumActions())
}

// UpdateAction folds a real action into the agent's history. It must be
// the first call after construction or after UpdatePercept, and never
// contributes to the predictor's learned weights: actions are chosen by
// the agent, not generated by the model it is fitting.
func (a *Agent) UpdateAction(action int) error {
	if a.lastUpdate != perceptUpdate {
		return errors.Wrap(ErrWrongUpdateOrder, "UpdateAction called before a percept was updated")
	}
	if action < 0 || action >= a.environment.NumActions() {
		return errors.Wrapf(ErrInvalidAction, "action %d out of range [0, %d)", action, a.environment.NumActions())
	}
	bits, err := bitcodec.Encode(action, a.actionWidth)
	if err != nil {
		return err
	}
	for _, b := range bits {
		if err := a.predictor.UpdateHistory(b); err != nil {
			return err
		}
	}
	a.age++
	a.lastUpdate = actionUpdate
	return nil
}

// UpdatePercept folds a real observation/reward pair into the agent's
// history, following encoding order reward-then-observation. A learning
// period of zero means learn forever; otherwise, while a.age is within
// the configured learning period the predictor's weights are updated
// from this percept, and afterward the percept still extends history
// but the model is frozen.
func (a *Agent) UpdatePercept(observation, reward int) error {
	if a.lastUpdate != actionUpdate {
		return errors.Wrap(ErrWrongUpdateOrder, "UpdatePercept called before an action was updated")
	}
	if observation < 0 || observation >= a.environment.NumObservations() {
		return errors.Wrapf(ErrInvalidAction, "observation %d out of range [0, %d)", observation, a.environment.NumObservations())
	}
	if reward < a.environment.MinReward() || reward > a.environment.MaxReward() {
		return errors.Wrapf(ErrInvalidAction, "reward %d out of range [%d, %d]", reward, a.environment.MinReward(), a.environment.MaxReward())
	}

	bits, err := a.encodePercept(observation, reward)
	if err != nil {
		return err
	}
	learning := a.learningPeriod == 0 || a.age <= a.learningPeriod
	for _, b := range bits {
		if learning {
			err = a.predictor.Update(b)
		} else {
			err = a.predictor.UpdateHistory(b)
		}
		if err != nil {
			return err
		}
	}

	a.totalReward += float64(reward)
	a.lastUpdate = perceptUpdate
	return nil
}

// encodePercept encodes a (observation, reward) pair as reward bits
// followed by observation bits, matching the order UpdatePercept folds
// them into history.
func (a *Agent) encodePercept(observation, reward int) ([]int, error) {
	rewardBits, err := bitcodec.Encode(reward-a.environment.MinReward(), a.rewardWidth)
	if err != nil {
		return nil, err
	}
	observationBits, err := bitcodec.Encode(observation, a.observationWidth)
	if err != nil {
		return nil, err
	}
	return append(rewardBits, observationBits...), nil
}

// ActionProbability returns the predictor's probability of action given
// the current history. Apart from the one-time history padding Predict
// performs while history is shorter than the context depth, it mutates no
// state.
func (a *Agent) ActionProbability(action int) (float64, error) {
	bits, err := bitcodec.Encode(action, a.actionWidth)
	if err != nil {
		return 0, err
	}
	return a.predictor.Predict(bits)
}

// PerceptProbability returns the predictor's probability of the
// (observation, reward) percept given the current history. Apart from the
// one-time history padding Predict performs while history is shorter than
// the context depth, it mutates no state.
func (a *Agent) PerceptProbability(observation, reward int) (float64, error) {
	bits, err := a.encodePercept(observation, reward)
	if err != nil {
		return 0, err
	}
	return a.predictor.Predict(bits)
}

// Search runs the rho-UCT planner over the predictor's current model and
// returns its recommended action. It never touches Age, TotalReward, or
// the real action/percept alternation: every action it tries and every
// percept it samples while planning is undone before Search returns.
func (a *Agent) Search() (int, error) {
	return a.search.Plan(a)
}

// Playout runs horizon cycles of uniformly random actions
// against the predictor's own generative model (not the environment),
// used to estimate the value of a hypothetical continuation. The
// agent's state is fully restored before Playout returns, so repeated
// playouts never interfere with each other or with genuine interaction.
func (a *Agent) Playout(horizon int) (float64, error) {
	snapshot := a.snapshot()
	defer a.restore(snapshot)

	var total float64
	for i := 0; i < horizon; i++ {
		action := a.GenerateRandomAction()
		if err := a.UpdateAction(action); err != nil {
			return 0, err
		}
		reward, err := a.samplePerceptAndCommit()
		if err != nil {
			return 0, err
		}
		total += reward
	}
	return total, nil
}

// samplePerceptAndCommit draws a percept from the predictor's own model,
// folds it into the predictor directly, and updates the agent's real
// bookkeeping (total reward, last-update state) to match, without
// re-encoding through UpdatePercept (which would sample the predictor a
// second time).
func (a *Agent) samplePerceptAndCommit() (float64, error) {
	width := a.rewardWidth + a.observationWidth
	bits, err := a.predictor.SampleAndApply(width)
	if err != nil {
		return 0, err
	}
	rewardSymbol, err := bitcodec.Decode(bits[:a.rewardWidth], a.rewardWidth)
	if err != nil {
		return 0, err
	}
	reward := rewardSymbol + a.environment.MinReward()

	a.totalReward += float64(reward)
	a.lastUpdate = perceptUpdate
	return float64(reward), nil
}

// Reset clears the predictor and all bookkeeping, returning the agent to
// its just-constructed state.
func (a *Agent) Reset() {
	a.logger.Printf("agent: reset after %d cycles, total reward %.4f", a.age, a.totalReward)
	a.predictor.Clear()
	a.age = 0
	a.totalReward = 0
	a.lastUpdate = perceptUpdate
}

type agentSnapshot struct {
	predictor   *ctw.Snapshot
	age         int
	totalReward float64
	lastUpdate  updateKind
}

func (a *Agent) snapshot() agentSnapshot {
	return agentSnapshot{
		predictor:   a.predictor.Snapshot(),
		age:         a.age,
		totalReward: a.totalReward,
		lastUpdate:  a.lastUpdate,
	}
}

func (a *Agent) restore(s agentSnapshot) {
	a.predictor.Restore(s.predictor)
	a.age = s.age
	a.totalReward = s.totalReward
	a.lastUpdate = s.lastUpdate
}

// The following methods implement uct.Planner, giving the search tree
// access to the predictor only: none of them touch Age, TotalReward, or
// lastUpdate.

// NumActions implements uct.Planner.
func (a *Agent) NumActions() int { return a.environment.NumActions() }

// ApplyAction implements uct.Planner: it folds action into the
// predictor's history exactly as UpdateAction does, but performs none of
// UpdateAction's real bookkeeping or order enforcement.
func (a *Agent) ApplyAction(action int) error {
	bits, err := bitcodec.Encode(action, a.actionWidth)
	if err != nil {
		return err
	}
	for _, b := range bits {
		if err := a.predictor.UpdateHistory(b); err != nil {
			return err
		}
	}
	return nil
}

// SamplePerceptAndApply implements uct.Planner: it draws a percept from
// the predictor's own model and folds it directly into the predictor,
// without touching any real agent state.
func (a *Agent) SamplePerceptAndApply() (observation, reward int, err error) {
	width := a.rewardWidth + a.observationWidth
	bits, err := a.predictor.SampleAndApply(width)
	if err != nil {
		return 0, 0, err
	}
	rewardSymbol, err := bitcodec.Decode(bits[:a.rewardWidth], a.rewardWidth)
	if err != nil {
		return 0, 0, err
	}
	observation, err = bitcodec.Decode(bits[a.rewardWidth:], a.observationWidth)
	if err != nil {
		return 0, 0, err
	}
	return observation, rewardSymbol, nil
}

// RewardValue implements uct.Planner, mapping a reward symbol as
// returned by SamplePerceptAndApply back to its real numeric value.
func (a *Agent) RewardValue(reward int) float64 {
	return float64(reward + a.environment.MinReward())
}

// MaxReward implements uct.Planner.
func (a *Agent) MaxReward() float64 { return float64(a.environment.MaxReward()) }

// MinReward implements uct.Planner.
func (a *Agent) MinReward() float64 { return float64(a.environment.MinReward()) }

// Save implements uct.Planner by cloning the predictor once, rather than
// reverting symbol-by-symbol on the way back out of a simulation.
func (a *Agent) Save() interface{} { return a.predictor.Snapshot() }

// Load implements uct.Planner.
func (a *Agent) Load(state interface{}) { a.predictor.Restore(state.(*ctw.Snapshot)) }
