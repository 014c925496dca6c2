package uct

// Planner is the contract a search needs from whatever is doing the
// planning. Implementations apply actions and sample percepts against
// their own predictive model, never against the outside world: the
// search tries many futures before the agent commits to one.
type Planner interface {
	// NumActions returns the number of actions available at every
	// decision point.
	NumActions() int

	// ApplyAction folds action into the model, predictor-side only: it
	// must not change any bookkeeping a real interaction would (age,
	// accumulated reward, and so on), since the search calls it many
	// times per real decision and always restores afterward.
	ApplyAction(action int) error

	// SamplePerceptAndApply draws a percept from the model conditioned
	// on everything applied so far, folds it in predictor-side, and
	// returns the percept's observation and reward symbols.
	SamplePerceptAndApply() (observation, reward int, err error)

	// RewardValue maps a reward symbol, as returned by
	// SamplePerceptAndApply, to the numeric reward value used for
	// backup and UCB normalization.
	RewardValue(reward int) float64

	// MaxReward and MinReward bound the numeric reward range, used to
	// normalize UCB's exploitation term into [0, 1].
	MaxReward() float64
	MinReward() float64

	// Save captures enough predictor-side state to undo every
	// ApplyAction/SamplePerceptAndApply call made since, and Load
	// restores it. The search calls Save once per simulation and Load
	// immediately after, so implementations are free to make this as
	// cheap or as thorough as they like (e.g. a single deep clone
	// rather than per-symbol reverts).
	Save() interface{}
	Load(state interface{})
}
