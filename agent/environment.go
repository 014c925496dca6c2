package agent

// Environment is the contract an agent interacts with: a finite set of
// actions, a finite set of observations, and an integer reward confined
// to [MinReward, MaxReward]. Both the action set and the observation set
// are addressed by dense indices 0..N-1; an environment with a sparser
// or structured action/observation space is expected to map it onto this
// range itself.
type Environment interface {
	// NumActions returns how many actions are available at every step.
	NumActions() int

	// NumObservations returns how many distinct observations the
	// environment can produce.
	NumObservations() int

	// MinReward and MaxReward bound the integer reward the environment
	// can produce on any single step, inclusive.
	MinReward() int
	MaxReward() int

	// IsFinished reports whether the environment has reached a terminal
	// state and should no longer be acted upon.
	IsFinished() bool

	// Act applies action, advancing the environment by one step.
	Act(action int) error

	// Observation and Reward report the most recent step's percept.
	// They are only meaningful after at least one call to Act.
	Observation() int
	Reward() int
}
