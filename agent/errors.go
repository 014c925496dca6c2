package agent

import "github.com/pkg/errors"

// ErrInvalidAction is returned when an action index falls outside the
// range the environment reports, or a percept falls outside its declared
// observation/reward ranges.
var ErrInvalidAction = errors.New("agent: invalid action or percept")

// ErrWrongUpdateOrder is returned when UpdateAction and UpdatePercept are
// not called in strict alternation, starting with UpdateAction.
var ErrWrongUpdateOrder = errors.New("agent: update called out of order")

// ErrConfigError is returned when a configuration file, environment
// variable, or struct value fails to load or fails validation.
var ErrConfigError = errors.New("agent: configuration error")
