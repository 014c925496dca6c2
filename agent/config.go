package agent

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds the agent's tunable parameters, named after the
// configuration keys an agent exposes to its caller.
type Config struct {
	// AgentHorizon is the number of decision/percept pairs the planner
	// looks ahead when evaluating an action.
	AgentHorizon int `koanf:"agent-horizon" validate:"required,min=1"`

	// CTDepth is the maximum context depth of the context tree
	// predictor.
	CTDepth int `koanf:"ct-depth" validate:"required,min=1"`

	// MCSimulations is the number of rollouts the planner runs per
	// decision.
	MCSimulations int `koanf:"mc-simulations" validate:"required,min=1"`

	// LearningPeriod is the number of cycles, from the start of an
	// agent's life, during which percepts update the predictor's
	// learned weights. After it elapses, percepts still extend history
	// but no longer change the model. Zero means percepts always update
	// the model.
	LearningPeriod int `koanf:"learning-period" validate:"min=0"`

	// ExplorationConstant weights UCB1's exploration term during
	// planning.
	ExplorationConstant float64 `koanf:"exploration-constant" validate:"min=0"`
}

// DefaultConfig returns the configuration values used when neither a
// config file nor the environment supplies one.
func DefaultConfig() Config {
	return Config{
		AgentHorizon:        16,
		CTDepth:             8,
		MCSimulations:       300,
		LearningPeriod:      0,
		ExplorationConstant: 2.0,
	}
}

// LoadConfig loads configuration with precedence environment variables
// over the config file (if configPath is non-empty) over DefaultConfig,
// then validates the result.
//
// Environment variables are read with the MCAIXI_ prefix, e.g.
// MCAIXI_AGENT_HORIZON overrides agent-horizon.
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(defaultsMap(defaults), "."), nil); err != nil {
		return nil, errors.Wrap(ErrConfigError, err.Error())
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(ErrConfigError, "loading config file %s: %v", configPath, err)
		}
	}

	err := k.Load(env.Provider("MCAIXI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MCAIXI_")
		s = strings.ReplaceAll(s, "_", "-")
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(ErrConfigError, err.Error())
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrapf(ErrConfigError, "unmarshalling config: %v", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrapf(ErrConfigError, "validating config: %v", err)
	}
	return &cfg, nil
}

// defaultsMap flattens a Config into the map confmap.Provider expects, so
// DefaultConfig can be loaded through the same pipeline as the file and
// env layers.
func defaultsMap(cfg Config) map[string]interface{} {
	return map[string]interface{}{
		"agent-horizon":        cfg.AgentHorizon,
		"ct-depth":             cfg.CTDepth,
		"mc-simulations":       cfg.MCSimulations,
		"learning-period":      cfg.LearningPeriod,
		"exploration-constant": cfg.ExplorationConstant,
	}
}
