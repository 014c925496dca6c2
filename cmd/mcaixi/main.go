// Command mcaixi runs an MC-AIXI-CTW agent against the built-in coin-flip
// environment for a configured number of cycles, printing one line of
// progress per cycle. It demonstrates the agent/environment contract; it
// is not the experiment driver a full evaluation harness would be.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/yuxi-liu-wired/mc-aixi-ctw/agent"
	"github.com/yuxi-liu-wired/mc-aixi-ctw/environments/coinflip"
)

// CLI is the command-line interface's argument schema.
var CLI struct {
	Config    string  `help:"Path to a YAML config file overriding the defaults." type:"existingfile" name:"config"`
	Cycles    int     `help:"Number of action/percept cycles to run." default:"200"`
	HeadsProb float64 `help:"Probability the coin lands heads." default:"0.7" name:"heads-prob"`
	Quiet     bool    `help:"Suppress per-cycle progress lines." short:"q"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("mcaixi"),
		kong.Description("Run an MC-AIXI-CTW agent against a biased coin."),
		kong.UsageOnError(),
	)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := agent.LoadConfig(CLI.Config)
	if err != nil {
		return err
	}

	env := coinflip.New(CLI.HeadsProb)
	a, err := agent.New(env, *cfg)
	if err != nil {
		return err
	}

	for cycle := 0; cycle < CLI.Cycles; cycle++ {
		action, err := a.Search()
		if err != nil {
			return err
		}
		if err := a.UpdateAction(action); err != nil {
			return err
		}
		if err := env.Act(action); err != nil {
			return err
		}
		if err := a.UpdatePercept(env.Observation(), env.Reward()); err != nil {
			return err
		}

		if !CLI.Quiet {
			log.Printf("cycle %d: action=%d observation=%d reward=%d average_reward=%.4f model_size=%d",
				cycle, action, env.Observation(), env.Reward(), a.AverageReward(), a.ModelSize())
		}
	}

	fmt.Printf("final average reward after %d cycles: %.4f\n", CLI.Cycles, a.AverageReward())
	return nil
}
