package cmd

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// envOptions holds the ambient settings that may come from the environment.
type envOptions struct {
	Seed     string `env:"HALLSIM_SEED"`
	LogLevel string `env:"HALLSIM_LOG"`
	Output   string `env:"HALLSIM_OUTPUT"`
	EventsDB string `env:"HALLSIM_EVENTS_DB"`
}

// applyEnv fills every flag the user did not set from its HALLSIM_* variable.
// Explicit flags always win. A variable set to the empty string counts as
// set, so HALLSIM_OUTPUT= disables the text log just like --output "".
func applyEnv(flags *pflag.FlagSet) error {
	var opts envOptions
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	for _, o := range []struct {
		flag, variable, value string
	}{
		{"seed", "HALLSIM_SEED", opts.Seed},
		{"log", "HALLSIM_LOG", opts.LogLevel},
		{"output", "HALLSIM_OUTPUT", opts.Output},
		{"events-db", "HALLSIM_EVENTS_DB", opts.EventsDB},
	} {
		if _, set := os.LookupEnv(o.variable); !set {
			continue
		}
		if flags.Lookup(o.flag) == nil || flags.Changed(o.flag) {
			continue
		}
		if err := flags.Set(o.flag, o.value); err != nil {
			return fmt.Errorf("applying %s to --%s: %w", o.variable, o.flag, err)
		}
	}
	return nil
}
