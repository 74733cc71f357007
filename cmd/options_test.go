package cmd

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags() (*pflag.FlagSet, *int64, *string, *string) {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	s := fs.Int64("seed", 42, "")
	l := fs.String("log", "warn", "")
	o := fs.String("output", "hall.out", "")
	fs.String("events-db", "", "")
	return fs, s, l, o
}

func TestApplyEnv_FillsUnsetFlags(t *testing.T) {
	// GIVEN environment overrides and no explicit flags
	t.Setenv("HALLSIM_SEED", "7")
	t.Setenv("HALLSIM_LOG", "debug")
	fs, seed, level, output := newTestFlags()
	require.NoError(t, fs.Parse(nil))

	// WHEN the environment is applied
	require.NoError(t, applyEnv(fs))

	// THEN the flags take the environment values, others keep defaults
	assert.Equal(t, int64(7), *seed)
	assert.Equal(t, "debug", *level)
	assert.Equal(t, "hall.out", *output)
}

func TestApplyEnv_ExplicitFlagWins(t *testing.T) {
	t.Setenv("HALLSIM_OUTPUT", "env.out")
	fs, _, _, output := newTestFlags()
	require.NoError(t, fs.Parse([]string{"--output", "flag.out"}))

	require.NoError(t, applyEnv(fs))

	assert.Equal(t, "flag.out", *output)
}

func TestApplyEnv_MalformedSeed(t *testing.T) {
	t.Setenv("HALLSIM_SEED", "not-a-number")
	fs, _, _, _ := newTestFlags()
	require.NoError(t, fs.Parse(nil))

	assert.Error(t, applyEnv(fs))
}

func TestApplyEnv_EmptyOutputDisablesTextLog(t *testing.T) {
	// GIVEN HALLSIM_OUTPUT set to the empty string
	t.Setenv("HALLSIM_OUTPUT", "")
	fs, _, _, output := newTestFlags()
	require.NoError(t, fs.Parse(nil))

	// WHEN the environment is applied
	require.NoError(t, applyEnv(fs))

	// THEN the text log is disabled, as with --output ""
	assert.Equal(t, "", *output)
}

func TestApplyEnv_UnsetVariableKeepsDefault(t *testing.T) {
	t.Setenv("HALLSIM_OUTPUT", "placeholder")
	require.NoError(t, os.Unsetenv("HALLSIM_OUTPUT"))
	fs, _, _, output := newTestFlags()
	require.NoError(t, fs.Parse(nil))

	require.NoError(t, applyEnv(fs))

	assert.Equal(t, "hall.out", *output)
}
