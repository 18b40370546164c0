package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the full command tree with args and returns stdout, stderr
// and the error.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	restoreLogger(t)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bmicount", cmd.Use)
	assert.Contains(t, cmd.Long, "body-mass index")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"count", "calc", "check", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCountCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	countCmd, _, err := cmd.Find([]string{"count"})
	require.NoError(t, err)

	assert.Equal(t, "25", countCmd.Flags().Lookup("lower").DefValue)
	assert.Equal(t, "29.9", countCmd.Flags().Lookup("upper").DefValue)
	for _, name := range []string{"input-format", "db", "metrics-out", "watch", "sample"} {
		assert.NotNil(t, countCmd.Flags().Lookup(name), name)
	}
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	assert.NotNil(t, historyCmd.PersistentFlags().Lookup("db"))
	assert.Equal(t, "20", historyCmd.Flags().Lookup("limit").DefValue)

	for _, sub := range []string{"show", "verify"} {
		subCmd, _, err := cmd.Find([]string{"history", sub})
		require.NoError(t, err)
		assert.Equal(t, sub, subCmd.Name())
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := executeRoot(t, "--format", "xml", "count", "--sample")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRoot_SampleCount(t *testing.T) {
	out, _, err := executeRoot(t, "count", "--sample")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestRoot_ConfigBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmicount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bounds:\n  lower: 30\n  upper: 40\n"), 0o600))

	out, _, err := executeRoot(t, "--config", path, "count", "--sample")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	// Flags override the config.
	out, _, err = executeRoot(t, "--config", path, "count", "--sample", "--lower", "18.5", "--upper", "24.9")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmicount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bounds:\n  lower: 30\n  upper: 20\n"), 0o600))

	_, _, err := executeRoot(t, "--config", path, "count", "--sample")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	out, errOut, err := executeRoot(t, "-v", "count", "--sample")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, errOut, "batch aggregated")
}
