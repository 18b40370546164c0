package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Valid(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"42"}, "42 is a valid integer\n"},
		{[]string{"1.5", "--kind", "float"}, "1.5 is a valid float\n"},
		{[]string{"42", "--kind", "int"}, "42 is a valid integer\n"},
	}

	for _, tt := range tests {
		out, _, err := execute(t, NewCheckCommand(&RootOptions{Format: "text"}), tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, out)
	}
}

func TestCheck_Mismatch(t *testing.T) {
	out, _, err := execute(t, NewCheckCommand(&RootOptions{Format: "json"}), "1.5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATATYPE_MISMATCH", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, `"1.5"`)
	assert.Contains(t, resp.Error.Message, "expecting integer")
}

func TestCheck_UnknownKind(t *testing.T) {
	_, _, err := execute(t, NewCheckCommand(&RootOptions{Format: "text"}), "1", "--kind", "complex")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
