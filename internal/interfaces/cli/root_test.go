package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const quietConfig = `
log:
  level: error
  format: console
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regrisk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with args and returns what it wrote.
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// withProbe attaches a subcommand that captures the initialized CLIContext.
func withProbe(root *cobra.Command, got **CLIContext) *cobra.Command {
	root.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := GetCLIContext(cmd)
			*got = c
			return err
		},
	})
	return root
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "regrisk", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.True(t, cmd.SilenceUsage)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"classify", "serve", "worker", "migrate"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
	assert.Equal(t, OutputText, cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestPersistentPreRun_BuildsContext(t *testing.T) {
	path := writeConfig(t, quietConfig)
	var got *CLIContext
	root := withProbe(NewRootCommand(), &got)

	_, _, err := executeCommand(t, root, "probe", "--config", path, "-o", "JSON")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, OutputJSON, got.OutputFormat)
	assert.Equal(t, path, got.ConfigPath)
	assert.Equal(t, "error", got.Config.Log.Level)
	assert.NotNil(t, got.Logger)
}

func TestPersistentPreRun_LogLevelOverride(t *testing.T) {
	var got *CLIContext
	root := withProbe(NewRootCommand(), &got)

	_, _, err := executeCommand(t, root, "probe", "--config", writeConfig(t, quietConfig), "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", got.Config.Log.Level)
}

func TestPersistentPreRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad output format", []string{"-o", "yaml"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"bad log level", []string{"--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *CLIContext
			root := withProbe(NewRootCommand(), &got)
			args := append([]string{"probe"}, tt.args...)
			if tt.name != "missing config file" {
				args = append(args, "--config", writeConfig(t, quietConfig))
			}
			_, _, err := executeCommand(t, root, args...)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Equal(t, errors.ErrCodeInternal, errors.GetCode(err))
}

func TestFormatTable(t *testing.T) {
	t.Run("ascii", func(t *testing.T) {
		out := FormatTable([]string{"A", "NAME"}, [][]string{{"1", "가나"}, {"22", "x"}})
		assert.Equal(t, "A   NAME\n--  ----\n1   가나\n22  x\n", out)
	})
	t.Run("wide cells", func(t *testing.T) {
		out := FormatTable([]string{"KIND", "SEQ"}, [][]string{{"근저당권", "1"}})
		assert.Equal(t, "KIND      SEQ\n--------  ---\n근저당권  1\n", out)
	})
	t.Run("short rows", func(t *testing.T) {
		out := FormatTable([]string{"A", "B"}, [][]string{{"x"}})
		assert.Equal(t, "A  B\n-  -\nx  \n", out)
	})
	t.Run("no headers", func(t *testing.T) {
		assert.Empty(t, FormatTable(nil, [][]string{{"x"}}))
	})
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("abc"))
	assert.Equal(t, 4, displayWidth("갑구"))
	assert.Equal(t, 8, displayWidth("【갑구】"))
}

type tableValue struct{}

func (tableValue) String() string         { return "as text" }
func (tableValue) TableHeaders() []string { return []string{"H"} }
func (tableValue) TableRows() [][]string  { return [][]string{{"v"}} }

func TestPrintResult_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{OutputText, "as text\n"},
		{OutputTable, "H\n-\nv\n"},
		{OutputJSON, "{}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{OutputFormat: tt.format}))
			require.NoError(t, PrintResult(cmd, tableValue{}))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPrintError(t *testing.T) {
	var errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&errOut)
	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())
	PrintError(cmd, errors.New(errors.ErrCodeBadRequest, "boom"))
	assert.Contains(t, errOut.String(), "Error: ")
	assert.Contains(t, errOut.String(), "boom")
}

//Personal.AI order the ending
