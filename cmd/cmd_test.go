package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/railplan/config"
)

const twoStations = `[Stations]
A 5
B 5
[Lines]
AB A B 2 3
[Trains]
T0 A 1 1
T1 A 1 1
[Passengers]
P0 A B 1 4
P1 A B 1 4
`

// run executes the root command and resets every flag afterwards.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeNetwork(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "two.txt")
	require.NoError(t, os.WriteFile(path, []byte(twoStations), 0o644))
	return path
}

func TestSolveStdin(t *testing.T) {
	out, errOut, err := run(t, twoStations, "solve", "--budget-ms", "2000", "--seed", "3", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "[Train:T0]")
	assert.Contains(t, out, "[Passenger:P1]")
	assert.Contains(t, errOut, "arrived passengers")
	assert.Contains(t, errOut, "2/2")
}

func TestSolveFileWithExportAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	hist := filepath.Join(dir, "runs.jsonl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  path: "+hist+"\n"), 0o644))
	export := filepath.Join(dir, "plan.csv")

	out, _, err := run(t, "", "-c", cfgPath, "solve", writeNetwork(t), "--budget-ms", "2000",
		"-o", export, "--export-format", "csv", "--history", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "[Time:")

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time,kind,subject,action,target"))

	out, _, err = run(t, "", "-c", cfgPath, "history", "--legal")
	require.NoError(t, err)
	assert.Contains(t, out, "NETWORK")
	assert.Contains(t, out, "two.txt")
}

func TestSolveInvalidFlags(t *testing.T) {
	_, _, err := run(t, twoStations, "solve", "--workers=-2")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	out, _, err := run(t, "", "inspect", "--paths", writeNetwork(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Horizon:")
	assert.Contains(t, out, "Distance:")
	assert.Contains(t, out, `"A"`)

	_, _, err = run(t, "", "inspect", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestApplySolveFlagsKeepsZero(t *testing.T) {
	t.Cleanup(func() { resetFlags(solveCmd) })
	require.NoError(t, solveCmd.Flags().Set("max-candidates", "0"))
	require.NoError(t, solveCmd.Flags().Set("tabu-size", "0"))
	require.NoError(t, solveCmd.Flags().Set("debug", "true"))

	cfg := config.Default()
	require.NoError(t, applySolveFlags(solveCmd, cfg))
	assert.Equal(t, 0, cfg.Search.MaxCandidates)
	assert.Equal(t, 0, cfg.Search.TabuSize)
	assert.True(t, cfg.Search.Debug)
	assert.Equal(t, 1, cfg.Search.Workers)
}
