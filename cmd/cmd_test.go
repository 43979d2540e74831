package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its stdout. Flag
// values persist across Execute calls on the shared command tree, so every
// flag is reset to its default first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
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

// isolate points config lookup and the database at temp directories.
func isolate(t *testing.T) (bankPath, dbPath string) {
	t.Helper()
	bankPath, err := filepath.Abs(filepath.Join("..", "testdata", "banks", "arithmetic.yaml"))
	require.NoError(t, err)

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	return bankPath, filepath.Join(t.TempDir(), "quizcat.db")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quizcat (devel)\n", out)
}

func TestValidate(t *testing.T) {
	bankPath, _ := isolate(t)

	out, err := run(t, "validate", "--plain", bankPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+bankPath)
	assert.Contains(t, out, "Questions:   5")

	out, err = run(t, "validate", "--plain", bankPath, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 bank files invalid")
	assert.Contains(t, out, "✗ missing.yaml")
}

func TestEnvFileFlag(t *testing.T) {
	bankPath, _ := isolate(t)
	require.NoError(t, os.WriteFile("range.env", []byte("QUIZCAT_ENGINE_MAX_DIFFICULTY=20\n"), 0o644))
	t.Setenv("QUIZCAT_ENGINE_MAX_DIFFICULTY", "")
	require.NoError(t, os.Unsetenv("QUIZCAT_ENGINE_MAX_DIFFICULTY"))

	doc := "name: high\nmin_difficulty: 12\nquestions:\n  - {id: a, difficulty: 12, learning_objective: x, type: numeric}\n"
	require.NoError(t, os.WriteFile("high.yaml", []byte(doc), 0o644))
	_, err := run(t, "validate", "--plain", "--env-file", "range.env", "high.yaml")
	require.NoError(t, err)

	_, err = run(t, "validate", "--plain", "--env-file", "absent.env", bankPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestValidate_RangeOutsideConfig(t *testing.T) {
	isolate(t)
	doc := "name: high\nmin_difficulty: 12\nquestions:\n  - {id: a, difficulty: 12, learning_objective: x, type: numeric}\n"
	require.NoError(t, os.WriteFile("high.yaml", []byte(doc), 0o644))

	out, err := run(t, "validate", "--plain", "high.yaml")
	require.Error(t, err)
	assert.Contains(t, out, "✗ high.yaml")
	assert.Contains(t, out, "greater than max_difficulty")
}

func TestSimulate(t *testing.T) {
	bankPath, dbPath := isolate(t)

	out, err := run(t, "simulate", "--plain", "--bank", bankPath, "--ability", "10", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions: 5    Correct: 5    Accuracy: 100%")
	assert.Contains(t, out, "Expected score: 100 / 100")
	assert.NotContains(t, out, "Recorded session")

	out, err = run(t, "simulate", "--plain", "--bank", bankPath, "--ability", "0", "--max", "2", "--steps=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Questions: 2    Correct: 0    Accuracy: 0%")
	assert.NotContains(t, out, "Questions\n")

	_, err = run(t, "simulate", "--plain", "--db", dbPath)
	require.Error(t, err, "--bank is required")

	_, err = run(t, "simulate", "--bank", bankPath, "--ability", "3", "--script", "s.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestSimulateRecordAndStats(t *testing.T) {
	bankPath, dbPath := isolate(t)

	out, err := run(t, "simulate", "--plain", "--bank", bankPath, "--ability", "6.5", "--record", "--db", dbPath)
	require.NoError(t, err)
	m := regexp.MustCompile(`Recorded session (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	out, err = run(t, "stats", "--plain", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "arithmetic")
	assert.Contains(t, out, "1 sessions")

	out, err = run(t, "stats", "show", id, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ID:          "+id)
	assert.Contains(t, out, "Bank:        arithmetic")

	_, err = run(t, "stats", "show", "nope", "--db", dbPath)
	require.Error(t, err)

	out, err = run(t, "stats", "prune", "--keep", "0", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 recorded sessions.")

	out, err = run(t, "stats", "--plain", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no sessions recorded yet")
}

func TestSimulateMastery(t *testing.T) {
	bankPath, _ := isolate(t)

	// Every arithmetic objective has a single question, so nothing reaches
	// the attempt threshold; a scripted run over a one-objective bank does.
	dir := t.TempDir()
	single := filepath.Join(dir, "single.yaml")
	require.NoError(t, os.WriteFile(single, []byte(`
name: single
questions:
  - {id: a, difficulty: 5, learning_objective: sums, type: numeric}
  - {id: b, difficulty: 5, learning_objective: sums, type: numeric}
  - {id: c, difficulty: 5, learning_objective: sums, type: numeric}
`), 0o644))
	script := filepath.Join(dir, "script.yaml")
	require.NoError(t, os.WriteFile(script, []byte("steps:\n  - {correct: false, seconds: 40}\n  - {correct: false, seconds: 40}\n  - {correct: false, seconds: 40}\n"), 0o644))

	out, err := run(t, "simulate", "--plain", "--bank", single, "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "Needs work: sums")

	out, err = run(t, "simulate", "--plain", "--bank", single, "--script", script, "--mastery=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "Needs work")

	out, err = run(t, "simulate", "--plain", "--bank", bankPath, "--ability", "10")
	require.NoError(t, err)
	assert.NotContains(t, out, "Strengths:")
}
