package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.png")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{
		"plan",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--log-level", "error",
		"--algorithm", "RRTConnect",
		"--timeout", "5",
		"--out", out,
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var result JobResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, KindSuccess, result.Kind)
	assert.NotEmpty(t, result.RequestID)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
}

func TestPlannerOverrides(t *testing.T) {
	cmd := &cobra.Command{}
	addPlannerFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--algorithm", "PRM", "--connection-radius", "2", "--timeout", "1.5"}))

	got := plannerOverrides(cmd, DefaultPlannerSettings())
	assert.Equal(t, PlannerSettings{
		Algorithm:        AlgorithmPRM,
		StepSize:         0.5,
		GoalBias:         0.05,
		SearchRadius:     1,
		ConnectionRadius: 2,
		TimeoutSeconds:   1.5,
	}, got)
}
