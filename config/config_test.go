package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, HeuristicVSIDS, cfg.Heuristic)
	assert.Equal(t, RestartGlucoseEma, cfg.RestartPolicy)
	assert.True(t, cfg.Inprocessing)
	assert.Equal(t, ProgressMedium, cfg.Progress)
	assert.Empty(t, cfg.ProofPath)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := Default()
	cfg.Heuristic = "best_effort"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RestartPolicy = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Progress = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.BveMaxResolventLen = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	body := "heuristic: vmtf\nrestart_policy: luby\ninprocessing: false\nprogress: \"off\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Default().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, HeuristicVMTF, cfg.Heuristic)
	assert.Equal(t, RestartLuby, cfg.RestartPolicy)
	assert.False(t, cfg.Inprocessing)
	assert.Equal(t, ProgressOff, cfg.Progress)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 12, cfg.BveMaxResolventLen)
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heuristic: magic\n"), 0o644))
	_, err := Default().LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := Default().LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFromMap(t *testing.T) {
	cfg, err := Default().FromMap(map[string]interface{}{
		"heuristic":      "decay",
		"restart_policy": "fixed",
		"inprocessing":   false,
		"bve_slack":      2,
	})
	require.NoError(t, err)
	assert.Equal(t, HeuristicDecay, cfg.Heuristic)
	assert.Equal(t, RestartFixed, cfg.RestartPolicy)
	assert.False(t, cfg.Inprocessing)
	assert.Equal(t, 2, cfg.BveSlack)
}

func TestFromMapRejectsUnknownKeys(t *testing.T) {
	_, err := Default().FromMap(map[string]interface{}{"parallelism": 8})
	assert.Error(t, err)
}
