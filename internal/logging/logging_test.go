package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	log, err := New(Config{Environment: "development", Path: path})
	require.NoError(t, err)

	log.Debugw("debug line", "k", "v")
	log.Infow("info line")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "debug line")
	require.Contains(t, string(b), "k")
	require.Contains(t, string(b), "INFO")
}

func TestNew_ProductionDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	log, err := New(Config{Environment: "Production", Path: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(b), "hidden")
	require.Contains(t, string(b), "shown")
}

func TestNew_RejectsUnknownEnvironment(t *testing.T) {
	_, err := New(Config{Environment: "staging"})
	require.Error(t, err)
}
