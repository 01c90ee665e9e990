package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrapWritesDefaultConfigAndConstructsCore(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "governcore.toml")

	c, err := bootstrap(configPath, true, slog.Default())
	require.NoError(t, err)
	defer c.db.Close()

	require.FileExists(t, configPath)
	require.NotNil(t, c.oracles)
	require.NotNil(t, c.slashing)
	require.NotNil(t, c.orchestrator)
}

func TestBootstrapRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "governcore.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("DataDir = \"x\"\n[Params]\nMaxComplexity = 0\n"), 0o644))

	_, err := bootstrap(configPath, true, slog.Default())
	require.Error(t, err)
}
