package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()

	paths := &Paths{
		OutputDir:    filepath.Join(tempDir, "out"),
		ChartFile:    filepath.Join(tempDir, "out", "charts", DefaultChartFile),
		SummaryFile:  filepath.Join(tempDir, "out", DefaultSummaryFile),
		ScenarioFile: filepath.Join(tempDir, "tables", DefaultScenarioFile),
		MetricsFile:  filepath.Join(tempDir, "metrics", "run.prom"),
	}

	t.Run("creates all directories", func(t *testing.T) {
		require.NoError(t, paths.EnsureDirectories())

		assert.DirExists(t, paths.OutputDir)
		assert.DirExists(t, filepath.Join(tempDir, "out", "charts"))
		assert.DirExists(t, filepath.Join(tempDir, "tables"))
		assert.DirExists(t, filepath.Join(tempDir, "metrics"))
	})

	t.Run("idempotent - can be called multiple times", func(t *testing.T) {
		require.NoError(t, paths.EnsureDirectories())
		require.NoError(t, paths.EnsureDirectories())
		assert.DirExists(t, paths.OutputDir)
	})

	t.Run("skips disabled outputs", func(t *testing.T) {
		assert.Empty(t, paths.WorkbookFile)
		assert.Empty(t, paths.TraceFile)
		require.NoError(t, paths.EnsureDirectories())
	})

	t.Run("fails when a parent is a file", func(t *testing.T) {
		blocker := filepath.Join(tempDir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		bad := &Paths{OutputDir: filepath.Join(blocker, "out")}
		err := bad.EnsureDirectories()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create directory")
	})
}

func TestResolvePaths_AbsoluteNames(t *testing.T) {
	dir := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "chart.png")

	cfg := Default()
	cfg.Output.Dir = dir
	cfg.Output.ChartFile = elsewhere
	cfg.Logging.Output = "both"

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, elsewhere, paths.ChartFile)
	assert.Equal(t, filepath.Join(dir, DefaultSummaryFile), paths.SummaryFile)
	assert.Empty(t, paths.WorkbookFile)
	assert.Equal(t, cfg.Logging.FilePath, paths.LogFile)
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		testFile := filepath.Join(tempDir, "exists.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0644))
		assert.True(t, FileExists(testFile))
	})

	t.Run("non-existing file", func(t *testing.T) {
		assert.False(t, FileExists(filepath.Join(tempDir, "missing.txt")))
	})

	t.Run("directory", func(t *testing.T) {
		assert.True(t, FileExists(tempDir))
	})
}
