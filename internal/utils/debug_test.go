package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupLogsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"debug-20260101-100000.log",
		"debug-20260102-100000.log",
		"debug-20260103-100000.log",
		"other.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}

	ConfigureDebug(dir)
	t.Cleanup(func() { ConfigureDebug("") })
	CleanupLogs(1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{"debug-20260103-100000.log", "other.txt"}, left)
}

func TestCleanupLogsNegativeKeepsAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debug-20260101-100000.log"), nil, 0644))
	ConfigureDebug(dir)
	t.Cleanup(func() { ConfigureDebug("") })

	CleanupLogs(-1)

	_, err := os.Stat(filepath.Join(dir, "debug-20260101-100000.log"))
	assert.NoError(t, err)
}

func TestDebugMirrorsOnlyWhenVerbose(t *testing.T) {
	ConfigureDebug(t.TempDir())
	var buf bytes.Buffer
	MirrorTo(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		CloseDebug()
		ConfigureDebug("")
	})

	Debug("quiet %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	MirrorTo(&buf)
	Debug("loud %d", 2)
	assert.Contains(t, buf.String(), "loud 2")
}

func TestDebugHoldsLinesUntilConfigured(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ConfigureDebug("")
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		CloseDebug()
		ConfigureDebug("")
	})

	Debug("early %s", "line")
	assert.NoDirExists(t, dir)

	ConfigureDebug(dir)
	Debug("late %s", "line")
	CloseDebug()

	files, err := filepath.Glob(filepath.Join(dir, "debug-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "early line")
	assert.Contains(t, string(data), "late line")
}

func TestCloseDebugDropsHeldLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ConfigureDebug("")
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		CloseDebug()
		ConfigureDebug("")
	})

	Debug("rejected run")
	CloseDebug()

	ConfigureDebug(dir)
	Debug("next run")
	CloseDebug()

	files, err := filepath.Glob(filepath.Join(dir, "debug-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rejected run")
	assert.Contains(t, string(data), "next run")
}
