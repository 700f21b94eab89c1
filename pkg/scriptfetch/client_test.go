package scriptfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptfetch/internal/config"
)

func TestResolveDefaultRepository(t *testing.T) {
	c, err := NewClient(&ClientOptions{
		Settings:       config.DefaultSettings(),
		OutputDir:      "/opt/scripts",
		DisableHistory: true,
	})
	require.NoError(t, err)
	defer c.Shutdown()

	target, err := c.Resolve("delete")
	require.NoError(t, err)
	assert.Equal(t, "delete.ps1", target.Filename)
	assert.Equal(t, "https://raw.githubusercontent.com/pauliukovich/public/refs/heads/main/delete.ps1", target.URL)
	assert.Equal(t, filepath.Join("/opt/scripts", "delete.ps1"), target.Path)

	_, err = c.Resolve(`c:\x.ps1`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ErrInvalidFilename)
}

func TestFetchWithHistoryAndEvents(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "Get-ChildItem")
	}))
	defer srv.Close()

	dir := t.TempDir()
	var seen []any
	c, err := NewClient(&ClientOptions{
		Settings:  config.DefaultSettings(),
		BaseURL:   srv.URL + "/",
		OutputDir: filepath.Join(dir, "out"),
		StatePath: filepath.Join(dir, "state", "history.db"),
		LogsDir:   filepath.Join(dir, "logs"),
		OnEvent:   func(msg any) { seen = append(seen, msg) },
	})
	require.NoError(t, err)
	defer c.Shutdown()

	res, err := c.Fetch(context.Background(), "list")
	require.NoError(t, err)
	assert.True(t, res.UsedFallback())

	data, err := os.ReadFile(filepath.Join(dir, "out", "list.ps1"))
	require.NoError(t, err)
	assert.Equal(t, "Get-ChildItem", string(data))

	require.Len(t, seen, 3)
	assert.IsType(t, FetchStartedMsg{}, seen[0])
	assert.IsType(t, AttemptFailedMsg{}, seen[1])
	assert.IsType(t, FetchCompleteMsg{}, seen[2])

	entries, err := c.History(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "list.ps1", entries[0].Filename)
	assert.Equal(t, 2, entries[0].Attempt)
}

func TestFetchInvalidNameDoesNoIO(t *testing.T) {
	dir := t.TempDir()
	c, err := NewClient(&ClientOptions{
		Settings:       config.DefaultSettings(),
		BaseURL:        "http://127.0.0.1:1/",
		OutputDir:      filepath.Join(dir, "out"),
		DisableHistory: true,
	})
	require.NoError(t, err)
	defer c.Shutdown()

	_, err = c.Fetch(context.Background(), "../up")
	assert.ErrorIs(t, err, ErrInvalidFilename)
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	_, err = c.History(1)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.Fetch(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, c.Shutdown())
}
