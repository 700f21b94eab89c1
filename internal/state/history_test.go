package state

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptfetch/internal/download/types"
)

func setupDB(t *testing.T) {
	t.Helper()
	Configure(filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(CloseDB)
}

func TestGetDBRequiresConfigure(t *testing.T) {
	CloseDB()
	Configure("")
	_, err := GetDB()
	assert.ErrorContains(t, err, "not configured")
}

func TestAddAndLoadHistory(t *testing.T) {
	setupDB(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, AddToHistory(types.FetchEntry{
			ID:        fmt.Sprintf("id-%d", i),
			Filename:  fmt.Sprintf("s%d.ps1", i),
			URL:       fmt.Sprintf("https://example.test/s%d.ps1", i),
			DestPath:  fmt.Sprintf("/tmp/s%d.ps1", i),
			Status:    types.StatusCompleted,
			Attempt:   1,
			Protocol:  types.ProtocolAuto,
			Bytes:     int64(i * 10),
			MIME:      "text/plain; charset=utf-8",
			CreatedAt: int64(1000 + i),
			TimeTaken: 5,
		}))
	}

	entries, err := LoadHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-3", entries[0].ID)
	assert.Equal(t, "id-2", entries[1].ID)
	assert.Equal(t, int64(30), entries[0].Bytes)
	assert.Equal(t, "text/plain; charset=utf-8", entries[0].MIME)
}

func TestAddToHistoryReplacesSameID(t *testing.T) {
	setupDB(t)

	entry := types.FetchEntry{ID: "same", Filename: "a.ps1", URL: "u", DestPath: "p", Status: types.StatusFailed, Error: "boom", CreatedAt: 1}
	require.NoError(t, AddToHistory(entry))
	entry.Status = types.StatusCompleted
	entry.Error = ""
	entry.Attempt = 2
	require.NoError(t, AddToHistory(entry))

	entries, err := LoadHistory(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StatusCompleted, entries[0].Status)
	assert.Equal(t, 2, entries[0].Attempt)
	assert.Empty(t, entries[0].Error)
}

func TestClearHistory(t *testing.T) {
	setupDB(t)

	store := HistoryStore{}
	require.NoError(t, store.AddToHistory(types.FetchEntry{ID: "a", Filename: "a.ps1", URL: "u", DestPath: "p", Status: types.StatusCompleted}))
	require.NoError(t, store.AddToHistory(types.FetchEntry{ID: "b", Filename: "b.ps1", URL: "u", DestPath: "p", Status: types.StatusFailed}))

	n, err := ClearHistory()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	entries, err := store.LoadHistory(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
