package state

import (
	"database/sql"
	"fmt"

	"scriptfetch/internal/download/types"
)

// DefaultHistoryLimit is used when LoadHistory is asked for zero rows.
const DefaultHistoryLimit = 20

// AddToHistory records a finished fetch. Rows are keyed by fetch ID, so
// recording the same ID twice replaces the earlier row.
func AddToHistory(entry types.FetchEntry) error {
	return withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO fetches (
				id, filename, url, dest_path, status, attempt, protocol,
				bytes, mime, error, created_at, time_taken
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.Filename, entry.URL, entry.DestPath, entry.Status, entry.Attempt, entry.Protocol,
			entry.Bytes, entry.MIME, entry.Error, entry.CreatedAt, entry.TimeTaken,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fetch: %w", err)
		}
		return nil
	})
}

// LoadHistory returns up to limit fetches, newest first.
func LoadHistory(limit int) ([]types.FetchEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	rows, err := d.Query(`
		SELECT id, filename, url, dest_path, status, attempt, protocol,
			bytes, mime, error, created_at, time_taken
		FROM fetches
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []types.FetchEntry
	for rows.Next() {
		var e types.FetchEntry
		var protocol, mime, errText sql.NullString
		if err := rows.Scan(&e.ID, &e.Filename, &e.URL, &e.DestPath, &e.Status, &e.Attempt, &protocol,
			&e.Bytes, &mime, &errText, &e.CreatedAt, &e.TimeTaken); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Protocol = protocol.String
		e.MIME = mime.String
		e.Error = errText.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// ClearHistory deletes every recorded fetch and returns how many were removed.
func ClearHistory() (int64, error) {
	var n int64
	err := withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM fetches`)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}

// HistoryStore adapts the package-level history functions to an interface
// value for callers that take a recorder.
type HistoryStore struct{}

func (HistoryStore) AddToHistory(entry types.FetchEntry) error {
	return AddToHistory(entry)
}

func (HistoryStore) LoadHistory(limit int) ([]types.FetchEntry, error) {
	return LoadHistory(limit)
}
