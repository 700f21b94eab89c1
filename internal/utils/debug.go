package utils

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

// maxPendingLines bounds the lines held before a logs dir is configured.
const maxPendingLines = 512

var (
	debugFile *os.File
	debugOnce sync.Once
	debugMu   sync.Mutex
	pending   []string
	logsDir   atomic.Value // string
	verbose   atomic.Bool
	mirror    atomic.Pointer[slog.Logger]
)

// ConfigureDebug sets the directory of the debug file. Until it is called
// with a non-empty dir, debug lines are only kept in memory and nothing is
// written to disk.
func ConfigureDebug(dir string) {
	logsDir.Store(dir)
}

// SetVerbose enables or disables verbose logging
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
	if !enabled {
		mirror.Store(nil)
	}
}

// MirrorTo also writes debug lines to w (normally stderr) through a tint handler.
// Only takes effect while verbose logging is enabled.
func MirrorTo(w io.Writer) {
	if w == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	})))
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	return verbose.Load()
}

func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l := mirror.Load(); l != nil {
		l.Log(context.Background(), slog.LevelDebug, msg)
	}

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)

	debugMu.Lock()
	defer debugMu.Unlock()

	dir, _ := logsDir.Load().(string)
	if dir == "" {
		if len(pending) < maxPendingLines {
			pending = append(pending, line)
		}
		return
	}

	debugOnce.Do(func() {
		os.MkdirAll(dir, 0755)
		debugFile, _ = os.Create(filepath.Join(dir, fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))))
		if debugFile != nil {
			for _, l := range pending {
				_, _ = io.WriteString(debugFile, l)
			}
		}
		pending = nil
	})
	if debugFile != nil {
		_, _ = io.WriteString(debugFile, line)
	}
}

// CloseDebug flushes and closes the debug file if one was opened and drops
// lines still held in memory. A later Debug call opens a new file.
func CloseDebug() {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debugFile != nil {
		_ = debugFile.Sync()
		_ = debugFile.Close()
		debugFile = nil
	}
	pending = nil
	debugOnce = sync.Once{}
}

// CleanupLogs removes old log files, keeping only the most recent retentionCount files
func CleanupLogs(retentionCount int) {
	if retentionCount < 0 {
		return // Keep all logs
	}

	val := logsDir.Load()
	if val == nil {
		return
	}
	dir := val.(string)

	if dir == "" {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// If directory doesn't exist, nothing to clean
		return
	}

	var logs []fs.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "debug-") && strings.HasSuffix(entry.Name(), ".log") {
			logs = append(logs, entry)
		}
	}

	// debug-YYYYMMDD-HHMMSS.log: reverse lexical order is newest first
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Name() > logs[j].Name()
	})

	if len(logs) <= retentionCount {
		return
	}

	for _, log := range logs[retentionCount:] {
		path := filepath.Join(dir, log.Name())
		_ = os.Remove(path)
	}
}
