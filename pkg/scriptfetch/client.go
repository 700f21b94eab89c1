package scriptfetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"scriptfetch/internal/config"
	"scriptfetch/internal/core"
	"scriptfetch/internal/events"
	"scriptfetch/internal/state"
	"scriptfetch/internal/utils"
)

var errNotInitialized = errors.New("client not initialized")

// Client exposes a stable API for embedding scriptfetch while owning shared
// resources that must be initialized once per process.
type Client struct {
	service core.FetchService
	onEvent events.Publisher

	settings  *config.Settings
	statePath string
	logsDir   string

	closeOnce sync.Once
}

// NewClient initializes the engine and returns a ready-to-use client.
// History storage is only touched when recording is enabled.
func NewClient(opts *ClientOptions) (*Client, error) {
	settings := resolveSettings(opts)
	if settings == nil {
		return nil, errors.New("settings not available")
	}
	if opts != nil {
		if opts.BaseURL != "" {
			settings.General.BaseURL = opts.BaseURL
		}
		if opts.OutputDir != "" {
			settings.General.OutputDir = opts.OutputDir
		}
		if opts.DisableHistory {
			settings.General.RecordHistory = false
		}
	}

	logsDir := config.GetLogsDir()
	if opts != nil && opts.LogsDir != "" {
		logsDir = opts.LogsDir
	}

	// Verbosity is process-wide; the debug file dir is set on the first
	// accepted Fetch so a rejected name writes nothing.
	if opts != nil {
		utils.SetVerbose(opts.Verbose)
	}

	statePath := config.GetHistoryDBPath()
	if opts != nil && opts.StatePath != "" {
		statePath = opts.StatePath
	}
	if settings.General.RecordHistory {
		if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
			return nil, err
		}
		state.Configure(statePath)
	}

	service, err := core.NewLocalFetchService(settings)
	if err != nil {
		return nil, err
	}

	var onEvent events.Publisher
	if opts != nil && opts.OnEvent != nil {
		onEvent = opts.OnEvent
	}

	return &Client{
		service:   service,
		onEvent:   onEvent,
		settings:  settings,
		statePath: statePath,
		logsDir:   logsDir,
	}, nil
}

// resolveSettings keeps the client usable even when settings are missing
// or fail to load from disk.
func resolveSettings(opts *ClientOptions) *config.Settings {
	if opts != nil && opts.Settings != nil {
		s := *opts.Settings
		return &s
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return config.DefaultSettings()
	}
	return settings
}

// Settings returns the effective settings after option overrides.
func (c *Client) Settings() *Settings {
	if c == nil {
		return nil
	}
	return c.settings
}

// Resolve normalizes a raw filename and returns where it would be fetched
// from and saved to. It performs no I/O.
func (c *Client) Resolve(raw string) (Target, error) {
	if c == nil || c.service == nil {
		return Target{}, errNotInitialized
	}
	return c.service.Resolve(raw)
}

// Fetch resolves raw and downloads it, trying the alternate client once if
// the primary one fails.
func (c *Client) Fetch(ctx context.Context, raw string) (*Result, error) {
	if c == nil || c.service == nil {
		return nil, errNotInitialized
	}
	target, err := c.service.Resolve(raw)
	if err != nil {
		return nil, err
	}
	utils.ConfigureDebug(c.logsDir)
	return c.service.Fetch(ctx, target, c.onEvent)
}

// History returns up to limit recorded fetches, newest first.
func (c *Client) History(limit int) ([]HistoryEntry, error) {
	if c == nil || c.service == nil {
		return nil, errNotInitialized
	}
	return c.service.History(limit)
}

// Shutdown releases network and state resources.
// It is safe to call multiple times from different goroutines.
func (c *Client) Shutdown() error {
	if c == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		if c.service != nil {
			c.service.Close()
		}
		if c.settings != nil && c.settings.General.RecordHistory {
			state.CloseDB()
		}
	})
	return nil
}
