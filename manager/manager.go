// Package manager orchestrates one interactive fetch: greeting, filename
// input, validation, download with fallback, and the status lines printed
// along the way.
package manager

import (
	"context"
	"errors"

	"scriptfetch/internal/download"
	"scriptfetch/internal/download/types"
	"scriptfetch/internal/events"
	"scriptfetch/internal/names"
	"scriptfetch/internal/ui"
	"scriptfetch/internal/utils"
	"scriptfetch/util"
)

// Service resolves and fetches scripts. core.FetchService satisfies it.
type Service interface {
	Resolve(raw string) (types.Target, error)
	Fetch(ctx context.Context, target types.Target, publish events.Publisher) (*types.Result, error)
}

// InputFunc supplies the raw filename.
type InputFunc func() (string, error)

// ReportedError marks an error the console already showed to the user.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Reported reports whether err was already written to the console.
func Reported(err error) bool {
	var r *ReportedError
	return errors.As(err, &r)
}

type Manager struct {
	service Service
	console *ui.Console
	input   InputFunc
	prepare func(types.Target) error
}

func New(service Service, console *ui.Console, input InputFunc) *Manager {
	return &Manager{service: service, console: console, input: input}
}

// OnValidated registers fn to run after the name is accepted and before any
// network or filesystem work. An error from fn aborts the run.
func (m *Manager) OnValidated(fn func(types.Target) error) {
	m.prepare = fn
}

// Init prints the banner and the greeting shown before the prompt.
func (m *Manager) Init() {
	m.console.Banner(util.Banner)
	m.console.Greeting(util.Greeting, util.PromptHint, util.ExampleHint)
	m.console.Blank()
}

// End prints the farewell after a successful fetch.
func (m *Manager) End() {
	m.console.Farewell(util.Farewell)
}

// Run reads the filename, validates it and fetches it. An invalid name is
// reported without touching the network or the filesystem.
func (m *Manager) Run(ctx context.Context) (*types.Result, error) {
	raw, err := m.input()
	if err != nil {
		return nil, err
	}

	target, err := m.service.Resolve(raw)
	if err != nil {
		var verr *names.ValidationError
		if errors.As(err, &verr) {
			utils.Debug("Rejected filename %q (normalized %q)", verr.Input, verr.Filename)
			m.console.Error(util.InvalidInput)
			return nil, &ReportedError{Err: err}
		}
		return nil, err
	}

	if m.prepare != nil {
		if err := m.prepare(target); err != nil {
			return nil, err
		}
	}

	res, err := m.service.Fetch(ctx, target, m.HandleEvent)
	if err != nil {
		return nil, &ReportedError{Err: err}
	}
	return res, nil
}

// HandleEvent turns fetch events into console status lines.
func (m *Manager) HandleEvent(msg any) {
	switch msg := msg.(type) {
	case events.FetchStartedMsg:
		m.console.Info(util.DownloadingFmt, msg.URL, msg.DestPath)

	case events.AttemptFailedMsg:
		m.console.Error(util.FailedFmt, msg.Err)

	case events.FetchCompleteMsg:
		if msg.Attempt > 1 {
			m.console.Success(util.AltSuccessFmt, msg.DestPath)
		} else {
			m.console.Success(util.DoneFmt, msg.DestPath)
		}
		m.console.Detail(msg.Bytes, msg.Elapsed, msg.Protocol)

	case events.FetchErrorMsg:
		var derr *download.DownloadError
		if errors.As(msg.Err, &derr) && derr.Fallback != nil {
			m.console.Error(util.AltFailedFmt, derr.Fallback.Err)
			return
		}
		if derr != nil {
			m.console.Error(util.FailedFmt, derr.Err)
			return
		}
		m.console.Error(util.FailedFmt, msg.Err)
	}
}
