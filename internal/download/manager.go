package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"scriptfetch/greenhttp"
	"scriptfetch/internal/download/types"
	"scriptfetch/internal/events"
	"scriptfetch/internal/utils"
)

// ErrOutputDir is wrapped when the output directory cannot be created.
var ErrOutputDir = errors.New("cannot create output directory")

// DownloadError is returned when a fetch fails. Err is the primary failure;
// Fallback is set when the alternate client was tried and failed too.
type DownloadError struct {
	URL      string
	Path     string
	Err      error
	Fallback *FallbackError
}

func (e *DownloadError) Error() string {
	if e.Fallback != nil {
		return fmt.Sprintf("failed to download %s: %v; %v", e.URL, e.Err, e.Fallback)
	}
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() []error {
	if e.Fallback != nil {
		return []error{e.Err, e.Fallback}
	}
	return []error{e.Err}
}

// FallbackError is the failure of the alternate attempt.
type FallbackError struct {
	Protocol string
	Err      error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("alternative attempt (%s) failed: %v", e.Protocol, e.Err)
}

func (e *FallbackError) Unwrap() error {
	return e.Err
}

// Recorder persists finished fetches.
type Recorder interface {
	AddToHistory(entry types.FetchEntry) error
}

// Fetcher downloads a Target through a greenhttp.Client.
type Fetcher struct {
	client   *greenhttp.Client
	recorder Recorder
}

// NewFetcher returns a Fetcher. recorder may be nil to skip history.
func NewFetcher(client *greenhttp.Client, recorder Recorder) *Fetcher {
	return &Fetcher{client: client, recorder: recorder}
}

// Fetch downloads target.URL to target.Path, overwriting any existing file.
// The body is streamed to a .part file that is renamed into place only when
// complete. If the primary attempt fails for any reason the alternate client
// gets exactly one more try.
func (f *Fetcher) Fetch(ctx context.Context, target types.Target, publish events.Publisher) (*types.Result, error) {
	id := uuid.New().String()
	start := time.Now()

	publish.Publish(events.FetchStartedMsg{
		FetchID:  id,
		Filename: target.Filename,
		URL:      target.URL,
		DestPath: target.Path,
	})

	if err := os.MkdirAll(filepath.Dir(target.Path), 0o755); err != nil {
		derr := &DownloadError{URL: target.URL, Path: target.Path, Err: fmt.Errorf("%w: %w", ErrOutputDir, err)}
		f.finish(id, target, nil, nil, start, derr, publish)
		return nil, derr
	}

	var payload types.PayloadInfo
	var written int64
	sink := func(resp *http.Response) error {
		n, info, err := writeBody(resp, target.Path)
		written, payload = n, info
		return err
	}

	utils.Debug("Fetch %s: %s -> %s", id, target.URL, target.Path)
	outcome, err := f.client.Get(ctx, target.URL, sink, func(ae *greenhttp.AttemptError) {
		publish.Publish(events.AttemptFailedMsg{
			FetchID:  id,
			Filename: target.Filename,
			Attempt:  ae.Attempt,
			Protocol: ae.Protocol,
			Err:      ae.Err,
		})
	})
	if err != nil {
		derr := newDownloadError(target, outcome, err)
		f.finish(id, target, outcome, nil, start, derr, publish)
		return nil, derr
	}

	res := &types.Result{
		ID:       id,
		Target:   target,
		Attempt:  outcome.Attempt,
		Protocol: outcome.Protocol,
		Bytes:    written,
		Elapsed:  time.Since(start),
		Payload:  payload,
	}
	if !utils.LooksLikeScript(payload) {
		utils.Debug("Fetch %s: payload does not look like a script (mime=%q magic=%q)", id, payload.MIME, payload.MagicType)
	}
	if payload.SuggestedName != "" && payload.SuggestedName != target.Filename {
		utils.Debug("Fetch %s: server suggested name %q, keeping %q", id, payload.SuggestedName, target.Filename)
	}
	f.finish(id, target, outcome, res, start, nil, publish)
	return res, nil
}

// writeBody streams resp into path+".part" and renames it over path.
// Each call starts from an empty file so a retried attempt never appends.
func writeBody(resp *http.Response, path string) (int64, types.PayloadInfo, error) {
	partPath := path + types.IncompleteSuffix

	body, info, err := utils.InspectPayload(resp)
	if err != nil {
		return 0, info, err
	}

	out, err := os.Create(partPath)
	if err != nil {
		return 0, info, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(out, body)
	if err != nil {
		err = fmt.Errorf("failed to write file: %w", err)
	} else if err = out.Sync(); err != nil {
		err = fmt.Errorf("failed to sync file: %w", err)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close file: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(partPath)
		return n, info, err
	}

	if err := os.Rename(partPath, path); err != nil {
		_ = os.Remove(partPath)
		return n, info, fmt.Errorf("failed to rename completed file: %w", err)
	}
	return n, info, nil
}

func newDownloadError(target types.Target, outcome *greenhttp.Outcome, err error) *DownloadError {
	derr := &DownloadError{URL: target.URL, Path: target.Path, Err: err}
	if outcome == nil || len(outcome.Failures) == 0 {
		return derr
	}
	derr.Err = outcome.Failures[0].Err
	if len(outcome.Failures) > 1 {
		last := outcome.Failures[len(outcome.Failures)-1]
		derr.Fallback = &FallbackError{Protocol: last.Protocol, Err: last.Err}
	}
	return derr
}

// finish publishes the terminal event and records history.
func (f *Fetcher) finish(id string, target types.Target, outcome *greenhttp.Outcome, res *types.Result, start time.Time, fetchErr error, publish events.Publisher) {
	elapsed := time.Since(start)
	entry := types.FetchEntry{
		ID:        id,
		Filename:  target.Filename,
		URL:       target.URL,
		DestPath:  target.Path,
		CreatedAt: start.Unix(),
		TimeTaken: elapsed.Milliseconds(),
	}

	if fetchErr != nil {
		entry.Status = types.StatusFailed
		entry.Error = fetchErr.Error()
		if outcome != nil {
			entry.Attempt = len(outcome.Failures)
			if n := len(outcome.Failures); n > 0 {
				entry.Protocol = outcome.Failures[n-1].Protocol
			}
		}
		publish.Publish(events.FetchErrorMsg{FetchID: id, Filename: target.Filename, Err: fetchErr})
	} else {
		entry.Status = types.StatusCompleted
		entry.Attempt = res.Attempt
		entry.Protocol = res.Protocol
		entry.Bytes = res.Bytes
		entry.MIME = res.Payload.MIME
		publish.Publish(events.FetchCompleteMsg{
			FetchID:  id,
			Filename: target.Filename,
			DestPath: target.Path,
			Attempt:  res.Attempt,
			Protocol: res.Protocol,
			Bytes:    res.Bytes,
			Elapsed:  elapsed,
		})
	}

	if f.recorder == nil {
		return
	}
	if err := f.recorder.AddToHistory(entry); err != nil {
		utils.Debug("Failed to record fetch %s: %v", id, err)
	}
}
