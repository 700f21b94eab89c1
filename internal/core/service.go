// Package core wires the filename validator, the HTTP client chain and the
// fetcher into one service shared by the CLI and the embedding API.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scriptfetch/greenhttp"
	"scriptfetch/internal/config"
	"scriptfetch/internal/download"
	"scriptfetch/internal/download/types"
	"scriptfetch/internal/events"
	"scriptfetch/internal/names"
	"scriptfetch/internal/state"
	"scriptfetch/internal/utils"
)

// ErrHistoryDisabled is returned by History when recording is turned off.
var ErrHistoryDisabled = errors.New("fetch history is disabled")

// FetchService is the operation surface used by the CLI and pkg/scriptfetch.
type FetchService interface {
	Resolve(raw string) (types.Target, error)
	Fetch(ctx context.Context, target types.Target, publish events.Publisher) (*types.Result, error)
	History(limit int) ([]types.FetchEntry, error)
	Close()
}

// LocalFetchService runs fetches in-process.
type LocalFetchService struct {
	validator *names.Validator
	client    *greenhttp.Client
	fetcher   *download.Fetcher
	history   bool
}

// NewLocalFetchService builds the service from settings. The state DB must
// already be configured when settings.General.RecordHistory is set.
func NewLocalFetchService(settings *config.Settings) (*LocalFetchService, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	rc, err := types.ConvertRuntimeConfig(settings.Network)
	if err != nil {
		return nil, fmt.Errorf("invalid network settings: %w", err)
	}
	client, err := greenhttp.NewClient(greenhttp.OptionsFromRuntime(rc))
	if err != nil {
		return nil, err
	}

	var recorder download.Recorder
	if settings.General.RecordHistory {
		recorder = state.HistoryStore{}
	}

	outputDir := settings.General.OutputDir
	if outputDir != "" {
		outputDir = utils.EnsureAbsPath(outputDir)
	}

	utils.Debug("Service: base=%s out=%s protocols=%v", settings.General.BaseURL, outputDir, client.Protocols())

	return &LocalFetchService{
		validator: names.NewValidator(withTrailingSlash(settings.General.BaseURL), outputDir, settings.General.DefaultFilename),
		client:    client,
		fetcher:   download.NewFetcher(client, recorder),
		history:   settings.General.RecordHistory,
	}, nil
}

func withTrailingSlash(base string) string {
	if base == "" || strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

// Resolve normalizes raw input and derives its URL and output path.
func (s *LocalFetchService) Resolve(raw string) (types.Target, error) {
	return s.validator.Resolve(raw)
}

// Fetch downloads target, trying the fallback client once on failure.
func (s *LocalFetchService) Fetch(ctx context.Context, target types.Target, publish events.Publisher) (*types.Result, error) {
	return s.fetcher.Fetch(ctx, target, publish)
}

// History returns recorded fetches, newest first.
func (s *LocalFetchService) History(limit int) ([]types.FetchEntry, error) {
	if !s.history {
		return nil, ErrHistoryDisabled
	}
	return state.LoadHistory(limit)
}

// Close releases idle connections and the HTTP/3 transport.
func (s *LocalFetchService) Close() {
	s.client.Close()
}
