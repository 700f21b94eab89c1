package scriptfetch

import (
	"scriptfetch/greenhttp"
	"scriptfetch/internal/config"
	"scriptfetch/internal/core"
	"scriptfetch/internal/download"
	"scriptfetch/internal/download/types"
	"scriptfetch/internal/names"
)

// Re-exported types for the public API to keep internal packages private
// while maintaining a stable surface for consumers.
type Settings = config.Settings

type Target = types.Target
type Result = types.Result
type PayloadInfo = types.PayloadInfo
type HistoryEntry = types.FetchEntry

type ValidationError = names.ValidationError
type DownloadError = download.DownloadError
type FallbackError = download.FallbackError
type StatusError = greenhttp.StatusError

var (
	ErrInvalidFilename = names.ErrInvalidFilename
	ErrHistoryDisabled = core.ErrHistoryDisabled
)
