package types

import (
	"crypto/tls"
	"time"
)

// IncompleteSuffix marks a file that is still being written.
const IncompleteSuffix = ".part"

// Protocol names understood by greenhttp.
const (
	ProtocolAuto  = "auto"
	ProtocolHTTP1 = "h1"
	ProtocolHTTP2 = "h2"
	ProtocolHTTP3 = "h3"
)

// Transport tuning. None of these bound the whole request; the overall
// timeout stays at the client default unless RuntimeConfig.Timeout is set.
const (
	DialTimeout                  = 30 * time.Second
	KeepAliveDuration            = 30 * time.Second
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second
	DefaultMaxIdleConns          = 10
	DefaultMaxRedirects          = 10
	DefaultMinTLSVersion         = tls.VersionTLS12
)

// Fetch statuses recorded in history.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RuntimeConfig is the engine view of the network settings.
type RuntimeConfig struct {
	Protocols     []string // attempt order; index 0 is the primary client
	MinTLSVersion uint16
	UserAgent     string
	ProxyURL      string
	Timeout       time.Duration
}

// GetProtocols returns the attempt chain, defaulting to auto then h1.
func (r *RuntimeConfig) GetProtocols() []string {
	if r == nil || len(r.Protocols) == 0 {
		return []string{ProtocolAuto, ProtocolHTTP1}
	}
	return r.Protocols
}

func (r *RuntimeConfig) GetMinTLSVersion() uint16 {
	if r == nil || r.MinTLSVersion == 0 {
		return DefaultMinTLSVersion
	}
	return r.MinTLSVersion
}

// Target is a validated filename together with the URL and path derived from it.
type Target struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Path     string `json:"path"`
}

// PayloadInfo is diagnostic metadata sniffed from a response.
type PayloadInfo struct {
	MIME          string `json:"mime,omitempty"`
	MagicType     string `json:"magic_type,omitempty"`
	SuggestedName string `json:"suggested_name,omitempty"`
}

// Result describes a completed fetch.
type Result struct {
	ID       string        `json:"id"`
	Target   Target        `json:"target"`
	Attempt  int           `json:"attempt"` // 1 = primary, 2 = fallback
	Protocol string        `json:"protocol"`
	Bytes    int64         `json:"bytes"`
	Elapsed  time.Duration `json:"elapsed"`
	Payload  PayloadInfo   `json:"payload"`
}

// UsedFallback reports whether the primary attempt failed.
func (r *Result) UsedFallback() bool {
	return r != nil && r.Attempt > 1
}

// FetchEntry is one row of fetch history.
type FetchEntry struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	DestPath  string `json:"dest_path"`
	Status    string `json:"status"`
	Attempt   int    `json:"attempt"`
	Protocol  string `json:"protocol,omitempty"`
	Bytes     int64  `json:"bytes"`
	MIME      string `json:"mime,omitempty"`
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"created_at"`
	TimeTaken int64  `json:"time_taken"` // milliseconds
}
