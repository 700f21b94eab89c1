package scriptfetch

import "scriptfetch/internal/config"

// ClientOptions configures the embedded engine. Zero values keep the
// settings loaded from settings.yaml.
type ClientOptions struct {
	Verbose        bool
	Settings       *config.Settings
	BaseURL        string
	OutputDir      string
	DisableHistory bool
	StatePath      string
	LogsDir        string

	// OnEvent receives fetch events synchronously while Fetch runs.
	OnEvent func(msg any)
}
