package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL         = "https://raw.githubusercontent.com/pauliukovich/public/refs/heads/main/"
	DefaultFilename        = "delete.ps1"
	DefaultUserAgent       = "scriptfetch"
	DefaultMinTLSVersion   = "1.2"
	DefaultPrimaryProtocol = "auto"
	// The fallback is a plain HTTP/1.1 client on a fresh connection.
	DefaultFallbackProtocol = "h1"
)

// Settings is the on-disk configuration (settings.yaml).
type Settings struct {
	General GeneralSettings `yaml:"general"`
	Network NetworkSettings `yaml:"network"`
}

type GeneralSettings struct {
	BaseURL           string `yaml:"base_url"`
	OutputDir         string `yaml:"output_dir"`
	DefaultFilename   string `yaml:"default_filename"`
	LogRetentionCount int    `yaml:"log_retention_count"`
	RecordHistory     bool   `yaml:"record_history"`
}

type NetworkSettings struct {
	PrimaryProtocol  string        `yaml:"primary_protocol"`
	FallbackProtocol string        `yaml:"fallback_protocol"`
	MinTLSVersion    string        `yaml:"min_tls_version"`
	UserAgent        string        `yaml:"user_agent"`
	ProxyURL         string        `yaml:"proxy_url"`
	Timeout          time.Duration `yaml:"timeout"` // 0 keeps the client default (no timeout)
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			BaseURL:           DefaultBaseURL,
			OutputDir:         GetDefaultOutputDir(),
			DefaultFilename:   DefaultFilename,
			LogRetentionCount: 5,
			RecordHistory:     true,
		},
		Network: NetworkSettings{
			PrimaryProtocol:  DefaultPrimaryProtocol,
			FallbackProtocol: DefaultFallbackProtocol,
			MinTLSVersion:    DefaultMinTLSVersion,
			UserAgent:        DefaultUserAgent,
		},
	}
}

// LoadSettings reads settings.yaml from the config root.
// A missing file is not an error: defaults are returned.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom reads settings from path on top of DefaultSettings, so a
// partial file only overrides the keys it names.
func LoadSettingsFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	settings.applyDefaults()

	return settings, nil
}

// SaveSettings writes settings to path, creating the parent directory.
func SaveSettings(path string, settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// applyDefaults fills keys explicitly blanked in the file.
func (s *Settings) applyDefaults() {
	def := DefaultSettings()
	if s.General.BaseURL == "" {
		s.General.BaseURL = def.General.BaseURL
	}
	if s.General.OutputDir == "" {
		s.General.OutputDir = def.General.OutputDir
	}
	if s.General.DefaultFilename == "" {
		s.General.DefaultFilename = def.General.DefaultFilename
	}
	if s.Network.PrimaryProtocol == "" {
		s.Network.PrimaryProtocol = def.Network.PrimaryProtocol
	}
	if s.Network.FallbackProtocol == "" {
		s.Network.FallbackProtocol = def.Network.FallbackProtocol
	}
	if s.Network.MinTLSVersion == "" {
		s.Network.MinTLSVersion = def.Network.MinTLSVersion
	}
	if s.Network.UserAgent == "" {
		s.Network.UserAgent = def.Network.UserAgent
	}
}
