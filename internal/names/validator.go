// Package names normalizes and validates the script filename typed by the user
// and derives the download URL and output path from it.
package names

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"scriptfetch/internal/config"
	"scriptfetch/internal/download/types"
)

// ScriptSuffix is appended to names that do not already end with it.
const ScriptSuffix = ".ps1"

// AllowedDescription is shown to the user when a name is rejected.
const AllowedDescription = "letters, numbers, underscore, dash, dot, spaces; must end with .ps1"

// filenamePattern is checked after normalization. Word characters are the
// Unicode ones (letters, nonspacing marks, decimal digits, connector
// punctuation) and the whole match ignores case.
var filenamePattern = regexp.MustCompile(`(?i)^[\p{L}\p{Mn}\p{Nd}\p{Pc}\-. ]+\.ps1$`)

// ErrInvalidFilename is wrapped by every ValidationError.
var ErrInvalidFilename = errors.New("invalid filename")

// ValidationError reports a filename that failed the allowed-character rule.
type ValidationError struct {
	Input    string // raw text as typed
	Filename string // value after normalization
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filename %q. Allowed: %s", e.Filename, AllowedDescription)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidFilename
}

// Validator holds the fixed remote root and local root a name is resolved against.
type Validator struct {
	baseURL     string
	outputDir   string
	defaultName string
}

// NewValidator returns a Validator. Empty arguments fall back to the built-in
// base URL, output directory and default filename.
func NewValidator(baseURL, outputDir, defaultName string) *Validator {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	if outputDir == "" {
		outputDir = config.GetDefaultOutputDir()
	}
	if defaultName == "" {
		defaultName = config.DefaultFilename
	}
	return &Validator{baseURL: baseURL, outputDir: outputDir, defaultName: defaultName}
}

// BaseURL returns the remote root filenames are appended to.
func (v *Validator) BaseURL() string { return v.baseURL }

// OutputDir returns the local root downloads are written under.
func (v *Validator) OutputDir() string { return v.outputDir }

// Normalize turns raw prompt input into a filename or rejects it.
// Blank input becomes the default name and a missing .ps1 suffix is appended
// before the pattern check. The suffix is matched without regard to case,
// so "Tool.PS1" is kept as typed. Other whitespace is kept as typed.
func (v *Validator) Normalize(raw string) (string, error) {
	name := raw
	if strings.TrimSpace(name) == "" {
		name = v.defaultName
	}
	if !hasScriptSuffix(name) {
		name += ScriptSuffix
	}
	if !filenamePattern.MatchString(name) {
		return "", &ValidationError{Input: raw, Filename: name}
	}
	return name, nil
}

// Target derives the URL and output path for an already normalized name.
// The URL is a plain concatenation, so baseURL is expected to end with "/".
func (v *Validator) Target(filename string) types.Target {
	return types.Target{
		Filename: filename,
		URL:      v.baseURL + filename,
		Path:     filepath.Join(v.outputDir, filename),
	}
}

// Resolve normalizes raw and returns its Target.
func (v *Validator) Resolve(raw string) (types.Target, error) {
	name, err := v.Normalize(raw)
	if err != nil {
		return types.Target{}, err
	}
	return v.Target(name), nil
}

var defaultValidator = NewValidator("", "", "")

// Normalize applies the default Validator.
func Normalize(raw string) (string, error) {
	return defaultValidator.Normalize(raw)
}

func hasScriptSuffix(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ScriptSuffix)
}

// valid reports whether name already satisfies the filename pattern.
func valid(name string) bool {
	return filenamePattern.MatchString(name)
}
