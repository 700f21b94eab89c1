package clipboard

import (
	"errors"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"scriptfetch/util"
)

// maxTextLength bounds what is considered a filename or URL on the clipboard.
const maxTextLength = 2048

var (
	// ErrClipboardRead indicates an error reading from the clipboard
	ErrClipboardRead = errors.New("failed to read from clipboard")
	// ErrNoFilename indicates the clipboard holds neither a script name nor a script URL
	ErrNoFilename = errors.New("clipboard does not contain a script filename")
)

// readAll is swapped in tests.
var readAll = clipboard.ReadAll

type Validator struct {
	allowedSchemes map[string]bool
}

func NewValidator() *Validator {
	return &Validator{
		allowedSchemes: map[string]bool{"http": true, "https": true},
	}
}

// ExtractFilename returns the script name held in text. Text may be a bare
// name ("delete", "tool.ps1") or an HTTP/S URL whose last path segment is
// the name. The result is not validated; callers pass it through the
// filename validator like any typed input. Returns "" when nothing usable
// is found.
func (v *Validator) ExtractFilename(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTextLength || strings.ContainsAny(text, "\n\r") {
		return ""
	}

	if parsed, err := url.Parse(text); err == nil && parsed.Scheme != "" {
		if !v.allowedSchemes[parsed.Scheme] || strings.TrimSpace(parsed.Host) == "" {
			return ""
		}
		name, err := util.ExtractFileName(text)
		if err != nil {
			return ""
		}
		return name
	}

	return text
}

// ReadFilename reads the clipboard and returns the script name it holds.
func ReadFilename() (string, error) {
	text, err := readAll()
	if err != nil {
		return "", ErrClipboardRead
	}

	name := NewValidator().ExtractFilename(text)
	if name == "" {
		return "", ErrNoFilename
	}
	return name, nil
}
