// Package util holds the console wording shown by the interactive fetch and
// small helpers shared by the prompt and clipboard sources.
package util

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Console wording.
const (
	Banner       = "Atmystic Design"
	Greeting     = "Welcome to Atmystic AI World Scripts."
	PromptHint   = "Please type the script filename you want to download from your repository."
	ExampleHint  = "Example: delete.ps1  (you may enter any .ps1 name located at the repo root)"
	PromptLabel  = "Filename to download"
	Farewell     = "Have a great day"
	InvalidInput = "Invalid filename. Allowed: letters, numbers, underscore, dash, dot, spaces; must end with .ps1"
)

// Status line formats. Each takes a single argument except Downloading.
const (
	DownloadingFmt     = "Downloading %s -> %s"
	DoneFmt            = "Done: %s"
	FailedFmt          = "Failed to download: %v"
	AltSuccessFmt      = "Alternative download successful: %s"
	AltFailedFmt       = "Alternative attempt failed: %v"
	AnotherInstanceMsg = "Another scriptfetch is already running."
)

// ExtractFileName parses the URL and extracts the last path segment,
// unescaped. It returns an error when the path has no usable segment.
func ExtractFileName(urlStr string) (string, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return "", err
	}

	fileName := path.Base(parsedURL.Path)
	if fileName == "/" || fileName == "." || fileName == "" {
		return "", fmt.Errorf("unable to extract file name from URL: %s", urlStr)
	}

	return fileName, nil
}
