package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/vfaronov/httpheader"

	"scriptfetch/internal/download/types"
)

// sniffLen is the number of leading bytes used for MIME and magic-number detection.
const sniffLen = 512

// InspectPayload reads the head of resp.Body to describe what the server sent.
// It returns a reader that replays the sniffed bytes followed by the rest of
// the body, so callers must read from it instead of resp.Body.
func InspectPayload(resp *http.Response) (io.Reader, types.PayloadInfo, error) {
	var info types.PayloadInfo

	// Content-Disposition is advisory; the saved name never changes.
	if _, name, err := httpheader.ContentDisposition(resp.Header); err == nil && name != "" {
		info.SuggestedName = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	}

	header := make([]byte, sniffLen)
	n, rerr := io.ReadFull(resp.Body, header)
	if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
		return nil, info, fmt.Errorf("reading header: %w", rerr)
	}
	header = header[:n]

	body := io.MultiReader(bytes.NewReader(header), resp.Body)

	if len(header) > 0 {
		info.MIME = http.DetectContentType(header)
		if kind, _ := filetype.Match(header); kind != filetype.Unknown {
			info.MagicType = kind.MIME.Value
		}
	}

	return body, info, nil
}

// LooksLikeScript reports whether sniffed payload metadata is consistent with
// a plain-text script. A binary magic type or an HTML page (typical for
// captive portals) is not.
func LooksLikeScript(info types.PayloadInfo) bool {
	if info.MagicType != "" {
		return false
	}
	if info.MIME == "" {
		return true
	}
	return strings.HasPrefix(info.MIME, "text/plain")
}
