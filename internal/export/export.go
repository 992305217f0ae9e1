// Package export writes changelog documents for download and copies text to
// the system clipboard.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/models"
)

// WriteJSON encodes v as JSON indented by two spaces.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Filename is the download name for doc.
func Filename(doc *models.ChangelogDocument) string {
	code := strings.ToUpper(strings.TrimSpace(doc.CountryCode))
	switch {
	case code == "":
		return "changelog-global.json"
	case doc.Year > 0:
		return fmt.Sprintf("changelog-%s-%d.json", code, doc.Year)
	}
	return "changelog-" + code + ".json"
}

// Swapped out by tests.
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// CopyToClipboard places text on the system clipboard. Failures are logged
// and reported as false.
func CopyToClipboard(log *logrus.Logger, text string) bool {
	if unsupported() {
		log.Warn("clipboard is not supported on this system")
		return false
	}
	if err := writeAll(text); err != nil {
		log.WithError(err).Warn("copy to clipboard failed")
		return false
	}
	return true
}
