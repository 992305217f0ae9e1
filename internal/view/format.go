package view

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// DateLayout matches the en-US "medium date, short time" rendering of the
// original pages, e.g. "Jan 2, 2006, 03:04 PM".
const DateLayout = "Jan 2, 2006, 03:04 PM"

// FormatNumber renders n with comma thousands separators (42 stays "42",
// 1234 becomes "1,234").
func FormatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// ParseTimestamp parses an ISO-8601 timestamp with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO timestamp in UTC. Unparsable input is returned as
// is, and an empty timestamp becomes "Unknown".
func FormatDate(iso string) string {
	if strings.TrimSpace(iso) == "" {
		return Unknown
	}
	t, ok := ParseTimestamp(iso)
	if !ok {
		return iso
	}
	return t.UTC().Format(DateLayout)
}

// RelativeTime renders iso relative to now ("just now", "3 days ago").
func RelativeTime(iso string, now time.Time) string {
	t, ok := ParseTimestamp(iso)
	if !ok {
		return ""
	}
	if d := now.Sub(t); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Truncate shortens text to max runes, appending "..." when it was cut.
func Truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// PrettyJSON renders v as JSON indented by two spaces. Values that cannot be
// encoded render as "Unknown".
func PrettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Unknown
	}
	return string(b)
}

// BadgeClass maps an action kind to its badge CSS class.
func BadgeClass(action string) string {
	switch action {
	case "add":
		return "badge-add"
	case "update":
		return "badge-update"
	case "delete":
		return "badge-delete"
	}
	return ""
}

// EntityIcon maps an entity kind to its icon.
func EntityIcon(entityType string) string {
	switch entityType {
	case "city":
		return "🏙️"
	case "state":
		return "📍"
	case "country":
		return "🌍"
	}
	return "📝"
}
