package format

import (
	"strings"
	"time"
)

// Placeholder is rendered wherever the API gave us nothing to show.
const Placeholder = "—"

// Date formats a license or subscription date in a locale-friendly short form.
// Zero times render as the placeholder.
func Date(t time.Time, lang string) string {
	if t.IsZero() {
		return Placeholder
	}
	switch strings.ToLower(lang) {
	case "ru":
		return t.Format("02.01.2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// ParseDate accepts the timestamp layouts the account API has been seen to
// emit. An unparseable value yields a zero time, which renders as the
// placeholder rather than failing the page.
func ParseDate(val string) time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// OrPlaceholder substitutes the placeholder for blank strings.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
