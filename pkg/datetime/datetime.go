package datetime

import (
	"strings"
	"time"

	appErrors "donatello-backend/pkg/errors"
)

// Layouts accepted by Parse, tried in order; the first match wins.
var Layouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05Z"
)

// Parse reads a free-text date and returns it in UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, appErrors.InvalidArgument("date is required")
	}
	for _, layout := range Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, appErrors.InvalidArgument("invalid date format: %q", raw)
}

// FormatDate renders the calendar date of t in UTC.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// FormatTimestamp renders t as a UTC ISO-8601 timestamp, empty for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// FormatTimestampPtr is FormatTimestamp for optional values.
func FormatTimestampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTimestamp(*t)
}
