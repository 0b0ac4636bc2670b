package validation

import (
	"regexp"
	"strings"
	"time"
)

// uuidRegex matches xxxxxxxx-xxxx-Mxxx-Nxxx-xxxxxxxxxxxx with version M in
// 1-5 and variant N in 8, 9, a or b.
var uuidRegex = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidUUID checks whether s is a version 1-5 UUID in canonical textual form.
//
// The nil UUID and versions 6-8 are rejected.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
}

// endOfDay matches an ISO 8601 24:00 time, which is midnight of the next day.
var endOfDay = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ])24:00(:00(\.0+)?)?(.*)$`)

// ParseTimestamp parses an ISO 8601 style timestamp.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := endOfDay.FindStringSubmatch(value); m != nil {
		t, ok := ParseTimestamp(m[1] + "00:00" + m[2] + m[4])
		if !ok {
			return time.Time{}, false
		}
		return t.AddDate(0, 0, 1), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// canonicalLayout is UTC with millisecond precision and a literal Z.
const canonicalLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the canonical form stored in due_at.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(canonicalLayout)
}
