package ingest

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order after normalizeDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// normalizeDate turns "2024-01-02 10:00:00 UTC" into "2024-01-02T10:00:00Z"
// so both export generations parse like ISO-8601.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, " UTC") {
		s = strings.TrimSuffix(s, " UTC") + "Z"
	}
	return strings.Replace(s, " ", "T", 1)
}

// parseDate parses a normalized date. Values without a zone are read in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	normalized := normalizeDate(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, normalized, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
