package normalize

import (
	"strings"
	"time"
)

// Common date formats found in legacy fuel spreadsheets. Day-first layouts
// come first because the source system wrote dd/mm/yyyy.
var dateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2 January 2006",
	"2-Jan-2006",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns the zero time and false if the input is empty or unparseable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
