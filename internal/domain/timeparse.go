package domain

import (
	"strings"
	"time"
)

// layouts accepted for stored and submitted dates, most specific first.
// Layouts without a zone are read in local time, date-only layouts in UTC.
var layouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, nil},
	{"2006-01-02T15:04:05.999999999", time.Local},
	{"2006-01-02T15:04", time.Local},
	{"2006-01-02 15:04:05", time.Local},
	{"2006-01-02 15:04", time.Local},
	{"2006-01-02", time.UTC},
	{"2006/01/02 15:04:05", time.Local},
	{"2006/01/02 15:04", time.Local},
	{"2006/01/02", time.Local},
	{time.RFC1123Z, nil},
	{time.RFC1123, nil},
	{time.RFC850, nil},
	{time.ANSIC, time.Local},
	{"Mon Jan 02 2006 15:04:05 GMT-0700", nil},
}

// ParseTime parses the date formats a browser's Date constructor would accept
// in practice: ISO-8601 variants, slash dates, RFC 1123 and Date.toString().
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Date.toString() appends a zone name in parentheses.
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	for _, l := range layouts {
		var (
			t   time.Time
			err error
		)
		if l.loc != nil {
			t, err = time.ParseInLocation(l.layout, s, l.loc)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
