// Package rotation implements the API-key rotation engine: naming-pattern
// inference, matching and ordering of dated service accounts, and the
// create/cleanup/execute state machine.
package rotation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat enumerates the accepted name-embedded date encodings.
type DateFormat string

const (
	// FormatShort encodes year and month, e.g. "inventory-server-24-11".
	FormatShort DateFormat = "YY-MM"
	// FormatFull encodes a full date, e.g. "api-key-2024-11-13".
	FormatFull DateFormat = "YYYY-MM-DD"
)

// Valid reports whether f is one of the supported formats.
func (f DateFormat) Valid() bool {
	return f == FormatShort || f == FormatFull
}

// ExpectedName returns the resource name for prefix and day under format f.
func ExpectedName(prefix string, f DateFormat, day time.Time) string {
	if f == FormatFull {
		return fmt.Sprintf("%s-%s", prefix, day.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s-%s", prefix, day.Format("06-01"))
}

var (
	fullDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	shortDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
)

// ParseNameDate extracts the calendar date embedded in name for the given
// prefix. The full form prefix-YYYY-MM-DD is tried first, then the short
// form prefix-YY-MM (year 2000+YY, day 1). ok is false when the name does
// not conform to either pattern or encodes an invalid calendar date; this
// is expected for unrelated resources and is not an error.
func ParseNameDate(name, prefix string) (time.Time, bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return time.Time{}, false
	}

	if fullDatePattern.MatchString(rest) {
		d, err := time.Parse("2006-01-02", rest)
		if err != nil {
			// Structurally a date but calendar-invalid (month 13 etc).
			return time.Time{}, false
		}
		return d, true
	}

	if m := shortDatePattern.FindStringSubmatch(rest); m != nil {
		yy, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		return time.Date(2000+yy, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}
