package jira

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Spanish and English three-letter month abbreviations used by Jira exports.
var monthAbbreviations = map[string]time.Month{
	"ene": time.January, "jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"abr": time.April, "apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August, "aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dic": time.December, "dec": time.December,
}

// ParseDate parses the loose export format "15/ene/26" or "16/Feb/26 5:11 PM".
// The time of day is discarded. It returns false for empty or unparseable input;
// problems are reported on the logger, never as an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	datePart, _, _ := strings.Cut(s, " ")
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		log.Debug().Str("input", s).Msg("Malformed date, expected D/Mon/YY")
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		log.Debug().Str("input", s).Msg("Malformed day in date")
		return time.Time{}, false
	}

	month, ok := monthAbbreviations[strings.ToLower(parts[1])]
	if !ok {
		log.Warn().Str("month", parts[1]).Str("input", s).Msg("Unrecognized month abbreviation")
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 0 {
		log.Debug().Str("input", s).Msg("Malformed year in date")
		return time.Time{}, false
	}
	switch len(parts[2]) {
	case 1, 2:
		year += 2000
	case 4:
	default:
		log.Debug().Str("input", s).Msg("Malformed year in date")
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

var exportMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// FormatDate renders t the way Jira exports it, e.g. "16/feb/26 5:11 PM".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%s/%02d %s", t.Day(), exportMonths[t.Month()-1], t.Year()%100, t.Format("3:04 PM"))
}
