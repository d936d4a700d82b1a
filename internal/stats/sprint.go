package stats

import (
	"regexp"
	"slices"
	"strconv"
)

var sprintDigits = regexp.MustCompile(`\d+`)

// SprintNumber extracts the first run of digits from a free-form sprint field
// (e.g. "34" from "Board-Sprint 34"). It returns false when the field has no digits.
func SprintNumber(field string) (string, bool) {
	n := sprintDigits.FindString(field)
	return n, n != ""
}

// SprintID is the canonical sprint identifier used for filtering. Fields without
// digits belong to sprint "0".
func SprintID(field string) string {
	if n, ok := SprintNumber(field); ok {
		return n
	}
	return "0"
}

// SprintLabel renders an identifier as the display key "Sprint N".
func SprintLabel(id string) string {
	return "Sprint " + id
}

// InSprints reports whether the field's sprint identifier is one of ids.
func InSprints(field string, ids []string) bool {
	return slices.Contains(ids, SprintID(field))
}

func sprintOrdinal(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}

func sprintIDs(fields []string) []string {
	ids := make([]string, len(fields))
	for i, f := range fields {
		ids[i] = SprintID(f)
	}
	return ids
}
