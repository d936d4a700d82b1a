package stats

import (
	"math"

	"sprint-kpis/internal/jira"
)

// StateDays holds accumulated days per tracked state. All six states are always present.
type StateDays map[TrackedState]float64

func newStateDays() StateDays {
	days := make(StateDays, len(TrackedStates))
	for _, s := range TrackedStates {
		days[s] = 0
	}
	return days
}

// Total sums the per-state days and rounds to the nearest whole day.
func (d StateDays) Total() int {
	sum := 0.0
	for _, s := range TrackedStates {
		sum += d[s]
	}
	return int(math.Round(sum))
}

// DaysByState sums the dwell days of every tracked state in a ticket's history.
// Entries for untracked statuses are ignored and a missing history yields all zeros.
// Negative and non-finite durations count as zero.
func DaysByState(changelog jira.Changelog, key string) StateDays {
	days := newStateDays()
	for _, entry := range changelog.History(key) {
		s, ok := AsTrackedState(entry.Status)
		if !ok || math.IsNaN(entry.Days) || math.IsInf(entry.Days, 0) {
			continue
		}
		days[s] += max(0, entry.Days)
	}
	return days
}

// TotalTracked returns the rounded total of tracked days for a ticket.
func TotalTracked(changelog jira.Changelog, key string) int {
	return DaysByState(changelog, key).Total()
}
