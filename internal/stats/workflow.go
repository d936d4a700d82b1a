package stats

import (
	"strings"

	"sprint-kpis/internal/jira"
)

// TrackedState is one of the workflow statuses counted as active work.
type TrackedState string

// Canonical labels exactly as they appear in the exported changelog.
const (
	StateInProcess  TrackedState = "In Process"
	StateBlocked    TrackedState = "Blocked"
	StateCodeReview TrackedState = "CODE REVIEW"
	StateInTestDev  TrackedState = "IN TEST DEV"
	StateInTest     TrackedState = "In Test"
	StateTestIssues TrackedState = "Test Issues"
)

// TrackedStates is the fixed display order of the tracked states.
var TrackedStates = []TrackedState{
	StateInProcess,
	StateBlocked,
	StateCodeReview,
	StateInTestDev,
	StateInTest,
	StateTestIssues,
}

var stateAliases = map[string]TrackedState{
	"in progress": StateInProcess,
	"in process":  StateInProcess,
	"blocked":     StateBlocked,
	"code review": StateCodeReview,
	"in test dev": StateInTestDev,
	"test in dev": StateInTestDev,
	"in test":     StateInTest,
	"test issues": StateTestIssues,
	"test issue":  StateTestIssues,
}

// NormalizeState maps case and spelling variants of a changelog status onto its
// canonical tracked label. Unknown statuses are returned unchanged.
func NormalizeState(raw string) string {
	if s, ok := stateAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return string(s)
	}
	return raw
}

// AsTrackedState normalizes raw and reports whether it is a tracked state.
func AsTrackedState(raw string) (TrackedState, bool) {
	s := TrackedState(NormalizeState(raw))
	for _, tracked := range TrackedStates {
		if s == tracked {
			return s, true
		}
	}
	return "", false
}

// IsExcludedFromErrorAnalysis reports whether a normalized ticket status means work
// has not started yet.
func IsExcludedFromErrorAnalysis(t jira.Ticket) bool {
	status := strings.ToLower(t.NormalizedStatus)
	for _, pending := range []string{"to do", "backlog", "tareas por hacer"} {
		if strings.Contains(status, pending) {
			return true
		}
	}
	return false
}
