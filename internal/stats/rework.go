package stats

import (
	"sprint-kpis/internal/jira"
)

// ReworkCycle is one return from QA: the ticket went from In Test to Test Issues.
type ReworkCycle struct {
	From               string  `json:"from"`
	TestIssuesDuration float64 `json:"testIssuesDuration"`
	ReturnedTo         string  `json:"returnedTo"`
}

// ReworkTicket lists the rework cycles detected for one ticket.
type ReworkTicket struct {
	Key      string        `json:"key"`
	Summary  string        `json:"summary"`
	Priority string        `json:"priority"`
	Cycles   int           `json:"cycles"`
	Detail   []ReworkCycle `json:"cycleDetail"`
}

// ReworkResult is the rework section of the report.
type ReworkResult struct {
	Sprint        string         `json:"sprint"`
	TotalAnalyzed int            `json:"totalAnalyzed"`
	WithRework    int            `json:"withRework"`
	Percentage    float64        `json:"percentage"`
	TotalCycles   int            `json:"totalCycles"`
	Detail        []ReworkTicket `json:"detail"`
}

const noNextStatus = "—"

// DetectReworkCycles scans adjacent history entries for In Test followed by Test Issues.
// A matched Test Issues entry is consumed and never starts another pair.
func DetectReworkCycles(history []jira.ChangelogEntry) []ReworkCycle {
	var cycles []ReworkCycle
	for i := 0; i < len(history)-1; i++ {
		if NormalizeState(history[i].Status) != string(StateInTest) ||
			NormalizeState(history[i+1].Status) != string(StateTestIssues) {
			continue
		}
		next := noNextStatus
		if i+2 < len(history) && history[i+2].Status != "" {
			next = history[i+2].Status
		}
		cycles = append(cycles, ReworkCycle{
			From:               history[i].StartedAt,
			TestIssuesDuration: history[i+1].Days,
			ReturnedTo:         next,
		})
		i++
	}
	return cycles
}

// CalculateRework counts QA regressions for the tickets of a single sprint.
func CalculateRework(tickets []jira.Ticket, changelog jira.Changelog, sprint string) ReworkResult {
	res := ReworkResult{
		Sprint: sprint,
		Detail: []ReworkTicket{},
	}
	if len(changelog) == 0 {
		return res
	}

	for _, t := range tickets {
		if SprintID(t.Sprint) != sprint {
			continue
		}
		res.TotalAnalyzed++

		history := changelog.History(t.Key)
		if len(history) < 2 {
			continue
		}
		cycles := DetectReworkCycles(history)
		if len(cycles) == 0 {
			continue
		}
		res.Detail = append(res.Detail, ReworkTicket{
			Key:      t.Key,
			Summary:  t.Summary,
			Priority: t.Priority,
			Cycles:   len(cycles),
			Detail:   cycles,
		})
		res.TotalCycles += len(cycles)
	}

	res.WithRework = len(res.Detail)
	res.Percentage = percentOf(res.WithRework, res.TotalAnalyzed)
	return res
}
