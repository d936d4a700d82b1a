package stats

import (
	"math"

	"sprint-kpis/internal/jira"
)

// Fixed shares used to split a ticket's total days across the pipeline stages.
// Test issues absorb the rounding residual.
const (
	shareInProcess  = 0.25
	shareCodeReview = 0.20
	shareInTestDev  = 0.25
	shareInTest     = 0.20
	shareBlocked    = 0.05
)

// StageBreakdown is an estimated split of a ticket's total days. It is derived from
// fixed proportions, not from the changelog, so Estimated is always true.
// Finished has no duration and is always nil.
type StageBreakdown struct {
	InProcess  int  `json:"inProcess"`
	CodeReview int  `json:"codeReview"`
	InTestDev  int  `json:"inTestDev"`
	InTest     int  `json:"inTest"`
	Blocked    int  `json:"blocked"`
	TestIssue  int  `json:"testIssue"`
	Finished   *int `json:"finished"`
	Estimated  bool `json:"estimated"`
}

// Sum returns the total of the six stage values.
func (s StageBreakdown) Sum() int {
	return s.InProcess + s.CodeReview + s.InTestDev + s.InTest + s.Blocked + s.TestIssue
}

// AllocateStages splits totalDays across the stages. The result always sums to totalDays;
// for small totals the rounded shares can overshoot and leave TestIssue negative.
func AllocateStages(totalDays int) StageBreakdown {
	share := func(p float64) int {
		return int(math.Round(float64(totalDays) * p))
	}
	s := StageBreakdown{
		InProcess:  share(shareInProcess),
		CodeReview: share(shareCodeReview),
		InTestDev:  share(shareInTestDev),
		InTest:     share(shareInTest),
		Blocked:    share(shareBlocked),
		Estimated:  true,
	}
	s.TestIssue = totalDays - s.InProcess - s.CodeReview - s.InTestDev - s.InTest - s.Blocked
	return s
}

// TicketCycleTime is the per-ticket detail of the cycle-time section.
type TicketCycleTime struct {
	Key       string         `json:"key"`
	Summary   string         `json:"summary"`
	Sprint    string         `json:"sprint"`
	Priority  string         `json:"priority"`
	TotalDays int            `json:"totalDays"`
	Stages    StageBreakdown `json:"stages"`
}

// CycleTimeResult is the cycle-time section of the report.
type CycleTimeResult struct {
	Sprints []string          `json:"sprints"`
	Average float64           `json:"average"`
	Tickets []TicketCycleTime `json:"tickets"`
	Total   int               `json:"total"`
}

// CalculateCycleTime reports the total active duration of the finished tickets of
// the given sprints together with an estimated per-stage split.
func CalculateCycleTime(tickets []jira.Ticket, sprints []string) CycleTimeResult {
	res := CycleTimeResult{
		Sprints: append([]string{}, sprints...),
		Tickets: []TicketCycleTime{},
	}

	var totals []int
	for _, t := range tickets {
		if !InSprints(t.Sprint, sprints) || !t.IsFinished() {
			continue
		}
		days, ok := ElapsedDays(t.Created, t.Resolved)
		if !ok {
			continue
		}
		totals = append(totals, days)
		res.Tickets = append(res.Tickets, TicketCycleTime{
			Key:       t.Key,
			Summary:   t.Summary,
			Sprint:    t.Sprint,
			Priority:  t.Priority,
			TotalDays: days,
			Stages:    AllocateStages(days),
		})
	}

	res.Average = CalculateAverage(totals)
	res.Total = len(res.Tickets)
	return res
}
