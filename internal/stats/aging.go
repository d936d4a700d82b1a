package stats

import (
	"slices"
	"sort"
	"time"

	"sprint-kpis/internal/jira"
)

// Aging severities.
const (
	SeverityCritical = "critical"
	SeverityAlert    = "alert"
	SeverityNormal   = "normal"
)

// AgeThresholds are the inclusive lower bounds, in tracked days, of the critical and
// alert severities.
type AgeThresholds struct {
	CriticalDays int `json:"criticalDays"`
	AlertDays    int `json:"alertDays"`
}

// DefaultAgeThresholds returns the standard 15/8 day thresholds.
func DefaultAgeThresholds() AgeThresholds {
	return AgeThresholds{CriticalDays: 15, AlertDays: 8}
}

// Classify returns the severity of a ticket with the given tracked days.
func (a AgeThresholds) Classify(trackedDays int) string {
	switch {
	case trackedDays >= a.CriticalDays:
		return SeverityCritical
	case trackedDays >= a.AlertDays:
		return SeverityAlert
	default:
		return SeverityNormal
	}
}

// AgeOptions configures the ticket-age section. A zero AsOf leaves AgeDays at 0.
type AgeOptions struct {
	Thresholds AgeThresholds
	AsOf       time.Time
}

// AgedTicket is an open ticket that spent time in at least one tracked state.
type AgedTicket struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Sprint      string    `json:"sprint"`
	Assignee    string    `json:"assignee,omitempty"`
	TrackedDays int       `json:"trackedDays"`
	AgeDays     int       `json:"ageDays"`
	Severity    string    `json:"severity"`
	DaysByState StateDays `json:"daysByState"`
}

// TicketAgeResult is the ticket-age section of the report.
type TicketAgeResult struct {
	Sprints       []string       `json:"sprints"`
	States        []TrackedState `json:"states"`
	Average       float64        `json:"average"`
	Critical      []AgedTicket   `json:"critical"`
	Alert         []AgedTicket   `json:"alert"`
	Normal        []AgedTicket   `json:"normal"`
	Total         int            `json:"total"`
	CountCritical int            `json:"countCritical"`
	CountAlert    int            `json:"countAlert"`
	CountNormal   int            `json:"countNormal"`
}

// All returns every aged ticket ordered by tracked days descending.
func (r TicketAgeResult) All() []AgedTicket {
	all := make([]AgedTicket, 0, r.Total)
	all = append(all, r.Critical...)
	all = append(all, r.Alert...)
	return append(all, r.Normal...)
}

// CalculateTicketAge classifies open tickets by the days they spent in tracked states.
// Tickets that never entered a tracked state are excluded. An empty sprint set means
// every sprint.
func CalculateTicketAge(tickets []jira.Ticket, changelog jira.Changelog, sprints []string, opts AgeOptions) TicketAgeResult {
	if opts.Thresholds == (AgeThresholds{}) {
		opts.Thresholds = DefaultAgeThresholds()
	}

	res := TicketAgeResult{
		Sprints:  append([]string{}, sprints...),
		States:   append([]TrackedState{}, TrackedStates...),
		Critical: []AgedTicket{},
		Alert:    []AgedTicket{},
		Normal:   []AgedTicket{},
	}

	var aged []AgedTicket
	for _, t := range tickets {
		if t.IsFinished() || t.Created == "" {
			continue
		}
		if len(sprints) > 0 {
			id, ok := SprintNumber(t.Sprint)
			if !ok || !slices.Contains(sprints, id) {
				continue
			}
		}

		byState := DaysByState(changelog, t.Key)
		tracked := byState.Total()
		if tracked <= 0 {
			continue
		}

		aged = append(aged, AgedTicket{
			Key:         t.Key,
			Summary:     t.Summary,
			Status:      t.Status,
			Priority:    t.Priority,
			Sprint:      t.Sprint,
			Assignee:    t.Assignee,
			TrackedDays: tracked,
			AgeDays:     ageInDays(t.Created, opts.AsOf),
			Severity:    opts.Thresholds.Classify(tracked),
			DaysByState: byState,
		})
	}

	if len(aged) == 0 {
		return res
	}

	sort.SliceStable(aged, func(i, j int) bool {
		return aged[i].TrackedDays > aged[j].TrackedDays
	})

	days := make([]int, len(aged))
	for i, a := range aged {
		days[i] = a.TrackedDays
		switch a.Severity {
		case SeverityCritical:
			res.Critical = append(res.Critical, a)
		case SeverityAlert:
			res.Alert = append(res.Alert, a)
		default:
			res.Normal = append(res.Normal, a)
		}
	}

	res.Average = CalculateAverage(days)
	res.Total = len(aged)
	res.CountCritical = len(res.Critical)
	res.CountAlert = len(res.Alert)
	res.CountNormal = len(res.Normal)
	return res
}

func ageInDays(created string, asOf time.Time) int {
	if asOf.IsZero() {
		return 0
	}
	start, ok := jira.ParseDate(created)
	if !ok {
		return 0
	}
	y, m, d := asOf.Date()
	return daysBetween(start, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
