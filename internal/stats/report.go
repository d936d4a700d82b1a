package stats

import (
	"fmt"
	"time"

	"sprint-kpis/internal/jira"
)

// Policy holds the fixed sprint choices each report section applies on its own.
type Policy struct {
	CurrentSprint    string        `json:"currentSprint,omitempty"`
	AgeSprints       []string      `json:"ageSprints"`
	CycleTimeSprints []string      `json:"cycleTimeSprints"`
	ReworkSprint     string        `json:"reworkSprint"`
	ErrorMinSprint   int           `json:"errorMinSprint"`
	AgeThresholds    AgeThresholds `json:"ageThresholds"`
	TrendMode        string        `json:"trendMode"`
}

// DefaultPolicy returns the policy the dashboard has always used.
func DefaultPolicy() Policy {
	return Policy{
		AgeSprints:       []string{"34", "35"},
		CycleTimeSprints: []string{"34", "35"},
		ReworkSprint:     "34",
		ErrorMinSprint:   DefaultErrorMinSprint,
		AgeThresholds:    DefaultAgeThresholds(),
		TrendMode:        TrendModeChronological,
	}
}

// WithDefaults fills unset fields from DefaultPolicy and reduces every sprint value to
// its number, so "Sprint 35" and "35" select the same tickets. A zero ErrorMinSprint
// means the default; use AllSprints to include every sprint.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if p.CurrentSprint != "" {
		p.CurrentSprint = SprintID(p.CurrentSprint)
	}
	if p.AgeSprints == nil {
		p.AgeSprints = def.AgeSprints
	}
	p.AgeSprints = sprintIDs(p.AgeSprints)
	if p.CycleTimeSprints == nil {
		p.CycleTimeSprints = def.CycleTimeSprints
	}
	p.CycleTimeSprints = sprintIDs(p.CycleTimeSprints)
	if p.ReworkSprint == "" {
		p.ReworkSprint = def.ReworkSprint
	}
	p.ReworkSprint = SprintID(p.ReworkSprint)
	if p.ErrorMinSprint == 0 {
		p.ErrorMinSprint = def.ErrorMinSprint
	}
	if p.AgeThresholds == (AgeThresholds{}) {
		p.AgeThresholds = def.AgeThresholds
	}
	if p.TrendMode == "" {
		p.TrendMode = def.TrendMode
	}
	return p
}

// Options are the per-invocation inputs of Compute. CurrentSprint overrides
// Policy.CurrentSprint when set.
type Options struct {
	CurrentSprint string
	AsOf          time.Time
	Policy        Policy
}

// Report is the full sprint KPI report.
type Report struct {
	CurrentSprint string              `json:"currentSprint,omitempty"`
	GeneratedFor  string              `json:"asOf,omitempty"`
	LeadTime      LeadTimeResult      `json:"leadTime"`
	TicketAge     TicketAgeResult     `json:"ticketAge"`
	ErrorAnalysis ErrorAnalysisResult `json:"errorAnalysis"`
	CycleTime     CycleTimeResult     `json:"cycleTime"`
	Rework        ReworkResult        `json:"rework"`
	Overview      OverviewResult      `json:"overview"`
	Evolution     []SprintEvolution   `json:"evolution"`
	Matrix        StatusMatrix        `json:"matrix"`
	Warnings      []string            `json:"warnings"`
}

// Compute builds every report section from the same tickets and changelog.
// The current sprint scopes lead time, ticket age and the overview sections; the other
// sections follow the policy.
func Compute(tickets []jira.Ticket, changelog jira.Changelog, opts Options) Report {
	policy := opts.Policy.WithDefaults()
	current := policy.CurrentSprint
	if opts.CurrentSprint != "" {
		current = SprintID(opts.CurrentSprint)
	}

	ageSprints := policy.AgeSprints
	if current != "" {
		ageSprints = []string{current}
	}

	r := Report{
		CurrentSprint: current,
		LeadTime:      CalculateLeadTime(tickets, current),
		TicketAge: CalculateTicketAge(tickets, changelog, ageSprints, AgeOptions{
			Thresholds: policy.AgeThresholds,
			AsOf:       opts.AsOf,
		}),
		ErrorAnalysis: CalculateErrorAnalysis(tickets, ErrorOptions{
			MinSprint: policy.ErrorMinSprint,
			TrendMode: policy.TrendMode,
		}),
		CycleTime: CalculateCycleTime(tickets, policy.CycleTimeSprints),
		Rework:    CalculateRework(tickets, changelog, policy.ReworkSprint),
		Overview:  CalculateOverview(tickets, current),
		Evolution: CalculateEvolution(tickets),
		Matrix:    CalculateStatusMatrix(tickets, current),
		Warnings:  Warnings(tickets, changelog),
	}
	if !opts.AsOf.IsZero() {
		r.GeneratedFor = opts.AsOf.Format(time.DateOnly)
	}
	return r
}

// Warnings lists the record-level problems that shrank the report.
func Warnings(tickets []jira.Ticket, changelog jira.Changelog) []string {
	warnings := []string{}

	badDates, noHistory := 0, 0
	for _, t := range tickets {
		if t.IsFinished() {
			if _, ok := ElapsedDays(t.Created, t.Resolved); !ok {
				badDates++
			}
		} else if _, ok := jira.ParseDate(t.Created); !ok {
			badDates++
		}
		if len(changelog.History(t.Key)) == 0 {
			noHistory++
		}
	}

	if badDates > 0 {
		warnings = append(warnings, fmt.Sprintf("%d tickets skipped in date-based metrics: missing or unparseable dates", badDates))
	}
	if len(changelog) == 0 {
		warnings = append(warnings, "no changelog data: ticket age and rework are empty")
	} else if noHistory > 0 {
		warnings = append(warnings, fmt.Sprintf("%d tickets have no changelog history", noHistory))
	}
	return warnings
}
