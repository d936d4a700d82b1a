package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ReportInput selects the sprint the aggregate report is scoped to.
type ReportInput struct {
	CurrentSprint string `json:"current_sprint,omitempty" jsonschema:"Sprint number (e.g. 35) forwarded to lead time, ticket age and the overview. Default: the configured current sprint, or all sprints."`
	AsOf          string `json:"as_of,omitempty" jsonschema:"Reference date (YYYY-MM-DD) for ticket age in calendar days. Default: today."`
}

// SprintInput names a single sprint.
type SprintInput struct {
	Sprint string `json:"sprint,omitempty" jsonschema:"Sprint number (e.g. 34). Default depends on the tool and the configured policy."`
}

// SprintsInput names a set of sprints.
type SprintsInput struct {
	Sprints []string `json:"sprints,omitempty" jsonschema:"Sprint numbers to include (e.g. ['34','35']). Default: the configured policy."`
}

// AgeInput controls ticket age classification.
type AgeInput struct {
	Sprints      []string `json:"sprints,omitempty" jsonschema:"Sprint numbers to include. Default: the configured current sprint, else the policy's age sprints."`
	CriticalDays int      `json:"critical_days,omitempty" jsonschema:"Tracked days at or above which a ticket is critical. Default: 15."`
	AlertDays    int      `json:"alert_days,omitempty" jsonschema:"Tracked days at or above which a ticket is in alert. Default: 8."`
	AsOf         string   `json:"as_of,omitempty" jsonschema:"Reference date (YYYY-MM-DD) for age in calendar days. Default: today."`
}

// ErrorRatioInput controls the bugs vs functionality analysis.
type ErrorRatioInput struct {
	MinSprint *int   `json:"min_sprint,omitempty" jsonschema:"Lowest sprint number included in the per-sprint list (0 = all). Default: 31."`
	TrendMode string `json:"trend_mode,omitempty" jsonschema:"'chronological' (oldest vs newest of the three latest sprints) or 'legacy'. Default: chronological."`
}

// EmptyInput is used by tools without arguments.
type EmptyInput struct{}

func readOnly(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{Title: title, ReadOnlyHint: true, IdempotentHint: true}
}

func (s *Server) registerTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_dataset_summary",
		Description: "Describe the loaded Jira export: ticket counts per sprint and normalized status, changelog coverage and data quality warnings. Guidance: call this first to learn which sprint numbers exist.",
		Annotations: readOnly("Dataset summary"),
	}, s.handleGetDatasetSummary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_kpi_report",
		Description: "Compute the full sprint KPI report in one call: lead time, ticket age, bugs vs functionality, cycle time, rework, sprint overview, evolution and status/priority matrix.",
		Annotations: readOnly("Sprint KPI report"),
	}, s.handleGetKPIReport)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_lead_time",
		Description: "Lead time (calendar days from creation to resolution) of finished tickets: average, median, per-sprint and per-priority averages and a 5-bucket distribution.",
		Annotations: readOnly("Lead time"),
	}, s.handleAnalyzeLeadTime)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_ticket_age",
		Description: "Age of tickets by days tracked in active workflow states (In Process, Blocked, Code Review, In Test Dev, In Test, Test Issues), classified critical / alert / normal.",
		Annotations: readOnly("Ticket age"),
	}, s.handleAnalyzeTicketAge)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_error_ratio",
		Description: "Bugs vs functionality (tasks and stories) per sprint, most recent sprint first, with a global ratio and a trend of the bug percentage.",
		Annotations: readOnly("Bugs vs functionality"),
	}, s.handleAnalyzeErrorRatio)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_cycle_time",
		Description: "Cycle time of finished tickets with an ESTIMATED stage breakdown. The stages are fixed shares of the total, not measured from the changelog.",
		Annotations: readOnly("Cycle time"),
	}, s.handleAnalyzeCycleTime)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_rework",
		Description: "Rework cycles of a sprint: each 'In Test' directly followed by 'Test Issues' in a ticket's changelog counts as one cycle.",
		Annotations: readOnly("Rework"),
	}, s.handleAnalyzeRework)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_sprint_overview",
		Description: "Status counts, open high-priority tickets and resolution days per priority for a sprint, plus the status/priority matrix and the sprint-by-sprint evolution.",
		Annotations: readOnly("Sprint overview"),
	}, s.handleGetSprintOverview)
}
