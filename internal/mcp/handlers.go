package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sprint-kpis/internal/jira"
	"sprint-kpis/internal/stats"
	"sprint-kpis/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DatasetSummary describes what a loaded export contains.
type DatasetSummary struct {
	Source        string         `json:"source"`
	LoadedAt      time.Time      `json:"loadedAt"`
	Tickets       int            `json:"tickets"`
	WithChangelog int            `json:"withChangelog"`
	Sprints       []SprintCount  `json:"sprints"`
	ByStatus      map[string]int `json:"byNormalizedStatus"`
	Policy        stats.Policy   `json:"policy"`
}

// SprintCount is the number of tickets carrying a sprint number.
type SprintCount struct {
	Sprint  string `json:"sprint"`
	Tickets int    `json:"tickets"`
}

// SprintOverview bundles the overview sections for one sprint.
type SprintOverview struct {
	Overview  stats.OverviewResult    `json:"overview"`
	Matrix    stats.StatusMatrix      `json:"matrix"`
	Evolution []stats.SprintEvolution `json:"evolution"`
}

func (s *Server) policy() stats.Policy {
	return s.cfg.Policy.WithDefaults()
}

// sprintArg accepts "34" as well as "Sprint 34"; empty input selects the fallback.
func sprintArg(raw, fallback string) string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return stats.SprintID(raw)
}

func sprintArgs(raw []string, fallback []string) []string {
	if len(raw) == 0 {
		return fallback
	}
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, stats.SprintID(r))
	}
	return ids
}

func (s *Server) parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return s.now(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func (s *Server) handleGetDatasetSummary(ctx context.Context, req *mcp.CallToolRequest, in EmptyInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	summary := DatasetSummary{
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Tickets:  len(ds.Tickets),
		Sprints:  []SprintCount{},
		ByStatus: map[string]int{jira.StatusToDo: 0, jira.StatusInProgress: 0, jira.StatusFinished: 0},
		Policy:   s.policy(),
	}
	for _, t := range ds.Tickets {
		summary.ByStatus[t.NormalizedStatus]++
		if len(ds.Changelog.History(t.Key)) > 0 {
			summary.WithChangelog++
		}
	}
	for _, row := range stats.CalculateEvolution(ds.Tickets) {
		summary.Sprints = append(summary.Sprints, SprintCount{Sprint: stats.SprintID(row.Sprint), Tickets: row.New})
	}

	guidance := []string{
		"Sprint numbers listed here are the values accepted by the 'sprint' and 'sprints' arguments of the other tools.",
		"Policy shows the defaults applied when a tool argument is omitted.",
	}
	return nil, WrapResponse(summary, stats.Warnings(ds.Tickets, ds.Changelog), nil, guidance), nil
}

func (s *Server) handleGetKPIReport(ctx context.Context, req *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}
	asOf, err := s.parseAsOf(in.AsOf)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	r := stats.Compute(ds.Tickets, ds.Changelog, stats.Options{
		CurrentSprint: sprintArg(in.CurrentSprint, ""),
		AsOf:          asOf,
		Policy:        s.cfg.Policy,
	})

	guidance := []string{
		"The current sprint scopes lead time, ticket age and the overview. Error analysis, cycle time and rework follow the configured policy.",
		"cycleTime stages are estimates from fixed shares of the total, present them as such.",
	}
	return nil, WrapResponse(r, nil, s.visuals(visuals.ForReport(r)), guidance), nil
}

func (s *Server) handleAnalyzeLeadTime(ctx context.Context, req *mcp.CallToolRequest, in SprintInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	res := stats.CalculateLeadTime(ds.Tickets, sprintArg(in.Sprint, s.policy().CurrentSprint))

	var guidance []string
	if res.Total == 0 {
		guidance = append(guidance, "No finished tickets with valid creation and resolution dates matched. Check the sprint number with 'get_dataset_summary'.")
	}
	charts := map[string]string{
		"leadTimeDistribution": visuals.GenerateLeadTimeDistributionChart(res),
		"leadTimeBySprint":     visuals.GenerateLeadTimeBySprintChart(res),
	}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), s.visuals(charts), guidance), nil
}

func (s *Server) handleAnalyzeTicketAge(ctx context.Context, req *mcp.CallToolRequest, in AgeInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}
	asOf, err := s.parseAsOf(in.AsOf)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	policy := s.policy()
	sprints := policy.AgeSprints
	if policy.CurrentSprint != "" {
		sprints = []string{policy.CurrentSprint}
	}
	sprints = sprintArgs(in.Sprints, sprints)

	thresholds := policy.AgeThresholds
	if in.CriticalDays > 0 {
		thresholds.CriticalDays = in.CriticalDays
	}
	if in.AlertDays > 0 {
		thresholds.AlertDays = in.AlertDays
	}
	if thresholds.AlertDays > thresholds.CriticalDays {
		return nil, ResponseEnvelope{}, fmt.Errorf("alert_days (%d) must not exceed critical_days (%d)", thresholds.AlertDays, thresholds.CriticalDays)
	}

	res := stats.CalculateTicketAge(ds.Tickets, ds.Changelog, sprints, stats.AgeOptions{Thresholds: thresholds, AsOf: asOf})

	guidance := []string{
		fmt.Sprintf("Severity is based on tracked days in active states: critical >= %d, alert >= %d.", thresholds.CriticalDays, thresholds.AlertDays),
		"ageDays counts calendar days since creation and is informational only.",
	}
	charts := map[string]string{"ticketAge": visuals.GenerateAgingChart(res)}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), s.visuals(charts), guidance), nil
}

func (s *Server) handleAnalyzeErrorRatio(ctx context.Context, req *mcp.CallToolRequest, in ErrorRatioInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	policy := s.policy()
	opts := stats.ErrorOptions{MinSprint: policy.ErrorMinSprint, TrendMode: policy.TrendMode}
	if in.MinSprint != nil {
		opts.MinSprint = *in.MinSprint
	}
	switch in.TrendMode {
	case "":
	case stats.TrendModeChronological, stats.TrendModeLegacy:
		opts.TrendMode = in.TrendMode
	default:
		return nil, ResponseEnvelope{}, fmt.Errorf("unknown trend_mode %q, expected %s or %s", in.TrendMode, stats.TrendModeChronological, stats.TrendModeLegacy)
	}

	res := stats.CalculateErrorAnalysis(ds.Tickets, opts)

	guidance := []string{
		"bySprint is ordered most recent first. Planning types (epic, spike, sub-task) are excluded, and so are tickets not yet started.",
	}
	if res.TrendMode == stats.TrendModeLegacy {
		guidance = append(guidance, "Legacy trend compares the oldest entries of the list and may not reflect the latest sprints.")
	}
	charts := map[string]string{"errorAnalysis": visuals.GenerateBugRatioChart(res)}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), s.visuals(charts), guidance), nil
}

func (s *Server) handleAnalyzeCycleTime(ctx context.Context, req *mcp.CallToolRequest, in SprintsInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	res := stats.CalculateCycleTime(ds.Tickets, sprintArgs(in.Sprints, s.policy().CycleTimeSprints))

	guidance := []string{
		"ESTIMATE: stage days are fixed shares of each ticket's total (25% in process, 20% code review, 25% in test dev, 20% in test, 5% blocked, remainder test issues). Do not present them as measured.",
	}
	charts := map[string]string{"cycleTime": visuals.GenerateCycleTimeStagePie(res)}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), s.visuals(charts), guidance), nil
}

func (s *Server) handleAnalyzeRework(ctx context.Context, req *mcp.CallToolRequest, in SprintInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	res := stats.CalculateRework(ds.Tickets, ds.Changelog, sprintArg(in.Sprint, s.policy().ReworkSprint))

	guidance := []string{
		"percentage is relative to every ticket of the sprint, including tickets without changelog history.",
	}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), nil, guidance), nil
}

func (s *Server) handleGetSprintOverview(ctx context.Context, req *mcp.CallToolRequest, in SprintInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	sprint := sprintArg(in.Sprint, s.policy().CurrentSprint)
	res := SprintOverview{
		Overview:  stats.CalculateOverview(ds.Tickets, sprint),
		Matrix:    stats.CalculateStatusMatrix(ds.Tickets, sprint),
		Evolution: stats.CalculateEvolution(ds.Tickets),
	}

	charts := map[string]string{
		"evolution": visuals.GenerateEvolutionChart(res.Evolution),
		"matrix":    visuals.GenerateStatusPie(res.Matrix),
	}
	return nil, WrapResponse(res, stats.Warnings(ds.Tickets, ds.Changelog), s.visuals(charts), nil), nil
}
