package stats

import (
	"slices"
	"strings"

	"sprint-kpis/internal/jira"
)

// Work item categories used by the error analysis.
const (
	CategoryBug   = "bug"
	CategoryTask  = "task"
	CategoryStory = "story"
	CategoryOther = "other"
)

// Trend labels.
const (
	TrendImprovingSignificantly = "improving_significantly"
	TrendImproving              = "improving"
	TrendStable                 = "stable"
	TrendWorsening              = "worsening"
	TrendInsufficientData       = "insufficient_data"
)

// Trend modes.
const (
	TrendModeChronological = "chronological"
	TrendModeLegacy        = "legacy"
)

// DefaultErrorMinSprint is the oldest sprint included in the error analysis.
const DefaultErrorMinSprint = 31

// AllSprints as a policy ErrorMinSprint keeps every sprint in the error analysis.
const AllSprints = -1

const trendWindow = 3

// ErrorOptions configures the error analysis. A MinSprint of zero or below includes every sprint.
type ErrorOptions struct {
	MinSprint int
	TrendMode string
}

// IsNonWorkType reports whether an issue type is planning or decomposition rather than real work.
func IsNonWorkType(issueType string) bool {
	t := strings.ToLower(issueType)
	for _, kw := range []string{"epic", "spike", "subtask", "sub-task", "subtarea"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// ClassifyIssueType buckets an issue type as bug, task, story or other. The checks run
// in that order so every type lands in exactly one category.
func ClassifyIssueType(issueType string) string {
	t := strings.ToLower(strings.TrimSpace(issueType))
	switch {
	case strings.Contains(t, "bug"), strings.Contains(t, "error"), t == "defect":
		return CategoryBug
	case strings.Contains(t, "task"), strings.Contains(t, "tarea"):
		return CategoryTask
	case strings.Contains(t, "story"), strings.Contains(t, "historia"):
		return CategoryStory
	default:
		return CategoryOther
	}
}

// CategoryCount is the size of one category and its share of the sprint total.
type CategoryCount struct {
	Count   int      `json:"count"`
	Percent float64  `json:"percent"`
	Tickets []string `json:"tickets,omitempty"`
}

// SprintErrors is the bug/feature mix of one sprint.
type SprintErrors struct {
	Sprint        string        `json:"sprint"`
	SprintNum     string        `json:"sprintNum"`
	Bugs          CategoryCount `json:"bugs"`
	Tasks         CategoryCount `json:"tasks"`
	Stories       CategoryCount `json:"stories"`
	Others        CategoryCount `json:"others"`
	Total         int           `json:"total"`
	BugPercentage float64       `json:"bugPercentage"`
}

// ErrorSummary aggregates bugs and functionality across all analysed tickets.
type ErrorSummary struct {
	TotalBugs          int     `json:"totalBugs"`
	TotalFunctionality int     `json:"totalFunctionality"`
	GlobalRatio        float64 `json:"globalRatio"`
}

// ErrorAnalysisResult is the error-analysis section of the report.
type ErrorAnalysisResult struct {
	BySprint  []SprintErrors `json:"bySprint"`
	Trend     string         `json:"trend"`
	TrendMode string         `json:"trendMode"`
	Summary   ErrorSummary   `json:"summary"`
}

// CalculateErrorAnalysis computes the bug ratio per sprint, most recent sprint first.
func CalculateErrorAnalysis(tickets []jira.Ticket, opts ErrorOptions) ErrorAnalysisResult {
	if opts.TrendMode == "" {
		opts.TrendMode = TrendModeChronological
	}

	groups := make(map[string][]jira.Ticket)
	var ids []string
	var summary ErrorSummary

	for _, t := range tickets {
		if IsExcludedFromErrorAnalysis(t) {
			continue
		}

		switch ClassifyIssueType(t.IssueType) {
		case CategoryBug:
			summary.TotalBugs++
		case CategoryTask, CategoryStory:
			summary.TotalFunctionality++
		}

		id, ok := SprintNumber(t.Sprint)
		if !ok || sprintOrdinal(id) < opts.MinSprint {
			continue
		}
		if _, seen := groups[id]; !seen {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], t)
	}

	if summary.TotalFunctionality > 0 {
		summary.GlobalRatio = round2(float64(summary.TotalBugs) / float64(summary.TotalFunctionality))
	}

	slices.SortFunc(ids, func(a, b string) int {
		return sprintOrdinal(b) - sprintOrdinal(a)
	})

	bySprint := make([]SprintErrors, 0, len(ids))
	for _, id := range ids {
		bySprint = append(bySprint, sprintErrors(id, groups[id]))
	}

	return ErrorAnalysisResult{
		BySprint:  bySprint,
		Trend:     CalculateTrend(bySprint, opts.TrendMode),
		TrendMode: opts.TrendMode,
		Summary:   summary,
	}
}

func sprintErrors(id string, tickets []jira.Ticket) SprintErrors {
	buckets := map[string]*CategoryCount{
		CategoryBug:   {},
		CategoryTask:  {},
		CategoryStory: {},
		CategoryOther: {},
	}

	total := 0
	for _, t := range tickets {
		if IsNonWorkType(t.IssueType) {
			continue
		}
		total++
		b := buckets[ClassifyIssueType(t.IssueType)]
		b.Count++
		b.Tickets = append(b.Tickets, t.Key)
	}

	for _, b := range buckets {
		b.Percent = percentOf(b.Count, total)
	}

	return SprintErrors{
		Sprint:        SprintLabel(id),
		SprintNum:     id,
		Bugs:          *buckets[CategoryBug],
		Tasks:         *buckets[CategoryTask],
		Stories:       *buckets[CategoryStory],
		Others:        *buckets[CategoryOther],
		Total:         total,
		BugPercentage: buckets[CategoryBug].Percent,
	}
}

// CalculateTrend compares the bug percentage across the trend window of a most-recent-first
// sprint list.
//
// In chronological mode the window is the three most recent sprints and the oldest of
// them is the baseline. Legacy mode keeps the dashboard's original slicing: the last
// three entries of the list, comparing the first of them against the last.
func CalculateTrend(bySprint []SprintErrors, mode string) string {
	var baseline, latest float64
	switch mode {
	case TrendModeLegacy:
		window := bySprint[max(0, len(bySprint)-trendWindow):]
		if len(window) < 2 {
			return TrendInsufficientData
		}
		baseline, latest = window[0].BugPercentage, window[len(window)-1].BugPercentage
	default:
		window := bySprint[:min(len(bySprint), trendWindow)]
		if len(window) < 2 {
			return TrendInsufficientData
		}
		baseline, latest = window[len(window)-1].BugPercentage, window[0].BugPercentage
	}

	if baseline == 0 {
		if latest == 0 {
			return TrendStable
		}
		return TrendWorsening
	}

	change := (latest - baseline) / baseline * 100
	switch {
	case change < -10:
		return TrendImprovingSignificantly
	case change < 0:
		return TrendImproving
	case change < 10:
		return TrendStable
	default:
		return TrendWorsening
	}
}
