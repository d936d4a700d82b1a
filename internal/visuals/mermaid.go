package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"sprint-kpis/internal/stats"
)

const maxAgingItems = 20

type series struct {
	kind   string // bar or line
	values []float64
}

func quoted(labels []string) string {
	q := make([]string, len(labels))
	for i, l := range labels {
		q[i] = fmt.Sprintf("\"%s\"", strings.ReplaceAll(l, "\"", "'"))
	}
	return strings.Join(q, ", ")
}

func formatValues(values []float64) string {
	f := make([]string, len(values))
	for i, v := range values {
		f[i] = fmt.Sprintf("%.1f", v)
	}
	return strings.Join(f, ", ")
}

// xyChart renders a fenced xychart-beta block. The y-axis leaves 10% headroom above the
// largest value.
func xyChart(title, yLabel string, labels []string, data ...series) string {
	maxVal := 0.0
	for _, s := range data {
		for _, v := range s.values {
			maxVal = math.Max(maxVal, v)
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", quoted(labels)))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", yLabel, max(1, int(math.Ceil(maxVal*1.1)))))
	for _, s := range data {
		sb.WriteString(fmt.Sprintf("    %s [%s]\n", s.kind, formatValues(s.values)))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateLeadTimeDistributionChart creates a Mermaid bar chart of the lead-time buckets.
func GenerateLeadTimeDistributionChart(result stats.LeadTimeResult) string {
	if result.Total == 0 {
		return ""
	}

	var labels []string
	var values []float64
	for _, b := range result.Distribution {
		labels = append(labels, b.Label)
		values = append(values, float64(b.Count))
	}
	return xyChart("Lead Time Distribution", "Tickets", labels, series{"bar", values})
}

// GenerateLeadTimeBySprintChart creates a Mermaid line chart of the average lead time per sprint.
func GenerateLeadTimeBySprintChart(result stats.LeadTimeResult) string {
	if len(result.BySprint) < 2 {
		return ""
	}

	var labels []string
	var values []float64
	for _, s := range result.BySprint {
		labels = append(labels, s.Sprint)
		values = append(values, s.Average)
	}
	return xyChart("Average Lead Time per Sprint", "Days", labels, series{"line", values})
}

// GenerateAgingChart creates a Mermaid bar chart with the tracked days of the oldest open tickets.
func GenerateAgingChart(result stats.TicketAgeResult) string {
	all := result.All()
	if len(all) == 0 {
		return ""
	}

	var labels []string
	var values []float64
	for _, t := range all[:min(len(all), maxAgingItems)] {
		labels = append(labels, t.Key)
		values = append(values, float64(t.TrackedDays))
	}
	title := fmt.Sprintf("Open Ticket Age (Top %d by Tracked Days)", len(labels))
	return xyChart(title, "Tracked Days", labels, series{"bar", values})
}

// GenerateBugRatioChart creates a Mermaid bar chart of the bug percentage per sprint, oldest first.
func GenerateBugRatioChart(result stats.ErrorAnalysisResult) string {
	if len(result.BySprint) == 0 {
		return ""
	}

	sprints := slices.Clone(result.BySprint)
	slices.Reverse(sprints)

	var labels []string
	var values []float64
	for _, s := range sprints {
		labels = append(labels, s.Sprint)
		values = append(values, s.BugPercentage)
	}
	return xyChart("Bugs per Sprint (%)", "Bug %", labels, series{"bar", values})
}

// GenerateEvolutionChart creates a Mermaid chart comparing new and resolved tickets per sprint.
func GenerateEvolutionChart(rows []stats.SprintEvolution) string {
	if len(rows) == 0 {
		return ""
	}

	var labels []string
	var created, resolved []float64
	for _, r := range rows {
		labels = append(labels, r.Sprint)
		created = append(created, float64(r.New))
		resolved = append(resolved, float64(r.Resolved))
	}
	return xyChart("Sprint Evolution (New vs Resolved)", "Tickets", labels,
		series{"bar", created},
		series{"line", resolved},
	)
}

// GenerateStatusPie creates a Mermaid pie chart of the ticket count per normalized status.
func GenerateStatusPie(matrix stats.StatusMatrix) string {
	if matrix.Total == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Tickets by Status\n")
	for _, s := range matrix.Statuses {
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", s, matrix.TotalsByStatus[s]))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateCycleTimeStagePie creates a Mermaid pie chart of the estimated days per stage
// summed over the analysed tickets.
func GenerateCycleTimeStagePie(result stats.CycleTimeResult) string {
	if result.Total == 0 {
		return ""
	}

	var sum stats.StageBreakdown
	for _, t := range result.Tickets {
		sum.InProcess += t.Stages.InProcess
		sum.CodeReview += t.Stages.CodeReview
		sum.InTestDev += t.Stages.InTestDev
		sum.InTest += t.Stages.InTest
		sum.Blocked += t.Stages.Blocked
		sum.TestIssue += t.Stages.TestIssue
	}
	if sum.Sum() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Cycle Time by Stage (Estimated)\n")
	for _, st := range []struct {
		label string
		days  int
	}{
		{"In Process", sum.InProcess},
		{"Code Review", sum.CodeReview},
		{"In Test Dev", sum.InTestDev},
		{"In Test", sum.InTest},
		{"Blocked", sum.Blocked},
		{"Test Issues", max(0, sum.TestIssue)},
	} {
		sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", st.label, st.days))
	}
	sb.WriteString("```")
	return sb.String()
}

// ForReport renders every chart that has data, keyed by report section.
func ForReport(r stats.Report) map[string]string {
	charts := map[string]string{
		"leadTimeDistribution": GenerateLeadTimeDistributionChart(r.LeadTime),
		"leadTimeBySprint":     GenerateLeadTimeBySprintChart(r.LeadTime),
		"ticketAge":            GenerateAgingChart(r.TicketAge),
		"errorAnalysis":        GenerateBugRatioChart(r.ErrorAnalysis),
		"cycleTime":            GenerateCycleTimeStagePie(r.CycleTime),
		"evolution":            GenerateEvolutionChart(r.Evolution),
		"matrix":               GenerateStatusPie(r.Matrix),
	}
	for k, v := range charts {
		if v == "" {
			delete(charts, k)
		}
	}
	return charts
}
