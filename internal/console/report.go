package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sprint-kpis/internal/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	severityColors = map[string]lipgloss.Color{
		stats.SeverityCritical: lipgloss.Color("9"),
		stats.SeverityAlert:    lipgloss.Color("11"),
		stats.SeverityNormal:   lipgloss.Color("10"),
	}
)

// bugThresholds colour a sprint's bug share: green below 20%, yellow below 35%, red above.
const (
	bugOK   = 20.0
	bugWarn = 35.0
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Render writes the report as a sequence of terminal tables.
func Render(w io.Writer, r stats.Report) error {
	var sb strings.Builder

	scope := "all sprints"
	if r.CurrentSprint != "" {
		scope = stats.SprintLabel(r.CurrentSprint)
	}
	sb.WriteString(titleStyle.Render("Sprint KPI report: "+scope) + "\n")
	if r.GeneratedFor != "" {
		sb.WriteString(faintStyle.Render("as of "+r.GeneratedFor) + "\n")
	}

	sections := []func(stats.Report) string{
		renderOverview,
		renderLeadTime,
		renderTicketAge,
		renderErrorAnalysis,
		renderCycleTime,
		renderRework,
		renderEvolution,
		renderMatrix,
	}
	for _, section := range sections {
		sb.WriteString(section(r))
	}

	for _, warning := range r.Warnings {
		sb.WriteString(warnStyle.Render("! "+warning) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func section(title string, body ...string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title) + "\n")
	for _, b := range body {
		sb.WriteString(b + "\n")
	}
	return sb.String()
}

func renderOverview(r stats.Report) string {
	o := r.Overview
	t := newTable("Total", "Finished", "In Progress", "To Do", "% Finished", "Highest open", "High open").
		Row(strconv.Itoa(o.Total), strconv.Itoa(o.Finished), strconv.Itoa(o.InProgress), strconv.Itoa(o.Pending),
			num(o.PctFinished)+"%", strconv.Itoa(o.HighestOpen), strconv.Itoa(o.HighOpen))

	res := newTable("Priority", "Avg resolution (days)")
	for _, p := range []string{"Highest", "High", "Medium", "Low"} {
		res.Row(p, num(o.ResolutionAvg[p]))
	}
	return section("Overview", t.String(), res.String())
}

func renderLeadTime(r stats.Report) string {
	lt := r.LeadTime
	summary := fmt.Sprintf("Average %s days, median %s days over %d finished tickets", num(lt.Average), num(lt.Median), lt.Total)
	if lt.Total == 0 {
		return section("Lead time", faintStyle.Render("No finished tickets with valid dates"))
	}

	bySprint := newTable("Sprint", "Average", "Tickets")
	for _, s := range lt.BySprint {
		bySprint.Row(s.Sprint, num(s.Average), strconv.Itoa(s.Count))
	}
	byPriority := newTable("Priority", "Average", "Tickets")
	for _, p := range lt.ByPriority {
		byPriority.Row(p.Priority, num(p.Average), strconv.Itoa(p.Count))
	}
	dist := newTable("Range", "Tickets")
	for _, b := range lt.Distribution {
		dist.Row(b.Label, strconv.Itoa(b.Count))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, bySprint.String(), " ", byPriority.String(), " ", dist.String())
	return section("Lead time", summary, row)
}

func renderTicketAge(r stats.Report) string {
	age := r.TicketAge
	title := fmt.Sprintf("Ticket age (sprints %s)", strings.Join(age.Sprints, ", "))
	if len(age.Sprints) == 0 {
		title = "Ticket age"
	}
	if age.Total == 0 {
		return section(title, faintStyle.Render("No open tickets with tracked time"))
	}

	summary := fmt.Sprintf("Average %s tracked days: %d critical, %d alert, %d normal",
		num(age.Average), age.CountCritical, age.CountAlert, age.CountNormal)

	headers := []string{"Key", "Severity", "Tracked", "Status"}
	for _, s := range age.States {
		headers = append(headers, string(s))
	}
	all := age.All()
	t := newTable(headers...).StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 1 && row < len(all) {
			return cellStyle.Foreground(severityColors[all[row].Severity])
		}
		return cellStyle
	})
	for _, a := range all {
		cells := []string{a.Key, a.Severity, strconv.Itoa(a.TrackedDays), a.Status}
		for _, s := range age.States {
			cells = append(cells, num(a.DaysByState[s]))
		}
		t.Row(cells...)
	}
	return section(title, summary, t.String())
}

func bugColor(pct float64) lipgloss.Color {
	switch {
	case pct < bugOK:
		return lipgloss.Color("10")
	case pct < bugWarn:
		return lipgloss.Color("11")
	default:
		return lipgloss.Color("9")
	}
}

func renderErrorAnalysis(r stats.Report) string {
	ea := r.ErrorAnalysis
	summary := fmt.Sprintf("Trend: %s (%s). Bugs %d, functionality %d, ratio %.2f",
		ea.Trend, ea.TrendMode, ea.Summary.TotalBugs, ea.Summary.TotalFunctionality, ea.Summary.GlobalRatio)
	if len(ea.BySprint) == 0 {
		return section("Bugs vs functionality", summary)
	}

	t := newTable("Sprint", "Bugs", "Tasks", "Stories", "Other", "Total", "% Bugs").StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 6 && row < len(ea.BySprint) {
			return cellStyle.Foreground(bugColor(ea.BySprint[row].BugPercentage))
		}
		return cellStyle
	})
	for _, s := range ea.BySprint {
		t.Row(s.Sprint, strconv.Itoa(s.Bugs.Count), strconv.Itoa(s.Tasks.Count), strconv.Itoa(s.Stories.Count),
			strconv.Itoa(s.Others.Count), strconv.Itoa(s.Total), num(s.BugPercentage)+"%")
	}
	return section("Bugs vs functionality", summary, t.String())
}

func renderCycleTime(r stats.Report) string {
	ct := r.CycleTime
	title := fmt.Sprintf("Cycle time (sprints %s)", strings.Join(ct.Sprints, ", "))
	if ct.Total == 0 {
		return section(title, faintStyle.Render("No finished tickets in these sprints"))
	}

	summary := fmt.Sprintf("Average %s days over %d tickets. Stage split is an estimate from fixed proportions.", num(ct.Average), ct.Total)
	t := newTable("Key", "Priority", "Total", "In Process", "Code Review", "In Test Dev", "In Test", "Blocked", "Test Issues", "Finished")
	for _, tc := range ct.Tickets {
		s := tc.Stages
		t.Row(tc.Key, tc.Priority, strconv.Itoa(tc.TotalDays), strconv.Itoa(s.InProcess), strconv.Itoa(s.CodeReview),
			strconv.Itoa(s.InTestDev), strconv.Itoa(s.InTest), strconv.Itoa(s.Blocked), strconv.Itoa(s.TestIssue), "N/A")
	}
	return section(title, summary, t.String())
}

func renderRework(r stats.Report) string {
	rw := r.Rework
	title := "Rework (" + stats.SprintLabel(rw.Sprint) + ")"
	summary := fmt.Sprintf("%d of %d tickets returned from QA (%s%%), %d cycles",
		rw.WithRework, rw.TotalAnalyzed, num(rw.Percentage), rw.TotalCycles)
	if len(rw.Detail) == 0 {
		return section(title, summary)
	}

	t := newTable("Key", "Priority", "Cycles", "From", "Test Issues (days)", "Returned to")
	for _, d := range rw.Detail {
		for i, c := range d.Detail {
			key, prio, cycles := d.Key, d.Priority, strconv.Itoa(d.Cycles)
			if i > 0 {
				key, prio, cycles = "", "", ""
			}
			t.Row(key, prio, cycles, c.From, num(c.TestIssuesDuration), c.ReturnedTo)
		}
	}
	return section(title, summary, t.String())
}

func renderEvolution(r stats.Report) string {
	if len(r.Evolution) == 0 {
		return ""
	}
	t := newTable("Sprint", "New", "Resolved", "Pending", "Cumulative", "% Resolved")
	for _, e := range r.Evolution {
		t.Row(e.Sprint, strconv.Itoa(e.New), strconv.Itoa(e.Resolved), strconv.Itoa(e.Pending),
			strconv.Itoa(e.Cumulative), num(e.PctResolution)+"%")
	}
	return section("Sprint evolution", t.String())
}

func renderMatrix(r stats.Report) string {
	m := r.Matrix
	if m.Total == 0 {
		return ""
	}

	headers := append([]string{"Status / Priority"}, m.Priorities...)
	t := newTable(append(headers, "Total")...)
	for _, s := range m.Statuses {
		cells := []string{s}
		for _, p := range m.Priorities {
			cells = append(cells, strconv.Itoa(m.Counts[p][s]))
		}
		t.Row(append(cells, strconv.Itoa(m.TotalsByStatus[s]))...)
	}
	totals := []string{"Total"}
	for _, p := range m.Priorities {
		totals = append(totals, strconv.Itoa(m.TotalsByPriority[p]))
	}
	t.Row(append(totals, strconv.Itoa(m.Total))...)
	return section("Status by priority", t.String())
}
