package console

import (
	"bytes"
	"strings"
	"testing"

	"sprint-kpis/internal/jira"
	"sprint-kpis/internal/stats"
)

func TestRender(t *testing.T) {
	tickets := []jira.Ticket{
		{Key: "PROJ-1", Sprint: "34", Priority: "High", IssueType: "Bug", NormalizedStatus: jira.StatusFinished, Created: "1/ene/26", Resolved: "11/ene/26"},
		{Key: "PROJ-2", Sprint: "34", Priority: "Medium", IssueType: "Story", Status: "In Test", NormalizedStatus: jira.StatusInProgress, Created: "2/ene/26"},
	}
	changelog := jira.Changelog{
		"PROJ-2": {
			{Status: "In Process", Days: 9},
			{Status: "In Test", Days: 2, StartedAt: "12/ene/26"},
			{Status: "Test Issues", Days: 1},
			{Status: "Code Review", Days: 4},
		},
	}

	r := stats.Compute(tickets, changelog, stats.Options{Policy: stats.DefaultPolicy()})

	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Sprint KPI report: all sprints",
		"Lead time",
		"Sprint 34",
		"0-3 days",
		"Ticket age (sprints 34, 35)",
		"PROJ-2",
		"critical",
		"CODE REVIEW",
		"Bugs vs functionality",
		"Cycle time (sprints 34, 35)",
		"Rework (Sprint 34)",
		"1 of 2 tickets returned from QA",
		"Code Review",
		"Status by priority",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestRender_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, stats.Compute(nil, nil, stats.Options{CurrentSprint: "35"})); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Sprint KPI report: Sprint 35",
		"No finished tickets with valid dates",
		"No open tickets with tracked time",
		"no changelog data",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "Status by priority") {
		t.Error("Expected the empty matrix to be omitted")
	}
}
