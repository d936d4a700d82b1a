package stats

import (
	"testing"

	"sprint-kpis/internal/jira"
)

func TestDetectReworkCycles_SingleReturn(t *testing.T) {
	history := []jira.ChangelogEntry{
		{Status: "In Process", Days: 3},
		{Status: "In Test", Days: 2, StartedAt: "4/ene/26"},
		{Status: "Test Issues", Days: 1},
		{Status: "Code Review", Days: 1},
	}

	cycles := DetectReworkCycles(history)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	c := cycles[0]
	if c.ReturnedTo != "Code Review" {
		t.Errorf("Expected return to Code Review, got %q", c.ReturnedTo)
	}
	if c.From != "4/ene/26" || c.TestIssuesDuration != 1 {
		t.Errorf("Unexpected cycle detail: %+v", c)
	}
}

func TestDetectReworkCycles(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		expected int
		last     string
	}{
		{"NoHistory", nil, 0, ""},
		{"NoReturn", []string{"In Test", "Done"}, 0, ""},
		{"CaseInsensitive", []string{"in test", "TEST ISSUES"}, 1, noNextStatus},
		{"SingularLabel", []string{"In Test", "Test Issue", "In Process"}, 1, "In Process"},
		{"TwoCycles", []string{"In Test", "Test Issues", "In Test", "Test Issues", "Done"}, 2, "Done"},
		{"ReverseOrderIgnored", []string{"Test Issues", "In Test"}, 0, ""},
		{"NotAdjacent", []string{"In Test", "Blocked", "Test Issues"}, 0, ""},
		{"ConsumedEntryNotReused", []string{"In Test", "Test Issues", "Test Issues"}, 1, "Test Issues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []jira.ChangelogEntry
			for _, s := range tt.statuses {
				history = append(history, entry(s, 1))
			}
			cycles := DetectReworkCycles(history)
			if len(cycles) != tt.expected {
				t.Fatalf("Expected %d cycles, got %d", tt.expected, len(cycles))
			}
			if tt.expected > 0 && cycles[len(cycles)-1].ReturnedTo != tt.last {
				t.Errorf("Expected last return to %q, got %q", tt.last, cycles[len(cycles)-1].ReturnedTo)
			}
		})
	}
}

func TestCalculateRework(t *testing.T) {
	tickets := []jira.Ticket{
		openTicket("R1", "34", "Story"),
		openTicket("R2", "Sprint 34", "Bug"),
		openTicket("CLEAN", "34", "Task"),
		openTicket("SHORT", "34", "Task"),
		openTicket("NOHISTORY", "34", "Task"),
		openTicket("OTHER", "35", "Task"),
	}
	cl := jira.Changelog{
		"R1":    {entry("In Test", 1), entry("Test Issues", 2), entry("In Test", 1), entry("Test Issues", 1)},
		"R2":    {entry("In Process", 3), entry("In Test", 2), entry("Test Issues", 1), entry("Code Review", 1)},
		"CLEAN": {entry("In Process", 3), entry("In Test", 2), entry("Done", 1)},
		"SHORT": {entry("In Test", 1)},
		"OTHER": {entry("In Test", 1), entry("Test Issues", 2)},
	}

	res := CalculateRework(tickets, cl, "34")
	if res.TotalAnalyzed != 5 {
		t.Errorf("Expected 5 tickets analysed, got %d", res.TotalAnalyzed)
	}
	if res.WithRework != 2 {
		t.Errorf("Expected 2 tickets with rework, got %d", res.WithRework)
	}
	if res.TotalCycles != 3 {
		t.Errorf("Expected 3 cycles, got %d", res.TotalCycles)
	}
	if res.Percentage != 40 {
		t.Errorf("Expected 40%%, got %v", res.Percentage)
	}
	if len(res.Detail) != 2 || res.Detail[0].Key != "R1" || res.Detail[0].Cycles != 2 {
		t.Errorf("Unexpected detail: %+v", res.Detail)
	}
}

func TestCalculateRework_Empty(t *testing.T) {
	tickets := []jira.Ticket{openTicket("R1", "34", "Story")}

	for name, res := range map[string]ReworkResult{
		"NoChangelog": CalculateRework(tickets, nil, "34"),
		"NoTickets":   CalculateRework(nil, jira.Changelog{"R1": {entry("In Test", 1)}}, "34"),
		"OtherSprint": CalculateRework(tickets, jira.Changelog{"R1": {entry("In Test", 1)}}, "99"),
	} {
		if res.TotalAnalyzed != 0 || res.WithRework != 0 || res.TotalCycles != 0 || res.Percentage != 0 {
			t.Errorf("%s: expected all-zero report, got %+v", name, res)
		}
		if res.Detail == nil || len(res.Detail) != 0 {
			t.Errorf("%s: expected empty non-nil detail", name)
		}
	}
}
