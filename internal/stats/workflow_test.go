package stats

import (
	"testing"

	"sprint-kpis/internal/jira"
)

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"in progress", "In Process"},
		{"In Process", "In Process"},
		{"  BLOCKED ", "Blocked"},
		{"Code Review", "CODE REVIEW"},
		{"in test dev", "IN TEST DEV"},
		{"Test in Dev", "IN TEST DEV"},
		{"IN TEST", "In Test"},
		{"test issue", "Test Issues"},
		{"Test Issues", "Test Issues"},
		{"Done", "Done"},
		{"Tareas por hacer", "Tareas por hacer"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeState(tt.raw); got != tt.want {
			t.Errorf("NormalizeState(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeState_Idempotent(t *testing.T) {
	for _, raw := range []string{"in progress", "code review", "test in dev", "test issue", "Done"} {
		once := NormalizeState(raw)
		if twice := NormalizeState(once); twice != once {
			t.Errorf("NormalizeState not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestAsTrackedState(t *testing.T) {
	if s, ok := AsTrackedState("code review"); !ok || s != StateCodeReview {
		t.Errorf("Expected CODE REVIEW to be tracked, got %q (%v)", s, ok)
	}
	if _, ok := AsTrackedState("Done"); ok {
		t.Error("Expected Done not to be a tracked state")
	}
	if _, ok := AsTrackedState("To Do"); ok {
		t.Error("Expected To Do not to be a tracked state")
	}
}

func TestIsExcludedFromErrorAnalysis(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{jira.StatusToDo, true},
		{"Backlog", true},
		{"Tareas por hacer", true},
		{jira.StatusInProgress, false},
		{jira.StatusFinished, false},
	}
	for _, tt := range tests {
		got := IsExcludedFromErrorAnalysis(jira.Ticket{NormalizedStatus: tt.status})
		if got != tt.want {
			t.Errorf("IsExcludedFromErrorAnalysis(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
