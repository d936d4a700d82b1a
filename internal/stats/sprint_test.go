package stats

import "testing"

func TestSprintID(t *testing.T) {
	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"34", "34", true},
		{"Sprint 34", "34", true},
		{"Invox Medical Suite-Sprint 30", "30", true},
		{"S12 / S13", "12", true},
		{"", "0", false},
		{"Backlog", "0", false},
	}

	for _, tt := range tests {
		if got := SprintID(tt.field); got != tt.want {
			t.Errorf("SprintID(%q) = %q, want %q", tt.field, got, tt.want)
		}
		if _, ok := SprintNumber(tt.field); ok != tt.ok {
			t.Errorf("SprintNumber(%q) ok = %v, want %v", tt.field, ok, tt.ok)
		}
	}
}

func TestInSprints(t *testing.T) {
	ids := []string{"34", "35"}
	if !InSprints("Sprint 35", ids) {
		t.Error("Expected \"Sprint 35\" to be in [34 35]")
	}
	if InSprints("36", ids) {
		t.Error("Expected \"36\" not to be in [34 35]")
	}
	if InSprints("", ids) {
		t.Error("Expected empty sprint not to match")
	}
	if !InSprints("", []string{"0"}) {
		t.Error("Expected empty sprint to default to \"0\"")
	}
}
