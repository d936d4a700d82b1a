package engine

import (
	"encoding/json"
	"testing"

	"sprint-kpis/internal/jira"
)

func mustJSON(t *testing.T, export jira.ExportDTO) []byte {
	t.Helper()
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
