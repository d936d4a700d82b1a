package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sprint-kpis/cmd/mockgen/engine"
	"sprint-kpis/internal/config"
	"sprint-kpis/internal/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var fixedNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func writeDataset(t *testing.T, scenario, dist string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	export := engine.Generate(engine.GeneratorConfig{
		Scenario:     scenario,
		Distribution: dist,
		Count:        240,
		FirstSprint:  30,
		LastSprint:   35,
		Now:          fixedNow,
		Seed:         11,
	})
	if err := engine.Save(path, export); err != nil {
		t.Fatalf("Failed to save dataset: %v", err)
	}
	return path
}

func newTestServer(cfg *config.AppConfig) *Server {
	s := NewServer(cfg)
	s.now = func() time.Time { return fixedNow }
	return s
}

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("Server connect failed: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Client connect failed: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

// envelopeOf decodes the JSON text content of a tool result into an envelope with typed data.
func envelopeOf[T any](t *testing.T, res *mcp.CallToolResult) (T, ResponseEnvelope) {
	t.Helper()
	var data T
	if res.IsError {
		t.Fatalf("Tool returned an error: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatal("Expected text content, got none")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("Expected *mcp.TextContent, got %T", res.Content[0])
	}

	var raw struct {
		ResponseEnvelope
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(text.Text), &raw); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	return data, raw.ResponseEnvelope
}

func TestTools_Listed(t *testing.T) {
	s := newTestServer(&config.AppConfig{DatasetFile: writeDataset(t, "mild", "uniform"), Policy: stats.DefaultPolicy()})
	cs := connect(t, s)

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	want := map[string]bool{
		"get_dataset_summary": false, "get_kpi_report": false, "analyze_lead_time": false,
		"analyze_ticket_age": false, "analyze_error_ratio": false, "analyze_cycle_time": false,
		"analyze_rework": false, "get_sprint_overview": false,
	}
	for _, tool := range res.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected tool %s to be registered", name)
		}
	}
}

func TestKPIReport_Integration(t *testing.T) {
	dists := []string{"uniform", "weibull"}
	scenarios := []string{"mild", "chaos", "drift"}

	for _, dist := range dists {
		for _, scen := range scenarios {
			t.Run(dist+"_"+scen, func(t *testing.T) {
				s := newTestServer(&config.AppConfig{
					DatasetFile:         writeDataset(t, scen, dist),
					EnableMermaidCharts: true,
					Policy:              stats.DefaultPolicy(),
				})
				cs := connect(t, s)

				res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
					Name:      "get_kpi_report",
					Arguments: map[string]any{"current_sprint": "Sprint 35", "as_of": "2026-03-02"},
				})
				if err != nil {
					t.Fatalf("CallTool failed: %v", err)
				}
				report, env := envelopeOf[stats.Report](t, res)

				if report.CurrentSprint != "35" {
					t.Errorf("Expected current sprint 35, got %q", report.CurrentSprint)
				}
				if report.GeneratedFor != "2026-03-02" {
					t.Errorf("Expected asOf 2026-03-02, got %q", report.GeneratedFor)
				}

				sum := 0
				for _, b := range report.LeadTime.Distribution {
					sum += b.Count
				}
				if sum != report.LeadTime.Total {
					t.Errorf("Distribution sums to %d, expected %d", sum, report.LeadTime.Total)
				}

				age := report.TicketAge
				if age.CountCritical+age.CountAlert+age.CountNormal != age.Total {
					t.Errorf("Age buckets do not partition total %d", age.Total)
				}

				for _, tk := range report.CycleTime.Tickets {
					if tk.Stages.Sum() != tk.TotalDays {
						t.Errorf("%s: stages sum %d, expected %d", tk.Key, tk.Stages.Sum(), tk.TotalDays)
					}
				}

				if len(report.Evolution) != 6 {
					t.Errorf("Expected 6 sprints of evolution, got %d", len(report.Evolution))
				}
				if _, ok := env.Visuals["evolution"]; !ok {
					t.Error("Expected an evolution chart when mermaid charts are enabled")
				}
				if len(env.Guidance) == 0 {
					t.Error("Expected guidance in the envelope")
				}
			})
		}
	}
}

func TestAnalyzeRework_ViaClient(t *testing.T) {
	s := newTestServer(&config.AppConfig{DatasetFile: writeDataset(t, "chaos", "uniform"), Policy: stats.DefaultPolicy()})
	cs := connect(t, s)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "analyze_rework",
		Arguments: map[string]any{"sprint": "33"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	rework, env := envelopeOf[stats.ReworkResult](t, res)

	if rework.Sprint != "33" {
		t.Errorf("Expected sprint 33, got %q", rework.Sprint)
	}
	if rework.TotalAnalyzed == 0 {
		t.Error("Expected tickets in sprint 33")
	}
	if rework.WithRework > rework.TotalAnalyzed {
		t.Errorf("WithRework %d exceeds analyzed %d", rework.WithRework, rework.TotalAnalyzed)
	}
	if env.Visuals != nil {
		t.Errorf("Expected no visuals when charts are disabled, got %v", env.Visuals)
	}
}

func TestMissingDataset_IsToolError(t *testing.T) {
	s := newTestServer(&config.AppConfig{
		DatasetFile: filepath.Join(t.TempDir(), "missing.json"),
		Policy:      stats.DefaultPolicy(),
	})
	cs := connect(t, s)

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "analyze_lead_time", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("Expected a tool error, got protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("Expected IsError for a missing dataset")
	}
}

func TestHandlers_Direct(t *testing.T) {
	s := newTestServer(&config.AppConfig{DatasetFile: writeDataset(t, "drift", "weibull"), Policy: stats.DefaultPolicy()})
	ctx := context.Background()

	t.Run("dataset summary", func(t *testing.T) {
		_, env, err := s.handleGetDatasetSummary(ctx, nil, EmptyInput{})
		if err != nil {
			t.Fatal(err)
		}
		summary := env.Data.(DatasetSummary)
		if summary.Tickets != 240 {
			t.Errorf("Expected 240 tickets, got %d", summary.Tickets)
		}
		if len(summary.Sprints) != 6 {
			t.Fatalf("Expected 6 sprints, got %v", summary.Sprints)
		}
		for i, want := range []string{"30", "31", "32", "33", "34", "35"} {
			if summary.Sprints[i].Sprint != want {
				t.Errorf("Expected sprint %s at %d, got %q", want, i, summary.Sprints[i].Sprint)
			}
		}
		total := 0
		for _, n := range summary.ByStatus {
			total += n
		}
		if total != summary.Tickets {
			t.Errorf("Status counts sum to %d, expected %d", total, summary.Tickets)
		}
	})

	t.Run("lead time for one sprint", func(t *testing.T) {
		_, env, err := s.handleAnalyzeLeadTime(ctx, nil, SprintInput{Sprint: "31"})
		if err != nil {
			t.Fatal(err)
		}
		res := env.Data.(stats.LeadTimeResult)
		for _, tk := range res.Tickets {
			if stats.SprintID(tk.Sprint) != "31" {
				t.Errorf("Expected only sprint 31, got %s for %s", tk.Sprint, tk.Key)
			}
		}
	})

	t.Run("ticket age uses policy sprints", func(t *testing.T) {
		_, env, err := s.handleAnalyzeTicketAge(ctx, nil, AgeInput{})
		if err != nil {
			t.Fatal(err)
		}
		res := env.Data.(stats.TicketAgeResult)
		if len(res.Sprints) != 2 || res.Sprints[0] != "34" || res.Sprints[1] != "35" {
			t.Errorf("Expected sprints [34 35], got %v", res.Sprints)
		}
	})

	t.Run("error ratio all sprints", func(t *testing.T) {
		zero := 0
		_, env, err := s.handleAnalyzeErrorRatio(ctx, nil, ErrorRatioInput{MinSprint: &zero, TrendMode: stats.TrendModeLegacy})
		if err != nil {
			t.Fatal(err)
		}
		res := env.Data.(stats.ErrorAnalysisResult)
		if len(res.BySprint) != 6 {
			t.Errorf("Expected 6 sprints, got %d", len(res.BySprint))
		}
		if res.TrendMode != stats.TrendModeLegacy {
			t.Errorf("Expected legacy trend mode, got %s", res.TrendMode)
		}
	})

	t.Run("cycle time explicit sprints", func(t *testing.T) {
		_, env, err := s.handleAnalyzeCycleTime(ctx, nil, SprintsInput{Sprints: []string{"Sprint 30"}})
		if err != nil {
			t.Fatal(err)
		}
		res := env.Data.(stats.CycleTimeResult)
		if len(res.Sprints) != 1 || res.Sprints[0] != "30" {
			t.Errorf("Expected sprints [30], got %v", res.Sprints)
		}
	})

	t.Run("overview", func(t *testing.T) {
		_, env, err := s.handleGetSprintOverview(ctx, nil, SprintInput{Sprint: "35"})
		if err != nil {
			t.Fatal(err)
		}
		res := env.Data.(SprintOverview)
		o := res.Overview
		if o.Finished+o.InProgress+o.Pending != o.Total {
			t.Errorf("Overview counts do not add up to %d", o.Total)
		}
		if res.Matrix.Total != o.Total {
			t.Errorf("Matrix total %d, expected %d", res.Matrix.Total, o.Total)
		}
	})
}

func TestKPIReport_LabelledPolicySprint(t *testing.T) {
	policy := stats.DefaultPolicy()
	policy.CurrentSprint = "Sprint 35"
	s := newTestServer(&config.AppConfig{DatasetFile: writeDataset(t, "mild", "uniform"), Policy: policy})

	_, env, err := s.handleGetKPIReport(context.Background(), nil, ReportInput{})
	if err != nil {
		t.Fatal(err)
	}
	r := env.Data.(stats.Report)
	if r.CurrentSprint != "35" {
		t.Errorf("Expected current sprint 35, got %q", r.CurrentSprint)
	}
	if r.Overview.Total != 40 {
		t.Errorf("Expected 40 tickets in sprint 35, got %d", r.Overview.Total)
	}
}

func TestHandlers_InvalidArguments(t *testing.T) {
	s := newTestServer(&config.AppConfig{DatasetFile: writeDataset(t, "mild", "uniform"), Policy: stats.DefaultPolicy()})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown trend mode", func() error {
			_, _, err := s.handleAnalyzeErrorRatio(ctx, nil, ErrorRatioInput{TrendMode: "sideways"})
			return err
		}},
		{"alert above critical", func() error {
			_, _, err := s.handleAnalyzeTicketAge(ctx, nil, AgeInput{CriticalDays: 5, AlertDays: 9})
			return err
		}},
		{"malformed as_of", func() error {
			_, _, err := s.handleGetKPIReport(ctx, nil, ReportInput{AsOf: "02/03/2026"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestLoadDataset_ReloadsOnChange(t *testing.T) {
	path := writeDataset(t, "mild", "uniform")
	s := newTestServer(&config.AppConfig{DatasetFile: path, Policy: stats.DefaultPolicy()})

	first, err := s.loadDataset()
	if err != nil {
		t.Fatal(err)
	}
	again, _ := s.loadDataset()
	if first != again {
		t.Error("Expected the cached dataset on the second load")
	}

	export := engine.Generate(engine.GeneratorConfig{Count: 10, FirstSprint: 34, LastSprint: 35, Now: fixedNow, Seed: 1})
	if err := engine.Save(path, export); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	reloaded, err := s.loadDataset()
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Tickets) != 10 {
		t.Errorf("Expected 10 tickets after reload, got %d", len(reloaded.Tickets))
	}
}
