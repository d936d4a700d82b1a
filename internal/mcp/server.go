package mcp

import (
	"context"
	"sync"
	"time"

	"sprint-kpis/internal/config"
	"sprint-kpis/internal/jira"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Version is reported to MCP clients during initialization.
var Version = "0.1.0"

const instructions = "Sprint KPI engine over a Jira export. Start with 'get_dataset_summary' to see which sprints are available, " +
	"then use 'get_kpi_report' for the full picture or the 'analyze_*' tools for a single section."

// Server holds the state for the MCP server.
type Server struct {
	cfg *config.AppConfig
	now func() time.Time

	mu        sync.Mutex
	dataset   *jira.Dataset
	datasetAt time.Time // modification time of the cached dataset file
}

// NewServer creates a new MCP server over the configured dataset file.
func NewServer(cfg *config.AppConfig) *Server {
	return &Server{cfg: cfg, now: time.Now}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "sprint-kpis", Version: Version}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	s.registerTools(srv)
	return srv
}

// Serve runs the server over stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().
		Str("dataset", s.cfg.DatasetFile).
		Bool("mermaid", s.cfg.EnableMermaidCharts).
		Msg("Starting MCP server on stdio")
	return s.MCPServer().Run(ctx, &mcp.StdioTransport{})
}
