package mcp

import (
	"context"

	"logistics-insights/internal/config"
	"logistics-insights/internal/service"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server exposes the analyses as MCP tools.
type Server struct {
	svc                 *service.Service
	enableMermaidCharts bool
	mcp                 *sdk.Server
}

// NewServer creates a new MCP server and registers its tools.
func NewServer(cfg *config.AppConfig, svc *service.Service, version string) *Server {
	s := &Server{
		svc:                 svc,
		enableMermaidCharts: cfg.EnableMermaidCharts,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "logistics-insights",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the MCP protocol over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.mcp.Run(ctx, &sdk.StdioTransport{})
}
