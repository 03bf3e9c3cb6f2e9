// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the ranking pipeline as an MCP tool over stdio.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/perplexity-search/internal/pipeline"
	"github.com/pdiddy/perplexity-search/internal/rank"
	"github.com/pdiddy/perplexity-search/internal/ui"
	"github.com/pdiddy/perplexity-search/pkg/types"
)

// ToolName is the name of the single tool the server registers.
const ToolName = "rank_by_perplexity"

type Server struct {
	runner  pipeline.Runner
	logger  *log.Logger
	version string
}

func New(runner pipeline.Runner, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		logger:  logger.WithPrefix("mcp"),
		version: version,
	}
}

// Tool describes rank_by_perplexity.
func Tool() mcp.Tool {
	formats := make([]string, 0, len(rank.Formats))
	for _, f := range rank.Formats {
		if f != rank.FormatHTML {
			formats = append(formats, string(f))
		}
	}
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Search PubMed and rank the matching article titles from most to least surprising, by language model perplexity"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("PubMed search term"),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum number of papers to rank (%d-%d, default: %d)", types.MinLimit, types.MaxLimit, types.DefaultLimit)),
			mcp.DefaultNumber(types.DefaultLimit),
			mcp.Min(types.MinLimit),
			mcp.Max(types.MaxLimit),
		),
		mcp.WithString("email",
			mcp.Description("Contact email sent to NCBI with each request"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default: text)"),
			mcp.Enum(formats...),
		),
	)
}

// MCPServer builds the server with its tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("PubMed Perplexity Search", s.version)
	srv.AddTool(Tool(), s.rankHandler)
	return srv
}

// Run serves on stdin/stdout until the client disconnects.
func (s *Server) Run() error {
	s.logger.Info("serving on stdio", "tool", ToolName)
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		return fmt.Errorf("serving MCP: %w", err)
	}
	return nil
}

func (s *Server) rankHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := rank.ParseFormat(request.GetString("format", string(rank.FormatText)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := types.Query{
		Term:    term,
		Limit:   request.GetInt("max_results", types.DefaultLimit),
		Contact: types.Contact{Email: request.GetString("email", "")},
	}

	rec := &ui.Recorder{}
	r := s.runner
	r.Notifier = rec
	r.Busy = ui.NopBusy{}
	rep, err := r.Run(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	for _, n := range rec.Messages() {
		buf.WriteString(n + "\n")
	}
	if buf.Len() > 0 {
		buf.WriteString("\n")
	}
	if err := rank.Render(&buf, rep.Ranked, format); err != nil {
		return nil, fmt.Errorf("rendering results: %w", err)
	}

	res := mcp.NewToolResultText(strings.TrimRight(buf.String(), "\n"))
	// A run that failed and produced nothing is an error for the caller.
	res.IsError = rep.Failed() && len(rep.Ranked) == 0
	s.logger.Debug("tool call done", "run_id", rep.RunID, "results", len(rep.Ranked), "is_error", res.IsError)
	return res, nil
}
