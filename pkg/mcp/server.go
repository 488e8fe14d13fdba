package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"namestat/internal/config"
	"namestat/internal/controller"
	"namestat/internal/output"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

type NamingStatsServer struct {
	server    *mcp.Server
	processor *controller.RepoProcessor
	defaults  controller.ScanOptions
	config    *config.Config
	logger    *zap.Logger
	handler   *mcp.StreamableHTTPHandler
}

type NamingStatsParams struct {
	Path  string `json:"path" jsonschema:"the directory to scan"`
	Words string `json:"words,omitempty" jsonschema:"word category to count: verb or noun"`
	Names string `json:"names,omitempty" jsonschema:"identifier kind: func for declarations, vars for attribute accesses"`
	Order string `json:"order,omitempty" jsonschema:"listing order of the selected words: ascending or descending"`
	Top   int    `json:"top,omitempty" jsonschema:"number of most frequent words to return"`
}

func NewNamingStatsServer(processor *controller.RepoProcessor, defaults controller.ScanOptions, cfg *config.Config, logger *zap.Logger) *NamingStatsServer {
	server := &NamingStatsServer{
		processor: processor,
		defaults:  defaults,
		config:    cfg,
		logger:    logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "NameStat",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "namingStats",
		Description: "Count the verbs or nouns used in function names or attribute names of the source files under a directory. Returns the most frequent words with their counts",
	}, server.handleNamingStats)

	server.handler = mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	server.server = mcpServer
	return server
}

func (s *NamingStatsServer) handleNamingStats(ctx context.Context, req *mcp.CallToolRequest, args NamingStatsParams) (*mcp.CallToolResult, any, error) {
	text, err := s.namingStats(ctx, args)
	if err != nil {
		s.logger.Error("namingStats failed", zap.String("path", args.Path), zap.Error(err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Failed to collect naming stats: %v", err)}},
			IsError: true,
		}, nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func (s *NamingStatsServer) namingStats(ctx context.Context, args NamingStatsParams) (string, error) {
	if args.Path == "" {
		return "", errors.New("path is required")
	}
	opts, err := s.defaults.Override(args.Words, args.Names, args.Order, args.Top)
	if err != nil {
		return "", err
	}

	report, err := s.processor.ProcessPaths(ctx, []string{args.Path}, opts)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := output.WriteListing(&buf, report); err != nil {
		return "", err
	}
	if report.FilesSkipped > 0 {
		fmt.Fprintf(&buf, "skipped %d of %d files\n", report.FilesSkipped, report.FilesSkipped+report.FilesScanned)
	}
	return buf.String(), nil
}

// Handler is the streamable HTTP transport for the MCP server
func (s *NamingStatsServer) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves MCP on the configured address until ctx is done
func (s *NamingStatsServer) ListenAndServe(ctx context.Context) error {
	address := s.config.Mcp.GetAddress()
	srv := &http.Server{Addr: address, Handler: s.handler}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	s.logger.Info("MCP Server going to listen", zap.String("address", address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
