package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-sheet-extractor/internal/config"
	"github.com/a3tai/pdf-sheet-extractor/internal/descriptions"
	"github.com/a3tai/pdf-sheet-extractor/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractSheetsTool := mcp.NewTool(
		"pdf_extract_sheets",
		mcp.WithDescription(descriptions.PDFExtractSheetsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("identifiers",
			mcp.Required(),
			mcp.Description("Names or IDs to look for, one per line"),
		),
		mcp.WithString("month",
			mcp.Required(),
			mcp.Description("Month label appended to every extract filename"),
		),
	)
	s.mcpServer.AddTool(extractSheetsTool, s.handleExtractSheets)

	listExtractsTool := mcp.NewTool(
		"pdf_list_extracts",
		mcp.WithDescription(descriptions.PDFListExtractsDescription),
	)
	s.mcpServer.AddTool(listExtractsTool, s.handleListExtracts)

	statsFileTool := mcp.NewTool(
		"pdf_stats_file",
		mcp.WithDescription(descriptions.PDFStatsFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(statsFileTool, s.handleStatsFile)

	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.PDFServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractSheets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	identifiers, err := request.RequireString("identifiers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	month, err := request.RequireString("month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractSheetsFromFile(ctx, path, &identifiers, &month)
	if err != nil {
		s.logger.Warn("pdf_extract_sheets failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractSheetsResult(path, result)), nil
}

func (s *Server) handleListExtracts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ListExtracts(pdf.ListExtractsRequest{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatListExtractsResult(result)), nil
}

func (s *Server) handleStatsFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.FileStats(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatFileStatsResult(result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.pdfService.ServerInfo(s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods
func (s *Server) formatExtractSheetsResult(path string, result *pdf.ExtractSheetsResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Source: %s (%d pages)\n", path, result.Pages)
	fmt.Fprintf(&sb, "Output directory: %s\n", result.OutputDirectory)

	if len(result.Files) == 0 {
		sb.WriteString("No pages matched the given identifiers.\n")
	} else {
		fmt.Fprintf(&sb, "Extracts written: %d\n", len(result.Files))
		for i, name := range result.Files {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
		}
	}

	if len(result.Unmatched) > 0 {
		fmt.Fprintf(&sb, "\nUnmatched identifiers (%d):\n", len(result.Unmatched))
		for _, id := range result.Unmatched {
			fmt.Fprintf(&sb, "- %s\n", id)
		}
	}

	return sb.String()
}

func (s *Server) formatListExtractsResult(result *pdf.ListExtractsResult) string {
	if result.TotalCount == 0 {
		return fmt.Sprintf("No extracts found in directory: %s", result.Directory)
	}

	text := fmt.Sprintf("Found %d extract(s) in directory: %s\n", result.TotalCount, result.Directory)
	text += "\nFiles:\n"
	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s (%d bytes, modified %s)\n", i+1, file.Name, file.Size, file.ModifiedTime)
	}

	return text
}

func (s *Server) formatFileStatsResult(result *pdf.FileStatsResult) string {
	text := fmt.Sprintf("PDF File Statistics for: %s\n\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Modified: %s\n", result.ModifiedDate)

	for _, field := range []struct{ label, value string }{
		{"Title", result.Title},
		{"Author", result.Author},
		{"Subject", result.Subject},
		{"Producer", result.Producer},
		{"Created", result.CreatedDate},
	} {
		if field.value != "" {
			text += fmt.Sprintf("%s: %s\n", field.label, field.value)
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Server: %s v%s\n", result.ServerName, result.Version)
	fmt.Fprintf(&sb, "Output directory: %s\n", result.OutputDirectory)
	fmt.Fprintf(&sb, "Max file size: %d bytes\n", result.MaxFileSize)
	fmt.Fprintf(&sb, "Extracts: %d (%d bytes)\n", result.Extracts.TotalFiles, result.Extracts.TotalSize)
	if result.Extracts.LastModified != "" {
		fmt.Fprintf(&sb, "Last extract written: %s\n", result.Extracts.LastModified)
	}

	sb.WriteString("\nAvailable tools:\n")
	for _, tool := range result.AvailableTools {
		fmt.Fprintf(&sb, "- %s (%s)\n", tool.Name, tool.Parameters)
	}

	sb.WriteString("\n")
	sb.WriteString(result.UsageGuidance)
	sb.WriteString("\n")

	return sb.String()
}

// Run serves the MCP tools over stdio until stdin closes
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode",
		zap.String("output", s.config.OutputDirectory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
