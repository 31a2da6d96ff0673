package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"videodistiller-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("extract_video",
		mcp.WithDescription("Fetch a YouTube video's metadata and transcript and store them locally. Returns the stored metadata. Transcript availability is best-effort: videos without captions are stored with metadata only."),
		mcp.WithString("video_id",
			mcp.Description("YouTube video id or URL"),
			mcp.Required(),
		),
	), s.handleExtractVideo)

	s.mcpServer.AddTool(mcp.NewTool("summarize_video",
		mcp.WithDescription("Generate a kid-friendly summary for a previously extracted video (PAID - spends model budget). The video must already be extracted with a transcript. Template is auto-detected from content unless one is named."),
		mcp.WithString("video_id",
			mcp.Description("YouTube video id or URL"),
			mcp.Required(),
		),
		mcp.WithString("template",
			mcp.Description("Prompt template name (optional; auto-detected when omitted)"),
		),
	), s.handleSummarizeVideo)

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Return a previously generated summary for a video, including the template used, token count, and cost."),
		mcp.WithString("video_id",
			mcp.Description("YouTube video id or URL"),
			mcp.Required(),
		),
	), s.handleGetSummary)

	s.mcpServer.AddTool(mcp.NewTool("budget_status",
		mcp.WithDescription("Report the current month's model spend: total requests, tokens, cost, and remaining budget."),
	), s.handleBudgetStatus)
}

func (s *MCPServer) videoIDArg(request mcp.CallToolRequest) (string, error) {
	arg, err := request.RequireString("video_id")
	if err != nil {
		return "", fmt.Errorf("video_id parameter is required and must be a string")
	}
	return ParseVideoArg(arg)
}

// handleExtractVideo implements the extract_video tool
func (s *MCPServer) handleExtractVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoID, err := s.videoIDArg(request)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video_id", err), nil
	}

	pipeline, err := s.app.Pipeline(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("pipeline unavailable", err), nil
	}
	video, err := pipeline.ProcessVideo(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("extraction failed", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("ID: %s\n", video.ID))
	buf.WriteString(fmt.Sprintf("Title: %s\n", video.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", video.ChannelTitle))
	buf.WriteString(fmt.Sprintf("Duration: %d seconds\n", video.Duration))
	buf.WriteString(fmt.Sprintf("Published: %s\n", video.PublishedAt.Format("2006-01-02")))
	buf.WriteString(fmt.Sprintf("Has Transcript: %t\n", video.Transcript != nil))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleSummarizeVideo implements the summarize_video tool
func (s *MCPServer) handleSummarizeVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoID, err := s.videoIDArg(request)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video_id", err), nil
	}
	templateName := request.GetString("template", "")

	analyzer, err := s.app.Analyzer()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("analyzer unavailable", err), nil
	}
	summary, err := analyzer.SummarizeVideo(ctx, videoID, templateName, templateName == "")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("summarization failed - extract the video first with extract_video", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(summary.SummaryText)},
	}, nil
}

// handleGetSummary implements the get_summary tool
func (s *MCPServer) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoID, err := s.videoIDArg(request)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video_id", err), nil
	}

	summary, err := s.app.Storage().GetSummary(videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("no summary found - generate one with summarize_video", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", summary.Title))
	buf.WriteString(fmt.Sprintf("Channel: %s\n", summary.ChannelTitle))
	buf.WriteString(fmt.Sprintf("Template: %s\n", summary.TemplateUsed))
	buf.WriteString(fmt.Sprintf("Tokens: %d\n", summary.TokensUsed))
	buf.WriteString(fmt.Sprintf("Cost: $%.4f\n\n", summary.Cost))
	buf.WriteString(summary.SummaryText)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleBudgetStatus implements the budget_status tool
func (s *MCPServer) handleBudgetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := s.app.CostTracker().Summary()

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Month: %s\n", summary.Month))
	buf.WriteString(fmt.Sprintf("Requests: %d\n", summary.TotalRequests))
	buf.WriteString(fmt.Sprintf("Tokens: %d\n", summary.TotalTokens))
	buf.WriteString(fmt.Sprintf("Cost: $%.4f\n", summary.TotalCost))
	buf.WriteString(fmt.Sprintf("Remaining budget: $%.4f\n", summary.RemainingBudget))
	buf.WriteString(fmt.Sprintf("Budget used: %.1f%%\n", summary.BudgetUsedPercent))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
