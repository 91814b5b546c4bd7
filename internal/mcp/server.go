package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/lgtm/internal/review"
	"github.com/joescharf/lgtm/internal/store"
)

// Server wraps the review pipeline and exposes it as MCP tools.
type Server struct {
	runner *review.Runner
	store  store.Store
}

// NewServer creates the MCP server wrapper. The store may be nil, in
// which case the history tools report an error instead of results.
func NewServer(runner *review.Runner, s store.Store) *Server {
	return &Server{
		runner: runner,
		store:  s,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("lgtm", "1.0.0", server.WithToolCapabilities(true))

	// Register all tools
	srv.AddTool(s.reviewTool())
	srv.AddTool(s.analyzeTicketTool())
	srv.AddTool(s.analyzePRTool())
	srv.AddTool(s.listReviewsTool())
	srv.AddTool(s.getReviewTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// lgtm_review
func (s *Server) reviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("lgtm_review",
		mcp.WithDescription("Run a full AI review of a pull request against a ticket's acceptance criteria. Returns the verdict (pass/conditional/fail), score, per-criterion analysis, quality findings, and recommendations as JSON."),
		mcp.WithString("ticket", mcp.Required(), mcp.Description("Ticket key or URL, e.g. PROJ-123")),
		mcp.WithString("pr", mcp.Description("Pull request URL (default: the ticket's linked PR)")),
		mcp.WithString("local", mcp.Description("Path to a local repository to review instead of a PR")),
		mcp.WithString("ref", mcp.Description("Git ref range when reviewing a local repository")),
	)
	return tool, s.handleReview
}

func (s *Server) handleReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticket, err := request.RequireString("ticket")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ticket"), nil
	}

	outcome, err := s.runner.Run(ctx, review.RunOptions{
		TicketKey: ticket,
		PRURL:     request.GetString("pr", ""),
		LocalPath: request.GetString("local", ""),
		LocalRef:  request.GetString("ref", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("review failed: %v", err)), nil
	}

	result := map[string]any{
		"review_id": outcome.ReviewID,
		"ticket":    outcome.Ticket.Key,
		"pr_number": outcome.Diff.Number,
		"pr_title":  outcome.Diff.Title,
		"result":    outcome.Result,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal review: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// lgtm_analyze_ticket
func (s *Server) analyzeTicketTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("lgtm_analyze_ticket",
		mcp.WithDescription("Fetch a ticket and extract its acceptance criteria and linked pull requests. No AI backend is used. Returns the ticket as JSON."),
		mcp.WithString("ticket", mcp.Required(), mcp.Description("Ticket key or URL, e.g. PROJ-123")),
	)
	return tool, s.handleAnalyzeTicket
}

func (s *Server) handleAnalyzeTicket(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("ticket")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: ticket"), nil
	}

	ticket, err := s.runner.AnalyzeTicket(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch ticket: %v", err)), nil
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal ticket: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// lgtm_analyze_pr
func (s *Server) analyzePRTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("lgtm_analyze_pr",
		mcp.WithDescription("Fetch a pull request diff and run the deterministic checks only: changed files, quality findings, and test coverage. No ticket and no AI backend are used."),
		mcp.WithString("pr", mcp.Required(), mcp.Description("Pull request URL")),
	)
	return tool, s.handleAnalyzePR
}

func (s *Server) handleAnalyzePR(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prURL, err := request.RequireString("pr")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: pr"), nil
	}

	diff, findings, coverage, err := s.runner.AnalyzePR(ctx, prURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyze PR: %v", err)), nil
	}

	type fileOut struct {
		Path      string `json:"path"`
		Kind      string `json:"kind"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
		IsTest    bool   `json:"is_test"`
	}

	files := make([]fileOut, len(diff.Files))
	for i, f := range diff.Files {
		files[i] = fileOut{
			Path:      f.Path,
			Kind:      string(f.Kind),
			Additions: f.Additions,
			Deletions: f.Deletions,
			IsTest:    f.IsTest,
		}
	}

	result := map[string]any{
		"pr_number": diff.Number,
		"title":     diff.Title,
		"author":    diff.Author,
		"state":     diff.State,
		"files":     files,
		"findings":  findings,
		"coverage":  coverage,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// lgtm_list_reviews
func (s *Server) listReviewsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("lgtm_list_reviews",
		mcp.WithDescription("List past reviews, newest first. Returns a JSON array with id, ticket, PR, status, score, and summary per review."),
		mcp.WithString("ticket", mcp.Description("Filter by ticket key")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reviews to return (default: 20)")),
	)
	return tool, s.handleListReviews
}

func (s *Server) handleListReviews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("review history is not available"), nil
	}

	recs, err := s.store.ListReviews(ctx, store.ReviewListFilter{
		TicketKey: request.GetString("ticket", ""),
		Limit:     request.GetInt("limit", 20),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reviews: %v", err)), nil
	}

	type reviewOut struct {
		ID        string  `json:"id"`
		TicketKey string  `json:"ticket_key"`
		PRNumber  int     `json:"pr_number,omitempty"`
		PRTitle   string  `json:"pr_title,omitempty"`
		Status    string  `json:"status"`
		Score     float64 `json:"score"`
		Summary   string  `json:"summary"`
		CreatedAt string  `json:"created_at"`
	}

	out := make([]reviewOut, len(recs))
	for i, r := range recs {
		out[i] = reviewOut{
			ID:        r.ID,
			TicketKey: r.TicketKey,
			PRNumber:  r.PRNumber,
			PRTitle:   r.PRTitle,
			Status:    string(r.Status),
			Score:     r.Score,
			Summary:   r.Summary,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal reviews: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// lgtm_get_review
func (s *Server) getReviewTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("lgtm_get_review",
		mcp.WithDescription("Get one stored review in full, including per-criterion analysis, findings, and recommendations. Returns the review record as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Review ID")),
	)
	return tool, s.handleGetReview
}

func (s *Server) handleGetReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("review history is not available"), nil
	}

	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	rec, err := s.store.GetReview(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("review not found: %s", id)), nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal review: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
