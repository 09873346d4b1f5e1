package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/retrieval"
	"github.com/stxaviers/campusbot/internal/rules"
	"github.com/stxaviers/campusbot/internal/session"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	KB        *knowledge.Store
	Retriever retrieval.Provider // optional; if nil, search_knowledge returns an error
	Rand      *rand.Rand         // optional; defaults to a time-seeded source
}

// NewMCPServer creates an MCP server exposing the college assistant as
// tools: ask (rule-based answer) and search_knowledge (semantic search
// over the ingested corpus).
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := server.NewMCPServer(
		"campusbot",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("campusbot — college support assistant for courses, admissions, fees, and facilities."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Answer a question about the college (courses, admissions, fees, facilities, placements) from the built-in knowledge base."),
			mcp.WithString("question", mcp.Description("The question to answer"), mcp.Required()),
		),
		mcpAsk(deps),
	)

	s.AddTool(
		mcp.NewTool("search_knowledge",
			mcp.WithDescription("Semantically search the ingested college corpus and return relevant text chunks."),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 5)")),
		),
		mcpSearchKnowledge(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"college://info",
			"College Information",
			mcp.WithResourceDescription("General college facts, courses, and contact details as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCollegeInfo(deps),
	)

	return s
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	matcher := rules.New(deps.KB, deps.Rand)
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		// Each call is answered statelessly; MCP clients carry their own
		// conversation history.
		return mcpText(matcher.Reply(question, session.NewWindow())), nil
	}
}

func mcpSearchKnowledge(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}
		if deps.Retriever == nil {
			return mcpError("no retrieval corpus configured"), nil
		}

		limit := req.GetInt("limit", 5)
		if limit <= 0 {
			limit = 5
		}
		if limit > 50 {
			limit = 50
		}

		chunks, err := deps.Retriever.Search(ctx, query, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if len(chunks) == 0 {
			return mcpText("[]"), nil
		}

		type chunkResult struct {
			Title string  `json:"title"`
			Text  string  `json:"text"`
			Score float32 `json:"score"`
		}
		results := make([]chunkResult, len(chunks))
		for i, c := range chunks {
			results[i] = chunkResult{Title: c.Title, Text: c.Text, Score: c.Score}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCollegeInfo(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		info := map[string]any{
			"college":     deps.KB.College,
			"courses":     deps.KB.Courses,
			"admissions":  deps.KB.Admissions,
			"facilities":  deps.KB.Facilities,
			"stats":       deps.KB.Stats,
			"officeHours": deps.KB.OfficeHours,
		}
		b, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling college info: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
