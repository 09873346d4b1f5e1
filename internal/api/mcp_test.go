package api

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/stxaviers/campusbot/internal/knowledge"
	"github.com/stxaviers/campusbot/internal/retrieval"
)

func newTestMCPDeps() MCPDeps {
	return MCPDeps{
		KB:   knowledge.Default(),
		Rand: rand.New(rand.NewSource(1)),
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_Ask(t *testing.T) {
	handler := mcpAsk(newTestMCPDeps())

	result, err := handler(context.Background(), makeCallToolRequest("ask", map[string]interface{}{
		"question": "how many students are enrolled?",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if text := toolText(t, result); !strings.Contains(text, "5000+") {
		t.Errorf("answer = %q, want student count", text)
	}
}

func TestMCPTool_Ask_MissingQuestion(t *testing.T) {
	handler := mcpAsk(newTestMCPDeps())

	result, err := handler(context.Background(), makeCallToolRequest("ask", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing question")
	}
}

func TestMCPTool_SearchKnowledge(t *testing.T) {
	deps := newTestMCPDeps()
	deps.Retriever = stubProvider{chunks: []retrieval.Chunk{
		{Title: "Library", Text: "Open 8 AM to 8 PM.", Score: 0.88},
	}}
	handler := mcpSearchKnowledge(deps)

	result, err := handler(context.Background(), makeCallToolRequest("search_knowledge", map[string]interface{}{
		"query": "library hours",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var results []struct {
		Title string  `json:"title"`
		Score float32 `json:"score"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Library" {
		t.Errorf("results = %+v", results)
	}
}

func TestMCPTool_SearchKnowledge_NoRetriever(t *testing.T) {
	handler := mcpSearchKnowledge(newTestMCPDeps())

	result, err := handler(context.Background(), makeCallToolRequest("search_knowledge", map[string]interface{}{
		"query": "anything",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without a corpus")
	}
}

func TestMCPResource_CollegeInfo(t *testing.T) {
	handler := mcpResourceCollegeInfo(newTestMCPDeps())

	contents, err := handler(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "college://info"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if !strings.Contains(text.Text, "St. Xavier's College") {
		t.Errorf("resource missing college name: %s", text.Text)
	}
}
