package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainkagi "github.com/menloresearch/kagi-mcp/internal/domain/kagi"
	infrakagi "github.com/menloresearch/kagi-mcp/internal/infrastructure/kagi"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// newToolSession wires a KagiMCP backed by the given Kagi API stub into an
// in-memory MCP server/client pair and returns the connected client session.
func newToolSession(t *testing.T, backend http.HandlerFunc) *mcp.ClientSession {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := infrakagi.NewKagiClient(infrakagi.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create Kagi client: %v", err)
	}

	kagiMCP := NewKagiMCP(domainkagi.NewService(client), "cecil")
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "kagi-mcp-test", Version: "1.0.0"}, nil)
	kagiMCP.RegisterTools(mcpServer)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()
	serverSession, err := mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("Failed to connect MCP server: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := mcpClient.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Failed to connect MCP client: %v", err)
	}
	t.Cleanup(func() { clientSession.Close() })

	return clientSession
}

func searchBackend(t *testing.T, capture *map[string][]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"meta": map[string]any{"id": "req-1", "node": "us-east", "ms": 10},
			"data": []map[string]any{
				{"t": 0, "rank": 1, "url": "https://example.com", "title": "Example"},
			},
		})
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want *mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestListTools(t *testing.T) {
	session := newToolSession(t, searchBackend(t, nil))

	listed, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	names := map[string]bool{}
	for _, tool := range listed.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{ToolKeySearch, ToolKeySummarizer} {
		if !names[want] {
			t.Errorf("tool %q not listed, got %v", want, names)
		}
	}
}

func TestSearchTool_DefaultLimit(t *testing.T) {
	var gotQuery map[string][]string
	session := newToolSession(t, searchBackend(t, &gotQuery))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeySearch,
		Arguments: map[string]any{"query": "steve jobs"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported an error: %s", toolText(t, result))
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "steve jobs" {
		t.Errorf("backend q = %v, want [steve jobs]", got)
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("backend limit = %v, want [10] by default", got)
	}
}

func TestSearchTool_ExplicitLimit(t *testing.T) {
	var gotQuery map[string][]string
	session := newToolSession(t, searchBackend(t, &gotQuery))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeySearch,
		Arguments: map[string]any{"query": "x", "limit": 25},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported an error: %s", toolText(t, result))
	}
	if got := gotQuery["limit"]; len(got) != 1 || got[0] != "25" {
		t.Errorf("backend limit = %v, want [25]", got)
	}
}

func TestSearchTool_InvalidArguments(t *testing.T) {
	session := newToolSession(t, searchBackend(t, nil))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing query", map[string]any{"limit": 10}},
		{"limit below range", map[string]any{"query": "x", "limit": 0}},
		{"limit above range", map[string]any{"query": "x", "limit": 101}},
		{"wrong limit type", map[string]any{"query": "x", "limit": "ten"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      ToolKeySearch,
				Arguments: tt.args,
			})
			if err == nil && (result == nil || !result.IsError) {
				t.Errorf("CallTool(%v) should be rejected", tt.args)
			}
			if err == nil && result != nil && result.IsError {
				// Hard faults must not masquerade as backend failures.
				if strings.HasPrefix(toolText(t, result), kagiErrorPrefix) {
					t.Errorf("argument fault carried backend-error prefix: %s", toolText(t, result))
				}
			}
		})
	}
}

func TestCallUnknownTool(t *testing.T) {
	session := newToolSession(t, searchBackend(t, nil))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "kagi_nonexistent",
		Arguments: map[string]any{"query": "x"},
	})
	if err == nil && (result == nil || !result.IsError) {
		t.Error("calling an unknown tool should be rejected")
	}
}

func TestSearchTool_BackendFailureIsSoft(t *testing.T) {
	session := newToolSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"meta":  map[string]any{"id": "req-9", "node": "us-east", "ms": 1},
			"error": []map[string]any{{"code": 42, "msg": "API usage limit exceeded"}},
		})
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeySearch,
		Arguments: map[string]any{"query": "x"},
	})
	if err != nil {
		t.Fatalf("backend failures must not fail the protocol call, got: %v", err)
	}
	if !result.IsError {
		t.Fatal("result.IsError = false, want true for a backend failure")
	}
	if got := toolText(t, result); got != kagiErrorPrefix+"API usage limit exceeded" {
		t.Errorf("content = %q, want prefixed backend message", got)
	}
}

func TestSummarizerTool(t *testing.T) {
	var gotQuery map[string][]string
	session := newToolSession(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"meta": map[string]any{"id": "req-2", "node": "us-east", "ms": 90},
			"data": map[string]any{"output": "A summary.", "tokens": 42},
		})
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolKeySummarizer,
		Arguments: map[string]any{
			"url":          "https://example.com/article",
			"summary_type": "takeaway",
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool reported an error: %s", toolText(t, result))
	}

	checks := map[string]string{
		"url":          "https://example.com/article",
		"engine":       "cecil",
		"summary_type": "takeaway",
	}
	for key, want := range checks {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("backend %s = %v, want [%s]", key, got, want)
		}
	}
}

func TestSummarizerTool_MissingURL(t *testing.T) {
	session := newToolSession(t, searchBackend(t, nil))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolKeySummarizer,
		Arguments: map[string]any{"summary_type": "summary"},
	})
	if err == nil && (result == nil || !result.IsError) {
		t.Error("summarizer call without url should be rejected")
	}
}
