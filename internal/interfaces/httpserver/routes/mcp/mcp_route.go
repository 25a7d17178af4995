package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/menloresearch/kagi-mcp/internal/interfaces/httpserver/responses"
)

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,

	// Tools
	"tools/list": true,
	"tools/call": true,

	// Prompts
	"prompts/list": true,

	// Resources
	"resources/list":           true,
	"resources/templates/list": true,
	"resources/read":           true,
}

type MCPRoute struct {
	kagiMCP     *KagiMCP
	mcpServer   *mcp.Server
	httpHandler http.Handler
}

func NewMCPRoute(kagiMCP *KagiMCP) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    "kagi-mcp",
		Version: "1.0.0",
	}
	server := mcp.NewServer(impl, nil)

	kagiMCP.RegisterTools(server)

	return &MCPRoute{
		kagiMCP:   kagiMCP,
		mcpServer: server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

func (route *MCPRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/mcp",
		MCPMethodGuard(allowedMCPMethods),
		route.serveMCP,
	)
}

// serveMCP streams Model Context Protocol responses using the underlying MCP server.
// @Summary MCP endpoint for tool execution
// @Description Handles Model Context Protocol (MCP) requests over HTTP. Supports MCP methods: initialize, ping, tools/list, tools/call, prompts/list, resources/list, resources/read.
// @Description
// @Description **Available Tools:**
// @Description - `kagi_search`: Web search via the Kagi Search API (params: query, limit). Returns ranked results with snippets.
// @Description - `kagi_summarizer`: Summarize a web page via the Kagi Universal Summarizer (params: url, summary_type, target_language).
// @Description
// @Description **MCP Protocol:**
// @Description - Request format: JSON-RPC 2.0 with method and params
// @Description - Response format: Server-Sent Events (SSE) stream
// @Description - Stateless mode (no session management)
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body object true "MCP JSON-RPC request payload (e.g., {\"jsonrpc\":\"2.0\",\"method\":\"tools/list\",\"id\":1})"
// @Success 200 {string} string "Streamed MCP response in SSE format"
// @Failure 400 {object} responses.ErrorResponse "Invalid MCP request payload or unsupported method"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/mcp [post]
func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for the go-sdk streamable handler even if
	// the client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

// MCPMethodGuard rejects requests whose JSON-RPC method is not allow-listed
// before they reach the MCP server.
func MCPMethodGuard(allowedMethods map[string]bool) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleInternalError(reqCtx, "failed to read MCP request body")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleValidationError(reqCtx, "empty MCP request body")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}

		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleValidationError(reqCtx, "invalid MCP request payload")
			return
		}

		if payload.Method == "" {
			responses.HandleValidationError(reqCtx, "missing method field in MCP request")
			return
		}

		if !allowedMethods[payload.Method] {
			responses.HandleValidationError(reqCtx, "unsupported MCP method: "+payload.Method)
			return
		}

		reqCtx.Next()
	}
}
