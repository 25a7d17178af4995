package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainkagi "github.com/menloresearch/kagi-mcp/internal/domain/kagi"
	"github.com/menloresearch/kagi-mcp/internal/infrastructure/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Tool key constants
const (
	ToolKeySearch     = "kagi_search"
	ToolKeySummarizer = "kagi_summarizer"
)

// kagiErrorPrefix prefixes the text content of soft tool failures so the
// invoking host can surface backend errors without tearing down the session.
const kagiErrorPrefix = "Kagi API error: "

const (
	minSearchLimit     = 1
	maxSearchLimit     = 100
	defaultSearchLimit = 10
)

// SearchArgs defines the arguments for the kagi_search tool
type SearchArgs struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// SummarizerArgs defines the arguments for the kagi_summarizer tool
type SummarizerArgs struct {
	URL            string  `json:"url"`
	SummaryType    *string `json:"summary_type,omitempty"`
	TargetLanguage *string `json:"target_language,omitempty"`
}

// KagiMCP handles MCP tool registration for the Kagi API.
type KagiMCP struct {
	kagiService      *domainkagi.Service
	summarizerEngine domainkagi.SummarizerEngine
}

// NewKagiMCP creates a new Kagi MCP handler. The summarizer engine is fixed
// at construction from config; callers pick the summary shape, not the model.
func NewKagiMCP(kagiService *domainkagi.Service, summarizerEngine string) *KagiMCP {
	engine := domainkagi.SummarizerEngine(strings.ToLower(strings.TrimSpace(summarizerEngine)))
	if engine == "" {
		engine = domainkagi.EngineCecil
	}
	return &KagiMCP{
		kagiService:      kagiService,
		summarizerEngine: engine,
	}
}

// RegisterTools registers the Kagi tools with the MCP server. Argument
// schemas are declared explicitly; the SDK validates caller arguments
// against them before the handlers run, so malformed or out-of-range input
// fails at the protocol level.
func (k *KagiMCP) RegisterTools(server *mcp.Server) {
	searchInputSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query to run against the Kagi Search API",
			},
			"limit": map[string]any{
				"type":        []string{"integer", "null"},
				"description": "Number of results to return",
				"minimum":     minSearchLimit,
				"maximum":     maxSearchLimit,
				"default":     defaultSearchLimit,
			},
		},
		"required": []string{"query"},
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeySearch,
		Description: "Perform a web search via the Kagi Search API and fetch ranked results with snippets.",
		InputSchema: searchInputSchema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SearchArgs) (*mcp.CallToolResult, *domainkagi.SearchResponse, error) {
		startTime := time.Now()

		log.Info().
			Str("tool", ToolKeySearch).
			Str("query", input.Query).
			Msg("MCP tool call received")

		if strings.TrimSpace(input.Query) == "" {
			return nil, nil, fmt.Errorf("query is required")
		}
		limit := defaultSearchLimit
		if input.Limit != nil {
			if *input.Limit < minSearchLimit || *input.Limit > maxSearchLimit {
				return nil, nil, fmt.Errorf("limit must be between %d and %d, got %d", minSearchLimit, maxSearchLimit, *input.Limit)
			}
			limit = *input.Limit
		}

		searchResp, err := k.kagiService.Search(ctx, domainkagi.SearchRequest{
			Query: input.Query,
			Limit: &limit,
		})
		if err != nil {
			metrics.RecordToolCall(ToolKeySearch, "error", time.Since(startTime).Seconds())
			if apiErr, ok := domainkagi.AsAPIError(err); ok {
				log.Warn().Err(apiErr).Str("tool", ToolKeySearch).Str("query", input.Query).Msg("Kagi search failed")
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: kagiErrorPrefix + apiErr.Message}},
					IsError: true,
				}, &domainkagi.SearchResponse{Data: []map[string]any{}}, nil
			}
			return nil, nil, err
		}

		log.Debug().
			Str("tool", ToolKeySearch).
			Str("query", input.Query).
			Int("result_count", len(searchResp.Data)).
			Msg("kagi_search response received")

		metrics.RecordToolCall(ToolKeySearch, "success", time.Since(startTime).Seconds())
		return nil, searchResp, nil
	})

	summarizerInputSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL of the page to summarize",
			},
			"summary_type": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Shape of the summary output",
				"enum":        []any{string(domainkagi.SummaryTypeSummary), string(domainkagi.SummaryTypeTakeaway), nil},
				"default":     string(domainkagi.SummaryTypeSummary),
			},
			"target_language": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Language code for the summary (e.g., EN, FR)",
			},
		},
		"required": []string{"url"},
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeySummarizer,
		Description: "Summarize a web page via the Kagi Universal Summarizer.",
		InputSchema: summarizerInputSchema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SummarizerArgs) (*mcp.CallToolResult, *domainkagi.SummarizeResponse, error) {
		startTime := time.Now()

		log.Info().
			Str("tool", ToolKeySummarizer).
			Str("url", input.URL).
			Msg("MCP tool call received")

		if strings.TrimSpace(input.URL) == "" {
			return nil, nil, fmt.Errorf("url is required")
		}

		summarizeReq := domainkagi.SummarizeRequest{
			URL:    &input.URL,
			Engine: &k.summarizerEngine,
		}
		summaryType := domainkagi.SummaryTypeSummary
		if input.SummaryType != nil {
			switch domainkagi.SummaryType(*input.SummaryType) {
			case domainkagi.SummaryTypeSummary, domainkagi.SummaryTypeTakeaway:
				summaryType = domainkagi.SummaryType(*input.SummaryType)
			default:
				return nil, nil, fmt.Errorf("summary_type must be %q or %q, got %q",
					domainkagi.SummaryTypeSummary, domainkagi.SummaryTypeTakeaway, *input.SummaryType)
			}
		}
		summarizeReq.SummaryType = &summaryType
		if input.TargetLanguage != nil && strings.TrimSpace(*input.TargetLanguage) != "" {
			summarizeReq.TargetLanguage = input.TargetLanguage
		}

		summarizeResp, err := k.kagiService.Summarize(ctx, summarizeReq)
		if err != nil {
			metrics.RecordToolCall(ToolKeySummarizer, "error", time.Since(startTime).Seconds())
			if apiErr, ok := domainkagi.AsAPIError(err); ok {
				log.Warn().Err(apiErr).Str("tool", ToolKeySummarizer).Str("url", input.URL).Msg("Kagi summarize failed")
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: kagiErrorPrefix + apiErr.Message}},
					IsError: true,
				}, &domainkagi.SummarizeResponse{}, nil
			}
			return nil, nil, err
		}

		log.Debug().
			Str("tool", ToolKeySummarizer).
			Str("url", input.URL).
			Int("tokens", summarizeResp.Data.Tokens).
			Msg("kagi_summarizer response received")

		metrics.RecordToolCall(ToolKeySummarizer, "success", time.Since(startTime).Seconds())
		return nil, summarizeResp, nil
	})
}
