package kagi

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	domainkagi "github.com/menloresearch/kagi-mcp/internal/domain/kagi"
	"github.com/menloresearch/kagi-mcp/internal/infrastructure/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://kagi.com/api/v0"
	defaultTimeout = 15 * time.Second

	searchPath     = "/search"
	summarizePath  = "/summarize"
	fastGPTPath    = "/fastgpt"
	enrichNewsPath = "/enrich/news"

	defaultSearchLimit = 10
)

// ClientConfig captures the knobs exposed to operators for the Kagi client.
type ClientConfig struct {
	APIKey  string
	BaseURL string // defaults to the hosted Kagi API
	Timeout time.Duration
}

// KagiClient implements domainkagi.Client against the Kagi HTTP API.
type KagiClient struct {
	httpClient *resty.Client
}

var _ domainkagi.Client = (*KagiClient)(nil)

// NewKagiClient wires a resty client with the fixed auth and content-type
// headers. It fails before any network activity when the credential is empty.
// The response interceptor that normalizes backend failures is registered
// exactly once here; every operation shares it.
func NewKagiClient(cfg ClientConfig) (*KagiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domainkagi.ErrMissingAPIKey
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bot "+cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)
	client.OnAfterResponse(normalizeStatusError)

	return &KagiClient{httpClient: client}, nil
}

// backendFailure mirrors the body the backend sends alongside a non-2xx status.
type backendFailure struct {
	Meta  domainkagi.Meta         `json:"meta"`
	Error []domainkagi.ErrorEntry `json:"error"`
}

// normalizeStatusError rewrites every non-success HTTP response into a
// *domainkagi.APIError. The message prefers the backend's reported message;
// the raw error list rides along as details.
func normalizeStatusError(_ *resty.Client, resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	apiErr := &domainkagi.APIError{
		Message: resp.Status(),
		Code:    resp.StatusCode(),
	}

	var failure backendFailure
	if err := json.Unmarshal(resp.Body(), &failure); err == nil && len(failure.Error) > 0 {
		apiErr.Message = failure.Error[0].Msg
		apiErr.Details = failure.Error
	}

	return apiErr
}

// normalizeErr funnels transport-level failures (connection refused, timeout,
// context cancellation) into the same shape the status interceptor produces.
// Errors the interceptor already normalized pass through untouched.
func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := domainkagi.AsAPIError(err); ok {
		return apiErr
	}
	return &domainkagi.APIError{Message: err.Error()}
}

// Search performs a web search. Limit defaults to 10 when absent.
func (c *KagiClient) Search(ctx context.Context, query domainkagi.SearchRequest) (*domainkagi.SearchResponse, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordBackendRequest("search", status, time.Since(startTime).Seconds())
	}()

	limit := defaultSearchLimit
	if query.Limit != nil {
		limit = *query.Limit
	}

	var result domainkagi.SearchResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query.Query).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result).
		Get(searchPath)

	if err != nil {
		status = "error"
		log.Error().Err(err).Str("operation", "search").Str("query", query.Query).Msg("Kagi search API call failed")
		return nil, normalizeErr(err)
	}

	log.Debug().
		Str("operation", "search").
		Str("query", query.Query).
		Int("limit", limit).
		Int("result_count", len(result.Data)).
		Msg("Kagi search completed")

	return &result, nil
}

// Summarize summarizes a page or block of text. Exactly one of URL or Text
// must be set; violating that fails before any request is issued, with a
// plain input error rather than the normalized backend shape.
func (c *KagiClient) Summarize(ctx context.Context, query domainkagi.SummarizeRequest) (*domainkagi.SummarizeResponse, error) {
	if query.URL == nil && query.Text == nil {
		return nil, domainkagi.ErrSummarizeNoSource
	}
	if query.URL != nil && query.Text != nil {
		return nil, domainkagi.ErrSummarizeBothSources
	}

	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordBackendRequest("summarize", status, time.Since(startTime).Seconds())
	}()

	req := c.httpClient.R().SetContext(ctx)
	if query.URL != nil {
		req.SetQueryParam("url", *query.URL)
	}
	if query.Text != nil {
		req.SetQueryParam("text", *query.Text)
	}
	if query.Engine != nil {
		req.SetQueryParam("engine", string(*query.Engine))
	}
	if query.SummaryType != nil {
		req.SetQueryParam("summary_type", string(*query.SummaryType))
	}
	if query.TargetLanguage != nil {
		req.SetQueryParam("target_language", *query.TargetLanguage)
	}
	if query.Cache != nil {
		req.SetQueryParam("cache", strconv.FormatBool(*query.Cache))
	}

	var result domainkagi.SummarizeResponse
	_, err := req.SetResult(&result).Get(summarizePath)

	if err != nil {
		status = "error"
		log.Error().Err(err).Str("operation", "summarize").Msg("Kagi summarize API call failed")
		return nil, normalizeErr(err)
	}

	log.Debug().
		Str("operation", "summarize").
		Int("tokens", result.Data.Tokens).
		Msg("Kagi summarize completed")

	return &result, nil
}

// FastGPT answers a query with cited references.
func (c *KagiClient) FastGPT(ctx context.Context, query domainkagi.FastGPTRequest) (*domainkagi.FastGPTResponse, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordBackendRequest("fastgpt", status, time.Since(startTime).Seconds())
	}()

	body := map[string]any{
		"query": query.Query,
	}
	if query.Cache != nil {
		body["cache"] = strconv.FormatBool(*query.Cache)
	}

	var result domainkagi.FastGPTResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(fastGPTPath)

	if err != nil {
		status = "error"
		log.Error().Err(err).Str("operation", "fastgpt").Str("query", query.Query).Msg("Kagi FastGPT API call failed")
		return nil, normalizeErr(err)
	}

	log.Debug().
		Str("operation", "fastgpt").
		Str("query", query.Query).
		Int("reference_count", len(result.Data.References)).
		Msg("Kagi FastGPT completed")

	return &result, nil
}

// EnrichNews retrieves supplemental non-commercial news results.
func (c *KagiClient) EnrichNews(ctx context.Context, query domainkagi.EnrichNewsRequest) (*domainkagi.EnrichNewsResponse, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordBackendRequest("enrich_news", status, time.Since(startTime).Seconds())
	}()

	var result domainkagi.EnrichNewsResponse
	_, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query.Query).
		SetResult(&result).
		Get(enrichNewsPath)

	if err != nil {
		status = "error"
		log.Error().Err(err).Str("operation", "enrich_news").Str("query", query.Query).Msg("Kagi enrich API call failed")
		return nil, normalizeErr(err)
	}

	log.Debug().
		Str("operation", "enrich_news").
		Str("query", query.Query).
		Int("result_count", len(result.Data)).
		Msg("Kagi enrich completed")

	return &result, nil
}

// TestConnection issues a minimal search and reports whether it succeeded.
// The underlying error is swallowed; callers that need diagnostics should
// call Search directly.
func (c *KagiClient) TestConnection(ctx context.Context) bool {
	limit := 1
	_, err := c.Search(ctx, domainkagi.SearchRequest{Query: "test", Limit: &limit})
	if err != nil {
		log.Debug().Err(err).Msg("Kagi connection test failed")
		return false
	}
	return true
}
