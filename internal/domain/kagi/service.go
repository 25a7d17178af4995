package kagi

import "context"

// Client defines the Kagi API operations required by the domain layer
type Client interface {
	Search(ctx context.Context, query SearchRequest) (*SearchResponse, error)
	Summarize(ctx context.Context, query SummarizeRequest) (*SummarizeResponse, error)
	FastGPT(ctx context.Context, query FastGPTRequest) (*FastGPTResponse, error)
	EnrichNews(ctx context.Context, query EnrichNewsRequest) (*EnrichNewsResponse, error)
	TestConnection(ctx context.Context) bool
}

// Service orchestrates Kagi MCP operations while remaining transport-agnostic
type Service struct {
	client Client
}

// NewService creates a new Kagi service
func NewService(client Client) *Service {
	return &Service{
		client: client,
	}
}

// Search performs a web search against the Kagi Search API
func (s *Service) Search(ctx context.Context, query SearchRequest) (*SearchResponse, error) {
	return s.client.Search(ctx, query)
}

// Summarize summarizes a page or a block of text via the Universal Summarizer
func (s *Service) Summarize(ctx context.Context, query SummarizeRequest) (*SummarizeResponse, error) {
	return s.client.Summarize(ctx, query)
}

// FastGPT answers a query with cited references
func (s *Service) FastGPT(ctx context.Context, query FastGPTRequest) (*FastGPTResponse, error) {
	return s.client.FastGPT(ctx, query)
}

// EnrichNews retrieves supplemental non-commercial news results
func (s *Service) EnrichNews(ctx context.Context, query EnrichNewsRequest) (*EnrichNewsResponse, error) {
	return s.client.EnrichNews(ctx, query)
}

// TestConnection reports whether the backend is reachable with the configured
// credential. Any failure collapses to false.
func (s *Service) TestConnection(ctx context.Context) bool {
	return s.client.TestConnection(ctx)
}
