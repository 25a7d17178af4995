package kagi

// SummaryType selects the shape of the summarizer output
type SummaryType string

const (
	SummaryTypeSummary  SummaryType = "summary"
	SummaryTypeTakeaway SummaryType = "takeaway"
)

// SummarizerEngine selects which summarization model the backend runs
type SummarizerEngine string

const (
	EngineCecil  SummarizerEngine = "cecil"
	EngineAgnes  SummarizerEngine = "agnes"
	EngineDaphne SummarizerEngine = "daphne"
	EngineMuriel SummarizerEngine = "muriel"
)

// Meta carries the per-call metadata the backend attaches to every response
type Meta struct {
	ID         string   `json:"id"`
	Node       string   `json:"node"`
	MS         int      `json:"ms"`
	APIBalance *float64 `json:"api_balance,omitempty"`
}

// ErrorEntry is one element of the backend's error list. The client passes
// these through untouched; it reacts only to the HTTP status.
type ErrorEntry struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Ref  string `json:"ref,omitempty"`
}

// SearchRequest represents a web search query
type SearchRequest struct {
	Query string `json:"q"`
	Limit *int   `json:"limit,omitempty"` // Number of results (default: 10)
}

// SearchResponse contains ranked search results
type SearchResponse struct {
	Meta  Meta             `json:"meta"`
	Data  []map[string]any `json:"data"`
	Error []ErrorEntry     `json:"error,omitempty"`
}

// SummarizeRequest represents a summarization request. Exactly one of URL or
// Text must be set.
type SummarizeRequest struct {
	URL            *string           `json:"url,omitempty"`
	Text           *string           `json:"text,omitempty"`
	Engine         *SummarizerEngine `json:"engine,omitempty"`
	SummaryType    *SummaryType      `json:"summary_type,omitempty"`
	TargetLanguage *string           `json:"target_language,omitempty"`
	Cache          *bool             `json:"cache,omitempty"`
}

// SummarizeData is the summarizer result payload
type SummarizeData struct {
	Output string `json:"output"`
	Tokens int    `json:"tokens"`
}

// SummarizeResponse contains the generated summary
type SummarizeResponse struct {
	Meta  Meta          `json:"meta"`
	Data  SummarizeData `json:"data"`
	Error []ErrorEntry  `json:"error,omitempty"`
}

// FastGPTRequest represents a FastGPT answer request
type FastGPTRequest struct {
	Query string `json:"query"`
	Cache *bool  `json:"cache,omitempty"`
}

// FastGPTReference cites one source backing a FastGPT answer
type FastGPTReference struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// FastGPTData is the FastGPT result payload
type FastGPTData struct {
	Output     string             `json:"output"`
	Tokens     int                `json:"tokens"`
	References []FastGPTReference `json:"references,omitempty"`
}

// FastGPTResponse contains a generated answer with references
type FastGPTResponse struct {
	Meta  Meta         `json:"meta"`
	Data  FastGPTData  `json:"data"`
	Error []ErrorEntry `json:"error,omitempty"`
}

// EnrichNewsRequest represents a news enrichment query
type EnrichNewsRequest struct {
	Query string `json:"q"`
}

// EnrichNewsResponse contains non-commercial news results
type EnrichNewsResponse struct {
	Meta  Meta             `json:"meta"`
	Data  []map[string]any `json:"data"`
	Error []ErrorEntry     `json:"error,omitempty"`
}
