package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"avatar-backend/internal/shared/metrics"
	"avatar-backend/internal/shared/telemetry"
)

const tavilyBaseURL = "https://api.tavily.com/search"

// TavilyProvider queries the Tavily search API. Used instead of scraping
// when SEARCH_PROVIDER=tavily and an API key is configured.
type TavilyProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTavilyProvider constructs a Tavily API provider with the given per-call timeout.
func NewTavilyProvider(apiKey string, timeout time.Duration) *TavilyProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TavilyProvider{
		baseURL:    tavilyBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search issues one API call. It never returns an error.
func (p *TavilyProvider) Search(ctx context.Context, query string, limit int) []Result {
	metrics.IncSearchQuery()
	if limit <= 0 {
		limit = 5
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  limit,
	})
	if err != nil {
		p.logFailure(query, "marshal request", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		p.logFailure(query, "build request", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logFailure(query, "fetch", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logFailure(query, "read body", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		p.logFailure(query, "status "+strconv.Itoa(resp.StatusCode), nil)
		return nil
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		p.logFailure(query, "parse response", err)
		return nil
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}
	return results
}

func (p *TavilyProvider) logFailure(query, stage string, err error) {
	metrics.IncSearchFailure()
	fields := map[string]any{
		"provider": "tavily",
		"query":    query,
		"stage":    stage,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("search.failed", fields)
}

var _ Provider = (*TavilyProvider)(nil)
