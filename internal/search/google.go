package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"avatar-backend/internal/shared/metrics"
	"avatar-backend/internal/shared/telemetry"
)

const (
	googleBaseURL = "https://www.google.com/search"
	browserUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// GoogleProvider scrapes Google result pages. Parsing is defensive: result
// blocks with missing fields are skipped, partial pages are allowed.
type GoogleProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewGoogleProvider constructs a scraping provider with the given per-call timeout.
func NewGoogleProvider(timeout time.Duration) *GoogleProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{
		baseURL:    googleBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		// 1 req/s, burst of 3.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Search fetches and parses one result page. It never returns an error.
func (p *GoogleProvider) Search(ctx context.Context, query string, limit int) []Result {
	metrics.IncSearchQuery()
	if limit <= 0 {
		limit = 5
	}

	if err := p.limiter.Wait(ctx); err != nil {
		p.logFailure(query, "rate wait", err)
		return nil
	}

	reqURL := p.baseURL + "?q=" + url.QueryEscape(query) + "&num=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		p.logFailure(query, "build request", err)
		return nil
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logFailure(query, "fetch", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logFailure(query, "status "+strconv.Itoa(resp.StatusCode), nil)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		p.logFailure(query, "parse html", err)
		return nil
	}

	return parseResultBlocks(doc, limit)
}

func parseResultBlocks(doc *goquery.Document, limit int) []Result {
	var results []Result
	doc.Find("div.g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("h3").First().Text())
		href, _ := sel.Find("a").First().Attr("href")
		snippet := strings.TrimSpace(sel.Find("span.aCOpRe, span.st").First().Text())

		if title == "" || href == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     cleanRedirectURL(href),
			Snippet: snippet,
		})
		return len(results) < limit
	})
	return results
}

// cleanRedirectURL unwraps Google's /url?q=<target>&... redirect links.
func cleanRedirectURL(href string) string {
	if !strings.HasPrefix(href, "/url?q=") {
		return href
	}
	target := strings.TrimPrefix(href, "/url?q=")
	if idx := strings.Index(target, "&"); idx >= 0 {
		target = target[:idx]
	}
	if unescaped, err := url.QueryUnescape(target); err == nil {
		return unescaped
	}
	return target
}

func (p *GoogleProvider) logFailure(query, stage string, err error) {
	metrics.IncSearchFailure()
	fields := map[string]any{
		"provider": "google",
		"query":    query,
		"stage":    stage,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("search.failed", fields)
}

var _ Provider = (*GoogleProvider)(nil)
