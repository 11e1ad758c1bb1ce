package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"avatar-backend/internal/search"
	"avatar-backend/internal/shared/telemetry"
)

// Market research categories, in the fixed order they are queried and rendered.
const (
	CategoryMarketSize   = "market_size"
	CategoryTrends       = "trends"
	CategoryCompetitors  = "competitors"
	CategoryPricing      = "pricing"
	CategoryDemographics = "demographics"
)

// Categories lists all category names in query order.
var Categories = []string{
	CategoryMarketSize,
	CategoryTrends,
	CategoryCompetitors,
	CategoryPricing,
	CategoryDemographics,
}

// categoryQueries templates the niche into one query per category.
var categoryQueries = map[string]string{
	CategoryMarketSize:   "mercado %s Brasil 2024 tamanho",
	CategoryTrends:       "%s tendências mercado brasileiro",
	CategoryCompetitors:  "concorrentes %s Brasil principais",
	CategoryPricing:      "preços %s cursos online Brasil",
	CategoryDemographics: "%s público alvo perfil demográfico",
}

// CompetitorInfo holds the search results gathered for one named competitor.
type CompetitorInfo struct {
	Name      string          `json:"name"`
	Results   []search.Result `json:"search_results"`
	UpdatedAt time.Time       `json:"last_updated"`
}

// MarketResearch is the immutable snapshot produced by one Gather call.
// It is request-scoped: only its prompt rendering and summary counters
// outlive the request.
type MarketResearch struct {
	Market      map[string][]search.Result
	Competitors []CompetitorInfo
	CapturedAt  time.Time
}

// HasMarketData reports whether any category query found at least one result.
func (r MarketResearch) HasMarketData() bool {
	for _, results := range r.Market {
		if len(results) > 0 {
			return true
		}
	}
	return false
}

// SourceCount is the total number of snippets gathered across all categories.
func (r MarketResearch) SourceCount() int {
	n := 0
	for _, results := range r.Market {
		n += len(results)
	}
	return n
}

const (
	poolSize       = 3
	perQueryLimit  = 3
	maxCompetitors = 3
)

// Aggregator fans research queries out against a search provider.
type Aggregator struct {
	Provider search.Provider
}

// NewAggregator constructs an Aggregator.
func NewAggregator(provider search.Provider) *Aggregator {
	return &Aggregator{Provider: provider}
}

// Gather runs the 5 fixed category queries plus one query per competitor
// (first 3 names at most) through a worker pool of 3, and joins the results
// into a MarketResearch snapshot. Category order and competitor input order
// are preserved. A query that yields nothing leaves its slot empty without
// failing the batch.
func (a *Aggregator) Gather(ctx context.Context, niche string, competitorNames []string) MarketResearch {
	out := MarketResearch{
		Market:     make(map[string][]search.Result, len(Categories)),
		CapturedAt: time.Now().UTC(),
	}

	names := trimCompetitors(competitorNames)
	competitors := make([]CompetitorInfo, len(names))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)

	for _, category := range Categories {
		category := category
		g.Go(func() error {
			query := fmt.Sprintf(categoryQueries[category], niche)
			results := a.Provider.Search(gctx, query, perQueryLimit)
			mu.Lock()
			out.Market[category] = results
			mu.Unlock()
			return nil
		})
	}

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			query := fmt.Sprintf("%s %s preço curso online", name, niche)
			results := a.Provider.Search(gctx, query, perQueryLimit)
			competitors[i] = CompetitorInfo{
				Name:      name,
				Results:   results,
				UpdatedAt: time.Now().UTC(),
			}
			return nil
		})
	}

	// Workers never return errors; the join only waits for completion.
	_ = g.Wait()

	out.Competitors = competitors
	telemetry.Info("research.gathered", map[string]any{
		"niche":       niche,
		"sources":     out.SourceCount(),
		"competitors": len(out.Competitors),
	})
	return out
}

func trimCompetitors(names []string) []string {
	var out []string
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		out = append(out, name)
		if len(out) == maxCompetitors {
			break
		}
	}
	return out
}

// SplitCompetitors parses a comma-separated competitor list into names.
func SplitCompetitors(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
