package avatar

import (
	"context"
	"strings"
	"time"

	"avatar-backend/internal/llm"
	"avatar-backend/internal/research"
	"avatar-backend/internal/shared/metrics"
	"avatar-backend/internal/shared/telemetry"
)

// Data quality grades stamped into research_metadata.
const (
	QualityHigh     = "high"
	QualityLimited  = "limited"
	QualityFallback = "fallback"
)

// Result is a finished analysis document plus its provenance.
type Result struct {
	Document    map[string]any
	DataQuality string
	Fallback    bool
}

// Generator drives the full pipeline: research fan-out, prompt composition,
// model call, JSON extraction, and enrichment. A nil model client degrades
// the whole pipeline to the deterministic fallback WITHOUT issuing search
// queries, since research exists only to feed the prompt.
type Generator struct {
	model    llm.Client
	research *research.Aggregator
}

// NewGenerator constructs a Generator. model may be nil when no API key is
// configured.
func NewGenerator(model llm.Client, agg *research.Aggregator) *Generator {
	return &Generator{model: model, research: agg}
}

// Generate produces an analysis for the request. It always returns a complete
// document: any failure along the model path falls back rather than erroring.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	metrics.IncAnalysisStarted()
	start := time.Now()
	defer func() {
		metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	}()

	if g.model == nil {
		telemetry.Info("analysis.fallback", map[string]any{
			"niche":  req.Niche,
			"reason": "llm not configured",
		})
		return g.fallback(req)
	}

	res := g.research.Gather(ctx, req.Niche, research.SplitCompetitors(req.Competitors))

	prompt := ComposePrompt(req, &res)
	raw, err := g.model.Chat(ctx, SystemPrompt, prompt)
	if err != nil {
		telemetry.Warn("analysis.fallback", map[string]any{
			"niche":  req.Niche,
			"reason": "llm call failed",
			"error":  err.Error(),
		})
		return g.fallback(req)
	}

	doc, err := Extract(raw)
	if err != nil {
		telemetry.Warn("analysis.fallback", map[string]any{
			"niche":  req.Niche,
			"reason": "model output not parseable",
		})
		return g.fallback(req)
	}
	if missing := missingKeys(doc); len(missing) > 0 {
		telemetry.Warn("analysis.fallback", map[string]any{
			"niche":   req.Niche,
			"reason":  "model output incomplete",
			"missing": strings.Join(missing, ","),
		})
		return g.fallback(req)
	}

	quality := enrich(doc, res)
	metrics.IncAnalysisCompleted()
	return Result{Document: doc, DataQuality: quality}
}

func (g *Generator) fallback(req Request) Result {
	metrics.IncAnalysisFallback()
	metrics.IncAnalysisCompleted()
	return Result{
		Document:    BuildFallback(req),
		DataQuality: QualityFallback,
		Fallback:    true,
	}
}

// enrich stamps research provenance onto a validated document and fills in
// insights_pesquisa when the model omitted it. Returns the quality grade.
func enrich(doc map[string]any, res research.MarketResearch) string {
	quality := QualityLimited
	if res.HasMarketData() {
		quality = QualityHigh
	}

	doc["research_metadata"] = map[string]any{
		"search_timestamp":     res.CapturedAt.Format(time.RFC3339),
		"sources_consulted":    res.SourceCount(),
		"competitors_analyzed": len(res.Competitors),
		"data_quality":         quality,
	}

	if _, ok := doc["insights_pesquisa"]; !ok {
		names := make([]string, 0, len(res.Competitors))
		for _, c := range res.Competitors {
			names = append(names, c.Name)
		}
		doc["insights_pesquisa"] = map[string]any{
			"dados_mercado":            "Análise baseada em pesquisa de mercado atualizada",
			"concorrentes_encontrados": strings.Join(names, ", "),
			"tendencias_identificadas": "Tendências identificadas através de pesquisa online",
			"oportunidades_unicas":     "Oportunidades baseadas em gaps identificados na pesquisa",
		}
	}
	return quality
}
