package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"avatar-backend/internal/research"
	"avatar-backend/internal/search"
)

type stubModel struct {
	reply string
	err   error
	calls atomic.Int64
}

func (s *stubModel) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls.Add(1)
	return s.reply, s.err
}

type countingProvider struct {
	queries atomic.Int64
	results []search.Result
}

func (p *countingProvider) Search(ctx context.Context, query string, limit int) []search.Result {
	p.queries.Add(1)
	return p.results
}

func completeModelReply(t *testing.T) string {
	t.Helper()
	doc := map[string]any{}
	for _, key := range requiredKeys {
		doc[key] = map[string]any{"placeholder": true}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return "Aqui está a análise:\n```json\n" + string(raw) + "\n```"
}

func TestGenerateWithoutModelSkipsSearch(t *testing.T) {
	provider := &countingProvider{}
	gen := NewGenerator(nil, research.NewAggregator(provider))

	result := gen.Generate(context.Background(), Request{Niche: "marketing", Competitors: "A, B"})

	if !result.Fallback {
		t.Fatal("expected fallback result")
	}
	if result.DataQuality != QualityFallback {
		t.Errorf("data quality = %q, want %q", result.DataQuality, QualityFallback)
	}
	if n := provider.queries.Load(); n != 0 {
		t.Errorf("search queries issued without a model: %d", n)
	}
}

func TestGenerateHappyPath(t *testing.T) {
	provider := &countingProvider{results: []search.Result{{Title: "t", URL: "u", Snippet: "s"}}}
	model := &stubModel{reply: completeModelReply(t)}
	gen := NewGenerator(model, research.NewAggregator(provider))

	result := gen.Generate(context.Background(), Request{Niche: "marketing", Competitors: "Hotmart"})

	if result.Fallback {
		t.Fatal("unexpected fallback")
	}
	if result.DataQuality != QualityHigh {
		t.Errorf("data quality = %q, want %q", result.DataQuality, QualityHigh)
	}
	meta, ok := result.Document["research_metadata"].(map[string]any)
	if !ok {
		t.Fatal("missing research_metadata")
	}
	if meta["data_quality"] != QualityHigh {
		t.Errorf("metadata quality = %v", meta["data_quality"])
	}
	if meta["competitors_analyzed"] != 1 {
		t.Errorf("competitors_analyzed = %v, want 1", meta["competitors_analyzed"])
	}
	insights, ok := result.Document["insights_pesquisa"].(map[string]any)
	if !ok {
		t.Fatal("insights_pesquisa not synthesized")
	}
	if !strings.Contains(insights["concorrentes_encontrados"].(string), "Hotmart") {
		t.Errorf("concorrentes_encontrados = %v", insights["concorrentes_encontrados"])
	}
	// 5 category queries + 1 competitor.
	if n := provider.queries.Load(); n != 6 {
		t.Errorf("search queries = %d, want 6", n)
	}
}

func TestGenerateLimitedQualityWhenSearchEmpty(t *testing.T) {
	provider := &countingProvider{}
	model := &stubModel{reply: completeModelReply(t)}
	gen := NewGenerator(model, research.NewAggregator(provider))

	result := gen.Generate(context.Background(), Request{Niche: "marketing"})

	if result.Fallback {
		t.Fatal("unexpected fallback")
	}
	if result.DataQuality != QualityLimited {
		t.Errorf("data quality = %q, want %q", result.DataQuality, QualityLimited)
	}
}

func TestGenerateFallsBackOnModelError(t *testing.T) {
	provider := &countingProvider{}
	model := &stubModel{err: errors.New("upstream unavailable")}
	gen := NewGenerator(model, research.NewAggregator(provider))

	result := gen.Generate(context.Background(), Request{Niche: "marketing"})
	if !result.Fallback {
		t.Fatal("expected fallback on model error")
	}
	if missing := missingKeys(result.Document); len(missing) != 0 {
		t.Fatalf("fallback document incomplete: %v", missing)
	}
}

func TestGenerateFallsBackOnUnparseableOutput(t *testing.T) {
	model := &stubModel{reply: "sorry, I cannot help with that"}
	gen := NewGenerator(model, research.NewAggregator(&countingProvider{}))

	result := gen.Generate(context.Background(), Request{Niche: "marketing"})
	if !result.Fallback {
		t.Fatal("expected fallback on unparseable output")
	}
}

func TestGenerateFallsBackOnIncompleteDocument(t *testing.T) {
	model := &stubModel{reply: `{"escopo": {}, "avatar": {}}`}
	gen := NewGenerator(model, research.NewAggregator(&countingProvider{}))

	result := gen.Generate(context.Background(), Request{Niche: "marketing"})
	if !result.Fallback {
		t.Fatal("expected fallback when required sections are missing")
	}
	if result.DataQuality != QualityFallback {
		t.Errorf("data quality = %q, want %q", result.DataQuality, QualityFallback)
	}
}

func TestGeneratePreservesModelInsights(t *testing.T) {
	doc := map[string]any{}
	for _, key := range requiredKeys {
		doc[key] = map[string]any{}
	}
	doc["insights_pesquisa"] = map[string]any{"dados_mercado": "do modelo"}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	model := &stubModel{reply: string(raw)}
	gen := NewGenerator(model, research.NewAggregator(&countingProvider{}))

	result := gen.Generate(context.Background(), Request{Niche: "marketing"})
	insights := result.Document["insights_pesquisa"].(map[string]any)
	if insights["dados_mercado"] != "do modelo" {
		t.Errorf("model-provided insights overwritten: %#v", insights)
	}
}
