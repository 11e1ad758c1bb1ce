package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"avatar-backend/internal/avatar"
	"avatar-backend/internal/research"
	"avatar-backend/internal/search"
)

type noopProvider struct{}

func (noopProvider) Search(ctx context.Context, query string, limit int) []search.Result {
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewMemoryRepo()
	// No model client: every analysis resolves through the fallback path,
	// which keeps handler tests deterministic.
	gen := avatar.NewGenerator(nil, research.NewAggregator(noopProvider{}))
	svc := NewService(repo, gen)
	handler := NewHandler(svc, SystemInfo{
		LLMModel:       "deepseek-chat",
		SearchProvider: "google",
	})

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, repo
}

func postAnalyze(t *testing.T, router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAnalyzeRequiresNiche(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postAnalyze(t, router, map[string]any{"produto": "Curso"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != ErrorCodeValidation {
		t.Errorf("error code = %q", errResp.Error.Code)
	}
}

func TestAnalyzeReturnsCompleteDocument(t *testing.T) {
	router, repo := setupRouter(t)

	resp := postAnalyze(t, router, map[string]any{
		"nicho":   "marketing digital",
		"produto": "Curso de tráfego pago",
		"preco":   "500",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if doc["analysis_id"] == "" || doc["analysis_id"] == nil {
		t.Fatal("response missing analysis_id")
	}
	if doc["status"] != StatusCompleted {
		t.Errorf("status = %v", doc["status"])
	}
	for _, key := range []string{"escopo", "avatar", "metricas", "projecoes", "plano_acao"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("response missing section %q", key)
		}
	}

	// Price arrived as a string and still reached the fallback arithmetic.
	metricas := doc["metricas"].(map[string]any)
	if got := metricas["ltv_medio"]; got != "R$ 900" {
		t.Errorf("ltv_medio = %v, want R$ 900", got)
	}

	stored, err := repo.GetByID(context.Background(), doc["analysis_id"].(string))
	if err != nil {
		t.Fatalf("stored analysis not found: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Errorf("stored status = %q", stored.Status)
	}
	if stored.Request.Price == nil || *stored.Request.Price != 500 {
		t.Errorf("stored price = %v", stored.Request.Price)
	}
}

func TestAnalyzeToleratesJunkNumbers(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postAnalyze(t, router, map[string]any{
		"nicho": "vendas",
		"preco": "não sei",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Unparseable price falls back to the default 997 price basis.
	metricas := doc["metricas"].(map[string]any)
	if got := metricas["ltv_medio"]; got != "R$ 1.794" {
		t.Errorf("ltv_medio = %v, want R$ 1.794", got)
	}
}

func TestGetAnalysis(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postAnalyze(t, router, map[string]any{"nicho": "finanças"})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze failed: %d", resp.Code)
	}
	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := created["analysis_id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+id, nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, req)
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}
	var fetched map[string]any
	if err := json.NewDecoder(getResp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched["nicho"] != "finanças" {
		t.Errorf("nicho = %v", fetched["nicho"])
	}
	if _, ok := fetched["result"].(map[string]any); !ok {
		t.Error("completed analysis should embed its result")
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListAnalysesFiltersByNiche(t *testing.T) {
	router, _ := setupRouter(t)

	for _, niche := range []string{"fitness", "fitness", "finanças"} {
		if resp := postAnalyze(t, router, map[string]any{"nicho": niche}); resp.Code != http.StatusOK {
			t.Fatalf("analyze failed: %d", resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?nicho=fitness", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Analyses []map[string]any `json:"analyses"`
		Count    int              `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Count != 2 {
		t.Fatalf("count = %d, want 2", listing.Count)
	}
	for _, item := range listing.Analyses {
		if item["nicho"] != "fitness" {
			t.Errorf("unexpected niche in listing: %v", item["nicho"])
		}
	}
}

func TestListNichesDefaultsWhenEmpty(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nichos", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listing struct {
		Nichos []string `json:"nichos"`
		Source string   `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Source != "default" {
		t.Errorf("source = %q, want default", listing.Source)
	}
	if len(listing.Nichos) == 0 {
		t.Error("default niche list is empty")
	}
}

func TestListNichesFromStorage(t *testing.T) {
	router, _ := setupRouter(t)

	if resp := postAnalyze(t, router, map[string]any{"nicho": "saúde"}); resp.Code != http.StatusOK {
		t.Fatalf("analyze failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nichos", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var listing struct {
		Nichos []string `json:"nichos"`
		Source string   `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Source != "database" {
		t.Errorf("source = %q, want database", listing.Source)
	}
	if len(listing.Nichos) != 1 || listing.Nichos[0] != "saúde" {
		t.Errorf("nichos = %v", listing.Nichos)
	}
}

func TestStatusReportsWiring(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var status map[string]map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["llm"]["available"] != false {
		t.Errorf("llm available = %v, want false", status["llm"]["available"])
	}
	if status["web_search"]["provider"] != "google" {
		t.Errorf("search provider = %v", status["web_search"]["provider"])
	}
	if status["analysis_capabilities"]["avatar_analysis"] != true {
		t.Error("capabilities missing avatar_analysis")
	}
}
