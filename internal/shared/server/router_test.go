package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"avatar-backend/internal/shared/config"
)

func TestHealthEndpoints(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `"ok":true`) {
			t.Errorf("GET %s body = %s", path, resp.Body.String())
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "analysis_started_total") {
		t.Errorf("metrics output missing counters: %s", resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":9000": ":9000",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Errorf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
