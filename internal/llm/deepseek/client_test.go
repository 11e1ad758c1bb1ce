package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"avatar-backend/internal/llm"
)

func TestNewClientRejectsMalformedKey(t *testing.T) {
	cases := []string{"", "   ", "api-key-without-prefix", "SK-uppercase"}
	for _, key := range cases {
		if _, err := NewClient(key, "deepseek-chat", time.Second); !errors.Is(err, llm.ErrNotConfigured) {
			t.Errorf("NewClient(%q) expected ErrNotConfigured, got %v", key, err)
		}
	}
}

func TestValidKey(t *testing.T) {
	if !ValidKey("sk-abc123") {
		t.Fatalf("expected sk- key to be valid")
	}
	if ValidKey("token-abc123") {
		t.Fatalf("expected non sk- key to be invalid")
	}
}

func TestChatReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if req.Stream {
			t.Errorf("expected non-streaming request")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", "deepseek-chat", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	out, err := client.Chat(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected content %q", out)
	}
}

func TestChatSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "insufficient quota", "type": "quota"},
		})
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", "deepseek-chat", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	if _, err := client.Chat(context.Background(), "system", "user"); err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestChatErrorsOnMissingChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", "deepseek-chat", 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL

	if _, err := client.Chat(context.Background(), "system", "user"); err == nil {
		t.Fatalf("expected error for missing choices")
	}
}
