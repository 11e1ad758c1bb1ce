package search

import (
	"fmt"
	"time"

	"avatar-backend/internal/shared/config"
)

// NewProvider builds the configured search provider.
func NewProvider(cfg config.Config) (Provider, error) {
	timeout := time.Duration(cfg.SearchTimeoutSeconds) * time.Second

	switch cfg.SearchProvider {
	case "tavily":
		if cfg.TavilyAPIKey == "" {
			return nil, fmt.Errorf("SEARCH_PROVIDER=tavily requires TAVILY_API_KEY")
		}
		return NewTavilyProvider(cfg.TavilyAPIKey, timeout), nil
	case "google", "":
		return NewGoogleProvider(timeout), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.SearchProvider)
	}
}
