package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port                 string
	Env                  string
	CORSAllowOrigin      []string
	DatabaseURL          string
	DeepSeekAPIKey       string
	LLMModel             string
	LLMTimeoutSeconds    int
	SearchProvider       string
	TavilyAPIKey         string
	SearchTimeoutSeconds int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  env,
		CORSAllowOrigin:      splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:          dbURL,
		DeepSeekAPIKey:       getEnv("DEEPSEEK_API_KEY", ""),
		LLMModel:             getEnv("LLM_MODEL", "deepseek-chat"),
		LLMTimeoutSeconds:    getEnvInt("LLM_TIMEOUT_SECONDS", 120),
		SearchProvider:       normalizeSearchProvider(getEnv("SEARCH_PROVIDER", "google")),
		TavilyAPIKey:         getEnv("TAVILY_API_KEY", ""),
		SearchTimeoutSeconds: getEnvInt("SEARCH_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using default %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeSearchProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tavily":
		return "tavily"
	default:
		return "google"
	}
}
