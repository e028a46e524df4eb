package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	BackendMemory = "memory"
	BackendCache  = "cache"
	BackendBolt   = "bolt"
)

type Config struct {
	Port   string
	AppEnv string

	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration

	CORSAllowedOrigins []string

	SessionBackend string
	SessionTTL     time.Duration
	DataDir        string
	MaxHistory     int

	OrdersFile        string
	ExposeErrorDetail bool
}

// Production reports whether the service runs with production logging.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	// .env is optional; in production the variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1/chat/completions"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS",
			"http://localhost:3000,https://ai-support-agent.vercel.app")),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
		DataDir:        getEnv("DATA_DIR", "."),
		OrdersFile:     os.Getenv("ORDERS_FILE"),
	}

	var err error
	if cfg.LLMTimeout, err = parseDurationEnv("LLM_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.MaxHistory, err = parseIntEnv("MAX_HISTORY", 50); err != nil {
		return nil, err
	}
	if cfg.MaxHistory < 0 {
		return nil, fmt.Errorf("MAX_HISTORY must not be negative, got %d", cfg.MaxHistory)
	}
	if cfg.ExposeErrorDetail, err = parseBoolEnv("EXPOSE_ERROR_DETAIL", false); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	switch cfg.SessionBackend {
	case BackendMemory, BackendCache, BackendBolt:
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
