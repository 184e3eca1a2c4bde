package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	DBName   string
	Port     string
	GinMode  string

	// Single shared secret gating all write endpoints. Intentionally
	// minimal: there are no users or sessions in this system.
	EditToken string

	CORSOrigins []string

	// Redis / Asynq
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting (fixed window per IP+endpoint)
	RateLimitReqs   int
	RateLimitWindow int

	// Retrieval tuning
	MaxChunkSize        int
	SimilarityThreshold float64
	SearchLimit         int
	KeywordLimit        int
	PseudoChunkLimit    int

	// Embeddings / generation providers
	AIProvider            string // "openai" (default) or "google"
	OpenAIAPIKey          string
	OpenAIEmbeddingsModel string
	OpenAIChatModel       string
	GeminiAPIKey          string
	GoogleEmbeddingsModel string
	GeminiChatModel       string
	GenTemperature        float64
	GenMaxTokens          int

	// Upstream calls get a per-call context deadline; there is no retry.
	UpstreamTimeoutSeconds int

	// Worker / scheduler
	WorkerConcurrency int
	ReindexCron       string

	// Importer
	ImportUserAgent string

	// Tracing is enabled only when an OTLP endpoint is configured.
	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/knowledgebase"),
		DBName:   getEnv("DB_NAME", "knowledgebase"),
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),

		EditToken: getEnv("EDIT_TOKEN", ""),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		MaxChunkSize:        getEnvInt("MAX_CHUNK_SIZE", 1000),
		SimilarityThreshold: getEnvFloat64("SIMILARITY_THRESHOLD", 0.35),
		SearchLimit:         getEnvInt("SEARCH_LIMIT", 10),
		KeywordLimit:        getEnvInt("KEYWORD_LIMIT", 5),
		PseudoChunkLimit:    getEnvInt("PSEUDO_CHUNK_LIMIT", 1200),

		AIProvider:            getEnv("AI_PROVIDER", "openai"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIEmbeddingsModel: getEnv("OPENAI_EMBEDDINGS_MODEL", "text-embedding-3-small"),
		OpenAIChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		GeminiChatModel:       getEnv("GEMINI_CHAT_MODEL", "gemini-2.0-flash"),
		GenTemperature:        getEnvFloat64("GEN_TEMPERATURE", 0.7),
		GenMaxTokens:          getEnvInt("GEN_MAX_TOKENS", 500),

		UpstreamTimeoutSeconds: getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),

		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 10),
		ReindexCron:       getEnv("REINDEX_CRON", "0 3 * * *"),

		ImportUserAgent: getEnv("IMPORT_USER_AGENT", "knowledgebase-importer/1.0"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.EditToken == "" {
		return nil, fmt.Errorf("EDIT_TOKEN is required - set it in .env file")
	}

	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	case "google":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=google")
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER: %s", cfg.AIProvider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
