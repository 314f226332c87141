package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	Env  string
	Port string

	// Storage
	StorageDriver  string // "postgres" or "sqlite"
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	IndexCacheSize int

	// Inference backends
	OllamaURL        string
	EmbeddingModel   string
	GenerationModel  string
	ExtractorURL     string
	ExtractorModel   string
	InferenceTimeout int // seconds

	// Generative synthesis is optional; without it the span and
	// heuristic strategies still run.
	GenerativeEnabled bool
}

// Load reads configuration from the environment with development
// defaults.
func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		StorageDriver:  getEnv("STORAGE_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "docqa-db"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "docqa_user"),
		DBPassword:     getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "docqa_password"),
		DBName:         getEnv("DB_NAME", "docqa_db"),
		SQLitePath:     getEnv("SQLITE_PATH", "docqa.db"),
		IndexCacheSize: getEnvInt("INDEX_CACHE_SIZE", 16),

		OllamaURL:        getEnv("OLLAMA_URL", "http://ollama:11434"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "embeddinggemma"),
		GenerationModel:  getEnv("GENERATION_MODEL", "gemma3:4b"),
		ExtractorURL:     getEnv("EXTRACTOR_URL", "http://extractor:8002"),
		ExtractorModel:   getEnv("EXTRACTOR_MODEL", "deberta-v3-base-squad2"),
		InferenceTimeout: getEnvInt("INFERENCE_TIMEOUT_SECONDS", 60),

		GenerativeEnabled: getEnvBool("GENERATIVE_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
