package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	PerplexityURL     string
	PerplexityKey     string
	PerplexityModel   string
	CompletionTimeout int
	MaxOutputTokens   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTLSeconds int
	LocalCacheSize  int

	RateWindowSeconds int
	RateWindowLimit   int
	ConcurrentCalls   int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		PerplexityURL:     getEnv("PERPLEXITY_URL", "https://api.perplexity.ai/chat/completions"),
		PerplexityKey:     getSecret("PERPLEXITY_API_KEY", "PERPLEXITY_API_KEY_FILE", ""),
		PerplexityModel:   getEnv("PERPLEXITY_MODEL", "sonar-pro"),
		CompletionTimeout: getEnvInt("COMPLETION_TIMEOUT_SECONDS", 30),
		MaxOutputTokens:   getEnvInt("COMPLETION_MAX_TOKENS", 500),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getSecret("REDIS_PASSWORD", "REDIS_PASSWORD_FILE", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheTTLSeconds: getEnvInt("RANKING_CACHE_TTL_SECONDS", 3600),
		LocalCacheSize:  getEnvInt("LOCAL_CACHE_SIZE", 1024),

		RateWindowSeconds: getEnvInt("RATE_WINDOW_SECONDS", 60),
		RateWindowLimit:   getEnvInt("RATE_WINDOW_LIMIT", 50),
		ConcurrentCalls:   getEnvInt("CONCURRENT_COMPLETION_CALLS", 5),
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
