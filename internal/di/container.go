package di

import (
	"log/slog"
	"time"

	"github.com/Kaushik-07/BrandRanker/internal/adapter/perplexity"
	"github.com/Kaushik-07/BrandRanker/internal/adapter/rest"
	"github.com/Kaushik-07/BrandRanker/internal/domain"
	"github.com/Kaushik-07/BrandRanker/internal/infra/cache"
	"github.com/Kaushik-07/BrandRanker/internal/infra/config"
	"github.com/Kaushik-07/BrandRanker/internal/infra/httpclient"
	"github.com/Kaushik-07/BrandRanker/internal/infra/ratelimit"
	"github.com/Kaushik-07/BrandRanker/internal/metrics"
	"github.com/Kaushik-07/BrandRanker/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Collector *metrics.Collector
	Cache     domain.CacheStore
	Limiter   *ratelimit.SlidingWindow

	RankUsecase     usecase.RankBrandsUsecase
	ValidateUsecase usecase.ValidateNamesUsecase

	Handler *rest.Handler
}

// NewApplicationComponents wires all dependencies from config. The cache
// backend is Redis when REDIS_ADDR is set, the in-process LRU otherwise.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	collector := metrics.NewCollector()

	var store domain.CacheStore
	var pinger rest.CachePinger
	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedisStore(
			cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
			collector, log,
		)
		store = redisStore
		pinger = redisStore
		log.Info("cache_backend", slog.String("backend", "redis"), slog.String("addr", cfg.RedisAddr))
	} else {
		memStore, err := cache.NewMemoryStore(cfg.LocalCacheSize, collector)
		if err != nil {
			return nil, err
		}
		store = memStore
		log.Info("cache_backend", slog.String("backend", "local"), slog.Int("size", cfg.LocalCacheSize))
	}

	limiter := ratelimit.NewSlidingWindow(
		time.Duration(cfg.RateWindowSeconds)*time.Second,
		cfg.RateWindowLimit,
		collector,
	)

	completionHTTP := httpclient.NewPooledClient(time.Duration(cfg.CompletionTimeout) * time.Second)
	llm := perplexity.NewClient(
		cfg.PerplexityURL, cfg.PerplexityKey, cfg.PerplexityModel,
		cfg.MaxOutputTokens, completionHTTP, log,
	)

	fallback := usecase.NewFallbackKnowledge()

	rankUsecase := usecase.NewRankBrandsUsecase(
		llm, store, limiter, fallback, collector,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		int64(cfg.ConcurrentCalls), log,
	)
	validateUsecase := usecase.NewValidateNamesUsecase(llm, store, collector, log)

	handler := rest.NewHandler(rankUsecase, validateUsecase, collector, pinger, log)

	return &ApplicationComponents{
		Collector:       collector,
		Cache:           store,
		Limiter:         limiter,
		RankUsecase:     rankUsecase,
		ValidateUsecase: validateUsecase,
		Handler:         handler,
	}, nil
}
