package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

// ErrInvalidRequest reports a request that fails shape validation before any
// orchestration happens.
var ErrInvalidRequest = errors.New("invalid ranking request")

const (
	minCompanies  = 2
	maxCompanies  = 5
	minCategories = 1
	maxCategories = 3
	minNameLength = 2
)

// RankBrandsInput is a multi-category ranking request.
type RankBrandsInput struct {
	Companies  []string
	Categories []string
}

// RankBrandsUsecase ranks a set of brands across categories, caching and
// rate-limiting completion calls and falling back per category.
type RankBrandsUsecase interface {
	Execute(ctx context.Context, input RankBrandsInput) (*domain.AggregatedResult, error)
}

// Admitter is the rate-limiter port: a refused admission sends the caller to
// the fallback path, never into a wait or retry.
type Admitter interface {
	TryAdmit() bool
}

type rankBrandsUsecase struct {
	llm       domain.CompletionClient
	cache     domain.CacheStore
	limiter   Admitter
	callSlots *semaphore.Weighted
	parser    ResponseParser
	prompts   PromptBuilder
	fallback  *FallbackKnowledge
	collector *metrics.Collector
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// NewRankBrandsUsecase wires the ranking orchestrator. concurrentCalls bounds
// in-flight completion calls process-wide, on top of the rate window.
func NewRankBrandsUsecase(
	llm domain.CompletionClient,
	cache domain.CacheStore,
	limiter Admitter,
	fallback *FallbackKnowledge,
	collector *metrics.Collector,
	cacheTTL time.Duration,
	concurrentCalls int64,
	logger *slog.Logger,
) RankBrandsUsecase {
	return &rankBrandsUsecase{
		llm:       llm,
		cache:     cache,
		limiter:   limiter,
		callSlots: semaphore.NewWeighted(concurrentCalls),
		parser:    NewResponseParser(),
		prompts:   NewPromptBuilder(),
		fallback:  fallback,
		collector: collector,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (u *rankBrandsUsecase) Execute(ctx context.Context, input RankBrandsInput) (*domain.AggregatedResult, error) {
	companies, categories, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	u.collector.Request()
	experimentID := uuid.NewString()

	u.logger.Info("ranking_started",
		slog.String("experiment_id", experimentID),
		slog.Int("companies", len(companies)),
		slog.Int("categories", len(categories)))

	// Each category resolves independently; a fallback in one never aborts
	// the others. rankCategory cannot fail, so the group never errors.
	results := make([]domain.CategoryRanking, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			results[i] = u.rankCategory(gctx, experimentID, companies, category)
			return nil
		})
	}
	_ = g.Wait()

	rankings := make(map[string]domain.CategoryRanking, len(results))
	for _, r := range results {
		rankings[r.Category] = r
	}

	return &domain.AggregatedResult{
		ExperimentID: experimentID,
		Rankings:     rankings,
		AverageRanks: averageRanks(companies, results),
	}, nil
}

// rankCategory walks one category through cache check, rate check,
// completion call, and parse. Every failure class lands on the fallback
// table, so the returned ranking always covers every company.
func (u *rankBrandsUsecase) rankCategory(ctx context.Context, experimentID string, companies []string, category string) domain.CategoryRanking {
	canonical := u.fallback.CanonicalCategory(category)
	key := rankingCacheKey(companies, canonical)

	if cached, ok := u.cache.Get(ctx, key); ok {
		var ranking domain.CategoryRanking
		if err := json.Unmarshal([]byte(cached), &ranking); err == nil {
			ranking.Metadata.CacheHit = true
			return ranking
		}
		u.logger.Warn("corrupt_cache_entry",
			slog.String("experiment_id", experimentID),
			slog.String("key", key))
	}

	if !u.limiter.TryAdmit() {
		u.logger.Warn("rate_limit_refused",
			slog.String("experiment_id", experimentID),
			slog.String("category", canonical),
			slog.String("error", domain.ErrRateLimited.Error()))
		return u.useFallback(companies, canonical)
	}

	if err := u.callSlots.Acquire(ctx, 1); err != nil {
		return u.useFallback(companies, canonical)
	}
	defer u.callSlots.Release(1)

	system, prompt := u.prompts.RankingPrompt(companies, canonical)

	start := time.Now()
	raw, err := u.llm.Complete(ctx, system, prompt)
	elapsed := time.Since(start)
	u.collector.APICall(elapsed.Seconds())

	if err != nil {
		u.logger.Warn("completion_failed",
			slog.String("experiment_id", experimentID),
			slog.String("category", canonical),
			slog.String("error", err.Error()))
		return u.useFallback(companies, canonical)
	}

	ranked, err := u.parser.Parse(raw, companies)
	if err != nil {
		u.logger.Warn("response_unparsable",
			slog.String("experiment_id", experimentID),
			slog.String("category", canonical))
		return u.useFallback(companies, canonical)
	}

	ranking := domain.CategoryRanking{
		Category: canonical,
		Rankings: ranked,
		Metadata: domain.RankingMetadata{
			Model:     u.llm.Model(),
			CacheHit:  false,
			LatencyMS: elapsed.Milliseconds(),
		},
	}

	if payload, err := json.Marshal(ranking); err == nil {
		u.cache.Set(ctx, key, string(payload), u.cacheTTL)
	}
	return ranking
}

func (u *rankBrandsUsecase) useFallback(companies []string, canonical string) domain.CategoryRanking {
	u.collector.Fallback(canonical)
	return u.fallback.Lookup(companies, canonical)
}

// averageRanks computes, per company, the arithmetic mean of its ranks over
// the categories in which it resolved a rank. The parser and the fallback
// table both guarantee full coverage, so the denominator is the category
// count in practice; categories without a match are skipped defensively.
func averageRanks(companies []string, results []domain.CategoryRanking) map[string]float64 {
	averages := make(map[string]float64, len(companies))
	for _, company := range companies {
		total := 0
		matched := 0
		for _, result := range results {
			if rank, ok := result.RankOf(company); ok {
				total += rank
				matched++
			}
		}
		if matched > 0 {
			averages[company] = float64(total) / float64(matched)
		} else {
			averages[company] = 0
		}
	}
	return averages
}

// rankingCacheKey is order-insensitive and case-insensitive on the company
// list so permutations of the same request share an entry.
func rankingCacheKey(companies []string, canonicalCategory string) string {
	sorted := make([]string, len(companies))
	for i, c := range companies {
		sorted[i] = strings.ToLower(strings.TrimSpace(c))
	}
	sort.Strings(sorted)

	raw := fmt.Sprintf("ranking:%s:%s", strings.Join(sorted, ","), strings.ToLower(canonicalCategory))
	sum := md5.Sum([]byte(raw))
	return "ranking:" + hex.EncodeToString(sum[:])
}

func normalizeInput(input RankBrandsInput) (companies, categories []string, err error) {
	companies, err = normalizeNames(input.Companies, "companies", minCompanies, maxCompanies)
	if err != nil {
		return nil, nil, err
	}
	categories, err = normalizeNames(input.Categories, "categories", minCategories, maxCategories)
	if err != nil {
		return nil, nil, err
	}
	return companies, categories, nil
}

func normalizeNames(names []string, field string, min, max int) ([]string, error) {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if len(name) < minNameLength {
			return nil, fmt.Errorf("%w: %s entries need at least %d characters", ErrInvalidRequest, field, minNameLength)
		}
		trimmed = append(trimmed, name)
	}
	if len(trimmed) < min || len(trimmed) > max {
		return nil, fmt.Errorf("%w: %s must contain between %d and %d entries", ErrInvalidRequest, field, min, max)
	}
	return trimmed, nil
}
