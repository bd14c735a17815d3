package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

// ValidationKind selects the namespace and prompt for a validation batch.
type ValidationKind string

const (
	KindCompany  ValidationKind = "company"
	KindCategory ValidationKind = "category"
)

// ValidationResult partitions the submitted names into real and fake.
// ErrorMessage is set only when the validation service itself failed for the
// uncached subset; that is a different condition from "items are invalid".
type ValidationResult struct {
	Valid        bool
	ValidItems   []string
	InvalidItems []string
	ErrorMessage string
}

// ValidateNamesUsecase checks name lists for real-world plausibility with a
// per-item verdict cache and one batched completion call per request.
type ValidateNamesUsecase interface {
	ValidateCompanies(ctx context.Context, names []string) ValidationResult
	ValidateCategories(ctx context.Context, names []string) ValidationResult
}

type validateNamesUsecase struct {
	llm       domain.CompletionClient
	cache     domain.CacheStore
	prompts   PromptBuilder
	collector *metrics.Collector
	logger    *slog.Logger
}

func NewValidateNamesUsecase(
	llm domain.CompletionClient,
	cache domain.CacheStore,
	collector *metrics.Collector,
	logger *slog.Logger,
) ValidateNamesUsecase {
	return &validateNamesUsecase{
		llm:       llm,
		cache:     cache,
		prompts:   NewPromptBuilder(),
		collector: collector,
		logger:    logger,
	}
}

func (u *validateNamesUsecase) ValidateCompanies(ctx context.Context, names []string) ValidationResult {
	return u.validate(ctx, KindCompany, names)
}

func (u *validateNamesUsecase) ValidateCategories(ctx context.Context, names []string) ValidationResult {
	return u.validate(ctx, KindCategory, names)
}

// validationPartition is the strict JSON shape the validation prompt demands.
type validationPartition struct {
	ValidItems   []string `json:"valid_items"`
	InvalidItems []string `json:"invalid_items"`
	Reason       string   `json:"reason"`
}

func (u *validateNamesUsecase) validate(ctx context.Context, kind ValidationKind, names []string) ValidationResult {
	u.collector.Request()

	var validItems, invalidItems, uncached []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}

		verdict, ok := u.cache.Get(ctx, validationCacheKey(kind, trimmed))
		switch {
		case !ok:
			uncached = append(uncached, trimmed)
		case verdict == "true":
			validItems = append(validItems, trimmed)
		default:
			invalidItems = append(invalidItems, trimmed)
		}
	}

	if len(uncached) > 0 {
		partition, err := u.validateBatch(ctx, kind, uncached)
		if err != nil {
			u.logger.Error("validation_service_failed",
				slog.String("kind", string(kind)),
				slog.Int("batch_size", len(uncached)),
				slog.String("error", err.Error()))
			return ValidationResult{
				Valid:        false,
				ValidItems:   validItems,
				InvalidItems: invalidItems,
				ErrorMessage: "Unable to validate " + pluralKind(kind) + ". Please try again.",
			}
		}

		validSet := normalizedSet(partition.ValidItems)
		for _, name := range uncached {
			valid := validSet[strings.ToLower(name)]
			// Names the model never mentioned count as invalid; a real brand
			// it recognizes would have been listed.
			u.persistVerdict(ctx, kind, name, valid)
			if valid {
				validItems = append(validItems, name)
			} else {
				invalidItems = append(invalidItems, name)
			}
		}
	}

	return ValidationResult{
		Valid:        len(invalidItems) == 0 && len(validItems) > 0,
		ValidItems:   validItems,
		InvalidItems: invalidItems,
	}
}

// validateBatch issues exactly one completion call for the whole uncached
// set and parses the JSON partition, tolerating a fenced-code-block wrapper.
func (u *validateNamesUsecase) validateBatch(ctx context.Context, kind ValidationKind, names []string) (*validationPartition, error) {
	var system, prompt string
	if kind == KindCompany {
		system, prompt = u.prompts.BrandValidationPrompt(names)
	} else {
		system, prompt = u.prompts.CategoryValidationPrompt(names)
	}

	start := time.Now()
	raw, err := u.llm.Complete(ctx, system, prompt)
	u.collector.APICall(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	var partition validationPartition
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &partition); err != nil {
		return nil, err
	}
	return &partition, nil
}

func (u *validateNamesUsecase) persistVerdict(ctx context.Context, kind ValidationKind, name string, valid bool) {
	verdict := "false"
	if valid {
		verdict = "true"
	}
	// Verdicts never expire: whether a brand or category is real does not
	// change on a cache-TTL timescale.
	u.cache.Set(ctx, validationCacheKey(kind, name), verdict, domain.NoExpiry)

	if kind == KindCompany {
		u.collector.BrandCached()
	} else {
		u.collector.CategoryCached()
	}
}

func validationCacheKey(kind ValidationKind, name string) string {
	return "validation:" + string(kind) + ":" + strings.ToLower(strings.TrimSpace(name))
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

func normalizedSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}

func pluralKind(kind ValidationKind) string {
	if kind == KindCompany {
		return "companies"
	}
	return "categories"
}
