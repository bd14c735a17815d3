package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
	"github.com/Kaushik-07/BrandRanker/internal/metrics"
	"github.com/Kaushik-07/BrandRanker/internal/usecase"
)

func newValidateUsecase(llm *fakeCompletion, cacheStore domain.CacheStore) usecase.ValidateNamesUsecase {
	return usecase.NewValidateNamesUsecase(llm, cacheStore, metrics.NewTestCollector(), discardLogger())
}

func TestValidateCompanies_AllValid(t *testing.T) {
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return `{"valid_items": ["Nike", "Adidas"], "invalid_items": [], "reason": "both are real brands"}`, nil
	}}
	uc := newValidateUsecase(llm, newMemoryCache(t))

	result := uc.ValidateCompanies(context.Background(), []string{"Nike", "Adidas"})

	assert.True(t, result.Valid)
	assert.ElementsMatch(t, []string{"Nike", "Adidas"}, result.ValidItems)
	assert.Empty(t, result.InvalidItems)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, 1, llm.callCount())
}

func TestValidateCompanies_InvalidItemsPartitioned(t *testing.T) {
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return `{"valid_items": ["Nike"], "invalid_items": ["adffg"], "reason": "adffg is not a brand"}`, nil
	}}
	uc := newValidateUsecase(llm, newMemoryCache(t))

	result := uc.ValidateCompanies(context.Background(), []string{"Nike", "adffg"})

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Nike"}, result.ValidItems)
	assert.Equal(t, []string{"adffg"}, result.InvalidItems)
	assert.Empty(t, result.ErrorMessage, "invalid items are not a service error")
}

func TestValidateCompanies_BatchesOnlyUncachedItems(t *testing.T) {
	cacheStore := newMemoryCache(t)
	var batched string
	llm := &fakeCompletion{respond: func(_, prompt string) (string, error) {
		batched = prompt
		return `{"valid_items": ["Puma", "Reebok", "Asics"], "invalid_items": [], "reason": ""}`, nil
	}}
	uc := newValidateUsecase(llm, cacheStore)

	// Pre-seed two verdicts; the other three must go out in a single batch.
	cacheStore.Set(context.Background(), "validation:company:nike", "true", domain.NoExpiry)
	cacheStore.Set(context.Background(), "validation:company:adidas", "true", domain.NoExpiry)

	result := uc.ValidateCompanies(context.Background(),
		[]string{"Nike", "Adidas", "Puma", "Reebok", "Asics"})

	assert.Equal(t, 1, llm.callCount(), "uncached subset must be one batched call")
	assert.Contains(t, batched, "Companies to validate: Puma, Reebok, Asics")
	assert.True(t, result.Valid)
	assert.Len(t, result.ValidItems, 5, "cached and fresh verdicts both appear in the partition")
}

func TestValidateCompanies_Idempotent(t *testing.T) {
	cacheStore := newMemoryCache(t)
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return `{"valid_items": ["Nike"], "invalid_items": ["zzzz"], "reason": ""}`, nil
	}}
	uc := newValidateUsecase(llm, cacheStore)

	first := uc.ValidateCompanies(context.Background(), []string{"Nike", "zzzz"})
	require.Equal(t, 1, llm.callCount())

	second := uc.ValidateCompanies(context.Background(), []string{"Nike", "zzzz"})

	assert.Equal(t, 1, llm.callCount(), "repeat request must be a full cache hit")
	assert.Equal(t, first.Valid, second.Valid)
	assert.ElementsMatch(t, first.ValidItems, second.ValidItems)
	assert.ElementsMatch(t, first.InvalidItems, second.InvalidItems)
}

func TestValidateCompanies_FencedJSONAccepted(t *testing.T) {
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return "```json\n{\"valid_items\": [\"Nike\"], \"invalid_items\": [], \"reason\": \"\"}\n```", nil
	}}
	uc := newValidateUsecase(llm, newMemoryCache(t))

	result := uc.ValidateCompanies(context.Background(), []string{"Nike"})

	assert.True(t, result.Valid)
	assert.Equal(t, []string{"Nike"}, result.ValidItems)
}

func TestValidateCompanies_ParseFailureIsServiceError(t *testing.T) {
	cacheStore := newMemoryCache(t)
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return "Sure! Nike is a real company.", nil
	}}
	uc := newValidateUsecase(llm, cacheStore)

	cacheStore.Set(context.Background(), "validation:company:adidas", "true", domain.NoExpiry)

	result := uc.ValidateCompanies(context.Background(), []string{"Adidas", "Nike"})

	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.ErrorMessage)
	assert.Equal(t, []string{"Adidas"}, result.ValidItems,
		"cached verdicts are still reported on service failure")

	// Nothing gets cached for the failed batch.
	_, ok := cacheStore.Get(context.Background(), "validation:company:nike")
	assert.False(t, ok)
}

func TestValidateCompanies_UpstreamFailureIsServiceError(t *testing.T) {
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return "", domain.ErrUpstream
	}}
	uc := newValidateUsecase(llm, newMemoryCache(t))

	result := uc.ValidateCompanies(context.Background(), []string{"Nike"})

	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestValidateCompanies_UnmentionedNamesCountInvalid(t *testing.T) {
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return `{"valid_items": ["Nike"], "invalid_items": [], "reason": ""}`, nil
	}}
	uc := newValidateUsecase(llm, newMemoryCache(t))

	result := uc.ValidateCompanies(context.Background(), []string{"Nike", "Mystery Corp"})

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Mystery Corp"}, result.InvalidItems)
}

func TestValidateCategories_UsesCategoryNamespace(t *testing.T) {
	cacheStore := newMemoryCache(t)
	llm := &fakeCompletion{respond: func(_, _ string) (string, error) {
		return `{"valid_items": ["Sneakers"], "invalid_items": [], "reason": ""}`, nil
	}}
	uc := newValidateUsecase(llm, cacheStore)

	result := uc.ValidateCategories(context.Background(), []string{"Sneakers"})

	assert.True(t, result.Valid)
	_, ok := cacheStore.Get(context.Background(), "validation:category:sneakers")
	assert.True(t, ok)
	// The company namespace stays untouched.
	_, ok = cacheStore.Get(context.Background(), "validation:company:sneakers")
	assert.False(t, ok)
}
