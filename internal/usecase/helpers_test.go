package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kaushik-07/BrandRanker/internal/infra/cache"
	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

// fakeCompletion is a scriptable CompletionClient that counts calls.
type fakeCompletion struct {
	mu      sync.Mutex
	calls   int
	respond func(system, prompt string) (string, error)
}

func (f *fakeCompletion) Complete(_ context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(system, prompt)
}

func (f *fakeCompletion) Model() string {
	return "fake-model"
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeLimiter admits or refuses everything.
type fakeLimiter struct {
	admit bool
}

func (f fakeLimiter) TryAdmit() bool {
	return f.admit
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newMemoryCache(t *testing.T) *cache.MemoryStore {
	t.Helper()
	store, err := cache.NewMemoryStore(64, metrics.NewTestCollector())
	require.NoError(t, err)
	return store
}
