package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

func newTestWindow(capacity int) (*SlidingWindow, *time.Time) {
	w := NewSlidingWindow(60*time.Second, capacity, metrics.NewTestCollector())
	current := time.Now()
	w.now = func() time.Time { return current }
	return w, &current
}

func TestSlidingWindow_AdmitsUpToCapacity(t *testing.T) {
	w, _ := newTestWindow(50)

	for i := 0; i < 50; i++ {
		assert.True(t, w.TryAdmit(), "admission %d should succeed", i+1)
	}
	assert.False(t, w.TryAdmit(), "the 51st admission within the window must be refused")
}

func TestSlidingWindow_RefusalDoesNotConsumeCapacity(t *testing.T) {
	w, _ := newTestWindow(2)

	assert.True(t, w.TryAdmit())
	assert.True(t, w.TryAdmit())
	assert.False(t, w.TryAdmit())
	assert.False(t, w.TryAdmit())
	assert.Equal(t, 0, w.Remaining())
}

func TestSlidingWindow_CapacityFreesAsWindowSlides(t *testing.T) {
	w, clock := newTestWindow(50)

	*clock = time.Now()
	assert.True(t, w.TryAdmit())

	*clock = clock.Add(10 * time.Second)
	for i := 0; i < 49; i++ {
		assert.True(t, w.TryAdmit())
	}
	assert.False(t, w.TryAdmit())

	// Slide past the first admission's timestamp: exactly one slot frees.
	*clock = clock.Add(51 * time.Second)
	assert.Equal(t, 1, w.Remaining())
	assert.True(t, w.TryAdmit())
	assert.False(t, w.TryAdmit())
}

func TestSlidingWindow_Remaining(t *testing.T) {
	w, _ := newTestWindow(5)

	assert.Equal(t, 5, w.Remaining())
	w.TryAdmit()
	w.TryAdmit()
	assert.Equal(t, 3, w.Remaining())
}

func TestSlidingWindow_ConcurrentAdmissionNeverOvershoots(t *testing.T) {
	w := NewSlidingWindow(60*time.Second, 50, metrics.NewTestCollector())

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if w.TryAdmit() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted)
}
