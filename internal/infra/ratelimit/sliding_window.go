// Package ratelimit bounds outbound completion calls with a sliding window.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

// SlidingWindow admits at most capacity requests within any window-sized
// interval. Admission is advisory: refused callers take the fallback path
// instead of waiting.
type SlidingWindow struct {
	mu        sync.Mutex
	window    time.Duration
	capacity  int
	stamps    []time.Time
	collector *metrics.Collector
	now       func() time.Time
}

func NewSlidingWindow(window time.Duration, capacity int, collector *metrics.Collector) *SlidingWindow {
	return &SlidingWindow{
		window:    window,
		capacity:  capacity,
		collector: collector,
		now:       time.Now,
	}
}

// TryAdmit evicts timestamps older than the window, then admits and records
// the call when capacity remains. Check-and-record runs under one lock so
// concurrent callers cannot overshoot capacity.
func (w *SlidingWindow) TryAdmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evictLocked(now)

	if len(w.stamps) >= w.capacity {
		w.collector.RateLimitRefused()
		w.collector.RateLimitRemaining(0)
		return false
	}

	w.stamps = append(w.stamps, now)
	w.collector.RateLimitRemaining(w.capacity - len(w.stamps))
	return true
}

// Remaining reports the free capacity in the current window.
func (w *SlidingWindow) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evictLocked(w.now())
	return w.capacity - len(w.stamps)
}

func (w *SlidingWindow) evictLocked(now time.Time) {
	cutoff := now.Add(-w.window)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept
}
