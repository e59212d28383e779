package extract

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	ok         bool
}

// StatsSnapshot is a point-in-time aggregate of model-call samples for one
// document kind.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// LLMStats tracks recent model-call latencies and failures within a rolling
// window, grouped by document kind ("statement", "invoice").
type LLMStats struct {
	mu     sync.Mutex
	byKind map[string][]sample
	maxAge time.Duration
}

func NewLLMStats(maxAge time.Duration) *LLMStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LLMStats{
		byKind: make(map[string][]sample),
		maxAge: maxAge,
	}
}

func (s *LLMStats) Record(kind string, durationMs int64, ok bool) {
	if durationMs < 0 {
		durationMs = 0
	}
	if kind == "" {
		kind = "unknown"
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.byKind[kind] = append(s.byKind[kind], sample{
		timestamp:  now,
		durationMs: durationMs,
		ok:         ok,
	})
}

// Snapshot returns per-kind aggregates over the current window.
func (s *LLMStats) Snapshot() map[string]StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	out := make(map[string]StatsSnapshot, len(s.byKind))
	for kind, samples := range s.byKind {
		if len(samples) == 0 {
			continue
		}
		values := make([]int64, 0, len(samples))
		var sum int64
		failures := 0
		for _, sm := range samples {
			values = append(values, sm.durationMs)
			sum += sm.durationMs
			if !sm.ok {
				failures++
			}
		}
		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

		out[kind] = StatsSnapshot{
			Count:    len(values),
			Failures: failures,
			MinMs:    values[0],
			MaxMs:    values[len(values)-1],
			AvgMs:    float64(sum) / float64(len(values)),
			P50Ms:    percentile(values, 50),
			P95Ms:    percentile(values, 95),
			P99Ms:    percentile(values, 99),
		}
	}
	return out
}

func (s *LLMStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	for kind, samples := range s.byKind {
		writeIdx := 0
		for _, sm := range samples {
			if !sm.timestamp.Before(cutoff) {
				samples[writeIdx] = sm
				writeIdx++
			}
		}
		s.byKind[kind] = samples[:writeIdx]
	}
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
