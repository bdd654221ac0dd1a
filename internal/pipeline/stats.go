package pipeline

import (
	"sort"
	"sync"
	"time"
)

type latencySample struct {
	at         time.Time
	durationMs int64
	truncated  bool
}

// StatsSnapshot is a point-in-time aggregate of parse latencies. Truncated
// counts parses that exhausted the time budget and returned partial
// results; a rising ratio means notes are outgrowing the configured budget.
type StatsSnapshot struct {
	Count     int     `json:"count"`
	Truncated int     `json:"truncated"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// ParseStats tracks recent parse durations within a rolling window. Large
// or adversarial notes show up here as the upper percentiles approaching
// the configured time budget and as truncated parses.
type ParseStats struct {
	mu      sync.Mutex
	samples []latencySample
	maxAge  time.Duration
}

func NewParseStats(maxAge time.Duration) *ParseStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ParseStats{
		samples: make([]latencySample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one parse duration and whether the parse was cut short by
// the time budget.
func (s *ParseStats) Record(d time.Duration, truncated bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, latencySample{at: now, durationMs: ms, truncated: truncated})
}

// Snapshot aggregates the samples still inside the window.
func (s *ParseStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	truncated := 0
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		if sm.truncated {
			truncated++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return StatsSnapshot{
		Count:     len(values),
		Truncated: truncated,
		MinMs:     values[0],
		MaxMs:     values[len(values)-1],
		AvgMs:     float64(sum) / float64(len(values)),
		P50Ms:     percentile(values, 50),
		P95Ms:     percentile(values, 95),
		P99Ms:     percentile(values, 99),
	}
}

func (s *ParseStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
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
