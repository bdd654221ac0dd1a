// Package sched provides cooperative, deadline-bounded execution of
// decomposable work. Processing happens in bounded chunks on the calling
// goroutine; control is yielded between chunks and a wall-clock ceiling
// stops new chunks from being issued once exceeded.
package sched

import (
	"context"
	"runtime"
	"time"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize int           // Items processed per chunk.
	Budget    time.Duration // Wall-clock ceiling for the whole run.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 200,
		Budget:    2 * time.Second,
	}
}

// Scheduler drives chunked work against a shared deadline. One scheduler
// spans a single parse call, so every stage draws from the same budget.
type Scheduler struct {
	chunkSize int
	deadline  time.Time
}

// New creates a scheduler whose deadline starts counting immediately.
func New(cfg Config) *Scheduler {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 200
	}
	if cfg.Budget <= 0 {
		cfg.Budget = 2 * time.Second
	}
	return &Scheduler{
		chunkSize: cfg.ChunkSize,
		deadline:  time.Now().Add(cfg.Budget),
	}
}

// Expired reports whether the wall-clock ceiling has passed.
func (s *Scheduler) Expired() bool {
	return !time.Now().Before(s.deadline)
}

// Run processes n items in chunks of ChunkSize, calling fn with each
// half-open [start, end) range. Between chunks it checks the deadline and
// ctx and yields the processor. Returns true if all items were processed,
// false if remaining work was abandoned. Chunk boundaries are the only
// suspension points: fn's contributions must be additive so a truncated run
// leaves valid partial state.
func (s *Scheduler) Run(ctx context.Context, n int, fn func(start, end int)) bool {
	for start := 0; start < n; start += s.chunkSize {
		if s.Expired() || ctx.Err() != nil {
			return false
		}
		end := start + s.chunkSize
		if end > n {
			end = n
		}
		fn(start, end)
		runtime.Gosched()
	}
	return true
}
