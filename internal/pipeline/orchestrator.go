package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator manages the asynchronous note-parsing surface: a bounded
// queue drained by a fixed worker pool, with TTL-evicted job state.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	parser  *Parser
	stats   *ParseStats
	log     *slog.Logger
	workers int
	maxQ    int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline around an already-built parser.
func NewOrchestrator(parser *Parser, stats *ParseStats, log *slog.Logger, workers, maxQueue int, jobTTL time.Duration) *Orchestrator {
	if workers <= 0 {
		workers = 2
	}
	if maxQueue <= 0 {
		maxQueue = 100
	}
	return &Orchestrator{
		jobs:    NewJobStore(jobTTL),
		queue:   make(chan *Job, maxQueue),
		parser:  parser,
		stats:   stats,
		log:     log,
		workers: workers,
		maxQ:    maxQueue,
	}
}

// Start launches worker goroutines and the job-store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.parser, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.maxQ)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Parser returns the underlying parser for synchronous use by handlers.
func (o *Orchestrator) Parser() *Parser {
	return o.parser
}

// Stats returns the rolling parse latency tracker.
func (o *Orchestrator) Stats() *ParseStats {
	return o.stats
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
