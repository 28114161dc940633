// Package worker provides a worker pool that replays games in parallel.
package worker

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chess-rules-go/internal/engine"
	"github.com/lgbarn/chess-rules-go/internal/errors"
	"github.com/lgbarn/chess-rules-go/internal/replay"
)

// Job is one movetext to replay.
type Job struct {
	Index  int    // Original index for ordering results
	Source string // Where the text came from, e.g. "games.txt:12"
	Text   string
}

// Outcome is the result of processing a Job.
type Outcome struct {
	Job    Job
	Result replay.Result
	Err    error
}

// ProcessFunc processes one job. It runs on a worker goroutine.
type ProcessFunc func(ctx context.Context, job Job) Outcome

// Replay returns a ProcessFunc that plays each job through a fresh game.
// Every game gets its own engine, so the engine needs no locking.
func Replay(opts ...engine.Option) ProcessFunc {
	return func(ctx context.Context, job Job) Outcome {
		if err := ctx.Err(); err != nil {
			return Outcome{Job: job, Err: err}
		}
		res, err := replay.Play(job.Text, opts...)
		if err != nil {
			err = errors.Wrap(err, job.Source)
		}
		return Outcome{Job: job, Result: res, Err: err}
	}
}

// Pool manages a fixed set of workers.
type Pool struct {
	numWorkers  int
	bufferSize  int
	jobs        chan Job
	results     chan Outcome
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool. Default: 1 worker, buffer size of 10.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan Job, p.bufferSize)
	p.results = make(chan Outcome, p.bufferSize)
	return p
}

// Start launches the workers. They exit once Close is called and the
// queue drains. Cancelling ctx stops the pool.
func (p *Pool) Start(ctx context.Context) {
	context.AfterFunc(ctx, p.Stop)
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for job := range p.jobs {
		if p.IsStopped() || ctx.Err() != nil {
			continue // Drain without processing
		}
		p.results <- p.processFunc(ctx, job)
	}
}

// Submit queues a job, blocking while the buffer is full. It fails if ctx
// ends first.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop makes workers skip queued jobs.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop was called.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the job queue and waits for the workers, then closes the
// results channel.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the channel of processed jobs.
func (p *Pool) Results() <-chan Outcome {
	return p.results
}

// Run processes jobs on a new pool and returns the outcomes in job index
// order. Jobs skipped because ctx ended are missing from the result.
func Run(ctx context.Context, jobs []Job, processFunc ProcessFunc, opts ...PoolOption) []Outcome {
	p := NewPool(processFunc, opts...)
	p.Start(ctx)
	go func() {
		defer p.Close()
		for _, job := range jobs {
			if p.Submit(ctx, job) != nil {
				return
			}
		}
	}()

	var out []Outcome
	for o := range p.Results() {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job.Index < out[j].Job.Index })
	return out
}
