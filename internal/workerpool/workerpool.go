// Package workerpool runs bounded parallel work over note batches.
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task represents a unit of work to be processed
type Task func(ctx context.Context) error

// Stats tracks worker pool performance metrics
type Stats struct {
	TasksSubmitted  int64
	TasksCompleted  int64
	TasksFailed     int64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	PeakWorkers     int // most tasks observed running at once
}

// Config holds worker pool configuration
type Config struct {
	MaxWorkers  int
	TaskTimeout time.Duration
}

// DefaultConfig returns sensible defaults for worker pool configuration
func DefaultConfig() Config {
	return Config{
		MaxWorkers:  runtime.NumCPU(),
		TaskTimeout: 30 * time.Second,
	}
}

// Pool bounds the number of tasks running at once. A Pool may run any
// number of batches, sequentially or concurrently, and accumulates stats
// across them.
type Pool struct {
	config Config
	mu     sync.Mutex
	active int
	stats  Stats
}

// New creates a pool with the given configuration
func New(config Config) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.NumCPU()
	}
	return &Pool{config: config}
}

// Workers is the concurrency limit
func (p *Pool) Workers() int {
	return p.config.MaxWorkers
}

// Run executes tasks with at most MaxWorkers in flight. The first error
// cancels the context passed to the remaining tasks and is returned.
func (p *Pool) Run(ctx context.Context, tasks []Task) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxWorkers)

	for _, task := range tasks {
		p.record(func(s *Stats) { s.TasksSubmitted++ })
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				p.record(func(s *Stats) { s.TasksFailed++ })
				return err
			}
			return p.execute(ctx, task)
		})
	}
	return g.Wait()
}

func (p *Pool) execute(ctx context.Context, task Task) error {
	if p.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.TaskTimeout)
		defer cancel()
	}

	p.record(func(s *Stats) {
		p.active++
		s.PeakWorkers = max(s.PeakWorkers, p.active)
	})

	start := time.Now()
	err := task(ctx)
	duration := time.Since(start)

	p.record(func(s *Stats) {
		p.active--
		s.TasksCompleted++
		s.TotalDuration += duration
		if err != nil {
			s.TasksFailed++
		}
	})
	return err
}

func (p *Pool) record(update func(*Stats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.stats)
}

// Stats returns current worker pool statistics
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := p.stats
	if stats.TasksCompleted > 0 {
		stats.AverageDuration = time.Duration(int64(stats.TotalDuration) / stats.TasksCompleted)
	}
	return stats
}

// Map applies fn to every item in parallel and returns the results in input
// order. On error the partial results are discarded.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	tasks := make([]Task, len(items))
	for i, item := range items {
		tasks[i] = func(ctx context.Context) error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		}
	}
	if err := p.Run(ctx, tasks); err != nil {
		return nil, err
	}
	return out, nil
}
