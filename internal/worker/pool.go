// Package worker runs keyed tasks on a fixed number of goroutines with an
// optional rate limit.
package worker

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

type Result struct {
	Key string
	Err error
}

type job struct {
	key string
	run Task
}

type Pool struct {
	workers int
	jobs    chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan job, buffer),
	}
}

// SetRateLimit caps task starts per second across all workers; rps <= 0
// removes the cap.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.stopTicker()
	if rps <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

// Submit queues a task. It blocks while the queue is full and gives up when
// ctx is done.
func (p *Pool) Submit(ctx context.Context, key string, t Task) error {
	if p == nil || t == nil {
		return nil
	}
	select {
	case p.jobs <- job{key: key, run: t}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks. Workers drain what is queued.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.jobs)
}

func (p *Pool) stopTicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Run starts the workers. The returned channel yields one Result per task
// and closes once Close was called and the queue is drained, or ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers*64)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					err := j.run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Key: j.key, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}
