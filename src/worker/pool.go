package worker

import (
	"context"
	"log"
	"sync"

	"github.com/kodjima33/screenshot-calorie-analyzer/src/analyzer"
)

// ResultCallback is invoked on analysis completion (from a worker goroutine).
type ResultCallback func(res analyzer.Result)

// Pool is a fixed-size analysis worker pool used in streaming mode. The
// queue depth equals the worker count, so in-flight plus queued work stays
// bounded and Submit never blocks the capture loop.
type Pool struct {
	an   *analyzer.Analyzer
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx  context.Context
	path string
	cb   ResultCallback
}

// New creates a worker pool with size workers (default 4 when size<=0).
func New(size int, an *analyzer.Analyzer) *Pool {
	if size <= 0 {
		size = 4
	}
	p := &Pool{an: an, jobs: make(chan job, size)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				if j.ctx.Err() != nil {
					continue
				}
				j.cb(p.an.AnalyzeFile(j.ctx, j.path))
			}
		}()
	}
}

// Submit enqueues an analysis job if queue space is free. Returns false if
// the job was dropped; the caller decides how to report that.
func (p *Pool) Submit(ctx context.Context, path string, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, path: path, cb: cb}:
		return true
	default:
		log.Printf("worker: queue full, dropping %s", path)
		return false
	}
}

// Close stops the pool after draining queued work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
