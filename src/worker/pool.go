package worker

import (
	"log"
	"sync"
)

// Pool runs jobs that must not stall the tick loop, such as encoding a
// frame for the clipboard. The input queue holds one job (strict
// back-pressure): Submit reports false instead of queueing further.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

// New creates a pool. Size defaults to 1 when size <= 0, which also
// keeps clipboard hand-offs in submission order.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan func(), 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				runJob(job)
			}
		}()
	}
}

func runJob(job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: job panicked: %v", r)
		}
	}()
	job()
}

// Submit enqueues a job if the single-slot queue is free. Returns
// false if the job was dropped.
func (p *Pool) Submit(job func()) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
