// Package parallel runs frame encoding jobs on a fixed set of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("parallel: pool closed")

// WorkerPool is a pool of goroutines for encoding frames.
//
// Each worker has its own queue and steals from the others when it runs dry,
// so one slow frame does not stall the jobs queued behind it.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// workQueues holds per-worker job queues.
	workQueues []chan func()

	// next is the round-robin cursor for Submit.
	next atomic.Uint64

	done chan struct{}
	wg   sync.WaitGroup

	// pending counts submitted jobs that have not finished.
	pending sync.WaitGroup

	// mu orders enqueues before shutdown: Submit holds it shared while
	// sending, Close holds it exclusively while flipping closed.
	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	err   error
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A few frames of slack per worker keeps them busy without holding
	// many decoded frames in memory.
	queueSize := max(2, workers)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return
		case job := <-myQueue:
			job()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(myQueue)
				return
			case job := <-myQueue:
				job()
			}
		}
	}
}

func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case job := <-queue:
			job()
		default:
			return
		}
	}
}

// steal takes a job from another worker's queue, or returns nil.
func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case job := <-p.workQueues[i]:
			return job
		default:
		}
	}
	return nil
}

// Submit queues fn, blocking while every queue is full. The first error any
// job returns is reported by Wait and Err.
func (p *WorkerPool) Submit(fn func() error) error {
	if fn == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	p.pending.Add(1)
	job := func() {
		defer p.pending.Done()
		if err := fn(); err != nil {
			p.setErr(err)
		}
	}

	// Workers keep draining until done is closed, which cannot happen while
	// the read lock is held, so this send always completes.
	id := int(p.next.Add(1) % uint64(p.workers))
	p.workQueues[id] <- job
	return nil
}

func (p *WorkerPool) setErr(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// Err returns the first job error so far, without waiting.
func (p *WorkerPool) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// Wait blocks until every submitted job has finished and returns the first
// job error.
func (p *WorkerPool) Wait() error {
	p.pending.Wait()
	return p.Err()
}

// Close runs the queued jobs, stops the workers and returns the first job
// error. Close is safe to call multiple times.
func (p *WorkerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.Err()
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()
	return p.Err()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}
