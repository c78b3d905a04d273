package engine

import (
	"context"
	"sync"

	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/graph"
)

// Pending is the outcome of a queued task.
type Pending struct {
	done   chan struct{}
	layout *graph.Layout
	err    error
}

func newPending() *Pending { return &Pending{done: make(chan struct{})} }

func (p *Pending) resolve(l *graph.Layout, err error) {
	p.layout, p.err = l, err
	close(p.done)
}

// Done is closed once the task has run.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the task has run or ctx is done. Giving up on the wait
// does not cancel the task.
func (p *Pending) Wait(ctx context.Context) (*graph.Layout, error) {
	select {
	case <-p.done:
		return p.layout, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type task struct {
	ctx     context.Context
	run     func(ctx context.Context) (*graph.Layout, error)
	pending *Pending
}

// queue is an unbounded FIFO drained by a single worker.
type queue struct {
	mu     sync.Mutex
	tasks  []task
	closed bool
	notify chan struct{}
	done   chan struct{}
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1), done: make(chan struct{})}
}

// push enqueues t, failing it immediately when the queue is closed.
func (q *queue) push(t task) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		t.pending.resolve(nil, errors.New(errors.ErrCodeEngineClosed, "engine is closed"))
		return
	}
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
	q.signal()
}

func (q *queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// run executes tasks in order until the queue is closed and drained.
func (q *queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.notify
			continue
		}
		t := q.tasks[0]
		q.tasks[0] = task{}
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		t.pending.resolve(t.run(t.ctx))
	}
}

// close stops accepting tasks and waits for queued ones to finish.
// shutdown stops accepting tasks. The worker drains what is queued and
// then closes done.
func (q *queue) shutdown() {
	q.mu.Lock()
	already := q.closed
	q.closed = true
	q.mu.Unlock()
	if !already {
		q.signal()
	}
}
