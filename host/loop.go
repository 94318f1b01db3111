package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ardnew/jsonscript/lang"
	"github.com/ardnew/jsonscript/log"
)

// ErrUnhandledRejection is returned by [Loop.Run] for each promise that was
// rejected without a rejection handler.
var ErrUnhandledRejection = lang.NewError("unhandled promise rejection")

// ErrRejected is returned by [Loop.Await] for a promise that was rejected.
var ErrRejected = lang.NewError("promise rejected")

// Loop is a FIFO queue of callbacks run later, on the goroutine that calls
// [Loop.Run].
//
// The interpreter never waits for asynchronous work. Promises created by the
// prelude schedule their callbacks on a Loop, and the host drains it after a
// script returns.
type Loop struct {
	mu       sync.Mutex
	queue    []func(context.Context)
	rejected []*Promise
	logger   log.Logger
}

// NewLoop returns an empty Loop that logs to logger.
func NewLoop(logger log.Logger) *Loop {
	return &Loop{logger: logger}
}

// Enqueue schedules task to run after every task already queued.
// It is safe to call from any goroutine.
func (l *Loop) Enqueue(task func(context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.queue = append(l.queue, task)
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

// Run runs queued tasks in order, including tasks they enqueue, until the
// queue is empty or ctx is done.
//
// The returned error joins ctx's error, if any, with an error matching
// [ErrUnhandledRejection] for each rejected promise that has no handler.
func (l *Loop) Run(ctx context.Context) error {
	n := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, ok := l.next()
		if !ok {
			break
		}

		task(ctx)
		n++
	}

	l.logger.TraceContext(ctx, "loop drained", slog.Int("tasks", n))

	return l.unhandled()
}

// Await runs l, then returns the settlement of v if it is a [*Promise], or v
// itself otherwise. Awaiting a promise handles its rejection. A promise that
// is still pending once the queue is empty is returned as is.
func (l *Loop) Await(ctx context.Context, v any) (any, error) {
	p, ok := v.(*Promise)
	if ok {
		p.handle()
	}

	if err := l.Run(ctx); err != nil {
		return nil, err
	}

	if !ok {
		return v, nil
	}

	switch p.State() {
	case PromiseFulfilled:
		return p.Value(), nil
	case PromiseRejected:
		return nil, ErrRejected.Wrap(p.Err())
	default:
		return p, nil
	}
}

func (l *Loop) next() (func(context.Context), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, false
	}

	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]

	return task, true
}

func (l *Loop) track(p *Promise) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rejected = append(l.rejected, p)
}

// unhandled reports and forgets every tracked rejection without a handler.
func (l *Loop) unhandled() error {
	l.mu.Lock()
	rejected := l.rejected
	l.rejected = nil
	l.mu.Unlock()

	var errs []error

	for _, p := range rejected {
		if !p.isHandled() {
			errs = append(errs, ErrUnhandledRejection.Wrap(p.Err()))
		}
	}

	return errors.Join(errs...)
}
