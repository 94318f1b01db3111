package host

//go:generate go tool stringer --linecomment --type PromiseState --output promise_string.go

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ardnew/jsonscript/lang"
)

// PromiseState is the settlement state of a [Promise].
type PromiseState int

const (
	PromisePending   PromiseState = iota // pending
	PromiseFulfilled                     // fulfilled
	PromiseRejected                      // rejected
)

// Promise is the eventual result of an asynchronous operation.
//
// Scripts treat a Promise as an opaque value and react to it with ordinary
// method calls: ["call", "$.then", [onFulfilled, onRejected]]. Callbacks
// run on the promise's [Loop], never during the call that registers them.
type Promise struct {
	mu        sync.Mutex
	loop      *Loop
	state     PromiseState
	value     any
	err       error
	reactions []reaction
	handled   bool
}

type reaction struct {
	onFulfilled any
	onRejected  any
	next        *Promise
}

// NewPromise returns a pending promise scheduled on l.
func (l *Loop) NewPromise() *Promise {
	return &Promise{loop: l}
}

// Resolve returns a promise fulfilled with v.
func (l *Loop) Resolve(v any) *Promise {
	p := l.NewPromise()
	p.Fulfill(v)

	return p
}

// Reject returns a promise rejected with err.
func (l *Loop) Reject(err error) *Promise {
	p := l.NewPromise()
	p.Reject(err)

	return p
}

// Defer returns a promise settled by calling fn with args on the loop.
func (l *Loop) Defer(fn any, args ...any) *Promise {
	p := l.NewPromise()

	l.Enqueue(func(ctx context.Context) {
		p.settle(lang.Invoke(ctx, fn, nil, args...))
	})

	return p
}

// Fulfill settles p with v. If v is itself a promise, p adopts its eventual
// state. Settling a settled promise has no effect.
func (p *Promise) Fulfill(v any) {
	if q, ok := v.(*Promise); ok {
		if q == p {
			p.Reject(errors.New("promise resolved with itself"))

			return
		}

		q.subscribe(reaction{next: p})

		return
	}

	p.complete(PromiseFulfilled, v, nil)
}

// Reject settles p with err. Settling a settled promise has no effect.
func (p *Promise) Reject(err error) {
	if err == nil {
		err = errors.New("promise rejected")
	}

	if p.complete(PromiseRejected, nil, err) {
		p.loop.track(p)
	}
}

func (p *Promise) settle(v any, err error) {
	if err != nil {
		p.Reject(err)

		return
	}

	p.Fulfill(v)
}

func (p *Promise) complete(state PromiseState, v any, err error) bool {
	p.mu.Lock()

	if p.state != PromisePending {
		p.mu.Unlock()

		return false
	}

	p.state, p.value, p.err = state, v, err
	reactions := p.reactions
	p.reactions = nil

	p.mu.Unlock()

	for _, r := range reactions {
		p.schedule(r)
	}

	return true
}

// Then registers callbacks invoked with the fulfilled value or the rejection
// message, and returns a promise for the result of the invoked callback.
// A missing callback passes the settlement through to the returned promise.
func (p *Promise) Then(ctx context.Context, onFulfilled, onRejected any) *Promise {
	next := p.loop.NewPromise()

	p.loop.logger.TraceContext(ctx, "promise then",
		slog.String("state", p.State().String()),
	)

	p.subscribe(reaction{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
		next:        next,
	})

	return next
}

// Catch is Then with only a rejection callback.
func (p *Promise) Catch(ctx context.Context, onRejected any) *Promise {
	return p.Then(ctx, nil, onRejected)
}

func (p *Promise) subscribe(r reaction) {
	p.mu.Lock()
	p.handled = true

	if p.state == PromisePending {
		p.reactions = append(p.reactions, r)
		p.mu.Unlock()

		return
	}

	p.mu.Unlock()

	p.schedule(r)
}

func (p *Promise) schedule(r reaction) {
	p.loop.Enqueue(func(ctx context.Context) {
		state, value, err := p.State(), p.Value(), p.Err()

		handler, arg := r.onFulfilled, value
		if state == PromiseRejected {
			handler, arg = r.onRejected, err.Error()
		}

		if !lang.IsCallable(handler) {
			if state == PromiseRejected {
				r.next.Reject(err)
			} else {
				r.next.Fulfill(value)
			}

			return
		}

		r.next.settle(lang.Invoke(ctx, handler, nil, arg))
	})
}

// State returns the current state of p.
func (p *Promise) State() PromiseState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Value returns the fulfilled value of p, or nil.
func (p *Promise) Value() any {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

// Err returns the rejection error of p, or nil.
func (p *Promise) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

func (p *Promise) handle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handled = true
}

func (p *Promise) isHandled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.handled
}

// String returns a description of p and its settlement.
func (p *Promise) String() string {
	switch p.State() {
	case PromiseFulfilled:
		return fmt.Sprintf("<promise fulfilled: %s>", lang.FormatResult(p.Value()))
	case PromiseRejected:
		return fmt.Sprintf("<promise rejected: %v>", p.Err())
	default:
		return "<promise pending>"
	}
}
