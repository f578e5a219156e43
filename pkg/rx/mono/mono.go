// Package mono provides a lazy handle for a single asynchronous value.
//
// Nothing runs until the handle is blocked on or subscribed to, so returning
// a Mono never blocks. Once the subscriber's context is cancelled no value is
// delivered, even if the producer still completes.
package mono

import (
	"context"
	"errors"
	"sync"
)

// ErrNoValue is returned when a single value was expected but the source
// completed without producing one.
var ErrNoValue = errors.New("mono: source completed without a value")

// Mono is a lazy single value. The zero Mono completes with the zero value of T.
type Mono[T any] struct {
	source func(ctx context.Context) (T, error)
}

// Void is the handle returned by operations without a result.
type Void = Mono[struct{}]

// Create builds a Mono from a producer function. The function runs once per
// subscription.
func Create[T any](fn func(ctx context.Context) (T, error)) Mono[T] {
	return Mono[T]{source: fn}
}

// Just returns a Mono that yields v.
func Just[T any](v T) Mono[T] {
	return Create(func(context.Context) (T, error) { return v, nil })
}

// Error returns a Mono that fails with err.
func Error[T any](err error) Mono[T] {
	return Create(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// Done returns a completed Void.
func Done() Void {
	return Just(struct{}{})
}

// Defer postpones building the Mono until it is subscribed to.
func Defer[T any](supplier func() Mono[T]) Mono[T] {
	return Create(func(ctx context.Context) (T, error) {
		return supplier().Block(ctx)
	})
}

// Map transforms the value of m with fn. Errors from m or fn terminate the
// resulting Mono.
func Map[T, R any](m Mono[T], fn func(T) (R, error)) Mono[R] {
	return Create(func(ctx context.Context) (R, error) {
		v, err := m.Block(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(v)
	})
}

// Block runs the Mono and waits for its value.
func (m Mono[T]) Block(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if m.source == nil {
		return zero, nil
	}
	v, err := m.source(ctx)
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return v, nil
}

// Subscribe runs the Mono on its own goroutine and reports the outcome to
// exactly one of onSuccess or onError. Nothing is reported after ctx is
// cancelled. The returned channel is closed once the subscription finished.
func (m Mono[T]) Subscribe(ctx context.Context, onSuccess func(T), onError func(error)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := m.Block(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(v)
		}
	}()
	return done
}

// Cache returns a Mono that runs m at most once and replays its outcome to
// every later subscriber.
func (m Mono[T]) Cache() Mono[T] {
	var (
		once sync.Once
		val  T
		err  error
	)
	return Create(func(ctx context.Context) (T, error) {
		once.Do(func() {
			val, err = m.Block(ctx)
		})
		return val, err
	})
}
