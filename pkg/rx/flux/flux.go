// Package flux provides a lazy, ordered stream handle.
//
// A Flux is a producer function that pushes elements to a consumer in
// emission order. Producers run only when subscribed, and once the
// subscriber's context is cancelled every further emit call fails, so no
// element is delivered after cancellation is observed.
package flux

import (
	"context"
	"errors"
	"iter"

	"github.com/toyz/rsbind/pkg/rx/mono"
)

// ErrCancelled is returned from emit once the consumer stopped listening.
var ErrCancelled = errors.New("flux: subscription cancelled")

// Flux is a lazy sequence of T. The zero Flux completes without elements.
type Flux[T any] struct {
	source func(ctx context.Context, emit func(T) error) error
}

// Create builds a Flux from a producer. The producer must stop and return
// when emit returns an error; it returns nil on normal completion or the
// error that terminates the stream.
func Create[T any](producer func(ctx context.Context, emit func(T) error) error) Flux[T] {
	return Flux[T]{source: producer}
}

// Just emits the given items in order.
func Just[T any](items ...T) Flux[T] {
	return Create(func(ctx context.Context, emit func(T) error) error {
		for _, item := range items {
			if err := emit(item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Empty completes immediately.
func Empty[T any]() Flux[T] {
	return Flux[T]{}
}

// Error terminates immediately with err.
func Error[T any](err error) Flux[T] {
	return Create(func(context.Context, func(T) error) error { return err })
}

// Defer postpones building the Flux until it is subscribed to.
func Defer[T any](supplier func() Flux[T]) Flux[T] {
	return Create(func(ctx context.Context, emit func(T) error) error {
		return supplier().run()(ctx, emit)
	})
}

// FromChannel emits values received on ch until it is closed.
func FromChannel[T any](ch <-chan T) Flux[T] {
	return Create(func(ctx context.Context, emit func(T) error) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				if err := emit(v); err != nil {
					return err
				}
			}
		}
	})
}

// FromSeq emits the values of an iterator.
func FromSeq[T any](seq iter.Seq[T]) Flux[T] {
	return Create(func(ctx context.Context, emit func(T) error) error {
		for v := range seq {
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// FromMono lifts a single value into a one-element stream.
func FromMono[T any](m mono.Mono[T]) Flux[T] {
	return Create(func(ctx context.Context, emit func(T) error) error {
		v, err := m.Block(ctx)
		if err != nil {
			return err
		}
		return emit(v)
	})
}

// Map applies fn to every element, preserving order. An error from fn
// terminates the stream with that error.
func Map[T, R any](f Flux[T], fn func(T) (R, error)) Flux[R] {
	return Create(func(ctx context.Context, emit func(R) error) error {
		return f.run()(ctx, func(v T) error {
			r, err := fn(v)
			if err != nil {
				return err
			}
			return emit(r)
		})
	})
}

func (f Flux[T]) run() func(ctx context.Context, emit func(T) error) error {
	if f.source == nil {
		return func(context.Context, func(T) error) error { return nil }
	}
	return f.source
}

// Subscribe runs the producer on the calling goroutine, handing each element
// to onNext. It returns nil when the stream completed, the terminating error
// otherwise, or the context error if ctx was cancelled first. If onNext
// returns an error the producer is stopped and that error is returned.
func (f Flux[T]) Subscribe(ctx context.Context, onNext func(T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var stopped error
	emit := func(v T) error {
		if stopped != nil {
			return stopped
		}
		if err := ctx.Err(); err != nil {
			stopped = ErrCancelled
			return stopped
		}
		if err := onNext(v); err != nil {
			stopped = err
			return err
		}
		return nil
	}

	err := f.run()(ctx, emit)
	switch {
	case stopped != nil && stopped != ErrCancelled:
		return stopped
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return err
}

// All returns an iterator over the stream. The final pair carries the
// terminating error, if any. Breaking out of the loop stops the producer.
func (f Flux[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		errBreak := errors.New("flux: iteration stopped")
		err := f.Subscribe(ctx, func(v T) error {
			if !yield(v, nil) {
				return errBreak
			}
			return nil
		})
		if err != nil && err != errBreak {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect subscribes and gathers every element.
func Collect[T any](ctx context.Context, f Flux[T]) ([]T, error) {
	var out []T
	err := f.Subscribe(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
