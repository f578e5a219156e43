package mono

import "context"

// Sequence is the subset of a stream handle needed to collapse it into a
// single value. flux.Flux satisfies it.
type Sequence[T any] interface {
	Subscribe(ctx context.Context, onNext func(T) error) error
}

// FromFlux returns a Mono holding the first element of s. The rest of the
// stream is not requested. An empty stream fails with ErrNoValue.
func FromFlux[T any](s Sequence[T]) Mono[T] {
	return Create(func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			first T
			found bool
		)
		err := s.Subscribe(ctx, func(v T) error {
			first, found = v, true
			return errStop
		})
		if found {
			return first, nil
		}
		if err == nil {
			err = ErrNoValue
		}
		var zero T
		return zero, err
	})
}

type stopError struct{}

func (stopError) Error() string { return "mono: stop" }

var errStop error = stopError{}
