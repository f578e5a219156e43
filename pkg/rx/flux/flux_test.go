package flux

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rsbind/pkg/rx/mono"
)

func TestFromSeq(t *testing.T) {
	got, err := Collect(context.Background(), FromSeq(slices.Values([]string{"a", "b", "c"})))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestJustPreservesOrder(t *testing.T) {
	got, err := Collect(context.Background(), Just(1, 2, 3, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestZeroValueIsEmpty(t *testing.T) {
	var f Flux[string]
	got, err := Collect(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMapPreservesOrderAndStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	mapped := Map(Just("1", "2", "x", "4"), func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, boom
		}
		return n, nil
	})

	got, err := Collect(context.Background(), mapped)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got)
}

func TestErrorTerminates(t *testing.T) {
	boom := errors.New("boom")
	got, err := Collect(context.Background(), Error[int](boom))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, got)
}

func TestNoEmissionAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	produced := 0
	infinite := Create(func(ctx context.Context, emit func(int) error) error {
		for i := 0; ; i++ {
			produced++
			if err := emit(i); err != nil {
				return err
			}
		}
	})

	var received []int
	err := infinite.Subscribe(ctx, func(v int) error {
		received = append(received, v)
		if v == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2}, received)
	assert.Equal(t, 4, produced, "producer observes cancellation on its next emit")
}

func TestSubscribeOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Just(1).Subscribe(ctx, func(int) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDeferIsLazy(t *testing.T) {
	built := 0
	f := Defer(func() Flux[int] {
		built++
		return Just(built)
	})
	assert.Equal(t, 0, built)

	got, err := Collect(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	got, err = Collect(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 10
	ch <- 20
	ch <- 30
	close(ch)

	got, err := Collect(context.Background(), FromChannel(ch))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, got)
}

func TestFromMonoAndBack(t *testing.T) {
	f := FromMono(mono.Just("only"))
	got, err := Collect(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)

	v, err := mono.FromFlux[string](Just("first", "second")).Block(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	_, err = mono.FromFlux[string](Empty[string]()).Block(context.Background())
	assert.ErrorIs(t, err, mono.ErrNoValue)
}

func TestAllIterator(t *testing.T) {
	var got []int
	for v, err := range Just(1, 2, 3, 4).All(context.Background()) {
		require.NoError(t, err)
		got = append(got, v)
		if v == 3 {
			break
		}
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	boom := errors.New("boom")
	var lastErr error
	for _, err := range Error[int](boom).All(context.Background()) {
		lastErr = err
	}
	assert.ErrorIs(t, lastErr, boom)
}
