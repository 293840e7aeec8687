package converter

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatch_FirstResolveWins(t *testing.T) {
	l := newLatch()
	first := errors.New("first")

	l.resolve(first)
	l.resolve(errors.New("second"))

	require.True(t, l.resolved())
	assert.Equal(t, first, l.wait(context.Background()))
}

func TestLatch_WaitBlocksUntilResolved(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := newLatch()

		got := make(chan error, 1)
		go func() {
			got <- l.wait(context.Background())
		}()

		synctest.Wait()
		require.False(t, l.resolved())

		l.resolve(nil)
		assert.NoError(t, <-got)
	})
}

func TestLatch_WaitHonorsContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := newLatch()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := l.wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, l.resolved())
	})
}
