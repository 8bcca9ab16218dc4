package conc

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmit(t *testing.T) {
	pool := NewPool[int](4)
	defer pool.Release()
	require.Equal(t, 4, pool.Cap())

	futures := make([]*Future[int], 0, 16)
	for i := 0; i < 16; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	for i, future := range futures {
		res, err := future.Await()
		require.NoError(t, err)
		require.Equal(t, i*i, res)
	}
}

func TestPoolDefaultCap(t *testing.T) {
	pool := NewPool[struct{}](0)
	defer pool.Release()
	require.Greater(t, pool.Cap(), 0)
}

func TestAwaitAll(t *testing.T) {
	pool := NewPool[struct{}](2)
	defer pool.Release()

	boom := errors.New("boom")
	ok := pool.Submit(func() (struct{}, error) { return struct{}{}, nil })
	bad := pool.Submit(func() (struct{}, error) { return struct{}{}, boom })

	require.ErrorIs(t, AwaitAll(ok, bad), boom)
	require.NoError(t, AwaitAll(ok))
}
