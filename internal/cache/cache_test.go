package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCachesPerKindAndUser(t *testing.T) {
	c := New()
	alice, bob := uuid.New(), uuid.New()
	var calls int32
	fetch := func(v string) func(context.Context) ([]string, error) {
		return func(context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return []string{v}, nil
		}
	}

	got, err := Load(context.Background(), c, Cart, alice, fetch("a1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, got)

	got, err = Load(context.Background(), c, Cart, alice, fetch("a2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, got, "second read is served from cache")

	got, err = Load(context.Background(), c, Cart, bob, fetch("b1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, got)

	got, err = Load(context.Background(), c, Orders, alice, fetch("o1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, got)

	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestInvalidateDropsWholeKind(t *testing.T) {
	c := New()
	alice, bob := uuid.New(), uuid.New()
	load := func(kind Kind, user uuid.UUID, v int) int {
		got, err := Load(context.Background(), c, kind, user, func(context.Context) (int, error) { return v, nil })
		require.NoError(t, err)
		return got
	}

	load(Cart, alice, 1)
	load(Cart, bob, 1)
	load(Orders, alice, 1)

	c.Invalidate(Cart)

	assert.Equal(t, 2, load(Cart, alice, 2))
	assert.Equal(t, 2, load(Cart, bob, 2))
	assert.Equal(t, 1, load(Orders, alice, 2), "other kinds survive")
}

func TestLoadDoesNotCacheErrors(t *testing.T) {
	c := New()
	user := uuid.New()
	boom := errors.New("boom")

	_, err := Load(context.Background(), c, Appointments, user, func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	got, err := Load(context.Background(), c, Appointments, user, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInvalidateDuringFetchIsNotCached(t *testing.T) {
	c := New()
	user := uuid.New()

	_, err := Load(context.Background(), c, SymptomChecks, user, func(context.Context) (int, error) {
		c.Invalidate(SymptomChecks)
		return 1, nil
	})
	require.NoError(t, err)

	got, err := Load(context.Background(), c, SymptomChecks, user, func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	c := New()
	user := uuid.New()
	release := make(chan struct{})
	var calls int32

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Load(context.Background(), c, HealthRecords, user, func(context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(len(results)))
}

func TestLoadIgnoresCallerCancellation(t *testing.T) {
	c := New()
	user := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := Load(ctx, c, Orders, user, func(ctx context.Context) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}
