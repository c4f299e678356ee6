package loader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]int
	fail    error
}

func (r *recorder) fetch(_ context.Context, keys []int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.batches = append(r.batches, append([]int(nil), keys...))
	if r.fail != nil {
		return nil, r.fail
	}

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(rune('a' + k))
	}
	return out, nil
}

func TestLoad_CoalescesAndDeduplicates(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	thunks := []Thunk[string]{
		l.Load(ctx, 5),
		l.Load(ctx, 3),
		l.Load(ctx, 5),
		l.Load(ctx, 7),
	}

	values := make([]string, len(thunks))
	for i, th := range thunks {
		v, err := th()
		require.NoError(t, err)
		values[i] = v
	}

	require.Len(t, rec.batches, 1)
	assert.Equal(t, []int{5, 3, 7}, rec.batches[0])
	assert.Equal(t, []string{"f", "d", "f", "h"}, values)
	assert.Equal(t, values[0], values[2])
}

func TestLoadMany_PreservesKeyOrder(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)

	values, err := l.LoadMany(context.Background(), []int{2, 0, 2, 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "c", "b"}, values)
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []int{2, 0, 1}, rec.batches[0])
}

func TestLoad_CachesAcrossBatches(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	_, err := l.LoadMany(ctx, []int{1, 2})
	require.NoError(t, err)

	v, err := l.Load(ctx, 2)()
	require.NoError(t, err)
	assert.Equal(t, "c", v)

	values, err := l.LoadMany(ctx, []int{1, 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "e"}, values)

	require.Len(t, rec.batches, 2)
	assert.Equal(t, []int{4}, rec.batches[1])
}

func TestLoad_BatchErrorFailsEveryKey(t *testing.T) {
	boom := errors.New("db down")
	rec := &recorder{fail: boom}
	l := New(rec.fetch)
	ctx := context.Background()

	a := l.Load(ctx, 1)
	b := l.Load(ctx, 2)

	_, errA := a()
	_, errB := b()
	assert.ErrorIs(t, errA, boom)
	assert.ErrorIs(t, errB, boom)
	require.Len(t, rec.batches, 1)

	// Failed keys are not cached
	rec.fail = nil
	v, err := l.Load(ctx, 1)()
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.Len(t, rec.batches, 2)
}

func TestLoad_LengthMismatchIsAnError(t *testing.T) {
	l := New(func(_ context.Context, keys []int) ([]string, error) {
		return []string{"only-one"}, nil
	})
	ctx := context.Background()

	a := l.Load(ctx, 1)
	b := l.Load(ctx, 2)

	_, err := a()
	require.Error(t, err)
	_, err = b()
	require.Error(t, err)
}

func TestPrimeAndClear(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	l.Prime(9, "primed")
	v, err := l.Load(ctx, 9)()
	require.NoError(t, err)
	assert.Equal(t, "primed", v)
	assert.Empty(t, rec.batches)

	l.Clear(9)
	v, err = l.Load(ctx, 9)()
	require.NoError(t, err)
	assert.Equal(t, "j", v)
	assert.Len(t, rec.batches, 1)
}

func TestLoad_ConcurrentCallers(t *testing.T) {
	rec := &recorder{}
	l := New(rec.fetch)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			v, err := l.Load(ctx, k%4)()
			assert.NoError(t, err)
			assert.Equal(t, string(rune('a'+k%4)), v)
		}(i)
	}
	wg.Wait()

	seen := map[int]int{}
	for _, batch := range rec.batches {
		for _, k := range batch {
			seen[k]++
		}
	}
	for k := 0; k < 4; k++ {
		assert.Equal(t, 1, seen[k], "key %d fetched more than once", k)
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	l := New(func(_ context.Context, keys []int) ([]string, error) {
		close(started)
		<-release
		return make([]string, len(keys)), nil
	})
	defer close(release)

	go func() { _, _ = l.Load(context.Background(), 1)() }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, 1)()
	assert.ErrorIs(t, err, context.Canceled)
}
