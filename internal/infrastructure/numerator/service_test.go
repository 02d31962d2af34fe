package numerator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: every call bumps the
// per-key counter by the increment and returns the new value.
type mockQuerier struct {
	mu     sync.Mutex
	values map[string]int64
	calls  int
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{values: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	key, _ := args[0].(string)
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.values[key] += increment
	return &mockRow{val: m.values[key]}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PNK")
	period := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "PNK2509010001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "PNK2509010002", num)
}

func TestGetNextNumber_DayScopedCounter(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PXK")

	day1 := time.Date(2025, 9, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2025, 9, 2, 0, 1, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, day1)
	require.NoError(t, err)
	assert.Equal(t, "PXK2509010001", num)

	// New day, counter restarts at 1 under a fresh sequence key.
	num, err = svc.GetNextNumber(ctx, cfg, nil, day2)
	require.NoError(t, err)
	assert.Equal(t, "PXK2509020001", num)
}

func TestGetNextNumber_ConcurrentDistinct(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("PCK")
	period := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, nil, period)
			require.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for num := range results {
		assert.False(t, seen[num], "duplicate code %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	period := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10 in one DB round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD2509010001", num)
	assert.Equal(t, 1, q.calls)

	// Subsequent calls inside the range stay in memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD2509010002", num)
	assert.Equal(t, 1, q.calls)

	// Exhaust the range; the next call reserves 11..20.
	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD2509010011", num)
	assert.Equal(t, 2, q.calls)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(1), ParseNumber("PNK2509010001"))
	assert.Equal(t, int64(123), ParseNumber("PXK2509010123"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
	assert.Equal(t, int64(-1), ParseNumber(fmt.Sprintf("PNK%s", "250901")))
}
