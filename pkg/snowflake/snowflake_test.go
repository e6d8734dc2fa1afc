package snowflake

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func stubClock(t *testing.T, ms *atomic.Int64) {
	t.Helper()
	nowMs = func() int64 { return ms.Load() }
	t.Cleanup(func() {
		nowMs = func() int64 { return time.Now().UnixMilli() }
	})
}

func TestFieldRoundTrip(t *testing.T) {
	timestamps := []int64{0, 1, 4095, 1414648849865, maxTimestamp}
	nodeIDs := []int64{0, 1, 5, 512, MaxNodeID}
	sequences := []int64{0, 1, 2047, MaxSequence}

	for _, ts := range timestamps {
		for _, node := range nodeIDs {
			for _, seq := range sequences {
				id := ID(ts<<timestampShift | node<<nodeIDShift | seq)
				assert.Equal(t, ts, id.Timestamp())
				assert.Equal(t, node, id.NodeID())
				assert.Equal(t, seq, id.Sequence())
			}
		}
	}
}

func TestSameMillisecondIncrementsSequence(t *testing.T) {
	var ms atomic.Int64
	ms.Store(Epoch + 1_000_000)
	stubClock(t, &ms)

	g := NewGenerator()
	a := g.Generate(5)
	b := g.Generate(5)

	assert.Equal(t, a.Timestamp(), b.Timestamp(), "same millisecond")
	assert.Equal(t, a.Sequence()+1, b.Sequence(), "sequence advances by one")
	assert.Equal(t, int64(5), a.NodeID())

	ms.Add(1)
	c := g.Generate(5)
	assert.Greater(t, c.Timestamp(), b.Timestamp(), "timestamp advances past the boundary")
	assert.Equal(t, int64(0), c.Sequence(), "sequence resets on a new millisecond")
	assert.Greater(t, c, b)
}

func TestSequenceOverflowWaitsForNextMillisecond(t *testing.T) {
	var ms atomic.Int64
	ms.Store(Epoch + 2_000_000)
	stubClock(t, &ms)

	g := NewGenerator()

	first := g.Generate(7)
	require.Equal(t, int64(0), first.Sequence())

	// Exhaust the rest of the millisecond's sequence space.
	var last ID
	for i := 0; i < MaxSequence; i++ {
		last = g.Generate(7)
	}
	require.Equal(t, int64(MaxSequence), last.Sequence())
	require.Equal(t, first.Timestamp(), last.Timestamp())

	// The 4097th call must block until the clock advances.
	done := make(chan ID, 1)
	go func() { done <- g.Generate(7) }()

	time.AfterFunc(10*time.Millisecond, func() { ms.Add(1) })

	select {
	case id := <-done:
		assert.Greater(t, id.Timestamp(), first.Timestamp(), "overflow call lands in a later millisecond")
		assert.Equal(t, int64(0), id.Sequence())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for sequence overflow to resolve")
	}
}

func TestClockRegressionKeepsIDsIncreasing(t *testing.T) {
	var ms atomic.Int64
	ms.Store(Epoch + 5_000_000)
	stubClock(t, &ms)

	g := NewGenerator()
	a := g.Generate(1)

	ms.Add(-100) // clock jumps backwards
	b := g.Generate(1)

	assert.Greater(t, b, a, "IDs never decrease across a clock regression")
	assert.Equal(t, a.Timestamp(), b.Timestamp(), "pinned to the last observed millisecond")
}

func TestSequentialIDsStrictlyIncrease(t *testing.T) {
	g := NewGenerator()
	prev := g.Generate(3)
	for i := 0; i < 10_000; i++ {
		id := g.Generate(3)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestConcurrentUniqueness(t *testing.T) {
	const (
		goroutines = 8
		perRoutine = 2_000
	)

	g := NewGenerator()
	results := make([][]ID, goroutines)

	var eg errgroup.Group
	for i := 0; i < goroutines; i++ {
		i := i
		eg.Go(func() error {
			ids := make([]ID, perRoutine)
			for j := range ids {
				ids[j] = g.Generate(9)
			}
			results[i] = ids
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	seen := make(map[ID]struct{}, goroutines*perRoutine)
	for _, ids := range results {
		for k, id := range ids {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
			if k > 0 {
				require.Greater(t, id, ids[k-1], "per-goroutine order preserved")
			}
		}
	}
	assert.Len(t, seen, goroutines*perRoutine)
}

func TestNodeIDOutOfRangePanics(t *testing.T) {
	g := NewGenerator()
	assert.Panics(t, func() { g.Generate(-1) })
	assert.Panics(t, func() { g.Generate(MaxNodeID + 1) })
	assert.NotPanics(t, func() { g.Generate(0) })
	assert.NotPanics(t, func() { g.Generate(MaxNodeID) })
}

func TestGenerationTimeTracksWallClock(t *testing.T) {
	g := NewGenerator()
	before := time.Now().Add(-2 * time.Second)
	id := g.Generate(42)
	after := time.Now().Add(2 * time.Second)

	generated := id.Time()
	assert.True(t, generated.After(before), "generation time too old: %v", generated)
	assert.True(t, generated.Before(after), "generation time in the future: %v", generated)
	assert.Zero(t, generated.Nanosecond()%int(time.Millisecond), "millisecond precision only")
}
