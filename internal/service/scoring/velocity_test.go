package scoring

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVelocityTracker_ObserveReturnsPriorCount(t *testing.T) {
	tracker := NewVelocityTracker(0)

	assert.Equal(t, 0, tracker.Observe("user_1"))
	assert.Equal(t, 1, tracker.Observe("user_1"))
	assert.Equal(t, 2, tracker.Observe("user_1"))

	// Independent key starts from zero.
	assert.Equal(t, 0, tracker.Observe("user_2"))
}

func TestVelocityTracker_SnapshotDoesNotMutate(t *testing.T) {
	tracker := NewVelocityTracker(0)

	assert.Equal(t, 0, tracker.Snapshot("device_1"))
	tracker.Observe("device_1")
	tracker.Observe("device_1")

	assert.Equal(t, 2, tracker.Snapshot("device_1"))
	assert.Equal(t, 2, tracker.Snapshot("device_1"))
	assert.Equal(t, 2, tracker.Observe("device_1"))
}

func TestVelocityTracker_ConcurrentObserveSameKey(t *testing.T) {
	const n = 500
	tracker := NewVelocityTracker(0)

	results := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tracker.Observe("hot_key")
		}(i)
	}
	wg.Wait()

	// Every prior count 0..n-1 must appear exactly once: no lost updates,
	// no duplicates, no gaps.
	sort.Ints(results)
	for i := 0; i < n; i++ {
		require.Equal(t, i, results[i])
	}
	assert.Equal(t, n, tracker.Snapshot("hot_key"))
}

func TestVelocityTracker_ConcurrentDistinctKeys(t *testing.T) {
	const keys = 64
	const perKey = 50
	tracker := NewVelocityTracker(0)

	var wg sync.WaitGroup
	for k := 0; k < keys; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			key := fmt.Sprintf("user_%d", k)
			for i := 0; i < perKey; i++ {
				tracker.Observe(key)
			}
		}(k)
	}
	wg.Wait()

	for k := 0; k < keys; k++ {
		assert.Equal(t, perKey, tracker.Snapshot(fmt.Sprintf("user_%d", k)))
	}
}

func TestVelocityTracker_EvictsLeastRecentlyObserved(t *testing.T) {
	tracker := NewVelocityTracker(2)

	// Force all keys onto one shard by picking keys that collide.
	shard := tracker.shard("a0")
	var colliding []string
	for i := 0; len(colliding) < 3; i++ {
		key := fmt.Sprintf("a%d", i)
		if tracker.shard(key) == shard {
			colliding = append(colliding, key)
		}
	}

	tracker.Observe(colliding[0])
	tracker.Observe(colliding[1])
	tracker.Observe(colliding[0]) // refresh recency of [0]
	tracker.Observe(colliding[2]) // evicts [1]

	assert.Equal(t, 2, tracker.Snapshot(colliding[0]))
	assert.Equal(t, 0, tracker.Snapshot(colliding[1]))
	assert.Equal(t, 1, tracker.Snapshot(colliding[2]))

	// An evicted key restarts its history.
	assert.Equal(t, 0, tracker.Observe(colliding[1]))
}

func TestVelocityTracker_UnboundedWhenCapacityZero(t *testing.T) {
	tracker := NewVelocityTracker(0)
	for i := 0; i < 10_000; i++ {
		tracker.Observe(fmt.Sprintf("key_%d", i))
	}
	assert.Equal(t, 10_000, tracker.Len())
}
