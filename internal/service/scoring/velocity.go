package scoring

import (
	"container/list"
	"hash/fnv"
	"sync"
)

// trackerShardCount bounds lock contention: keys hash onto independent
// shards so scoring calls for different entities never serialize against
// each other.
const trackerShardCount = 32

// VelocityTracker counts transactions per entity key. Observe returns the
// count accumulated before the call and then increments, as a single atomic
// unit per key. Capacity is bounded per shard with least-recently-observed
// eviction so the tracker approximates "recent activity" rather than
// all-time history.
type VelocityTracker struct {
	shards [trackerShardCount]*trackerShard
}

type trackerShard struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	eviction *list.List
	capacity int
}

type trackerEntry struct {
	key   string
	count int
}

// NewVelocityTracker creates a tracker bounding each shard to
// capacityPerShard keys. A non-positive capacity disables eviction.
func NewVelocityTracker(capacityPerShard int) *VelocityTracker {
	t := &VelocityTracker{}
	for i := range t.shards {
		t.shards[i] = &trackerShard{
			entries:  make(map[string]*list.Element),
			eviction: list.New(),
			capacity: capacityPerShard,
		}
	}
	return t
}

// Observe returns the number of prior observations for key, then increments.
func (t *VelocityTracker) Observe(key string) int {
	shard := t.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if elem, ok := shard.entries[key]; ok {
		entry := elem.Value.(*trackerEntry)
		prior := entry.count
		entry.count++
		shard.eviction.MoveToFront(elem)
		return prior
	}

	if shard.capacity > 0 && shard.eviction.Len() >= shard.capacity {
		oldest := shard.eviction.Back()
		if oldest != nil {
			shard.eviction.Remove(oldest)
			delete(shard.entries, oldest.Value.(*trackerEntry).key)
		}
	}

	shard.entries[key] = shard.eviction.PushFront(&trackerEntry{key: key, count: 1})
	return 0
}

// Snapshot returns the current count for key without observing it. Evicted
// and never-seen keys report zero.
func (t *VelocityTracker) Snapshot(key string) int {
	shard := t.shard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if elem, ok := shard.entries[key]; ok {
		return elem.Value.(*trackerEntry).count
	}
	return 0
}

// Len returns the number of tracked keys.
func (t *VelocityTracker) Len() int {
	total := 0
	for _, shard := range t.shards {
		shard.mu.Lock()
		total += len(shard.entries)
		shard.mu.Unlock()
	}
	return total
}

func (t *VelocityTracker) shard(key string) *trackerShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return t.shards[h.Sum32()%trackerShardCount]
}
