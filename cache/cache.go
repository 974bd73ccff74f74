package cache

import (
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/exp/slices"

	. "github.com/ttpr0/go-transport/util"
)

//**********************************************************
// eviction policy
//**********************************************************

type EvictionPolicy byte

const (
	LRU EvictionPolicy = 0
	LFU EvictionPolicy = 1
	TTL EvictionPolicy = 2
)

func (self EvictionPolicy) String() string {
	switch self {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case TTL:
		return "ttl"
	default:
		panic("unknown eviction policy")
	}
}
func (self EvictionPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *EvictionPolicy) UnmarshalJSON(data []byte) error {
	var policy string
	if err := json.Unmarshal(data, &policy); err != nil {
		return err
	}
	p, err := EvictionPolicyFromString(policy)
	*self = p
	return err
}

func EvictionPolicyFromString(s string) (EvictionPolicy, error) {
	switch s {
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "ttl":
		return TTL, nil
	default:
		return LRU, errors.New("unknown eviction policy")
	}
}

//**********************************************************
// policy cache
//**********************************************************

type cache_entry[K comparable, V any] struct {
	key          K
	value        V
	created      float64
	last_access  float64
	access_count int
}

// Cache is a bounded map with a configurable eviction policy.
//
// Entries carry their creation time, last access time and an access count.
// Expiry is measured from creation, a Get never extends an entry's lifetime.
// LRU evicts by last access, LFU by access count. Expired entries (older
// than expiry seconds) are never served regardless of policy. When the
// capacity is exceeded, roughly 10% of the entries are evicted in one batch
// to amortize the scan.
type Cache[K comparable, V any] struct {
	entries    Dict[K, *cache_entry[K, V]]
	policy     EvictionPolicy
	capacity   int
	expiry     float64
	clock      func() float64
	hit_count  int
	miss_count int
}

func NewCache[K comparable, V any](policy EvictionPolicy, capacity int, expiry float64) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  NewDict[K, *cache_entry[K, V]](capacity),
		policy:   policy,
		capacity: capacity,
		expiry:   expiry,
		clock:    func() float64 { return float64(time.Now().UnixNano()) / 1e9 },
	}
}

// SetClock replaces the time source, used by tests to control expiry.
func (self *Cache[K, V]) SetClock(clock func() float64) {
	self.clock = clock
}

func (self *Cache[K, V]) Get(key K) (V, bool) {
	entry, ok := self.entries[key]
	if !ok {
		self.miss_count += 1
		var v V
		return v, false
	}
	now := self.clock()
	if now-entry.created >= self.expiry {
		self.entries.Delete(key)
		self.miss_count += 1
		var v V
		return v, false
	}
	entry.last_access = now
	entry.access_count += 1
	self.hit_count += 1
	return entry.value, true
}

func (self *Cache[K, V]) Set(key K, value V) {
	if !self.entries.ContainsKey(key) && self.entries.Length() >= self.capacity {
		self.evict()
	}
	now := self.clock()
	self.entries.Set(key, &cache_entry[K, V]{
		key:         key,
		value:       value,
		created:     now,
		last_access: now,
	})
}

func (self *Cache[K, V]) Remove(key K) {
	self.entries.Delete(key)
}

// RemoveIf drops every entry the predicate matches, used for conservative
// invalidation on external signals.
func (self *Cache[K, V]) RemoveIf(pred func(key K, value V) bool) int {
	removed := 0
	for key, entry := range self.entries {
		if pred(key, entry.value) {
			self.entries.Delete(key)
			removed += 1
		}
	}
	return removed
}

// Purge drops all expired entries.
func (self *Cache[K, V]) Purge() int {
	now := self.clock()
	removed := 0
	for key, entry := range self.entries {
		if now-entry.created >= self.expiry {
			self.entries.Delete(key)
			removed += 1
		}
	}
	return removed
}

func (self *Cache[K, V]) Length() int {
	return self.entries.Length()
}

func (self *Cache[K, V]) HitCount() int {
	return self.hit_count
}

func (self *Cache[K, V]) MissCount() int {
	return self.miss_count
}

func (self *Cache[K, V]) evict() {
	if self.policy == TTL {
		if self.Purge() > 0 {
			return
		}
	}
	batch := self.capacity / 10
	if batch < 1 {
		batch = 1
	}
	victims := make([]*cache_entry[K, V], 0, self.entries.Length())
	for _, entry := range self.entries {
		victims = append(victims, entry)
	}
	slices.SortFunc(victims, func(a, b *cache_entry[K, V]) int {
		if self.policy == LFU {
			if a.access_count != b.access_count {
				if a.access_count < b.access_count {
					return -1
				}
				return 1
			}
		}
		if a.last_access < b.last_access {
			return -1
		}
		if a.last_access > b.last_access {
			return 1
		}
		return 0
	})
	if batch > len(victims) {
		batch = len(victims)
	}
	for _, victim := range victims[:batch] {
		self.entries.Delete(victim.key)
	}
}
