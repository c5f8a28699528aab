package timemap

import (
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// exactCacheSize bounds the LRU fronting FindExact. The map itself
// rarely holds more than a few thousand entries, so this comfortably
// keeps the whole thing hot in the common case while still being
// correct — just slower — once evicted.
const exactCacheSize = 4096

// TimeMap is the ordered, deduplicated-by-time collection of MapEntry
// values. Entries are kept in a sorted slice — any ordered associative
// structure would do, but a slice with binary-search insertion is the
// idiomatic Go choice here — and fronted by a small LRU cache for the
// exact-lookup path the Locator drives on every bracket check.
type TimeMap struct {
	mu      sync.Mutex
	entries []*MapEntry
	exact   *lru.Cache[int, *MapEntry]
}

// New returns an empty TimeMap.
func New() *TimeMap {
	cache, err := lru.New[int, *MapEntry](exactCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// exactCacheSize never is.
		panic(err)
	}
	return &TimeMap{exact: cache}
}

// search returns the index of the first entry with Time >= t (the
// standard sort.Search insertion point).
func (m *TimeMap) search(t int) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Time >= t
	})
}

// GetOrCreate returns the existing entry for t, or inserts and returns
// a fresh one (offsets Unknown, confirmation bits false) preserving
// sort order.
func (m *TimeMap) GetOrCreate(t int) *MapEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.search(t)
	if i < len(m.entries) && m.entries[i].Time == t {
		return m.entries[i]
	}
	e := newEntry(t)
	m.entries = append(m.entries, nil)
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
	m.exact.Add(t, e)
	return e
}

// FindExact returns the entry for exactly t, or nil.
func (m *TimeMap) FindExact(t int) *MapEntry {
	if e, ok := m.exact.Get(t); ok {
		return e
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.search(t)
	if i < len(m.entries) && m.entries[i].Time == t {
		m.exact.Add(t, m.entries[i])
		return m.entries[i]
	}
	return nil
}

// FindPrev returns the greatest entry with Time strictly less than t,
// or nil if none exists.
func (m *TimeMap) FindPrev(t int) *MapEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.search(t)
	if i == 0 {
		return nil
	}
	return m.entries[i-1]
}

// FindNext returns the least entry with Time strictly greater than t,
// or nil if none exists.
func (m *TimeMap) FindNext(t int) *MapEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.search(t)
	if i < len(m.entries) && m.entries[i].Time == t {
		i++
	}
	if i >= len(m.entries) {
		return nil
	}
	return m.entries[i]
}

// MinTime returns the smallest observed time. Callers must not call
// this on an empty map (the Locator's bootstrap always ingests line 0,
// so at least one entry exists before anyone can observe the map).
func (m *TimeMap) MinTime() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[0].Time
}

// MaxTime returns the largest observed time.
func (m *TimeMap) MaxTime() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1].Time
}

// Len reports the number of distinct observed seconds.
func (m *TimeMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Entries returns a snapshot slice of all entries in time order, for
// persistence (Save) and tests. The returned slice shares MapEntry
// pointers with the map; callers must not mutate them outside the
// Sampler/Locator's own confirmation protocol.
func (m *TimeMap) Entries() []*MapEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MapEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// insertLoaded appends e without going through GetOrCreate's
// fresh-entry defaults; used only by Load, which re-sorts once after
// all lines are read.
func (m *TimeMap) insertLoaded(e *MapEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

// finalizeLoad sorts entries by time (persisted files are written in
// order already, but a load must not assume a file was not hand-edited)
// and rebuilds the exact-lookup cache.
func (m *TimeMap) finalizeLoad() {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].Time < m.entries[j].Time
	})
	// Drop duplicate times that might arise from a hand-edited file,
	// keeping the first (lowest byte offsets tend to appear first).
	deduped := m.entries[:0]
	var lastTime int
	for i, e := range m.entries {
		if i > 0 && e.Time == lastTime {
			continue
		}
		deduped = append(deduped, e)
		lastTime = e.Time
	}
	m.entries = deduped
	for _, e := range m.entries {
		m.exact.Add(e.Time, e)
	}
}
