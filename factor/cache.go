package factor

import (
	"sync"

	"github.com/shopspring/decimal"
)

// cacheKey identifies an InterestFactor call. rate and period are kept as
// their canonical decimal string form so that values differing only in
// exponent-of-zero representation still collide correctly.
type cacheKey struct {
	rate      string
	period    string
	isPercent bool
}

// memo is a small memoization table. One package-level table is shared by
// every InterestFactor call, so access is guarded by a mutex to keep
// concurrent engine runs safe.
type memo struct {
	mu      sync.Mutex
	entries map[cacheKey]decimal.Decimal
}

func newMemo() *memo {
	return &memo{entries: make(map[cacheKey]decimal.Decimal)}
}

func (m *memo) get(k cacheKey) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[k]
	return v, ok
}

func (m *memo) put(k cacheKey, v decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[k] = v
}

var factorCache = newMemo()
