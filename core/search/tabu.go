package search

import "github.com/hashicorp/golang-lru/v2/simplelru"

// TabuSet is a bounded set of state fingerprints that forgets the oldest
// insertion once full. Re-adding a present fingerprint keeps its position.
type TabuSet struct {
	lru   *simplelru.LRU[uint64, struct{}]
	limit int
}

// NewTabuSet returns a set holding at most capacity fingerprints. A
// non-positive capacity yields a set that never remembers anything.
func NewTabuSet(capacity int) *TabuSet {
	t := &TabuSet{limit: max(capacity, 0)}
	if t.limit > 0 {
		// NewLRU only fails on a non-positive size.
		t.lru, _ = simplelru.NewLRU[uint64, struct{}](t.limit, nil)
	}
	return t
}

// Add records fp, evicting the oldest fingerprint when the set is full.
// Contains is checked first because Add would move a present key to the
// front of the recency list.
func (t *TabuSet) Add(fp uint64) {
	if t.lru == nil || t.lru.Contains(fp) {
		return
	}
	t.lru.Add(fp, struct{}{})
}

// Contains reports whether fp is remembered. It does not refresh fp.
func (t *TabuSet) Contains(fp uint64) bool {
	return t.lru != nil && t.lru.Contains(fp)
}

// Len returns the number of remembered fingerprints.
func (t *TabuSet) Len() int {
	if t.lru == nil {
		return 0
	}
	return t.lru.Len()
}

// Cap returns the maximum number of remembered fingerprints.
func (t *TabuSet) Cap() int { return t.limit }
