package sim

import "slices"

// IDSet is a small sorted set of ids. Sorting keeps iteration and hashing
// deterministic.
type IDSet []int

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

// Insert adds id and reports whether it was absent.
func (s *IDSet) Insert(id int) bool {
	i, ok := slices.BinarySearch(*s, id)
	if ok {
		return false
	}
	*s = slices.Insert(*s, i, id)
	return true
}

// Remove deletes id and reports whether it was present.
func (s *IDSet) Remove(id int) bool {
	i, ok := slices.BinarySearch(*s, id)
	if !ok {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	if len(*s) == 0 {
		*s = nil
	}
	return true
}

// Len returns the number of ids.
func (s IDSet) Len() int { return len(s) }

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}
