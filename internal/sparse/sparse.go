// Package sparse provides a set of byte offsets with O(1) insert, membership
// and clear.
//
// The nfa package tracks which offsets of a line a pattern can reach. The
// universe of values is bounded by the line length, so a sparse set gives
// constant-time operations without hashing and iterates in insertion order.
package sparse

// Set is a set of offsets in [0, Cap()).
// The sparse slice maps a value to its index in dense; dense holds the
// members in insertion order.
type Set struct {
	sparse []int
	dense  []int
}

// NewSet returns an empty set able to hold values in [0, capacity).
func NewSet(capacity int) *Set {
	return &Set{
		sparse: make([]int, capacity),
		dense:  make([]int, 0, capacity),
	}
}

// Insert adds v to the set and reports whether it was not already present.
// Panics if v is outside [0, Cap()).
func (s *Set) Insert(v int) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = len(s.dense)
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int) bool {
	if v < 0 || v >= len(s.sparse) {
		return false
	}
	i := s.sparse[v]
	return i < len(s.dense) && s.dense[i] == v
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return len(s.dense) == 0
}

// Cap returns the exclusive upper bound on values.
func (s *Set) Cap() int {
	return len(s.sparse)
}

// At returns the i-th member in insertion order.
func (s *Set) At(i int) int {
	return s.dense[i]
}

// Values returns the members in insertion order.
// The slice is valid until the next mutation.
func (s *Set) Values() []int {
	return s.dense
}

// Max returns the largest member, or -1 if the set is empty.
func (s *Set) Max() int {
	m := -1
	for _, v := range s.dense {
		if v > m {
			m = v
		}
	}
	return m
}
