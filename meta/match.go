package meta

// Match represents a successful match with position information.
//
// Example:
//
//	match := meta.NewMatch(5, 11, "test foo123 end")
//	println(match.String()) // "foo123"
//	println(match.Start(), match.End()) // 5, 11
type Match struct {
	start    int
	end      int
	haystack string
}

// NewMatch creates a new Match from start and end positions.
// The haystack is stored by reference (strings are immutable).
func NewMatch(start, end int, haystack string) *Match {
	return &Match{
		start:    start,
		end:      end,
		haystack: haystack,
	}
}

// Start returns the inclusive start position of the match.
func (m *Match) Start() int {
	return m.start
}

// End returns the exclusive end position of the match.
func (m *Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.end - m.start
}

// IsEmpty reports whether the match consumed no bytes.
func (m *Match) IsEmpty() bool {
	return m.start == m.end
}

// String returns the matched text.
func (m *Match) String() string {
	return m.haystack[m.start:m.end]
}
