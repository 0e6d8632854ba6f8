// Package literal extracts the literal text a match must begin with.
//
// The prefilter package turns the extracted literals into a fast scan for
// candidate start offsets, so the matcher only runs where a match can
// actually begin.
//
// Key concepts:
//   - A Literal is a concrete byte sequence a match starts with
//   - A Seq is a set of alternative literals (e.g. from `(foo|bar)` or `[xyz]`)
//   - An empty Seq means no literal is required and no prefilter applies
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence extracted from a pattern. Complete is true when
// matching the literal is the whole match.
//
// Example:
//   - Pattern `hello` → Literal{"hello", true}
//   - Pattern `hello\d` → Literal{"hello", false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debug representation: "literal{bytes, complete=true/false}".
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a Seq from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// AllComplete reports whether every literal is a complete match.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MaxLen returns the length of the longest literal.
func (s *Seq) MaxLen() int {
	n := 0
	for _, lit := range s.literals {
		if lit.Len() > n {
			n = lit.Len()
		}
	}
	return n
}

// Minimize drops duplicates and every literal that has a shorter literal of
// the set as a prefix; for finding where a match starts the shorter one is
// enough. A kept literal stays Complete if it or an identical duplicate was.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // 1 ("foo")
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				if len(current.Bytes) == len(kept[j].Bytes) && current.Complete {
					kept[j].Complete = true
				}
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals, or
// an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	)
//	fmt.Println(string(seq.LongestCommonPrefix())) // he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}
	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
