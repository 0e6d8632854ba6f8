// Package prefilter finds candidate match starts before the matcher runs.
//
// A prefilter scans a line for the literals a match must begin with (see
// package literal). Offsets that do not begin one of those literals are
// skipped without evaluating the pattern at all.
//
// The builder picks a strategy from the extracted literals:
//   - One single-byte literal → Memchr (strings.IndexByte)
//   - One literal, or several sharing a common prefix → Memmem (strings.Index)
//   - Several unrelated literals → AhoCorasick automaton
//
// Example usage:
//
//	re := syntax.MustParse(`(hello|world)`)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re.Nodes)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find("foo hello bar", 0) // 4
package prefilter

import (
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/minire/literal"
)

// Prefilter finds the next offset where a match may start.
type Prefilter interface {
	// Find returns the first candidate offset at or after start, or -1.
	// Every offset where a match can start is a candidate; a candidate is
	// not guaranteed to match unless IsComplete reports true.
	Find(haystack string, start int) int

	// IsComplete reports whether a candidate is always a full match.
	IsComplete() bool

	// String names the strategy, for logging.
	String() string
}

// Builder selects and builds a Prefilter for a literal set.
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a builder for the given prefix literals.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build returns the best Prefilter for the literals, or nil if none applies.
func (b *Builder) Build() Prefilter {
	if b.prefixes.IsEmpty() {
		return nil
	}
	// copy so Minimize leaves the caller's Seq intact
	seq := literal.NewSeq(seqLiterals(b.prefixes)...)
	seq.Minimize()

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if lit.Len() == 1 {
			return &Memchr{needle: lit.Bytes[0], complete: lit.Complete}
		}
		return &Memmem{needle: string(lit.Bytes), complete: lit.Complete}
	}

	if lcp := seq.LongestCommonPrefix(); len(lcp) > 0 {
		return &Memmem{needle: string(lcp)}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &AhoCorasick{auto: auto, maxLen: seq.MaxLen()}
}

func seqLiterals(s *literal.Seq) []literal.Literal {
	lits := make([]literal.Literal, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		lits = append(lits, s.Get(i))
	}
	return lits
}

// Memchr finds a single byte.
type Memchr struct {
	needle   byte
	complete bool
}

// Find implements Prefilter.
func (p *Memchr) Find(haystack string, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := strings.IndexByte(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// IsComplete implements Prefilter.
func (p *Memchr) IsComplete() bool { return p.complete }

func (p *Memchr) String() string { return "Memchr" }

// Memmem finds a substring.
type Memmem struct {
	needle   string
	complete bool
}

// Find implements Prefilter.
func (p *Memmem) Find(haystack string, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := strings.Index(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// IsComplete implements Prefilter.
func (p *Memmem) IsComplete() bool { return p.complete }

func (p *Memmem) String() string { return "Memmem" }

// AhoCorasick finds any of several literals in one pass.
type AhoCorasick struct {
	auto   *ahocorasick.Automaton
	maxLen int
}

// Find implements Prefilter.
//
// The automaton reports a match by its end. No literal can start before
// End-maxLen without ending before End, so the candidate is moved back to
// that bound (then forward to a rune start). The result may precede the
// true start; it never skips one.
func (p *AhoCorasick) Find(haystack string, start int) int {
	if start > len(haystack) {
		return -1
	}
	m := p.auto.Find(bytesOf(haystack), start)
	if m == nil {
		return -1
	}
	pos := max(m.End-p.maxLen, start)
	if pos == m.Start {
		return pos
	}
	for pos < len(haystack) && !utf8.RuneStart(haystack[pos]) {
		pos++
	}
	return pos
}

// IsComplete implements Prefilter. Candidates may precede the literal they
// were derived from, so they always need verification.
func (p *AhoCorasick) IsComplete() bool { return false }

func (p *AhoCorasick) String() string { return "AhoCorasick" }

// bytesOf returns the bytes of s without copying. The automaton only reads
// its input.
func bytesOf(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
