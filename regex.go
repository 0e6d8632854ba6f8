// Package minire provides a small regular expression engine for line
// matching.
//
// The supported syntax is deliberately narrow:
//   - Literal graphemes, with \ escaping any ASCII punctuation
//   - \d (ASCII digit) and \w (ASCII letter, digit or underscore)
//   - . (any one grapheme)
//   - [chars] and [^chars], which may nest further groups
//   - Postfix +, * and ? on the preceding atom
//   - (a|b|...) alternation of sequences
//   - Leading ^ and trailing $ anchors on the whole pattern
//
// Graphemes are Unicode scalar values decoded from UTF-8; all offsets are
// byte offsets.
//
// Basic usage:
//
//	re, err := minire.Compile(`\d+ apples?`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("I ate 3 apples") {
//	    fmt.Println("matched!")
//	}
//
// Advanced usage:
//
//	// Use the limited-lookahead matcher
//	re, err := minire.CompileWithConfig(`a+b`, minire.LookaheadConfig())
//
// Performance characteristics:
//   - Patterns with a literal prefix skip ahead with a prefilter
//   - ASCII-only input is stepped byte by byte
//   - MatchString evaluates every start offset in one pass over the line
//   - Nested quantifiers such as (a*)* are collapsed, and no pattern is
//     exponential
package minire

import (
	"unsafe"

	"github.com/coregx/minire/internal/letter"
	"github.com/coregx/minire/meta"
	"github.com/coregx/minire/syntax"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := minire.MustCompile(`hello`)
//	if re.MatchString("hello world") {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Regexp is an alias for Regex, for code written against stdlib naming.
type Regexp = Regex

// Compile compiles a regular expression pattern.
//
// Returns a *syntax.Error if the pattern is invalid; errors.Is(err,
// syntax.ErrInvalidPattern) holds for every such error.
//
// Example:
//
//	re, err := minire.Compile(`(cat|dog)s?`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, meta.DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// Example:
//
//	var digits = minire.MustCompile(`\d+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := minire.DefaultConfig()
//	config.EnablePrefilter = false
//	re, err := minire.CompileWithConfig(`hello`, config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// LookaheadConfig returns a configuration that selects the limited-lookahead
// matcher with its historical one-byte negative groups.
func LookaheadConfig() meta.Config {
	return meta.LookaheadConfig()
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a pattern
// that matches the literal text.
//
// Example:
//
//	escaped := minire.QuoteMeta("1+1=2?")
//	// escaped = `1\+1=2\?`
func QuoteMeta(s string) string {
	// Special characters that need escaping
	const special = `\.+*?()|[]^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.engine.IsMatch(bytesToString(b))
}

// MatchString reports whether the string s contains any match of the
// pattern.
//
// Example:
//
//	re := minire.MustCompile(`^log`)
//	re.MatchString("logs") // true
//	re.MatchString("slog") // false
func (r *Regex) MatchString(s string) bool {
	return r.engine.IsMatch(s)
}

// Find returns a slice holding the text of the leftmost match in b, or nil.
func (r *Regex) Find(b []byte) []byte {
	m := r.engine.Find(bytesToString(b))
	if m == nil {
		return nil
	}
	return b[m.Start():m.End():m.End()]
}

// FindString returns the text of the leftmost match in s, or "" if there is
// none. Use FindStringIndex to tell an empty match from no match.
func (r *Regex) FindString(s string) string {
	m := r.engine.Find(s)
	if m == nil {
		return ""
	}
	return m.String()
}

// FindStringIndex returns a two-element slice of integers defining the
// location of the leftmost match in s, or nil. The match is extended as far
// as the pattern allows.
//
// Example:
//
//	re := minire.MustCompile(`.`)
//	loc := re.FindStringIndex("🌏")
//	// loc = [0 4]
func (r *Regex) FindStringIndex(s string) []int {
	m := r.engine.Find(s)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindAllStringIndex returns the locations of successive non-overlapping
// matches in s. If n >= 0, at most n locations are returned. An empty match
// directly after a previous match is ignored.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}

	var out [][]int
	at, prevEnd := 0, -1
	for at <= len(s) && (n < 0 || len(out) < n) {
		m := r.engine.Find(s[at:])
		if m == nil {
			break
		}
		start, end := at+m.Start(), at+m.End()

		if start == end && start == prevEnd {
			if start >= len(s) {
				break
			}
			at = start + letter.Width(s[start:])
			continue
		}
		out = append(out, []int{start, end})
		prevEnd = end

		if r.engine.IsStartAnchored() {
			break
		}
		at = end
		if start == end {
			if end >= len(s) {
				break
			}
			at += letter.Width(s[end:])
		}
	}
	return out
}

// FindAllString returns the text of successive non-overlapping matches in
// s, as defined by FindAllStringIndex.
func (r *Regex) FindAllString(s string, n int) []string {
	locs := r.FindAllStringIndex(s, n)
	if locs == nil {
		return nil
	}
	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = s[loc[0]:loc[1]]
	}
	return out
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Syntax returns the parsed pattern. It must not be modified.
func (r *Regex) Syntax() *syntax.Regexp {
	return r.engine.Regexp()
}

// NumNodes returns the number of nodes in the parsed pattern, nested nodes
// included.
func (r *Regex) NumNodes() int {
	return syntax.CountNodes(r.engine.Regexp().Nodes)
}

// Strategy returns the matcher selected for this pattern.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

// Stats returns the engine's execution statistics.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets the engine's execution statistics to zero.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}

// bytesToString views b as a string without copying. The engine never
// retains its input past the call.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
