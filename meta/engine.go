package meta

import (
	"sync/atomic"

	"github.com/coregx/minire/internal/letter"
	"github.com/coregx/minire/literal"
	"github.com/coregx/minire/lookahead"
	"github.com/coregx/minire/nfa"
	"github.com/coregx/minire/prefilter"
	"github.com/coregx/minire/simd"
	"github.com/coregx/minire/syntax"
)

// Engine is a compiled pattern together with the matcher chosen for it.
//
// The Engine:
//  1. Parses the pattern and records its anchors
//  2. Builds the matcher selected by Config.Strategy
//  3. Builds a prefilter from the required prefix literals (if any)
//  4. Walks candidate start offsets and verifies each with the matcher
//
// Thread safety: an Engine is immutable after compilation apart from its
// statistics counters, which are updated atomically. Multiple goroutines can
// call IsMatch and Find on the same Engine concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`)
//	if err != nil {
//	    return err
//	}
//	if m := engine.Find("test foo123 end"); m != nil {
//	    println(m.String()) // "foo123"
//	}
type Engine struct {
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on
	// 32-bit platforms.
	stats Stats

	pattern   string
	re        *syntax.Regexp
	nfa       *nfa.NFA
	lookahead lookahead.Matcher
	prefilter prefilter.Prefilter
	config    Config
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts IsMatch and Find calls
	Searches uint64

	// NFASearches counts NFA passes: one per line for IsMatch, one per
	// start offset tried for Find
	NFASearches uint64

	// LookaheadSearches counts searches run by the lookahead matcher
	LookaheadSearches uint64

	// PrefilterHits counts prefiltered searches that matched
	PrefilterHits uint64

	// PrefilterMisses counts prefiltered searches that didn't match
	PrefilterMisses uint64
}

// Compile parses pattern and builds an Engine with DefaultConfig.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig parses pattern and builds an Engine with config.
//
// Errors are *ConfigError for an invalid config and *syntax.Error for an
// invalid pattern.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.MaxPatternLen > 0 && len(pattern) > config.MaxPatternLen {
		return nil, &syntax.Error{Code: syntax.ErrPatternTooLarge, Expr: pattern}
	}

	re, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		pattern: pattern,
		re:      re,
		config:  config,
	}

	switch config.Strategy {
	case UseLookahead:
		e.lookahead = lookahead.Matcher{TrueNegatedWidth: !config.FixedNegatedWidth}
	default:
		e.nfa = nfa.New(re.Nodes, nfa.Options{FixedNegatedWidth: config.FixedNegatedWidth})
		if config.EnablePrefilter && !re.StartAnchor {
			prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re.Nodes)
			e.prefilter = prefilter.NewBuilder(prefixes).Build()
		}
	}
	return e, nil
}

// Strategy returns the execution strategy selected for this engine.
func (e *Engine) Strategy() Strategy {
	return e.config.Strategy
}

// Pattern returns the source text of the pattern.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Regexp returns the parsed pattern. It must not be modified.
func (e *Engine) Regexp() *syntax.Regexp {
	return e.re
}

// IsStartAnchored returns true if the pattern is anchored at the start (^).
func (e *Engine) IsStartAnchored() bool {
	return e.re.StartAnchor
}

// IsEndAnchored returns true if the pattern is anchored at the end ($).
func (e *Engine) IsEndAnchored() bool {
	return e.re.EndAnchor
}

// Prefilter returns the prefilter in use, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Stats returns a snapshot of the execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("NFA searches:", stats.NFASearches)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:          atomic.LoadUint64(&e.stats.Searches),
		NFASearches:       atomic.LoadUint64(&e.stats.NFASearches),
		LookaheadSearches: atomic.LoadUint64(&e.stats.LookaheadSearches),
		PrefilterHits:     atomic.LoadUint64(&e.stats.PrefilterHits),
		PrefilterMisses:   atomic.LoadUint64(&e.stats.PrefilterMisses),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.NFASearches, 0)
	atomic.StoreUint64(&e.stats.LookaheadSearches, 0)
	atomic.StoreUint64(&e.stats.PrefilterHits, 0)
	atomic.StoreUint64(&e.stats.PrefilterMisses, 0)
}

// IsMatch returns true if the pattern matches anywhere in text.
//
// Example:
//
//	engine, _ := meta.Compile("hello")
//	if engine.IsMatch("say hello world") {
//	    println("matches!")
//	}
func (e *Engine) IsMatch(text string) bool {
	atomic.AddUint64(&e.stats.Searches, 1)
	if e.config.Strategy == UseLookahead {
		_, _, ok := e.searchLookahead(text)
		return ok
	}

	// A complete prefilter candidate is a match on its own.
	if e.prefilter != nil && e.prefilter.IsComplete() && !e.re.EndAnchor {
		if e.prefilter.Find(text, 0) < 0 {
			atomic.AddUint64(&e.stats.PrefilterMisses, 1)
			return false
		}
		atomic.AddUint64(&e.stats.PrefilterHits, 1)
		return true
	}
	return e.matchNFA(text)
}

// Find returns the leftmost match in text, extended as far as possible, or
// nil if there is none.
//
// Example:
//
//	engine, _ := meta.Compile(`\d+`)
//	m := engine.Find("abc 123 def")
//	println(m.Start(), m.End()) // 4, 7
func (e *Engine) Find(text string) *Match {
	atomic.AddUint64(&e.stats.Searches, 1)
	var start, end int
	var ok bool
	if e.config.Strategy == UseLookahead {
		start, end, ok = e.searchLookahead(text)
	} else {
		start, end, ok = e.searchNFA(text)
	}
	if !ok {
		return nil
	}
	return NewMatch(start, end, text)
}

// matchNFA reports whether the NFA matches from any admissible start offset.
// All candidates are evaluated together in one pass over text.
func (e *Engine) matchNFA(text string) bool {
	ascii := e.config.EnableASCIIOptimization && simd.IsASCII(text)
	starts := e.candidates(text, ascii)
	if len(starts) == 0 {
		atomic.AddUint64(&e.stats.PrefilterMisses, 1)
		return false
	}

	atomic.AddUint64(&e.stats.NFASearches, 1)
	ok := e.nfa.MatchAny(text, starts, ascii, e.re.EndAnchor)
	if e.prefilter != nil {
		if ok {
			atomic.AddUint64(&e.stats.PrefilterHits, 1)
		} else {
			atomic.AddUint64(&e.stats.PrefilterMisses, 1)
		}
	}
	return ok
}

// candidates returns the admissible start offsets of text in ascending
// order: offset 0 when anchored, otherwise every prefilter candidate or
// every grapheme boundary.
func (e *Engine) candidates(text string, ascii bool) []int {
	if e.re.StartAnchor {
		return []int{0}
	}
	var starts []int
	for start := 0; start <= len(text); {
		if e.prefilter != nil {
			pos := e.prefilter.Find(text, start)
			if pos < 0 {
				break
			}
			start = pos
		}
		starts = append(starts, start)
		if start == len(text) {
			break
		}
		if ascii {
			start++
		} else {
			start += letter.Width(text[start:])
		}
	}
	return starts
}

// searchNFA tries each admissible start offset in order and returns the
// first one at which the NFA matches.
func (e *Engine) searchNFA(text string) (int, int, bool) {
	ascii := e.config.EnableASCIIOptimization && simd.IsASCII(text)

	start := 0
	for start <= len(text) {
		if e.prefilter != nil {
			pos := e.prefilter.Find(text, start)
			if pos < 0 {
				return 0, 0, false
			}
			start = pos
		}

		atomic.AddUint64(&e.stats.NFASearches, 1)
		end, ok := e.nfa.Match(text, start, ascii, e.re.EndAnchor)
		if ok {
			if e.prefilter != nil {
				atomic.AddUint64(&e.stats.PrefilterHits, 1)
			}
			return start, end, true
		}
		if e.prefilter != nil {
			atomic.AddUint64(&e.stats.PrefilterMisses, 1)
		}

		if e.re.StartAnchor || start == len(text) {
			break
		}
		if ascii {
			start++
		} else {
			start += letter.Width(text[start:])
		}
	}
	return 0, 0, false
}

// searchLookahead runs the lookahead matcher from a single start offset:
// offset 0 when anchored, otherwise the first offset where the first node
// matches.
func (e *Engine) searchLookahead(text string) (int, int, bool) {
	atomic.AddUint64(&e.stats.LookaheadSearches, 1)
	seq := e.re.Nodes

	start := 0
	if !e.re.StartAnchor && len(seq) > 0 {
		pos, ok := e.lookahead.SearchMatchPos(seq[0], text)
		if !ok {
			return 0, 0, false
		}
		start = pos
	}

	size, ok := e.lookahead.SearchMatchSize(seq, text[start:])
	if !ok {
		return 0, 0, false
	}
	end := start + size
	if e.re.EndAnchor && end != len(text) {
		return 0, 0, false
	}
	return start, end, true
}
