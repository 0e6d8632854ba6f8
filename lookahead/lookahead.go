// Package lookahead evaluates pattern nodes with one-node lookahead instead
// of backtracking.
//
// A greedy quantifier cannot know on its own how much input to leave for the
// nodes after it. SearchMatchSize defers a quantifier until the following
// node has located the earliest offset where it can start, and then lets the
// quantifier consume exactly the text before that offset. This handles a
// greedy run followed by a distinguishing node (`g.+gol`, `\w+s`) but is not
// general backtracking: it keeps at most one quantifier pending and commits
// to the first boundary it finds. Use package nfa when exact semantics are
// required.
package lookahead

import (
	"github.com/coregx/minire/internal/letter"
	"github.com/coregx/minire/syntax"
)

// Matcher evaluates nodes against text. The zero value gives negative groups
// their historical one-byte width.
type Matcher struct {
	// TrueNegatedWidth makes a successful negative group consume the full
	// width of the grapheme it matched instead of a single byte.
	TrueNegatedWidth bool
}

// MatchSize reports how many bytes n consumes when matched against a prefix
// of text.
func (m Matcher) MatchSize(n *syntax.Node, text string) (int, bool) {
	switch n.Op {
	case syntax.OpLiteral, syntax.OpDigit, syntax.OpAlphaNumeric, syntax.OpWildcard:
		g := letter.First(text)
		if g == "" || !unitMatches(n, g) {
			return 0, false
		}
		return len(g), true

	case syntax.OpPositiveGroup:
		for _, sub := range n.Sub {
			if size, ok := m.MatchSize(sub, text); ok {
				return size, true
			}
		}
		return 0, false

	case syntax.OpNegativeGroup:
		if text == "" {
			return 0, false
		}
		for _, sub := range n.Sub {
			if _, ok := m.MatchSize(sub, text); ok {
				return 0, false
			}
		}
		if m.TrueNegatedWidth {
			return letter.Width(text), true
		}
		return 1, true

	case syntax.OpZeroOrMore:
		return m.repeat(n.Sub[0], text, 0), true

	case syntax.OpOneOrMore:
		size, ok := m.MatchSize(n.Sub[0], text)
		if !ok {
			return 0, false
		}
		return m.repeat(n.Sub[0], text, size), true

	case syntax.OpZeroOrOne:
		size, _ := m.MatchSize(n.Sub[0], text)
		return size, true

	case syntax.OpAlternation:
		for _, br := range n.Branches {
			if size, ok := m.SearchMatchSize(br, text); ok {
				return size, true
			}
		}
		return 0, false
	}
	return 0, false
}

// repeat applies inner from offset acc until it fails or stops advancing.
func (m Matcher) repeat(inner *syntax.Node, text string, acc int) int {
	for acc <= len(text) {
		size, ok := m.MatchSize(inner, text[acc:])
		if !ok || size == 0 {
			break
		}
		acc += size
	}
	return acc
}

// SearchMatchPos returns the first offset, scanning one grapheme at a time,
// at which n matches. The empty tail of text is tried last.
func (m Matcher) SearchMatchPos(n *syntax.Node, text string) (int, bool) {
	pos := 0
	for {
		if _, ok := m.MatchSize(n, text[pos:]); ok {
			return pos, true
		}
		if pos >= len(text) {
			return 0, false
		}
		pos += letter.Width(text[pos:])
	}
}

// SearchMatchSize matches seq against a prefix of text and reports the
// number of bytes consumed.
//
// A quantifier is deferred until the next non-quantifier node has found its
// earliest start; the quantifier is then re-evaluated against the text up to
// that start. If a second quantifier arrives while one is pending, the
// pending one is resolved greedily first.
func (m Matcher) SearchMatchSize(seq []*syntax.Node, text string) (int, bool) {
	cur := 0
	var pending *syntax.Node

	for _, n := range seq {
		if cur > len(text) {
			return 0, false
		}

		if n.Op.IsQuantifier() {
			if pending != nil {
				size, ok := m.MatchSize(pending, text[cur:])
				if !ok {
					return 0, false
				}
				cur += size
			}
			pending = n
			continue
		}

		if pending != nil {
			rest := text[cur:]
			pos, ok := m.SearchMatchPos(n, rest)
			if !ok {
				return 0, false
			}
			size, ok := m.MatchSize(pending, rest[:pos])
			if !ok {
				return 0, false
			}
			cur += size
			pending = nil
		}

		size, ok := m.MatchSize(n, text[cur:])
		if !ok {
			return 0, false
		}
		cur += size
	}

	if pending != nil {
		if cur > len(text) {
			return 0, false
		}
		size, ok := m.MatchSize(pending, text[cur:])
		if !ok {
			return 0, false
		}
		cur += size
	}
	return cur, true
}

func unitMatches(n *syntax.Node, g string) bool {
	switch n.Op {
	case syntax.OpLiteral:
		return g == n.Lit
	case syntax.OpDigit:
		return len(g) == 1 && isDigit(g[0])
	case syntax.OpAlphaNumeric:
		return len(g) == 1 && isWord(g[0])
	case syntax.OpWildcard:
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isWord(b byte) bool {
	return isDigit(b) || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}
