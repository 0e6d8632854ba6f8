// Package nfa matches a node sequence by simulating every alternative at
// once.
//
// Instead of committing to one choice per quantifier and backtracking, the
// simulation carries the set of all offsets the sequence can have reached
// after each node, and every node consumes a whole set at a time. Groups and
// alternations take the union of their members, and repetition takes the
// closure of its inner node, feeding each newly reached offset back through
// it once. Directly nested quantifiers such as (a*)* are collapsed when the
// NFA is built.
//
// A node without repetition inside a repetition costs O(len(text)) per
// visit, so most patterns run in O(nodes × len(text)) per search. Search
// time is polynomial for every pattern and never exponential.
package nfa

import (
	"sync"

	"github.com/coregx/minire/internal/letter"
	"github.com/coregx/minire/internal/sparse"
	"github.com/coregx/minire/syntax"
)

// Options tunes node semantics.
type Options struct {
	// FixedNegatedWidth makes a negative group consume one byte instead of
	// the full width of the grapheme it matched.
	FixedNegatedWidth bool
}

// NFA is a compiled node sequence. It is immutable and safe for concurrent
// use; per-search scratch state is pooled.
type NFA struct {
	seq  []*syntax.Node
	opts Options
	pool sync.Pool
}

// New returns an NFA for seq. seq is copied where nested quantifiers are
// collapsed; leaf nodes are shared and must not be modified afterwards.
func New(seq []*syntax.Node, opts Options) *NFA {
	n := &NFA{seq: simplifySeq(seq), opts: opts}
	n.pool.New = func() any { return &searcher{} }
	return n
}

// Ends returns, in ascending order, every offset at which a match of the
// sequence starting at start can end.
//
// When ascii is true the caller guarantees text holds only ASCII bytes and
// grapheme decoding is skipped.
func (n *NFA) Ends(text string, start int, ascii bool) []int {
	s := n.acquire(text, ascii)
	defer n.release(s)

	out := s.run(n.seq, start)
	ends := make([]int, 0, out.Len())
	for p := 0; p <= len(text); p++ {
		if out.Contains(p) {
			ends = append(ends, p)
		}
	}
	s.put(out)
	return ends
}

// Match reports whether the sequence matches text starting at start.
// It returns the longest end offset; with anchorEnd only a match ending at
// len(text) counts.
func (n *NFA) Match(text string, start int, ascii, anchorEnd bool) (int, bool) {
	s := n.acquire(text, ascii)
	defer n.release(s)

	out := s.run(n.seq, start)
	defer s.put(out)
	if anchorEnd {
		return len(text), out.Contains(len(text))
	}
	if out.IsEmpty() {
		return 0, false
	}
	return out.Max(), true
}

// MatchAny reports whether the sequence matches text starting at any of
// starts, evaluating all of them in a single pass. With anchorEnd only a
// match ending at len(text) counts. starts must lie within [0, len(text)].
func (n *NFA) MatchAny(text string, starts []int, ascii, anchorEnd bool) bool {
	if len(starts) == 0 {
		return false
	}
	s := n.acquire(text, ascii)
	defer n.release(s)

	out := s.run(n.seq, starts...)
	defer s.put(out)
	if anchorEnd {
		return out.Contains(len(text))
	}
	return !out.IsEmpty()
}

func (n *NFA) acquire(text string, ascii bool) *searcher {
	s := n.pool.Get().(*searcher)
	s.reset(text, ascii, n.opts)
	return s
}

func (n *NFA) release(s *searcher) {
	s.text = ""
	n.pool.Put(s)
}

// searcher holds the mutable state of one search.
type searcher struct {
	text  string
	ascii bool
	opts  Options
	free  []*sparse.Set
}

func (s *searcher) reset(text string, ascii bool, opts Options) {
	s.text = text
	s.ascii = ascii
	s.opts = opts
	kept := s.free[:0]
	for _, set := range s.free {
		if set.Cap() >= len(text)+1 {
			kept = append(kept, set)
		}
	}
	s.free = kept
}

func (s *searcher) get() *sparse.Set {
	if k := len(s.free); k > 0 {
		set := s.free[k-1]
		s.free = s.free[:k-1]
		set.Clear()
		return set
	}
	return sparse.NewSet(len(s.text) + 1)
}

func (s *searcher) put(set *sparse.Set) {
	if set.Cap() >= len(s.text)+1 {
		s.free = append(s.free, set)
	}
}

// run returns the set of end offsets of seq started at any offset in
// starts. The caller owns the returned set.
func (s *searcher) run(seq []*syntax.Node, starts ...int) *sparse.Set {
	in := s.get()
	for _, p := range starts {
		in.Insert(p)
	}
	out := s.get()
	s.seq(seq, in, out)
	s.put(in)
	return out
}

// seq inserts into out the end offsets of nodes for every start offset in in.
func (s *searcher) seq(nodes []*syntax.Node, in, out *sparse.Set) {
	cur := s.get()
	copyInto(cur, in)
	for _, n := range nodes {
		next := s.get()
		s.eval(n, cur, next)
		s.put(cur)
		cur = next
		if cur.IsEmpty() {
			break
		}
	}
	copyInto(out, cur)
	s.put(cur)
}

// eval inserts into out every offset where n can end when started at any
// offset in in. in and out must be distinct sets.
func (s *searcher) eval(n *syntax.Node, in, out *sparse.Set) {
	switch n.Op {
	case syntax.OpLiteral, syntax.OpDigit, syntax.OpAlphaNumeric, syntax.OpWildcard:
		for i := 0; i < in.Len(); i++ {
			p := in.At(i)
			if w := s.unit(n, p); w > 0 {
				out.Insert(p + w)
			}
		}

	case syntax.OpPositiveGroup:
		for _, sub := range n.Sub {
			s.eval(sub, in, out)
		}

	case syntax.OpNegativeGroup:
		for i := 0; i < in.Len(); i++ {
			p := in.At(i)
			if p >= len(s.text) || s.anyAccepts(n.Sub, p) {
				continue
			}
			w := 1
			if !s.opts.FixedNegatedWidth {
				w = s.width(p)
			}
			out.Insert(p + w)
		}

	case syntax.OpZeroOrOne:
		copyInto(out, in)
		s.eval(n.Sub[0], in, out)

	case syntax.OpZeroOrMore:
		copyInto(out, in)
		s.closure(n.Sub[0], in, out)

	case syntax.OpOneOrMore:
		s.closure(n.Sub[0], in, out)

	case syntax.OpAlternation:
		for _, br := range n.Branches {
			s.seq(br, in, out)
		}
	}
}

// anyAccepts reports whether some node of members matches at p.
func (s *searcher) anyAccepts(members []*syntax.Node, p int) bool {
	at := s.get()
	at.Insert(p)
	probe := s.get()
	matched := false
	for _, sub := range members {
		s.eval(sub, at, probe)
		if !probe.IsEmpty() {
			matched = true
			break
		}
	}
	s.put(probe)
	s.put(at)
	return matched
}

// closure inserts into out every offset reachable from in by one or more
// iterations of inner. Each reached offset is fed back through inner exactly
// once, so iterations that match the empty string terminate and the work of
// a round is proportional to the offsets it discovered.
func (s *searcher) closure(inner *syntax.Node, in, out *sparse.Set) {
	reached := s.get()
	s.eval(inner, in, reached)

	frontier := s.get()
	next := s.get()
	for done := 0; done < reached.Len(); {
		frontier.Clear()
		for ; done < reached.Len(); done++ {
			frontier.Insert(reached.At(done))
		}
		next.Clear()
		s.eval(inner, frontier, next)
		copyInto(reached, next)
	}
	copyInto(out, reached)

	s.put(next)
	s.put(frontier)
	s.put(reached)
}

func copyInto(dst, src *sparse.Set) {
	for i := 0; i < src.Len(); i++ {
		dst.Insert(src.At(i))
	}
}

// simplifySeq returns a copy of seq with every node passed through simplify.
func simplifySeq(seq []*syntax.Node) []*syntax.Node {
	out := make([]*syntax.Node, len(seq))
	for i, n := range seq {
		out[i] = simplify(n)
	}
	return out
}

// simplify collapses directly nested quantifiers into one: (x*)*, (x+)*,
// (x*)+, (x?)*, (x?)+, (x*)? and (x+)? all become x*, while (x+)+ and (x?)?
// keep their operator. A parenthesized single node is unwrapped first, so
// (a*)* collapses too. The input tree is not modified.
func simplify(n *syntax.Node) *syntax.Node {
	switch n.Op {
	case syntax.OpPositiveGroup, syntax.OpNegativeGroup:
		return &syntax.Node{Op: n.Op, Sub: simplifySeq(n.Sub)}

	case syntax.OpAlternation:
		if len(n.Branches) == 1 && len(n.Branches[0]) == 1 {
			return simplify(n.Branches[0][0])
		}
		branches := make([][]*syntax.Node, len(n.Branches))
		for i, br := range n.Branches {
			branches[i] = simplifySeq(br)
		}
		return &syntax.Node{Op: n.Op, Branches: branches}

	case syntax.OpZeroOrMore, syntax.OpOneOrMore, syntax.OpZeroOrOne:
		inner := simplify(n.Sub[0])
		if !inner.Op.IsQuantifier() {
			return syntax.Quantify(n.Op, inner)
		}
		op := n.Op
		if op != inner.Op {
			op = syntax.OpZeroOrMore
		}
		return syntax.Quantify(op, inner.Sub[0])
	}
	return n
}

// unit returns the width of the grapheme at p if n accepts it, else 0.
func (s *searcher) unit(n *syntax.Node, p int) int {
	if p >= len(s.text) {
		return 0
	}
	w := s.width(p)
	g := s.text[p : p+w]
	switch n.Op {
	case syntax.OpLiteral:
		if g == n.Lit {
			return w
		}
	case syntax.OpDigit:
		if w == 1 && '0' <= g[0] && g[0] <= '9' {
			return w
		}
	case syntax.OpAlphaNumeric:
		if w == 1 && isWord(g[0]) {
			return w
		}
	case syntax.OpWildcard:
		return w
	}
	return 0
}

func (s *searcher) width(p int) int {
	if s.ascii {
		return 1
	}
	return letter.Width(s.text[p:])
}

func isWord(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}
