// Package syntax parses patterns into a tree of matching nodes.
//
// The supported syntax is deliberately small:
//
//	c        literal grapheme
//	\d       ASCII digit
//	\w       ASCII letter, digit or underscore
//	\c       literal metacharacter c
//	.        any grapheme
//	[...]    positive group (groups may nest)
//	[^...]   negative group
//	x+ x* x? greedy repetition of the preceding node
//	(a|b)    alternation of node sequences
//	^ $      start and end anchors on the whole pattern
//
// Parse walks the pattern once, left to right, and never re-reads pattern
// text. The resulting tree is immutable: every parent owns its children and
// no node is shared between parents.
package syntax

import (
	"strconv"
	"strings"
)

// Op identifies the kind of a Node.
type Op uint8

const (
	// OpLiteral matches exactly the grapheme in Node.Lit.
	OpLiteral Op = iota + 1
	// OpDigit matches one ASCII digit.
	OpDigit
	// OpAlphaNumeric matches one ASCII letter, digit or underscore.
	OpAlphaNumeric
	// OpWildcard matches any one grapheme.
	OpWildcard
	// OpPositiveGroup matches if any node in Node.Sub matches.
	OpPositiveGroup
	// OpNegativeGroup matches one grapheme if no node in Node.Sub matches.
	OpNegativeGroup
	// OpZeroOrMore repeats Node.Sub[0] greedily, zero or more times.
	OpZeroOrMore
	// OpOneOrMore repeats Node.Sub[0] greedily, one or more times.
	OpOneOrMore
	// OpZeroOrOne matches Node.Sub[0] optionally.
	OpZeroOrOne
	// OpAlternation matches if any sequence in Node.Branches matches.
	OpAlternation
)

var opNames = [...]string{
	OpLiteral:       "Literal",
	OpDigit:         "Digit",
	OpAlphaNumeric:  "AlphaNumeric",
	OpWildcard:      "Wildcard",
	OpPositiveGroup: "PositiveGroup",
	OpNegativeGroup: "NegativeGroup",
	OpZeroOrMore:    "ZeroOrMore",
	OpOneOrMore:     "OneOrMore",
	OpZeroOrOne:     "ZeroOrOne",
	OpAlternation:   "Alternation",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// IsQuantifier reports whether op repeats its single child.
func (op Op) IsQuantifier() bool {
	return op == OpZeroOrMore || op == OpOneOrMore || op == OpZeroOrOne
}

// Node is one element of a parsed pattern.
type Node struct {
	Op Op

	// Lit is the grapheme matched by OpLiteral.
	Lit string

	// Sub holds group members, or the single repeated node of a quantifier.
	Sub []*Node

	// Branches holds the alternatives of OpAlternation.
	Branches [][]*Node
}

// Literal returns a node matching exactly the grapheme g.
func Literal(g string) *Node { return &Node{Op: OpLiteral, Lit: g} }

// Quantify wraps n in the quantifier op.
func Quantify(op Op, n *Node) *Node { return &Node{Op: op, Sub: []*Node{n}} }

// Equal reports whether n and m describe the same tree.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.Op != m.Op || n.Lit != m.Lit {
		return false
	}
	if !EqualSeq(n.Sub, m.Sub) || len(n.Branches) != len(m.Branches) {
		return false
	}
	for i := range n.Branches {
		if !EqualSeq(n.Branches[i], m.Branches[i]) {
			return false
		}
	}
	return true
}

// EqualSeq reports whether two node sequences are element-wise Equal.
func EqualSeq(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders n back to pattern syntax.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Op {
	case OpLiteral:
		if len(n.Lit) == 1 && strings.IndexByte(metachars, n.Lit[0]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteString(n.Lit)
	case OpDigit:
		b.WriteString(`\d`)
	case OpAlphaNumeric:
		b.WriteString(`\w`)
	case OpWildcard:
		b.WriteByte('.')
	case OpPositiveGroup, OpNegativeGroup:
		b.WriteByte('[')
		if n.Op == OpNegativeGroup {
			b.WriteByte('^')
		}
		writeSeq(b, n.Sub)
		b.WriteByte(']')
	case OpZeroOrMore, OpOneOrMore, OpZeroOrOne:
		n.Sub[0].write(b)
		b.WriteByte(quantifierByte(n.Op))
	case OpAlternation:
		b.WriteByte('(')
		for i, br := range n.Branches {
			if i > 0 {
				b.WriteByte('|')
			}
			writeSeq(b, br)
		}
		b.WriteByte(')')
	}
}

func writeSeq(b *strings.Builder, seq []*Node) {
	for _, n := range seq {
		n.write(b)
	}
}

func quantifierByte(op Op) byte {
	switch op {
	case OpZeroOrMore:
		return '*'
	case OpOneOrMore:
		return '+'
	default:
		return '?'
	}
}

// SeqString renders a node sequence back to pattern syntax.
func SeqString(seq []*Node) string {
	var b strings.Builder
	writeSeq(&b, seq)
	return b.String()
}

// CountNodes returns the number of nodes in seq, descendants included.
func CountNodes(seq []*Node) int {
	total := 0
	for _, n := range seq {
		total++
		total += CountNodes(n.Sub)
		for _, br := range n.Branches {
			total += CountNodes(br)
		}
	}
	return total
}

// Regexp is a parsed pattern: anchor flags plus the top-level node sequence.
type Regexp struct {
	StartAnchor bool
	EndAnchor   bool
	Nodes       []*Node
}

// String renders re back to pattern syntax, anchors included.
func (re *Regexp) String() string {
	var b strings.Builder
	if re.StartAnchor {
		b.WriteByte('^')
	}
	writeSeq(&b, re.Nodes)
	if re.EndAnchor {
		b.WriteByte('$')
	}
	return b.String()
}
