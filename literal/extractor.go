package literal

import "github.com/coregx/minire/syntax"

// Config bounds literal extraction.
type Config struct {
	// MaxLiterals caps the size of an extracted Seq. Patterns that would
	// need more literals yield an empty Seq. Default: 64
	MaxLiterals int

	// MaxLiteralLen caps the length in bytes of a single literal. Longer
	// runs are truncated and marked incomplete. Default: 64
	MaxLiteralLen int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
	}
}

// Extractor pulls required prefix literals out of node sequences.
type Extractor struct {
	config Config
}

// New creates an Extractor with the given limits.
func New(config Config) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the set of literals one of which every match of
// nodes must begin with. An empty Seq means no such set exists.
//
// Example:
//
//	re := syntax.MustParse(`(cat|dog)s`)
//	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(re.Nodes)
//	// seq = [literal{cat, complete=false}, literal{dog, complete=false}]
func (e *Extractor) ExtractPrefixes(nodes []*syntax.Node) *Seq {
	if len(nodes) == 0 {
		return NewSeq()
	}

	if prefix, n, truncated := e.literalRun(nodes); n > 0 {
		return NewSeq(NewLiteral(prefix, n == len(nodes) && !truncated))
	}

	first := nodes[0]
	whole := len(nodes) == 1
	var lits []Literal

	switch first.Op {
	case syntax.OpDigit:
		for d := byte('0'); d <= '9'; d++ {
			lits = append(lits, NewLiteral([]byte{d}, whole))
		}

	case syntax.OpPositiveGroup:
		for _, sub := range first.Sub {
			seq := e.ExtractPrefixes([]*syntax.Node{sub})
			if seq.IsEmpty() {
				return NewSeq()
			}
			lits = appendSeq(lits, seq, whole)
		}

	case syntax.OpOneOrMore:
		lits = appendSeq(nil, e.ExtractPrefixes(first.Sub[:1]), false)

	case syntax.OpAlternation:
		for _, br := range first.Branches {
			seq := e.ExtractPrefixes(br)
			if seq.IsEmpty() {
				return NewSeq()
			}
			lits = appendSeq(lits, seq, whole)
		}
	}

	if len(lits) > e.config.MaxLiterals {
		return NewSeq()
	}
	return NewSeq(lits...)
}

// literalRun concatenates the leading OpLiteral nodes of nodes. It returns
// the bytes, the number of nodes consumed, and whether the run was cut at
// MaxLiteralLen.
func (e *Extractor) literalRun(nodes []*syntax.Node) ([]byte, int, bool) {
	var buf []byte
	n := 0
	for _, node := range nodes {
		if node.Op != syntax.OpLiteral {
			break
		}
		if len(buf)+len(node.Lit) > e.config.MaxLiteralLen {
			return buf, n, true
		}
		buf = append(buf, node.Lit...)
		n++
	}
	return buf, n, false
}

// appendSeq appends the literals of seq to lits; a literal stays complete
// only if the enclosing node is the whole pattern.
func appendSeq(lits []Literal, seq *Seq, whole bool) []Literal {
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		lits = append(lits, NewLiteral(lit.Bytes, lit.Complete && whole))
	}
	return lits
}
