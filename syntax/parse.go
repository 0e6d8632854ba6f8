package syntax

import (
	"strings"

	"github.com/coregx/minire/internal/letter"
)

// metachars lists the bytes with special meaning somewhere in a pattern.
const metachars = `\.+*?()|[]^$`

type scope uint8

const (
	scopeTop scope = iota
	scopeGroup
	scopeBranch
)

type parser struct {
	body string
	cur  *letter.Cursor
}

// Parse parses expr into a Regexp.
//
// A leading ^ and an unescaped trailing $ are removed before parsing and
// recorded as anchor flags. A top-level | splits the whole body into an
// alternation. Parse fails with an *Error unless the entire pattern is
// consumed.
func Parse(expr string) (*Regexp, error) {
	body, start, end := stripAnchors(expr)
	p := &parser{body: body, cur: letter.New(body)}

	var branches [][]*Node
	for {
		seq, term, err := p.parseSeq(scopeTop, 0)
		if err != nil {
			return nil, err
		}
		branches = append(branches, seq)
		if term != '|' {
			break
		}
	}

	re := &Regexp{StartAnchor: start, EndAnchor: end, Nodes: branches[0]}
	if len(branches) > 1 {
		re.Nodes = []*Node{{Op: OpAlternation, Branches: branches}}
	}
	return re, nil
}

// MustParse is like Parse but panics if expr cannot be parsed.
func MustParse(expr string) *Regexp {
	re, err := Parse(expr)
	if err != nil {
		panic("syntax: Parse(`" + expr + "`): " + err.Error())
	}
	return re
}

func stripAnchors(expr string) (body string, start, end bool) {
	if strings.HasPrefix(expr, "^") {
		start = true
		expr = expr[1:]
	}
	if strings.HasSuffix(expr, "$") && !escaped(expr, len(expr)-1) {
		end = true
		expr = expr[:len(expr)-1]
	}
	return expr, start, end
}

// escaped reports whether the byte at i is preceded by an odd run of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// parseSeq parses nodes until the terminator of sc. It returns the sequence
// and the terminator byte, or 0 at the end of a top-level body. open is the
// offset of the delimiter that opened sc.
func (p *parser) parseSeq(sc scope, open int) ([]*Node, byte, error) {
	var seq []*Node
	for {
		at := p.cur.Pos()
		g, ok := p.cur.Next()
		if !ok {
			switch sc {
			case scopeGroup:
				return nil, 0, &Error{Code: ErrMissingBracket, Expr: p.body[open:]}
			case scopeBranch:
				return nil, 0, &Error{Code: ErrMissingParen, Expr: p.body[open:]}
			}
			return seq, 0, nil
		}

		switch g {
		case `\`:
			n, err := p.parseEscape()
			if err != nil {
				return nil, 0, err
			}
			seq = append(seq, n)
		case ".":
			seq = append(seq, &Node{Op: OpWildcard})
		case "[":
			n, err := p.parseGroup(at)
			if err != nil {
				return nil, 0, err
			}
			seq = append(seq, n)
		case "]":
			if sc == scopeGroup {
				return seq, ']', nil
			}
			return nil, 0, &Error{Code: ErrUnexpectedBracket, Expr: p.body}
		case "(":
			if sc == scopeGroup {
				seq = append(seq, Literal(g))
				continue
			}
			n, err := p.parseAlternation(at)
			if err != nil {
				return nil, 0, err
			}
			seq = append(seq, n)
		case ")":
			switch sc {
			case scopeBranch:
				return seq, ')', nil
			case scopeGroup:
				seq = append(seq, Literal(g))
				continue
			}
			return nil, 0, &Error{Code: ErrUnexpectedParen, Expr: p.body}
		case "|":
			if sc == scopeGroup {
				seq = append(seq, Literal(g))
				continue
			}
			return seq, '|', nil
		case "*", "+", "?":
			if len(seq) == 0 {
				return nil, 0, &Error{Code: ErrMissingRepeatArgument, Expr: g}
			}
			last := len(seq) - 1
			seq[last] = Quantify(quantifierOp(g), seq[last])
		default:
			seq = append(seq, Literal(g))
		}
	}
}

func (p *parser) parseEscape() (*Node, error) {
	e, ok := p.cur.Next()
	if !ok {
		return nil, &Error{Code: ErrTrailingBackslash, Expr: `\`}
	}
	switch e {
	case "d":
		return &Node{Op: OpDigit}, nil
	case "w":
		return &Node{Op: OpAlphaNumeric}, nil
	}
	if len(e) == 1 && isPunct(e[0]) {
		return Literal(e), nil
	}
	return nil, &Error{Code: ErrInvalidEscape, Expr: `\` + e}
}

func (p *parser) parseGroup(open int) (*Node, error) {
	op := OpPositiveGroup
	if strings.HasPrefix(p.cur.Tail(), "^") {
		p.cur.Next()
		op = OpNegativeGroup
	}
	sub, _, err := p.parseSeq(scopeGroup, open)
	if err != nil {
		return nil, err
	}
	return &Node{Op: op, Sub: sub}, nil
}

func (p *parser) parseAlternation(open int) (*Node, error) {
	n := &Node{Op: OpAlternation}
	for {
		seq, term, err := p.parseSeq(scopeBranch, open)
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, seq)
		if term == ')' {
			return n, nil
		}
	}
}

func quantifierOp(g string) Op {
	switch g {
	case "*":
		return OpZeroOrMore
	case "+":
		return OpOneOrMore
	default:
		return OpZeroOrOne
	}
}

// isPunct reports whether b is printable ASCII punctuation, which may be
// escaped to stand for itself.
func isPunct(b byte) bool {
	switch {
	case b <= ' ' || b >= 0x7f:
		return false
	case '0' <= b && b <= '9', 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z':
		return false
	}
	return true
}
