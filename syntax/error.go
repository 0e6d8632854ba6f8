package syntax

import "errors"

// ErrInvalidPattern matches every *Error through errors.Is.
var ErrInvalidPattern = errors.New("invalid pattern")

// ErrorCode describes a failure to parse a pattern.
type ErrorCode string

const (
	ErrInvalidEscape         ErrorCode = "invalid escape sequence"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrTrailingBackslash     ErrorCode = "trailing backslash at end of expression"
	ErrUnexpectedBracket     ErrorCode = "unexpected ]"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrPatternTooLarge       ErrorCode = "expression too large"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is returned when a pattern cannot be parsed completely.
type Error struct {
	Code ErrorCode
	Expr string // offending part of the pattern
}

func (e *Error) Error() string {
	return "error parsing regexp: " + e.Code.String() + ": `" + e.Expr + "`"
}

// Is reports whether target is ErrInvalidPattern or an *Error with the same Code.
func (e *Error) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
