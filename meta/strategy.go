package meta

import (
	"strconv"
	"strings"
)

// Strategy represents the matcher used to evaluate a pattern.
type Strategy int

const (
	// UseNFA simulates every alternative of the pattern at once from every
	// admissible start offset. It gives exact results for all supported
	// syntax in polynomial time.
	UseNFA Strategy = iota

	// UseLookahead uses the limited-lookahead matcher:
	//   - The start offset is the first place the first node matches
	//   - Only that one start offset is tried
	//   - Quantifiers commit to the first boundary the next node finds
	//
	// Patterns such as `a*ab` against "aaab" do not match under this
	// strategy. See LookaheadConfig for where it departs from older tools.
	UseLookahead
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UseLookahead:
		return "UseLookahead"
	default:
		return "Unknown"
	}
}

// ParseStrategy converts a short name ("nfa" or "lookahead", any case) to a
// Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "nfa":
		return UseNFA, nil
	case "lookahead":
		return UseLookahead, nil
	}
	return 0, &ConfigError{
		Field:   "Strategy",
		Message: "unknown strategy " + strconv.Quote(name) + " (want nfa or lookahead)",
	}
}
