// Package meta implements the engine that sits between the public API and
// the matchers.
//
// The engine coordinates:
//   - Anchors: a start anchor pins the search to offset 0, an end anchor
//     requires the match to reach the end of the text
//   - Prefilter: fast literal-based candidate finding (optional)
//   - Matcher: the position-set NFA (default) or the limited-lookahead
//     matcher kept for compatibility
//
// The meta-engine provides the public API for pattern compilation and
// matching, hiding the choice of matcher from users.
package meta

import "strconv"

// Config controls engine behavior.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // verify every start offset
//	engine, err := meta.CompileWithConfig(`\d+`, config)
type Config struct {
	// Strategy selects the matcher.
	// Default: UseNFA
	Strategy Strategy

	// EnablePrefilter enables literal-based prefiltering of start offsets.
	// Only used with UseNFA and patterns without a start anchor.
	// Default: true
	EnablePrefilter bool

	// EnableASCIIOptimization checks each input for ASCII-only content. If it
	// is, the matcher steps one byte at a time without decoding graphemes.
	// Default: true
	EnableASCIIOptimization bool

	// FixedNegatedWidth makes a negative group consume a single byte instead
	// of the full grapheme it matched. This reproduces the historical
	// behavior of the lookahead matcher.
	// Default: false
	FixedNegatedWidth bool

	// MaxPatternLen rejects longer patterns at compile time. Zero means no
	// limit.
	// Default: 64 KiB
	MaxPatternLen int
}

// maxPatternLenLimit caps MaxPatternLen.
const maxPatternLenLimit = 1 << 24

// DefaultConfig returns a configuration using the NFA matcher with every
// optimization enabled.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.Strategy = meta.UseLookahead
func DefaultConfig() Config {
	return Config{
		Strategy:                UseNFA,
		EnablePrefilter:         true,
		EnableASCIIOptimization: true,
		MaxPatternLen:           64 << 10,
	}
}

// LookaheadConfig returns a configuration close to the historical matcher:
// a single start attempt, deferred quantifiers and one-byte negative groups.
//
// It differs in two places. A quantifier still pending when the next one
// arrives is resolved greedily rather than discarded, so `a*b*c` matches
// "aac". An empty pattern matches every line instead of none.
func LookaheadConfig() Config {
	config := DefaultConfig()
	config.Strategy = UseLookahead
	config.EnablePrefilter = false
	config.FixedNegatedWidth = true
	return config
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - Strategy: UseNFA or UseLookahead
//   - MaxPatternLen: 0 to 16 MiB
func (c Config) Validate() error {
	if c.Strategy != UseNFA && c.Strategy != UseLookahead {
		return &ConfigError{
			Field:   "Strategy",
			Message: "unknown strategy " + strconv.Itoa(int(c.Strategy)),
		}
	}
	if c.MaxPatternLen < 0 || c.MaxPatternLen > maxPatternLenLimit {
		return &ConfigError{
			Field:   "MaxPatternLen",
			Message: "must be between 0 and 16,777,216",
		}
	}
	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
