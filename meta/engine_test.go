package meta

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/minire/syntax"
)

func TestIsMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"abc", "xxabcxx", true},
		{"abc", "ab", false},
		{`\d`, "a1", true},
		{`\d`, "abc", false},
		{"[abc]", "xxc", true},
		{"[abc]", "xyz", false},
		{"[^abc]", "abcd", true},
		{"[^abc]", "cab", false},
		{"[^abc]", "", false},
		{"^log", "logs", true},
		{"^log", "slog", false},
		{"dog$", "dog", true},
		{"dog$", "dogs", false},
		{"dog$", "hotdog", true},
		{"dog$", "dog dogs", false},
		{"^dog$", "dog", true},
		{"^dog$", "dogdog", false},
		{"dogs?", "dog", true},
		{"dogs?", "dogs", true},
		{"dogs?", "cat", false},
		{"(cat|dog)", "dog", true},
		{"(cat|dog)", "cat", true},
		{"(cat|dog)", "dig", false},
		{"(cat|dog)s", "hotdogs", true},
		{".", "🌏", true},
		{".", "", false},
		{"", "", true},
		{"", "anything", true},
		{"^$", "", true},
		{"^$", "x", false},
		{"a*ab", "aaab", true},
		{"(a|ab)c", "abc", true},
		{`\w+s`, "cats", true},
		{"g.+gol", "goøö0Ogol", true},
		{"g.+gol", "gol", false},
		{`^\d+ apples?$`, "12 apple", true},
		{`^\d+ apples?$`, "12 apples!", false},
		{"ø+", "xxøø", true},
		{`\$`, "cost $5", true},
		{`5\$`, "5$", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			engine, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if got := engine.IsMatch(tt.input); got != tt.want {
				t.Errorf("IsMatch(%q) = %v, want %v", tt.input, got, tt.want)
			}
			// Find must agree with IsMatch
			if got := engine.Find(tt.input) != nil; got != tt.want {
				t.Errorf("Find(%q) != nil = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsMatchWithoutOptimizations(t *testing.T) {
	config := DefaultConfig()
	config.EnablePrefilter = false
	config.EnableASCIIOptimization = false

	inputs := []string{"", "abc", "hello world", "🌏 dog", "x1y2", "aaab", "cat$"}
	patterns := []string{"hello", "[abc]", `\d+`, "(cat|dog)", "a*ab", "o.", "^a", "t$", `\w`}

	for _, pattern := range patterns {
		fast, err := Compile(pattern)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", pattern, err)
		}
		slow, err := CompileWithConfig(pattern, config)
		if err != nil {
			t.Fatalf("CompileWithConfig(%q) error: %v", pattern, err)
		}
		for _, input := range inputs {
			if fast.IsMatch(input) != slow.IsMatch(input) {
				t.Errorf("pattern %q input %q: optimized=%v plain=%v",
					pattern, input, fast.IsMatch(input), slow.IsMatch(input))
			}
		}
	}
}

func TestLiteralMatchesContains(t *testing.T) {
	inputs := []string{"", "a", "ab", "ba", "abab", "xxab", "aab", "héllo", "🌏🌏", "a🌏b"}
	patterns := []string{"a", "ab", "aab", "héllo", "🌏", "🌏b", "bab"}

	for _, p := range patterns {
		engine, err := Compile(p)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", p, err)
		}
		for _, s := range inputs {
			if got, want := engine.IsMatch(s), strings.Contains(s, p); got != want {
				t.Errorf("Compile(%q).IsMatch(%q) = %v, want %v", p, s, got, want)
			}
		}
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		pattern    string
		input      string
		start, end int
	}{
		{`\d+`, "abc 123 def", 4, 7},
		{".", "🌏", 0, 4},
		{"[^a]", "🌏", 0, 4},
		{"a*ab", "aaab", 0, 4},
		{"(cat|dog)s?", "hotdogs!", 3, 7},
		{"b*", "abc", 0, 0},
		{"x*$", "abxx", 2, 4},
		{"^", "abc", 0, 0},
		{"(bird|cat)", "🌏🌏 a bird", 11, 15},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			engine, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			m := engine.Find(tt.input)
			if m == nil {
				t.Fatalf("Find(%q) = nil, want [%d, %d]", tt.input, tt.start, tt.end)
			}
			if m.Start() != tt.start || m.End() != tt.end {
				t.Errorf("Find(%q) = [%d, %d], want [%d, %d]", tt.input, m.Start(), m.End(), tt.start, tt.end)
			}
			if m.String() != tt.input[tt.start:tt.end] {
				t.Errorf("String() = %q, want %q", m.String(), tt.input[tt.start:tt.end])
			}
			if m.Len() != tt.end-tt.start || m.IsEmpty() != (tt.start == tt.end) {
				t.Errorf("Len() = %d, IsEmpty() = %v", m.Len(), m.IsEmpty())
			}
		})
	}
}

func TestLookaheadStrategy(t *testing.T) {
	tests := []struct {
		pattern    string
		input      string
		start, end int
		want       bool
	}{
		{"a*b", "aaab", 0, 4, true},
		{`\w+s`, "cats", 0, 4, true},
		{"g.+gol", "goøö0Ogol", 0, 11, true},
		{"(cat|dog)", "hotdog", 3, 6, true},
		{"dog$", "dog", 0, 3, true},
		{"dog$", "dogs", 0, 0, false},
		{"^log", "slog", 0, 0, false},
		{"[^a]", "🌏", 0, 1, true},
		// commits to the first boundary
		{"a*ab", "aaab", 0, 0, false},
		// single start attempt
		{"ab", "aab", 0, 0, false},
		// a pending quantifier is resolved before the next one is deferred
		{"a*b*c", "aac", 0, 3, true},
		{"", "xyz", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			engine, err := CompileWithConfig(tt.pattern, LookaheadConfig())
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if engine.Strategy() != UseLookahead {
				t.Fatalf("Strategy() = %s, want UseLookahead", engine.Strategy())
			}
			if got := engine.IsMatch(tt.input); got != tt.want {
				t.Fatalf("IsMatch(%q) = %v, want %v", tt.input, got, tt.want)
			}
			m := engine.Find(tt.input)
			if !tt.want {
				if m != nil {
					t.Errorf("Find(%q) = [%d, %d], want nil", tt.input, m.Start(), m.End())
				}
				return
			}
			if m == nil || m.Start() != tt.start || m.End() != tt.end {
				t.Errorf("Find(%q) = %v, want [%d, %d]", tt.input, m, tt.start, tt.end)
			}
		})
	}
}

func TestFixedNegatedWidth(t *testing.T) {
	config := DefaultConfig()
	config.FixedNegatedWidth = true
	engine, err := CompileWithConfig("^[^a]$", config)
	if err != nil {
		t.Fatal(err)
	}
	if engine.IsMatch("🌏") {
		t.Error("one-byte negative group should not reach the end of a 4-byte grapheme")
	}

	engine, err = Compile("^[^a]$")
	if err != nil {
		t.Fatal(err)
	}
	if !engine.IsMatch("🌏") {
		t.Error("negative group should consume the whole grapheme")
	}
}

func TestPrefilterSelection(t *testing.T) {
	tests := []struct {
		pattern string
		config  Config
		want    string
	}{
		{"hello", DefaultConfig(), "Memmem"},
		{"h", DefaultConfig(), "Memchr"},
		{"(cat|dog|bird)", DefaultConfig(), "AhoCorasick"},
		{"^hello", DefaultConfig(), ""},
		{`\w+`, DefaultConfig(), ""},
		{"hello", LookaheadConfig(), ""},
	}

	for _, tt := range tests {
		engine, err := CompileWithConfig(tt.pattern, tt.config)
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
		}
		got := ""
		if pf := engine.Prefilter(); pf != nil {
			got = pf.String()
		}
		if got != tt.want {
			t.Errorf("Compile(%q, %s).Prefilter() = %q, want %q", tt.pattern, tt.config.Strategy, got, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	engine, err := Compile("hello")
	if err != nil {
		t.Fatal(err)
	}

	engine.IsMatch("say hello")
	engine.IsMatch("goodbye")
	stats := engine.Stats()
	if stats.Searches != 2 || stats.PrefilterHits != 1 || stats.PrefilterMisses != 1 {
		t.Errorf("after IsMatch: %+v", stats)
	}
	if stats.NFASearches != 0 {
		t.Errorf("complete prefilter should skip the NFA, got %d NFA searches", stats.NFASearches)
	}

	engine.ResetStats()
	if m := engine.Find("say hello"); m == nil || m.Start() != 4 {
		t.Fatalf("Find = %v", m)
	}
	stats = engine.Stats()
	if stats.Searches != 1 || stats.NFASearches != 1 || stats.PrefilterHits != 1 {
		t.Errorf("after Find: %+v", stats)
	}

	la, err := CompileWithConfig("hello", LookaheadConfig())
	if err != nil {
		t.Fatal(err)
	}
	la.IsMatch("hello")
	if got := la.Stats(); got.LookaheadSearches != 1 || got.NFASearches != 0 {
		t.Errorf("lookahead stats: %+v", got)
	}
}

func TestAccessors(t *testing.T) {
	engine, err := Compile(`^a\d+$`)
	if err != nil {
		t.Fatal(err)
	}
	if engine.Pattern() != `^a\d+$` {
		t.Errorf("Pattern() = %q", engine.Pattern())
	}
	if !engine.IsStartAnchored() || !engine.IsEndAnchored() {
		t.Error("expected both anchors")
	}
	if engine.Strategy() != UseNFA {
		t.Errorf("Strategy() = %s, want UseNFA", engine.Strategy())
	}
	if got := syntax.CountNodes(engine.Regexp().Nodes); got != 3 {
		t.Errorf("CountNodes = %d, want 3", got)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, pattern := range []string{"[abc", "(cat|dog", "*a", `a\`, `\q`, "a)", "a]"} {
		_, err := Compile(pattern)
		if err == nil {
			t.Errorf("Compile(%q) succeeded, want error", pattern)
			continue
		}
		if !errors.Is(err, syntax.ErrInvalidPattern) {
			t.Errorf("Compile(%q) error %v is not ErrInvalidPattern", pattern, err)
		}
	}

	config := DefaultConfig()
	config.MaxPatternLen = 4
	_, err := CompileWithConfig("hello", config)
	var perr *syntax.Error
	if !errors.As(err, &perr) || perr.Code != syntax.ErrPatternTooLarge {
		t.Errorf("CompileWithConfig over MaxPatternLen: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if err := LookaheadConfig().Validate(); err != nil {
		t.Errorf("LookaheadConfig().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = Strategy(42) }, "Strategy"},
		{"negative pattern len", func(c *Config) { c.MaxPatternLen = -1 }, "MaxPatternLen"},
		{"huge pattern len", func(c *Config) { c.MaxPatternLen = 1 << 30 }, "MaxPatternLen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
			if _, err := CompileWithConfig("a", config); err == nil {
				t.Error("CompileWithConfig accepted an invalid config")
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"nfa", UseNFA, false},
		{"NFA", UseNFA, false},
		{"lookahead", UseLookahead, false},
		{"dfa", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseStrategy(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if Strategy(7).String() != "Unknown" {
		t.Errorf("Strategy(7).String() = %q", Strategy(7).String())
	}
}

func TestConcurrentSearch(t *testing.T) {
	engine, err := Compile(`(cat|dog)s?\d*`)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{"hotdogs123", "no pets", "🌏 cat 7", "dodo"}
	want := []bool{true, false, true, false}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := i % len(inputs)
				if engine.IsMatch(inputs[k]) != want[k] {
					t.Errorf("IsMatch(%q) != %v", inputs[k], want[k])
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := engine.Stats().Searches; got != 8*200 {
		t.Errorf("Searches = %d, want %d", got, 8*200)
	}
}
