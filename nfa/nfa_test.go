package nfa

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/coregx/minire/syntax"
)

func compile(pattern string, opts Options) *NFA {
	return New(syntax.MustParse(pattern).Nodes, opts)
}

func TestEnds(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		start   int
		want    []int
	}{
		{"a", "abc", 0, []int{1}},
		{"a", "abc", 1, []int{}},
		{"a*", "aaab", 0, []int{0, 1, 2, 3}},
		{"a+", "aaab", 0, []int{1, 2, 3}},
		{"a?", "aa", 0, []int{0, 1}},
		{"a*ab", "aaab", 0, []int{4}},
		{"(cat|ca)t?", "catt", 0, []int{2, 3, 4}},
		{"[ab]+", "abba", 1, []int{2, 3, 4}},
		{".", "🌏", 0, []int{4}},
		{"[^abc]", "éx", 0, []int{2}},
		{"(a|)*", "aab", 0, []int{0, 1, 2}},
		{"(a|)+", "b", 0, []int{0}},
		{"", "xyz", 2, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			got := compile(tt.pattern, Options{}).Ends(tt.text, tt.start, false)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ends(%q, %d) = %v, want %v", tt.text, tt.start, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern   string
		text      string
		start     int
		anchorEnd bool
		wantEnd   int
		wantOK    bool
	}{
		{"dogs?", "dogs", 0, false, 4, true},
		{"dogs?", "dog", 0, false, 3, true},
		{"dog", "dogs", 0, true, 4, false},
		{"dogs?", "dogs", 0, true, 4, true},
		{`\d+`, "123abc", 0, false, 3, true},
		{`\w+s`, "dogs", 0, false, 4, true},
		{"g.+gol", "goøö0Ogol", 0, false, 11, true},
		{"a*b*c", "aabbc", 0, false, 5, true},
		{"x", "abc", 0, false, 0, false},
		{"(cat|dog)", "hotdog", 3, false, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			end, ok := compile(tt.pattern, Options{}).Match(tt.text, tt.start, false, tt.anchorEnd)
			if ok != tt.wantOK || (ok && end != tt.wantEnd) {
				t.Errorf("Match(%q) = (%d, %v), want (%d, %v)", tt.text, end, ok, tt.wantEnd, tt.wantOK)
			}
		})
	}
}

func TestFixedNegatedWidth(t *testing.T) {
	got := compile("[^abc]", Options{FixedNegatedWidth: true}).Ends("éx", 0, false)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Ends() with FixedNegatedWidth = %v, want [1]", got)
	}
}

func TestASCIIMode(t *testing.T) {
	n := compile(`\w.\d`, Options{})
	for _, ascii := range []bool{false, true} {
		end, ok := n.Match("a-1", 0, ascii, true)
		if !ok || end != 3 {
			t.Errorf("Match(ascii=%v) = (%d, %v), want (3, true)", ascii, end, ok)
		}
	}
}

// Scratch sets pooled by a long search must not leak into a later, shorter
// one, and vice versa.
func TestPoolReuseAcrossLengths(t *testing.T) {
	n := compile("a*b", Options{})
	texts := []string{"ab", "aaaaaaaaaaaaaaaaaaaaaaab", "b", "aaaaaaab", "aab"}
	for i := 0; i < 3; i++ {
		for _, text := range texts {
			if _, ok := n.Match(text, 0, true, true); !ok {
				t.Fatalf("Match(%q) = false", text)
			}
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	n := compile("(foo|bar)+baz", Options{})
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			ok := true
			for j := 0; j < 200; j++ {
				if _, m := n.Match("foobarfoobaz", 0, true, true); !m {
					ok = false
				}
			}
			done <- ok
		}()
	}
	for i := 0; i < 8; i++ {
		if !<-done {
			t.Error("concurrent Match() returned false")
		}
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"(a*)*", "a*"},
		{"(a+)*", "a*"},
		{"(a*)+", "a*"},
		{"(a?)+", "a*"},
		{"(a+)?", "a*"},
		{"(a+)+", "a+"},
		{"(a?)?", "a?"},
		{"((a*)*)*b", "a*b"},
		{"(ab)*", "(ab)*"},
		{"(a|b*)*", "(a|b*)*"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := syntax.MustParse(tt.pattern)
			before := re.String()
			got := render(simplifySeq(re.Nodes))
			if got != tt.want {
				t.Errorf("simplify(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
			if re.String() != before {
				t.Errorf("simplify modified the parsed tree: %q, was %q", re.String(), before)
			}
		})
	}
}

func render(seq []*syntax.Node) string {
	var b strings.Builder
	for _, n := range seq {
		b.WriteString(n.String())
	}
	return b.String()
}

func TestNestedQuantifiersKeepSemantics(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    []int
	}{
		{"(a*)*", "aab", []int{0, 1, 2}},
		{"(a+)+b", "aab", []int{3}},
		{"(a?)+", "aa", []int{0, 1, 2}},
		{"((a*)*)*b", "b", []int{1}},
		{"(a*b)*", "abab", []int{0, 2, 4}},
		{"(a|b*)*c", "abbac", []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			got := compile(tt.pattern, Options{}).Ends(tt.text, 0, false)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ends(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	tests := []struct {
		pattern   string
		text      string
		starts    []int
		anchorEnd bool
		want      bool
	}{
		{"dog", "hotdog", []int{0, 1, 2, 3}, false, true},
		{"dog", "hotdog", []int{0, 1, 2}, false, false},
		{"dog", "hotdogs", []int{3}, true, false},
		{"a*", "bbb", []int{1}, false, true},
		{"x", "abc", nil, false, false},
		{"", "", []int{0}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			got := compile(tt.pattern, Options{}).MatchAny(tt.text, tt.starts, true, tt.anchorEnd)
			if got != tt.want {
				t.Errorf("MatchAny(%q, %v) = %v, want %v", tt.text, tt.starts, got, tt.want)
			}
		})
	}
}

// Nested quantifiers must not multiply the work of a search.
func TestNestedQuantifierTime(t *testing.T) {
	text := strings.Repeat("a", 20000)
	starts := make([]int, len(text)+1)
	for i := range starts {
		starts[i] = i
	}

	for _, pattern := range []string{"(a*)*b", "((a*)*)*b", "(a|a*)*b", "(a*a)*b"} {
		n := compile(pattern, Options{})
		begin := time.Now()
		if n.MatchAny(text, starts, true, false) {
			t.Errorf("MatchAny(%q) = true, want false", pattern)
		}
		if elapsed := time.Since(begin); elapsed > 2*time.Second {
			t.Errorf("MatchAny(%q) on %d bytes took %v, expected well under 2s", pattern, len(text), elapsed)
		}
	}
}
