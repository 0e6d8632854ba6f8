package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coregx/minire"
	"github.com/coregx/minire/internal/config"
	"github.com/coregx/minire/internal/grep"
	"github.com/coregx/minire/internal/logging"
)

// Exit codes follow grep: 0 when a line was selected, 1 when none was, 2 on
// any error.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type flags struct {
	extended     bool
	fixed        bool
	invert       bool
	count        bool
	lineNumbers  bool
	withFilename bool
	noFilename   bool
	recursive    bool
	quiet        bool
	onlyMatching bool
	color        string
	strategy     string
	configPath   string
	verbosity    int
}

// newRootCmd builds the command. The exit code of a successful run is stored
// in *code; a returned error always means exitError.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, code *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "minigrep [flags] PATTERN [FILE...]",
		Short: "Print lines that match a pattern",
		Long: `minigrep searches each FILE for lines containing a match of PATTERN and
prints them. With no FILE, or when FILE is -, it reads standard input; with
-r and no FILE it searches the current directory.

PATTERN supports literals, \d, \w, ., [set], [^set], + * ?, (a|b) and the
anchors ^ and $.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(stderr, f.verbosity)
			c, err := search(cmd, &f, args[0], args[1:], stdin, stdout, stderr)
			*code = c
			return err
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.BoolVarP(&f.extended, "extended-regexp", "E", false, "PATTERN is an extended regular expression (the only syntax; accepted for compatibility)")
	fs.BoolVarP(&f.fixed, "fixed-strings", "F", false, "PATTERN is a literal string")
	fs.BoolVarP(&f.invert, "invert-match", "v", false, "select non-matching lines")
	fs.BoolVarP(&f.count, "count", "c", false, "print only a count of selected lines per file")
	fs.BoolVarP(&f.lineNumbers, "line-number", "n", false, "prefix each line with its line number")
	fs.BoolVarP(&f.withFilename, "with-filename", "H", false, "prefix each line with its file name")
	fs.BoolVarP(&f.noFilename, "no-filename", "h", false, "never prefix lines with a file name")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "search directories recursively")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "print nothing; exit 0 on the first selected line")
	fs.BoolVarP(&f.onlyMatching, "only-matching", "o", false, "print only the matched parts of lines")
	fs.StringVar(&f.color, "color", config.ColorAuto, "highlight matches: auto, always or never")
	fs.Lookup("color").NoOptDefVal = config.ColorAuto
	fs.StringVar(&f.strategy, "strategy", "nfa", "matcher: nfa or lookahead")
	fs.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/minigrep/config.toml)")
	fs.CountVar(&f.verbosity, "verbose", "increase log verbosity (repeat for debug and trace)")
	// -h is --no-filename, as in grep
	fs.Bool("help", false, "show this help")

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// search runs one invocation and returns its exit code.
func search(cmd *cobra.Command, f *flags, pattern string, files []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	logger := logging.GetLogger("minigrep")

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return exitError, err
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = f.color
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if err := cfg.Validate(); err != nil {
		return exitError, err
	}

	if f.fixed {
		pattern = minire.QuoteMeta(pattern)
	}
	re, err := minire.CompileWithConfig(pattern, cfg.EngineConfig())
	if err != nil {
		return exitError, err
	}
	logger.Info().
		Str("pattern", re.String()).
		Str("strategy", re.Strategy().String()).
		Str("tree", re.Syntax().String()).
		Int("nodes", re.NumNodes()).
		Msg("Pattern compiled")

	opts := grep.Options{
		Invert:       f.invert,
		Count:        f.count,
		LineNumbers:  f.lineNumbers || cfg.LineNumbers,
		OnlyMatching: f.onlyMatching,
		Quiet:        f.quiet,
		Recursive:    f.recursive,
		IgnoreDirs:   cfg.IgnoreDirs,
	}
	switch {
	case f.noFilename:
		opts.Filename = grep.FilenameNever
	case f.withFilename:
		opts.Filename = grep.FilenameAlways
	}

	searcher := grep.NewSearcher(re, opts, grep.NewPrinter(stdout, cfg.Color))
	searcher.SetStdin(stdin)

	done := logging.LogOperationStart(logger, "search")
	res, err := searcher.Run(cmdContext(cmd), files)
	done()

	stats := re.Stats()
	logger.Debug().
		Int("files", res.Files).
		Int("selected", res.Selected).
		Int("failed", res.Failed).
		Uint64("searches", stats.Searches).
		Uint64("nfa_searches", stats.NFASearches).
		Uint64("prefilter_hits", stats.PrefilterHits).
		Uint64("prefilter_misses", stats.PrefilterMisses).
		Msg("Search finished")

	if f.quiet && res.Selected > 0 {
		return exitMatch, nil
	}
	if err != nil {
		printErrors(stderr, err)
		return exitError, nil
	}
	if res.Selected > 0 {
		return exitMatch, nil
	}
	return exitNoMatch, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printErrors reports each input error on its own line.
func printErrors(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printErrors(w, e)
		}
		return
	}
	fmt.Fprintf(w, "minigrep: %v\n", err)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := exitError
	cmd := newRootCmd(stdin, stdout, stderr, &code)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "minigrep: %v\n", err)
		return exitError
	}
	if help, _ := cmd.Flags().GetBool("help"); help {
		return exitMatch
	}
	return code
}
