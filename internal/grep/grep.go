// Package grep runs a compiled pattern over files and prints the selected
// lines.
package grep

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coregx/minire/internal/logging"
)

// StdinName is the display name of standard input, also accepted as a path.
const StdinName = "-"

// Matcher is the part of a compiled pattern the searcher needs.
type Matcher interface {
	MatchString(s string) bool
	FindAllStringIndex(s string, n int) [][]int
}

// FilenameMode controls the file name prefix of output lines.
type FilenameMode int

const (
	// FilenameAuto prefixes names when searching several files or a tree.
	FilenameAuto FilenameMode = iota
	FilenameAlways
	FilenameNever
)

// Options selects the output mode.
type Options struct {
	Invert       bool
	Count        bool
	LineNumbers  bool
	OnlyMatching bool
	Quiet        bool
	Recursive    bool
	Filename     FilenameMode

	// IgnoreDirs are directory names skipped while walking a tree.
	IgnoreDirs []string
}

// Result summarizes a search.
type Result struct {
	// Selected counts selected lines over all inputs.
	Selected int

	// Files counts inputs that were read.
	Files int

	// Failed counts inputs that could not be opened or read.
	Failed int
}

// Searcher applies one pattern to a set of inputs.
type Searcher struct {
	re      Matcher
	opts    Options
	printer *Printer
	stdin   io.Reader
	logger  zerolog.Logger
}

// NewSearcher returns a Searcher printing through p.
func NewSearcher(re Matcher, opts Options, p *Printer) *Searcher {
	return &Searcher{
		re:      re,
		opts:    opts,
		printer: p,
		stdin:   os.Stdin,
		logger:  logging.GetLogger("grep"),
	}
}

// SetStdin replaces the reader used for the "-" path and for an empty path
// list.
func (s *Searcher) SetStdin(r io.Reader) {
	s.stdin = r
}

// Run searches every path in order; no paths means standard input, or the
// current directory when recursive. Errors on individual inputs are
// collected and the search continues; the returned error joins them.
func (s *Searcher) Run(ctx context.Context, paths []string) (Result, error) {
	var res Result
	var errs []error

	if len(paths) == 0 {
		if s.opts.Recursive {
			paths = []string{"."}
		} else {
			paths = []string{StdinName}
		}
	}
	showName := s.showName(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		var err error
		if s.opts.Recursive && path != StdinName {
			err = s.walk(ctx, path, showName, &res)
		} else {
			err = s.searchPath(ctx, path, showName, &res)
		}
		if err != nil {
			errs = append(errs, err)
		}
		if s.opts.Quiet && res.Selected > 0 {
			break
		}
	}

	if err := s.printer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("write output: %w", err))
	}
	return res, errors.Join(errs...)
}

func (s *Searcher) showName(paths []string) bool {
	switch s.opts.Filename {
	case FilenameAlways:
		return true
	case FilenameNever:
		return false
	}
	return s.opts.Recursive || len(paths) > 1
}

// walk searches every regular file under root.
func (s *Searcher) walk(ctx context.Context, root string, showName bool, res *Result) error {
	var errs []error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Failed++
			errs = append(errs, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(s.opts.IgnoreDirs, d.Name()) {
				s.logger.Debug().Str("dir", path).Msg("Skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := s.searchPath(ctx, path, showName, res); err != nil {
			errs = append(errs, err)
		}
		if s.opts.Quiet && res.Selected > 0 {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// searchPath opens and searches a single input.
func (s *Searcher) searchPath(ctx context.Context, path string, showName bool, res *Result) error {
	if path == StdinName {
		return s.searchInput(ctx, "(standard input)", s.stdin, showName, res)
	}

	f, err := os.Open(path)
	if err != nil {
		res.Failed++
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		res.Failed++
		return err
	}
	if info.IsDir() {
		res.Failed++
		return fmt.Errorf("%s: is a directory", path)
	}
	return s.searchInput(ctx, path, f, showName, res)
}

func (s *Searcher) searchInput(ctx context.Context, name string, r io.Reader, showName bool, res *Result) error {
	display := ""
	if showName {
		display = name
	}

	n, err := s.Search(ctx, display, r)
	res.Files++
	res.Selected += n
	s.logger.Debug().Str("file", name).Int("selected", n).Msg("Searched input")
	if err != nil {
		res.Failed++
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Search reads r line by line and prints the selected lines, prefixed with
// name when it is not empty. It returns the number of selected lines.
func (s *Searcher) Search(ctx context.Context, name string, r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	selected := 0
	lineNum := 0

	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return selected, readErr
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNum++
		if lineNum%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return selected, err
			}
		}

		text := strings.TrimSuffix(line, "\n")
		if s.re.MatchString(text) != s.opts.Invert {
			selected++
			if s.opts.Quiet {
				return selected, nil
			}
			s.emit(name, lineNum, text)
		}

		if readErr == io.EOF {
			break
		}
	}

	if s.opts.Count && !s.opts.Quiet {
		s.printer.Count(name, selected)
	}
	return selected, nil
}

// emit prints a selected line according to the output mode.
func (s *Searcher) emit(name string, lineNum int, text string) {
	if s.opts.Count {
		return
	}
	if !s.opts.LineNumbers {
		lineNum = 0
	}

	if s.opts.OnlyMatching {
		if s.opts.Invert {
			return
		}
		for _, m := range s.re.FindAllStringIndex(text, -1) {
			if m[0] == m[1] {
				continue
			}
			part := text[m[0]:m[1]]
			s.printer.Line(name, lineNum, part, [][]int{{0, len(part)}})
		}
		return
	}

	var matches [][]int
	if s.printer.Color() && !s.opts.Invert {
		matches = s.re.FindAllStringIndex(text, -1)
	}
	s.printer.Line(name, lineNum, text, matches)
}
