package grep

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/coregx/minire/internal/config"
)

// Printer writes selected lines in grep's output format:
//
//	[file:][line:]text
//
// With color enabled, file names, line numbers, separators and matched text
// are styled the way GNU grep colors them.
type Printer struct {
	w     *bufio.Writer
	color bool

	file  lipgloss.Style
	line  lipgloss.Style
	sep   lipgloss.Style
	match lipgloss.Style
}

// NewPrinter returns a Printer writing to w. mode is one of config.ColorAuto,
// config.ColorAlways or config.ColorNever; auto enables color only when w is
// a color-capable terminal and NO_COLOR is unset.
func NewPrinter(w io.Writer, mode string) *Printer {
	p := &Printer{w: bufio.NewWriter(w)}

	var profile termenv.Profile
	switch mode {
	case config.ColorAlways:
		p.color, profile = true, termenv.ANSI
	case config.ColorNever:
		p.color = false
	default:
		p.color = DetectColor(w)
		profile = termenv.ColorProfile()
	}
	if !p.color {
		return p
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(profile)
	style := func(color string) lipgloss.Style {
		return renderer.NewStyle().
			Foreground(lipgloss.Color(color)).
			TabWidth(lipgloss.NoTabConversion)
	}
	p.file = style("5")
	p.line = style("2")
	p.sep = style("6")
	p.match = style("1").Bold(true)
	return p
}

// DetectColor reports whether output to w should be colored.
func DetectColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Color reports whether the printer styles its output.
func (p *Printer) Color() bool {
	return p.color
}

// Line writes one selected line. name is omitted when empty and lineNum
// when zero. matches are the spans to highlight; they are ignored without
// color.
func (p *Printer) Line(name string, lineNum int, text string, matches [][]int) {
	p.prefix(name, lineNum)
	if !p.color || len(matches) == 0 {
		p.w.WriteString(text)
		p.w.WriteByte('\n')
		return
	}

	last := 0
	for _, m := range matches {
		if m[0] == m[1] {
			continue
		}
		p.w.WriteString(text[last:m[0]])
		p.w.WriteString(p.match.Render(text[m[0]:m[1]]))
		last = m[1]
	}
	p.w.WriteString(text[last:])
	p.w.WriteByte('\n')
}

// Count writes the number of selected lines of a file.
func (p *Printer) Count(name string, n int) {
	p.prefix(name, 0)
	p.w.WriteString(strconv.Itoa(n))
	p.w.WriteByte('\n')
}

func (p *Printer) prefix(name string, lineNum int) {
	if name != "" {
		p.styled(p.file, name)
		p.styled(p.sep, ":")
	}
	if lineNum > 0 {
		p.styled(p.line, strconv.Itoa(lineNum))
		p.styled(p.sep, ":")
	}
}

func (p *Printer) styled(style lipgloss.Style, s string) {
	if p.color {
		s = style.Render(s)
	}
	p.w.WriteString(s)
}

// Flush writes any buffered output.
func (p *Printer) Flush() error {
	return p.w.Flush()
}
