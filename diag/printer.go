package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/toto/errors"
)

const tabWidth = 4

// toLineEnd marks a span that runs to the end of its first line.
const toLineEnd = -1

// Styles holds the lipgloss styles used for diagnostics.
type Styles struct {
	Severity lipgloss.Style
	Message  lipgloss.Style
	Gutter   lipgloss.Style
	Source   lipgloss.Style
	Marker   lipgloss.Style
	Label    lipgloss.Style
}

// NewStyles creates the default styles bound to a renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Severity: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Message:  r.NewStyle().Bold(true),
		Gutter:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		Source:   r.NewStyle().TabWidth(tabWidth),
		Marker:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Label:    r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// Printer renders diagnostics that point into source text.
//
// Every method builds the complete diagnostic before writing it, so an
// invalid offset panics before anything reaches the writer.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer whose color profile follows w.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithRenderer(w, lipgloss.NewRenderer(w))
}

// NewPrinterWithRenderer creates a printer using an explicit renderer.
func NewPrinterWithRenderer(w io.Writer, r *lipgloss.Renderer) *Printer {
	return &Printer{w: w, styles: NewStyles(r)}
}

// Unclosed points at a construct opened at start and never terminated.
func (p *Printer) Unclosed(text string, start int) error {
	return p.render(text, "unclosed construct", "opened here", start, toLineEnd)
}

// InvalidCharacter points at the single character at pos.
func (p *Printer) InvalidCharacter(text string, pos int) error {
	size := charLen(text, pos)
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return p.render(text, fmt.Sprintf("invalid character %q", r), "", pos, pos+size)
}

// InvalidPart highlights the span [start, pos).
func (p *Printer) InvalidPart(text string, start, pos int) error {
	return p.render(text, "invalid part", "", start, pos)
}

// Explain renders a lexical error against the text it was produced from.
// Errors of other kinds are written as a single line.
func (p *Printer) Explain(text string, err *errors.Error) error {
	switch err.Kind {
	case errors.KindUnclosed:
		return p.render(text, err.Detail, "opened here", err.Start, toLineEnd)
	case errors.KindInvalidCharacter:
		size := charLen(text, err.Pos)
		return p.render(text, err.Detail, "", err.Pos, err.Pos+size)
	case errors.KindInvalidPart:
		return p.render(text, err.Detail, "", err.Start, err.Pos)
	}
	_, werr := io.WriteString(p.w, p.styles.Severity.Render("error:")+" "+p.styles.Message.Render(err.Error())+"\n")
	return werr
}

func (p *Printer) render(text, message, label string, start, end int) error {
	col, row := Position(text, start)
	lineStart, lineEnd := lineAt(text, start)

	if end == toLineEnd {
		end = lineEnd
	}
	mustBoundary(text, end)
	if end < start {
		panic(errors.InvalidRange(errors.PhaseDiagnose, start, end))
	}

	markEnd := min(end, max(lineEnd, start))
	width := max(lipgloss.Width(expandTabs(text[start:markEnd])), 1)

	s := p.styles
	gutter := strconv.Itoa(row)
	indent := strings.Repeat(" ", len(gutter))

	var b strings.Builder
	b.WriteString(s.Severity.Render("error:") + " " + s.Message.Render(message) + "\n")
	b.WriteString(indent + s.Gutter.Render("-->") + " " + strconv.Itoa(row) + ":" + strconv.Itoa(col) + "\n")
	b.WriteString(indent + " " + s.Gutter.Render("|") + "\n")
	b.WriteString(s.Gutter.Render(gutter+" |") + " " + s.Source.Render(text[lineStart:lineEnd]) + "\n")
	b.WriteString(indent + " " + s.Gutter.Render("|") + " ")
	b.WriteString(strings.Repeat(" ", lipgloss.Width(expandTabs(text[lineStart:start]))))
	b.WriteString(s.Marker.Render(strings.Repeat("^", width)))
	if label != "" {
		b.WriteString(" " + s.Label.Render(label))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(p.w, b.String())
	return err
}

// charLen returns the byte length of the character at pos. There must be
// one: pos must be a boundary strictly inside text.
func charLen(text string, pos int) int {
	if pos == len(text) {
		panic(errors.InvalidOffset(errors.PhaseDiagnose, pos, len(text)))
	}
	mustBoundary(text, pos)
	_, size := utf8.DecodeRuneInString(text[pos:])
	return size
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// ShowUnclosed writes an unclosed-construct diagnostic to w.
func ShowUnclosed(w io.Writer, text string, start int) error {
	return NewPrinter(w).Unclosed(text, start)
}

// ShowInvalidCharacter writes an invalid-character diagnostic to w.
func ShowInvalidCharacter(w io.Writer, text string, pos int) error {
	return NewPrinter(w).InvalidCharacter(text, pos)
}

// ShowInvalidPart writes an invalid-span diagnostic to w.
func ShowInvalidPart(w io.Writer, text string, start, pos int) error {
	return NewPrinter(w).InvalidPart(text, start, pos)
}
