// Package style renders operator-facing output. Commands meant for
// copy-paste are never decorated, only the labels around them.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("39")  // blue
	colorSuccess = lipgloss.Color("76")  // green
	colorWarning = lipgloss.Color("214") // orange
	colorError   = lipgloss.Color("196") // red
	colorMuted   = lipgloss.Color("242") // gray
)

// Printer writes styled lines to w.
type Printer struct {
	w io.Writer

	success lipgloss.Style
	label   lipgloss.Style
	warning lipgloss.Style
	errorS  lipgloss.Style
	rule    lipgloss.Style
}

// New returns a Printer for w. With color false every style renders as
// plain text.
func New(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:       w,
		success: r.NewStyle().Bold(true).Foreground(colorSuccess),
		label:   r.NewStyle().Foreground(colorPrimary),
		warning: r.NewStyle().Foreground(colorWarning),
		errorS:  r.NewStyle().Bold(true).Foreground(colorError),
		rule:    r.NewStyle().Foreground(colorMuted),
	}
}

// ColorEnabled reports whether w is a terminal and color was not
// switched off (NO_COLOR).
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Success prints a status line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, p.success.Render(msg))
}

// Warning prints a warning line.
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.w, p.warning.Render(msg))
}

// Error prints a failure line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.errorS.Render(msg))
}

// Command prints a label followed by an indented, undecorated command.
func (p *Printer) Command(label, command string) {
	fmt.Fprintln(p.w, p.label.Render(label))
	fmt.Fprintln(p.w, "  "+command)
}

// Section prints a blank line, a ruled title, and body verbatim.
func (p *Printer) Section(title, body string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.rule.Render("--- "+title+" ---"))
	fmt.Fprint(p.w, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(p.w)
	}
}

// Plain prints text as is.
func (p *Printer) Plain(text string) {
	fmt.Fprintln(p.w, text)
}
