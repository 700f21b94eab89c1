// Package ui renders the centered, colored status lines of the interactive
// fetch.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

var (
	bannerColor  = lipgloss.Color("42")  // Green
	infoColor    = lipgloss.Color("39")  // Blue
	successColor = lipgloss.Color("42")  // Green
	errorColor   = lipgloss.Color("160") // Red
	subtleColor  = lipgloss.Color("241") // Grey
)

// Console writes status lines centered to the terminal width.
type Console struct {
	out   io.Writer
	width func() int
	quiet bool

	banner  lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	detail  lipgloss.Style
}

// NewConsole returns a Console writing to out. In quiet mode the banner,
// greeting, farewell and detail lines are dropped; status and error lines
// are always written.
func NewConsole(out io.Writer, quiet bool) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:     out,
		width:   widthOf(out),
		quiet:   quiet,
		banner:  r.NewStyle().Foreground(bannerColor).Bold(true),
		info:    r.NewStyle().Foreground(infoColor),
		success: r.NewStyle().Foreground(successColor),
		failure: r.NewStyle().Foreground(errorColor),
		detail:  r.NewStyle().Foreground(subtleColor),
	}
}

// SetWidth fixes the width used for centering.
func (c *Console) SetWidth(w int) {
	c.width = func() int { return w }
}

func widthOf(out io.Writer) func() int {
	f, ok := out.(*os.File)
	if !ok {
		return func() int { return DefaultWidth }
	}
	return func() int {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			return DefaultWidth
		}
		w, _, err := term.GetSize(fd)
		if err != nil || w <= 0 {
			return DefaultWidth
		}
		return w
	}
}

// center left-pads text so it sits in the middle of the line. Text wider
// than the line is written unpadded.
func (c *Console) center(style lipgloss.Style, text string) {
	pad := (c.width() - lipgloss.Width(text)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(c.out, strings.Repeat(" ", pad)+style.Render(text))
}

// Blank writes an empty line.
func (c *Console) Blank() {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out)
}

// Banner writes the title surrounded by blank lines.
func (c *Console) Banner(title string) {
	if c.quiet {
		return
	}
	c.Blank()
	c.center(c.banner, title)
	c.Blank()
}

// Greeting writes decorative informational lines.
func (c *Console) Greeting(lines ...string) {
	if c.quiet {
		return
	}
	for _, l := range lines {
		c.center(c.info, l)
	}
}

// Info writes a blue status line.
func (c *Console) Info(format string, a ...any) {
	c.center(c.info, fmt.Sprintf(format, a...))
}

// Success writes a green status line.
func (c *Console) Success(format string, a ...any) {
	c.center(c.success, fmt.Sprintf(format, a...))
}

// Error writes a red status line.
func (c *Console) Error(format string, a ...any) {
	c.center(c.failure, fmt.Sprintf(format, a...))
}

// Detail writes a grey line describing a completed transfer.
func (c *Console) Detail(bytes int64, elapsed time.Duration, protocol string) {
	if c.quiet {
		return
	}
	c.center(c.detail, fmt.Sprintf("%s in %s via %s", humanize.Bytes(uint64(bytes)), elapsed.Round(time.Millisecond), protocol))
}

// Farewell writes a blank line and the closing message.
func (c *Console) Farewell(text string) {
	if c.quiet {
		return
	}
	c.Blank()
	c.center(c.info, text)
}
