// Package tui previews a table in the terminal using the same state,
// defaulting and paging rules as the HTML renderer.
package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette.
//
//nolint:gochecknoglobals // Read-only style values.
var (
	ColorHeader = lipgloss.Color("39")
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("252")
	ColorMuted  = lipgloss.Color("241")
	ColorAccent = lipgloss.Color("212")
	ColorError  = lipgloss.Color("196")
)

// Shared styles.
//
//nolint:gochecknoglobals // Read-only style values.
var (
	TitleStyle         = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle         = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle         = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle        = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle         = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	BoxStyle           = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted)
	TableHeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Padding(0, 1)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(ColorAccent)
)

// tableStyles returns the bubbles table styles. Without focus the selected
// row is drawn like any other row.
func tableStyles(focused bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)
	s.Selected = TableSelectedStyle
	if !focused {
		s.Selected = s.Cell
	}
	return s
}

type fdProvider interface {
	Fd() uintptr
}

// ResolveTerminal reports the size of out and whether it is a terminal.
// Writers without a file descriptor are never terminals.
func ResolveTerminal(out io.Writer) (width, height int, isTTY bool) {
	f, ok := out.(fdProvider)
	if !ok {
		return 0, 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // File descriptors fit in int.
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	if w, h, err := term.GetSize(fd); err == nil {
		return w, h, true
	}
	return 0, 0, true
}
