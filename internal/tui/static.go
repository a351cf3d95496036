package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	wt "github.com/rshade/webtables/internal/table"
)

// RenderStatic writes one page of def as a bordered table, for output that
// is not an interactive terminal.
func RenderStatic[T any](
	ctx context.Context,
	w io.Writer,
	def wt.Definition,
	rows wt.Rows[T],
	total int,
	state *wt.RequestState,
) error {
	m := NewPreview(ctx, def, rows, total, state)
	if m.err != nil {
		return fmt.Errorf("loading table %q: %w", def.ID(), m.err)
	}
	m.rebuildTable(false)

	body := SubtleStyle.Render("No records found.")
	if len(m.page) > 0 {
		body = BoxStyle.Render(m.table.View())
	}
	out := lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(def.ID()), body, m.statusLine())
	_, err := fmt.Fprintln(w, out)
	return err
}
