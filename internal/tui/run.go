package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	wt "github.com/rshade/webtables/internal/table"
)

// Run starts the interactive preview on a terminal and returns the final
// request state.
func Run[T any](
	ctx context.Context,
	def wt.Definition,
	rows wt.Rows[T],
	total int,
	state *wt.RequestState,
	opts ...tea.ProgramOption,
) (wt.RequestState, error) {
	m := NewPreview(ctx, def, rows, total, state)
	final, err := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...).Run()
	if err != nil {
		return m.State(), fmt.Errorf("running table preview: %w", err)
	}
	if p, ok := final.(Preview[T]); ok {
		return p.State(), p.Err()
	}
	return m.State(), nil
}
