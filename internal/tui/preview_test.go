package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wt "github.com/rshade/webtables/internal/table"
)

type widget struct {
	ID   int
	Name string
}

func widgets(n int) []widget {
	out := make([]widget, n)
	for i := range out {
		out[i] = widget{ID: i + 1, Name: fmt.Sprintf("w%03d", n-i)}
	}
	return out
}

func widgetDefinition() *wt.StaticDefinition {
	return &wt.StaticDefinition{
		TableID: "widgets",
		TableColumns: []wt.Column{
			{Name: "ID", Sortable: true},
			{Name: "Name", Sortable: true},
			{Name: "Notes"},
		},
		SortColumn:     "ID",
		SortAscending:  true,
		PagingSettings: wt.PagingConfig{PageSizes: []int{10, 20}},
	}
}

func newPreview(t *testing.T, n int) Preview[widget] {
	t.Helper()
	rows := widgets(n)
	return NewPreview[widget](context.Background(), widgetDefinition(), wt.FromSlice(rows), len(rows), nil)
}

func press(t *testing.T, m Preview[widget], keys ...string) Preview[widget] {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Preview[widget])
		require.True(t, ok)
	}
	return m
}

func TestNewPreview_Defaults(t *testing.T) {
	m := newPreview(t, 25)
	assert.Equal(t, wt.RequestState{SortColumn: "ID", SortAscending: true, PageNumber: 1, PageSize: 10}, m.State())
	require.Len(t, m.page, 10)
	assert.Equal(t, 1, m.page[0].ID)
	assert.Equal(t, 3, m.window.TotalPages)
	require.NoError(t, m.Err())
}

func TestPreview_Keys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantState wt.RequestState
		wantFirst int
	}{
		{
			name:      "next pages stop at the last page",
			keys:      []string{"n", "right", "n", "n"},
			wantState: wt.RequestState{SortColumn: "ID", SortAscending: true, PageNumber: 3, PageSize: 10},
			wantFirst: 21,
		},
		{
			name:      "previous stops at the first page",
			keys:      []string{"n", "p", "left"},
			wantState: wt.RequestState{SortColumn: "ID", SortAscending: true, PageNumber: 1, PageSize: 10},
			wantFirst: 1,
		},
		{
			name:      "sort cycles to the next sortable column",
			keys:      []string{"n", "s"},
			wantState: wt.RequestState{SortColumn: "Name", SortAscending: true, PageNumber: 2, PageSize: 10},
			wantFirst: 15,
		},
		{
			name:      "sort wraps and reverses",
			keys:      []string{"s", "s", "r"},
			wantState: wt.RequestState{SortColumn: "ID", SortAscending: false, PageNumber: 1, PageSize: 10},
			wantFirst: 25,
		},
		{
			name:      "page size grows and resets the page",
			keys:      []string{"n", "+", "+"},
			wantState: wt.RequestState{SortColumn: "ID", SortAscending: true, PageNumber: 1, PageSize: 20},
			wantFirst: 1,
		},
		{
			name:      "page size shrinks back",
			keys:      []string{"+", "-", "-"},
			wantState: wt.RequestState{SortColumn: "ID", SortAscending: true, PageNumber: 1, PageSize: 10},
			wantFirst: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newPreview(t, 25), tt.keys...)
			assert.Equal(t, tt.wantState, m.State())
			require.NotEmpty(t, m.page)
			assert.Equal(t, tt.wantFirst, m.page[0].ID)
		})
	}
}

func TestPreview_Quit(t *testing.T) {
	m := newPreview(t, 5)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestPreview_View(t *testing.T) {
	m := newPreview(t, 25)
	view := m.View()
	assert.Contains(t, view, "widgets")
	assert.Contains(t, view, "ID ▲")
	assert.Contains(t, view, "Showing 1–10 of 25")
	assert.Contains(t, view, "Page 1/3")

	empty := newPreview(t, 0)
	assert.Contains(t, empty.View(), "No records found.")
	assert.Contains(t, empty.View(), "No records")
}

type failingRows struct{}

func (failingRows) Fetch(context.Context, wt.Query) ([]widget, error) {
	return nil, errors.New("source offline")
}

func TestPreview_RowError(t *testing.T) {
	m := NewPreview[widget](context.Background(), widgetDefinition(), failingRows{}, 10, nil)
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "source offline")

	var buf bytes.Buffer
	err := RenderStatic[widget](context.Background(), &buf, widgetDefinition(), failingRows{}, 10, nil)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestRenderStatic(t *testing.T) {
	rows := widgets(25)
	state := wt.ParseRequestState(map[string][]string{"pageNumber": {"3"}})

	var buf bytes.Buffer
	require.NoError(t, RenderStatic(context.Background(), &buf, widgetDefinition(), wt.FromSlice(rows), len(rows), state))

	out := buf.String()
	assert.Contains(t, out, "widgets")
	assert.Contains(t, out, "Showing 21–25 of 25")
	assert.Contains(t, out, "w005")
	assert.NotContains(t, out, "w006")
}

func TestResolveTerminal(t *testing.T) {
	w, h, tty := ResolveTerminal(&bytes.Buffer{})
	assert.False(t, tty)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
