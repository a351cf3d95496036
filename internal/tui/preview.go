package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/webtables/internal/logging"
	"github.com/rshade/webtables/internal/render"
	wt "github.com/rshade/webtables/internal/table"
)

// Key bindings.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyNext     = "n"
	keyPrev     = "p"
	keyRight    = "right"
	keyLeft     = "left"
	keySort     = "s"
	keyReverse  = "r"
	keyBigger   = "+"
	keySmaller  = "-"
	keyFirst    = "home"
	keyLast     = "end"
	maxColWidth = 40
	chromeLines = 4
)

// Preview is the Bubble Tea model of an interactive table preview.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type Preview[T any] struct {
	ctx    context.Context
	def    wt.Definition
	rows   wt.Rows[T]
	total  int
	state  wt.RequestState
	format *render.Formatter

	table  table.Model
	page   []T
	window wt.PageWindow

	width  int
	height int

	quitting bool
	err      error
}

// NewPreview builds a preview of def over rows, starting from state (nil for
// the defaults), and loads the first page.
func NewPreview[T any](
	ctx context.Context,
	def wt.Definition,
	rows wt.Rows[T],
	total int,
	state *wt.RequestState,
) Preview[T] {
	if state == nil {
		state = wt.NewRequestState()
	}
	m := Preview[T]{
		ctx:    ctx,
		def:    def,
		rows:   rows,
		total:  total,
		state:  *state,
		format: render.NewHTML[T]().Format,
	}
	wt.ApplyDefaults(&m.state, def)
	m.reload()
	return m
}

// State returns the current request state.
func (m Preview[T]) State() wt.RequestState {
	return m.state
}

// Err returns the last row source error.
func (m Preview[T]) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m Preview[T]) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Preview[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable(true)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Preview[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keyNext, keyRight:
		if m.window.HasNext() {
			m.state.PageNumber = m.window.CurrentPage + 1
			m.reload()
		}
	case keyPrev, keyLeft:
		if m.window.HasPrevious() {
			m.state.PageNumber = m.window.CurrentPage - 1
			m.reload()
		}
	case keyFirst:
		m.state.PageNumber = wt.FirstPage
		m.reload()
	case keyLast:
		m.state.PageNumber = max(m.window.TotalPages, wt.FirstPage)
		m.reload()
	case keySort:
		m.cycleSort()
		m.reload()
	case keyReverse:
		if m.state.SortColumn != "" {
			m.state.SortAscending = !m.state.SortAscending
			m.reload()
		}
	case keyBigger:
		m.stepPageSize(1)
	case keySmaller:
		m.stepPageSize(-1)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// cycleSort moves the sort to the next sortable column, ascending, the way
// following another column's header link does.
func (m *Preview[T]) cycleSort() {
	var keys []string
	for _, col := range m.def.Columns() {
		if col.Sortable {
			keys = append(keys, col.SortKey())
		}
	}
	if len(keys) == 0 {
		return
	}
	next := 0
	if i := slices.Index(keys, m.state.SortColumn); i >= 0 {
		next = (i + 1) % len(keys)
	}
	m.state.SortColumn = keys[next]
	m.state.SortAscending = true
}

// stepPageSize moves to the neighbouring configured page size and back to
// the first page.
func (m *Preview[T]) stepPageSize(delta int) {
	sizes := render.PageSizeChoices(m.def.Paging(), m.state.PageSize)
	i := slices.Index(sizes, m.state.PageSize)
	if i < 0 {
		i = 0
	}
	next := i + delta
	if next < 0 || next >= len(sizes) || sizes[next] == m.state.PageSize {
		return
	}
	m.state.PageSize = sizes[next]
	m.state.PageNumber = wt.FirstPage
	m.reload()
}

// reload fetches the current page and rebuilds the table.
func (m *Preview[T]) reload() {
	m.window = wt.BuildPageWindow(m.total, m.state.PageSize, m.def.Paging().Window(), m.state.PageNumber)
	m.state.PageNumber = m.window.CurrentPage

	page, err := m.rows.Fetch(m.ctx, wt.StateQuery(&m.state, m.def))
	if err != nil {
		logging.FromContext(m.ctx).Error().Ctx(m.ctx).
			Str("component", "tui").
			Str("table", m.def.ID()).
			Err(err).
			Msg("loading preview page")
		m.err = err
		m.page = nil
	} else {
		m.err = nil
		m.page = page
	}
	m.rebuildTable(true)
}

func (m *Preview[T]) rebuildTable(focused bool) {
	columns, rows := m.cells()
	height := len(rows) + 1
	if m.height > 0 {
		height = max(min(height, m.height-chromeLines), 1)
	}
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(height),
		table.WithStyles(tableStyles(focused)),
	)
	if m.width > 0 {
		m.table.SetWidth(m.width)
	}
}

// cells formats the current page with the HTML renderer's cell formatting.
func (m *Preview[T]) cells() ([]table.Column, []table.Row) {
	defColumns := m.def.Columns()
	columns := make([]table.Column, len(defColumns))
	for i, col := range defColumns {
		title := col.Title() + m.sortMarker(col)
		columns[i] = table.Column{Title: title, Width: lipgloss.Width(title)}
	}

	rows := make([]table.Row, 0, len(m.page))
	for _, item := range m.page {
		row := make(table.Row, len(defColumns))
		for i, col := range defColumns {
			row[i] = m.format.Cell(item, col)
			columns[i].Width = min(max(columns[i].Width, lipgloss.Width(row[i])), maxColWidth)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

func (m *Preview[T]) sortMarker(col wt.Column) string {
	if col.SortKey() != m.state.SortColumn {
		return ""
	}
	if m.state.SortAscending {
		return " ▲"
	}
	return " ▼"
}

// View implements tea.Model.
func (m Preview[T]) View() string {
	if m.quitting {
		return ""
	}
	sections := []string{TitleStyle.Render(m.def.ID())}
	if m.err != nil {
		sections = append(sections, ErrorStyle.Render("Error: "+m.err.Error()))
	} else if len(m.page) == 0 {
		sections = append(sections, SubtleStyle.Render("No records found."))
	} else {
		sections = append(sections, m.table.View())
	}
	sections = append(sections, m.statusLine(), SubtleStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

const helpText = "n/p page • s sort • r reverse • +/- page size • q quit"

// statusLine summarises the page, the sort and the page size.
func (m Preview[T]) statusLine() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Page "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d/%d", m.window.CurrentPage, max(m.window.TotalPages, 1))))
	b.WriteString(LabelStyle.Render("  " + m.summary()))
	b.WriteString(LabelStyle.Render("  Rows per page: "))
	b.WriteString(ValueStyle.Render(strconv.Itoa(m.state.PageSize)))
	if col, ok := wt.ResolveSortColumn(m.def, m.state.SortColumn); ok {
		b.WriteString(LabelStyle.Render("  Sort: "))
		b.WriteString(ValueStyle.Render(col.Title() + m.sortMarker(col)))
	}
	return b.String()
}

func (m Preview[T]) summary() string {
	if m.window.TotalResults == 0 {
		return "No records"
	}
	return "Showing " + m.format.FormatNumber(int64(m.window.FirstItem())) + "–" +
		m.format.FormatNumber(int64(m.window.LastItem())) + " of " +
		m.format.FormatNumber(int64(m.window.TotalResults))
}
