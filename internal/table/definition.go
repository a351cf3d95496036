package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column describes one column of a table. Columns are immutable once they are
// part of a Definition.
type Column struct {
	// Name identifies the column within its table.
	Name string `yaml:"name"`

	// Header is the display title. Defaults to a title-cased Name.
	Header string `yaml:"header,omitempty"`

	// Field is the property path used to read cell values (e.g. "Customer.Name").
	// Defaults to SortExpression, then Name.
	Field string `yaml:"field,omitempty"`

	// SortExpression is the property path rows are ordered by. Defaults to Name.
	SortExpression string `yaml:"sort_expression,omitempty"`

	// Sortable reports whether the column offers a sort link.
	Sortable bool `yaml:"sortable,omitempty"`

	// Format is an optional fmt verb applied to cell values (e.g. "%.2f").
	Format string `yaml:"format,omitempty"`

	// CSSClass is added to the column's header and cells.
	CSSClass string `yaml:"css_class,omitempty"`
}

// SortKey returns the value stored in RequestState.SortColumn for this column.
func (c Column) SortKey() string {
	if c.SortExpression != "" {
		return c.SortExpression
	}
	return c.Name
}

// FieldPath returns the property path used to read cell values.
func (c Column) FieldPath() string {
	if c.Field != "" {
		return c.Field
	}
	return c.SortKey()
}

// Title returns the header text for the column.
func (c Column) Title() string {
	if c.Header != "" {
		return c.Header
	}
	return cases.Title(language.English).String(splitWords(c.Name))
}

// splitWords turns "placedAt" or "placed_at" into "placed at".
func splitWords(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(' ')
			continue
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PagingConfig controls the pager and page-size regions.
type PagingConfig struct {
	// PageSizes are the page sizes offered by the page-size control, in display order.
	PageSizes []int `yaml:"page_sizes,omitempty"`

	// WindowSize is the maximum number of page links shown. Defaults to DefaultWindowSize.
	WindowSize int `yaml:"window_size,omitempty"`
}

// Window returns the effective pager window size.
func (p PagingConfig) Window() int {
	if p.WindowSize > 0 {
		return p.WindowSize
	}
	return DefaultWindowSize
}

// Definition is the read contract of a table configuration.
type Definition interface {
	// ID is the table's DOM identifier.
	ID() string

	// Columns returns the columns in display order.
	Columns() []Column

	// DefaultSortColumn names the column sorted by when the request has no sort.
	DefaultSortColumn() string

	// DefaultSortAscending is the direction applied with DefaultSortColumn.
	DefaultSortAscending() bool

	// DefaultPageSize is the page size used when the request has none; 0 if unset.
	DefaultPageSize() int

	// Paging returns the paging configuration.
	Paging() PagingConfig
}

// StaticDefinition is an immutable Definition value.
type StaticDefinition struct {
	TableID        string
	TableColumns   []Column
	SortColumn     string
	SortAscending  bool
	PageSize       int
	PagingSettings PagingConfig
}

// ID implements Definition.
func (d *StaticDefinition) ID() string { return d.TableID }

// Columns implements Definition.
func (d *StaticDefinition) Columns() []Column { return d.TableColumns }

// DefaultSortColumn implements Definition.
func (d *StaticDefinition) DefaultSortColumn() string { return d.SortColumn }

// DefaultSortAscending implements Definition.
func (d *StaticDefinition) DefaultSortAscending() bool { return d.SortAscending }

// DefaultPageSize implements Definition.
func (d *StaticDefinition) DefaultPageSize() int { return d.PageSize }

// Paging implements Definition.
func (d *StaticDefinition) Paging() PagingConfig { return d.PagingSettings }

func findColumn(columns []Column, name string) (Column, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ResolveSortColumn maps a request sort key to a column of def.
// Only sortable columns and the definition's default sort column resolve.
func ResolveSortColumn(def Definition, key string) (Column, bool) {
	if key == "" {
		return Column{}, false
	}
	for _, col := range def.Columns() {
		if col.SortKey() != key {
			continue
		}
		if col.Sortable || col.Name == def.DefaultSortColumn() {
			return col, true
		}
	}
	return Column{}, false
}
