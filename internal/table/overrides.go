package table

// Overrides are request-scoped replacements for parts of a Definition.
// Nil pointers and nil slices leave the base value in place.
type Overrides struct {
	ID                   *string
	Columns              []Column
	DefaultSortColumn    *string
	DefaultSortAscending *bool
	DefaultPageSize      *int
	PageSizes            []int
	WindowSize           *int
}

// IsZero reports whether o overrides nothing.
func (o Overrides) IsZero() bool {
	return o.ID == nil && o.Columns == nil && o.DefaultSortColumn == nil &&
		o.DefaultSortAscending == nil && o.DefaultPageSize == nil &&
		o.PageSizes == nil && o.WindowSize == nil
}

// WithOverrides layers o over base. The returned Definition reads through to
// base for everything o leaves unset; base is never modified.
func WithOverrides(base Definition, o Overrides) Definition {
	return &overriddenDefinition{base: base, overrides: o}
}

type overriddenDefinition struct {
	base      Definition
	overrides Overrides
}

func (d *overriddenDefinition) ID() string {
	if d.overrides.ID != nil {
		return *d.overrides.ID
	}
	return d.base.ID()
}

func (d *overriddenDefinition) Columns() []Column {
	if d.overrides.Columns != nil {
		return d.overrides.Columns
	}
	return d.base.Columns()
}

func (d *overriddenDefinition) DefaultSortColumn() string {
	if d.overrides.DefaultSortColumn != nil {
		return *d.overrides.DefaultSortColumn
	}
	return d.base.DefaultSortColumn()
}

func (d *overriddenDefinition) DefaultSortAscending() bool {
	if d.overrides.DefaultSortAscending != nil {
		return *d.overrides.DefaultSortAscending
	}
	return d.base.DefaultSortAscending()
}

func (d *overriddenDefinition) DefaultPageSize() int {
	if d.overrides.DefaultPageSize != nil {
		return *d.overrides.DefaultPageSize
	}
	return d.base.DefaultPageSize()
}

func (d *overriddenDefinition) Paging() PagingConfig {
	paging := d.base.Paging()
	if d.overrides.PageSizes != nil {
		paging.PageSizes = d.overrides.PageSizes
	}
	if d.overrides.WindowSize != nil {
		paging.WindowSize = *d.overrides.WindowSize
	}
	return paging
}
