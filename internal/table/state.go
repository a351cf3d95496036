package table

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query string parameter names bound to RequestState.
const (
	ParamSortColumn    = "sortColumn"
	ParamSortAscending = "sortAscending"
	ParamPageNumber    = "pageNumber"
	ParamPageSize      = "pageSize"
)

// Paging defaults.
const (
	// FallbackPageSize is used when neither the request nor the definition
	// provide a page size.
	FallbackPageSize = 10

	// DefaultWindowSize is the number of page links shown by the pager.
	DefaultWindowSize = 8

	// FirstPage is the 1-based number of the first page.
	FirstPage = 1
)

// RequestState holds the mutable sort and paging parameters of one request.
// It is owned by the request that created it and is never shared.
type RequestState struct {
	// SortColumn is the sort key (a column's sort expression). Empty means unsorted.
	SortColumn string

	// SortAscending is the sort direction.
	SortAscending bool

	// PageNumber is the 1-based page to display.
	PageNumber int

	// PageSize is the number of rows per page. Values <= 0 mean "not set".
	PageSize int
}

// NewRequestState returns a state for the first page with ascending sort and
// no sort column or page size chosen yet.
func NewRequestState() *RequestState {
	return &RequestState{
		SortAscending: true,
		PageNumber:    FirstPage,
	}
}

// ParseRequestState binds the sort and paging query parameters.
// Missing or malformed values keep the NewRequestState defaults.
func ParseRequestState(query url.Values) *RequestState {
	state := NewRequestState()

	if v := strings.TrimSpace(query.Get(ParamSortColumn)); v != "" {
		state.SortColumn = v
	}
	if v, err := strconv.ParseBool(query.Get(ParamSortAscending)); err == nil {
		state.SortAscending = v
	}
	if v, err := strconv.Atoi(query.Get(ParamPageNumber)); err == nil && v >= FirstPage {
		state.PageNumber = v
	}
	if v, err := strconv.Atoi(query.Get(ParamPageSize)); err == nil && v > 0 {
		state.PageSize = v
	}

	return state
}

// HasPageSize reports whether a usable page size is set.
func (s *RequestState) HasPageSize() bool {
	return s.PageSize > 0
}

// Offset returns the number of rows skipped before the current page. It
// saturates at math.MaxInt for page numbers too large to multiply out.
func (s *RequestState) Offset() int {
	if s.PageNumber < FirstPage || s.PageSize <= 0 {
		return 0
	}
	if s.PageNumber-1 > math.MaxInt/s.PageSize {
		return math.MaxInt
	}
	return (s.PageNumber - 1) * s.PageSize
}

// ApplyDefaults fills the unset parameters of state from def.
//
// Page size falls back to the definition's default page size, then the first
// configured page size, then FallbackPageSize.
//
// An empty sort column resolves to the definition's default sort column, whose
// configured direction is applied. When there is no usable default, the first
// sortable column is chosen and the request's current direction is kept.
// Without any sortable column the state stays unsorted.
//
// ApplyDefaults mutates state in place and is idempotent.
func ApplyDefaults(state *RequestState, def Definition) {
	if state.PageNumber < FirstPage {
		state.PageNumber = FirstPage
	}

	if !state.HasPageSize() {
		state.PageSize = defaultPageSize(def)
	}

	if state.SortColumn != "" {
		return
	}

	if name := def.DefaultSortColumn(); name != "" {
		if col, ok := findColumn(def.Columns(), name); ok {
			state.SortColumn = col.SortKey()
			state.SortAscending = def.DefaultSortAscending()
			return
		}
	}

	for _, col := range def.Columns() {
		if col.Sortable {
			// Direction intentionally left as requested.
			state.SortColumn = col.SortKey()
			return
		}
	}
}

// defaultPageSize picks the page size used when the request has none.
func defaultPageSize(def Definition) int {
	if size := def.DefaultPageSize(); size > 0 {
		return size
	}
	for _, size := range def.Paging().PageSizes {
		if size > 0 {
			return size
		}
	}
	return FallbackPageSize
}

// StateQuery converts a defaulted state into a row Query for def.
// A sort column that does not resolve to a sortable column of def is dropped,
// so the rows keep their incoming order.
func StateQuery(state *RequestState, def Definition) Query {
	q := Query{
		Ascending: state.SortAscending,
		Offset:    state.Offset(),
		Limit:     state.PageSize,
	}
	if col, ok := ResolveSortColumn(def, state.SortColumn); ok {
		q.SortExpression = col.SortKey()
	}
	return q
}
