package table

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersDefinition() *StaticDefinition {
	return &StaticDefinition{
		TableID: "orders",
		TableColumns: []Column{
			{Name: "A"},
			{Name: "B", Sortable: true},
			{Name: "C", Sortable: true, SortExpression: "Customer.Name"},
		},
		PagingSettings: PagingConfig{PageSizes: []int{25, 50}},
	}
}

func TestParseRequestState(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  RequestState
	}{
		{
			name:  "empty query keeps defaults",
			query: "",
			want:  RequestState{SortAscending: true, PageNumber: 1},
		},
		{
			name:  "all parameters",
			query: "sortColumn=Total&sortAscending=false&pageNumber=3&pageSize=20",
			want:  RequestState{SortColumn: "Total", SortAscending: false, PageNumber: 3, PageSize: 20},
		},
		{
			name:  "malformed values are ignored",
			query: "sortAscending=maybe&pageNumber=abc&pageSize=-5",
			want:  RequestState{SortAscending: true, PageNumber: 1},
		},
		{
			name:  "page zero is ignored",
			query: "pageNumber=0",
			want:  RequestState{SortAscending: true, PageNumber: 1},
		},
		{
			name:  "blank sort column",
			query: "sortColumn=%20%20",
			want:  RequestState{SortAscending: true, PageNumber: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *ParseRequestState(q))
		})
	}
}

func TestRequestState_Offset(t *testing.T) {
	tests := []struct {
		name  string
		state RequestState
		want  int
	}{
		{name: "first page", state: RequestState{PageNumber: 1, PageSize: 10}, want: 0},
		{name: "third page", state: RequestState{PageNumber: 3, PageSize: 10}, want: 20},
		{name: "no page size", state: RequestState{PageNumber: 3}, want: 0},
		{name: "invalid page", state: RequestState{PageNumber: 0, PageSize: 10}, want: 0},
		{name: "saturates on overflow", state: RequestState{PageNumber: 1844674407370955162, PageSize: 10}, want: math.MaxInt},
		{name: "largest page number", state: RequestState{PageNumber: math.MaxInt, PageSize: 1}, want: math.MaxInt - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Offset())
		})
	}
}

func TestApplyDefaults_PageSize(t *testing.T) {
	tests := []struct {
		name string
		def  *StaticDefinition
		in   int
		want int
	}{
		{
			name: "request value wins",
			def:  &StaticDefinition{PageSize: 15, PagingSettings: PagingConfig{PageSizes: []int{25}}},
			in:   40,
			want: 40,
		},
		{
			name: "definition default",
			def:  &StaticDefinition{PageSize: 15, PagingSettings: PagingConfig{PageSizes: []int{25}}},
			want: 15,
		},
		{
			name: "first configured page size",
			def:  &StaticDefinition{PagingSettings: PagingConfig{PageSizes: []int{25, 50}}},
			want: 25,
		},
		{
			name: "fallback",
			def:  &StaticDefinition{},
			want: FallbackPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewRequestState()
			state.PageSize = tt.in
			ApplyDefaults(state, tt.def)
			assert.Equal(t, tt.want, state.PageSize)
		})
	}
}

func TestApplyDefaults_Sort(t *testing.T) {
	t.Run("first sortable column when no default", func(t *testing.T) {
		state := NewRequestState()
		ApplyDefaults(state, ordersDefinition())
		assert.Equal(t, "B", state.SortColumn)
		assert.True(t, state.SortAscending)
	})

	t.Run("fallback keeps requested direction", func(t *testing.T) {
		state := NewRequestState()
		state.SortAscending = false
		ApplyDefaults(state, ordersDefinition())
		assert.Equal(t, "B", state.SortColumn)
		assert.False(t, state.SortAscending)
	})

	t.Run("default column forces its direction", func(t *testing.T) {
		def := ordersDefinition()
		def.SortColumn = "C"
		def.SortAscending = false

		state := NewRequestState()
		ApplyDefaults(state, def)
		assert.Equal(t, "Customer.Name", state.SortColumn)
		assert.False(t, state.SortAscending)
	})

	t.Run("default column need not be sortable", func(t *testing.T) {
		def := ordersDefinition()
		def.SortColumn = "A"
		def.SortAscending = true

		state := NewRequestState()
		state.SortAscending = false
		ApplyDefaults(state, def)
		assert.Equal(t, "A", state.SortColumn)
		assert.True(t, state.SortAscending)
	})

	t.Run("unknown default falls back to first sortable", func(t *testing.T) {
		def := ordersDefinition()
		def.SortColumn = "Missing"

		state := NewRequestState()
		ApplyDefaults(state, def)
		assert.Equal(t, "B", state.SortColumn)
	})

	t.Run("no sortable columns leaves sort unset", func(t *testing.T) {
		def := &StaticDefinition{TableColumns: []Column{{Name: "A"}}}
		state := NewRequestState()
		ApplyDefaults(state, def)
		assert.Empty(t, state.SortColumn)
	})

	t.Run("requested sort is kept", func(t *testing.T) {
		state := NewRequestState()
		state.SortColumn = "Customer.Name"
		state.SortAscending = false
		ApplyDefaults(state, ordersDefinition())
		assert.Equal(t, "Customer.Name", state.SortColumn)
		assert.False(t, state.SortAscending)
	})
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	def := ordersDefinition()
	def.SortColumn = "C"

	state := &RequestState{PageNumber: -4}
	ApplyDefaults(state, def)
	first := *state
	ApplyDefaults(state, def)

	assert.Equal(t, first, *state)
	assert.Equal(t, 1, state.PageNumber)
	assert.Equal(t, 25, state.PageSize)
}

func TestStateQuery(t *testing.T) {
	def := ordersDefinition()

	t.Run("resolvable sort", func(t *testing.T) {
		state := &RequestState{SortColumn: "Customer.Name", PageNumber: 2, PageSize: 25}
		q := StateQuery(state, def)
		assert.Equal(t, Query{SortExpression: "Customer.Name", Offset: 25, Limit: 25}, q)
	})

	t.Run("non-sortable column is dropped", func(t *testing.T) {
		state := &RequestState{SortColumn: "A", SortAscending: true, PageNumber: 1, PageSize: 10}
		q := StateQuery(state, def)
		assert.Empty(t, q.SortExpression)
		assert.Equal(t, 10, q.Limit)
	})

	t.Run("unknown column is dropped", func(t *testing.T) {
		state := &RequestState{SortColumn: "Nope", PageNumber: 1, PageSize: 10}
		assert.Empty(t, StateQuery(state, def).SortExpression)
	})
}
