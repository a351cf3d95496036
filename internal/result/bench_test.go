package result

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/rshade/webtables/internal/table"
)

// BenchmarkExecute_AllRegions benchmarks a full render over 10k in-memory rows
// sorted by a string column.
func BenchmarkExecute_AllRegions(b *testing.B) {
	b.ReportAllocs()
	rows := widgets(10000)
	provider := staticProvider(widgetDefinition())
	rv := route(table.AllRegions.RouteValues())
	query := url.Values{"sortColumn": {"Name"}, "pageNumber": {"42"}, "pageSize": {"20"}}

	b.ResetTimer()
	for b.Loop() {
		res := FromSlice(provider, rows, "widgets", table.ParseRequestState(query))
		if err := res.Execute(context.Background(), Context{Route: rv, Query: query, Writer: io.Discard}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuildPageWindow benchmarks pager construction.
func BenchmarkBuildPageWindow(b *testing.B) {
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		win := table.BuildPageWindow(1_000_000, 25, table.DefaultWindowSize, i%40000)
		_ = win.Pages()
	}
}
