package table

import (
	"context"
	"iter"
	"reflect"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// maxPagePrealloc caps the capacity reserved up front for a page.
const maxPagePrealloc = 256

// Query describes one page of an ordered row set.
type Query struct {
	// SortExpression is the property path to order by. Empty keeps the source order.
	SortExpression string

	// Ascending is the sort direction.
	Ascending bool

	// Offset is the number of rows to skip.
	Offset int

	// Limit is the maximum number of rows returned. Values <= 0 mean no limit.
	Limit int
}

// Rows is a source of table rows able to answer a Query.
type Rows[T any] interface {
	Fetch(ctx context.Context, q Query) ([]T, error)
}

// SeqRows adapts a lazily evaluated sequence to Rows. Every Fetch iterates
// the sequence again, so it must be re-iterable.
type SeqRows[T any] iter.Seq[T]

// Fetch implements Rows using ApplyQuery.
func (s SeqRows[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ApplyQuery(iter.Seq[T](s), q), nil
}

// FromSlice adapts an in-memory slice to Rows.
func FromSlice[T any](rows []T) SeqRows[T] {
	return SeqRows[T](slices.Values(rows))
}

// Paginate orders rows by state.SortColumn (when set) and returns the page
// selected by state.PageNumber and state.PageSize.
// It is a pure function of its inputs. Pages beyond the end yield an empty slice.
func Paginate[T any](rows iter.Seq[T], state RequestState) []T {
	return ApplyQuery(rows, Query{
		SortExpression: state.SortColumn,
		Ascending:      state.SortAscending,
		Offset:         state.Offset(),
		Limit:          state.PageSize,
	})
}

// ApplyQuery runs the sort-then-slice pipeline over rows.
//
// Sorting is stable: rows with equal keys keep their input order in both
// directions. Without a sort expression the sequence is consumed lazily and
// iteration stops once the page is filled.
func ApplyQuery[T any](rows iter.Seq[T], q Query) []T {
	offset := max(q.Offset, 0)

	if q.SortExpression == "" {
		return takePage(rows, offset, q.Limit)
	}

	sorted := sortRows(slices.Collect(rows), q.SortExpression, q.Ascending)
	return takePage(slices.Values(sorted), offset, q.Limit)
}

// takePage skips offset items and collects up to limit items.
func takePage[T any](rows iter.Seq[T], offset, limit int) []T {
	page := make([]T, 0, min(max(limit, 0), maxPagePrealloc))
	skipped := 0
	for row := range rows {
		if skipped < offset {
			skipped++
			continue
		}
		page = append(page, row)
		if limit > 0 && len(page) >= limit {
			break
		}
	}
	return page
}

type keyedRow[T any] struct {
	row T
	key reflect.Value
}

// sortRows returns rows stably ordered by the property at path.
// If the path resolves on no row, rows are returned unchanged.
func sortRows[T any](rows []T, path string, ascending bool) []T {
	keyed := make([]keyedRow[T], len(rows))
	resolved := false
	for i, row := range rows {
		v, ok := PropertyValue(row, path)
		resolved = resolved || ok
		keyed[i] = keyedRow[T]{row: row, key: v}
	}
	if !resolved {
		return rows
	}

	// Collators keep internal buffers and are not safe to share.
	coll := collate.New(language.English)
	slices.SortStableFunc(keyed, func(a, b keyedRow[T]) int {
		c := compareValues(a.key, b.key, coll)
		if !ascending {
			return -c
		}
		return c
	})

	out := make([]T, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out
}
