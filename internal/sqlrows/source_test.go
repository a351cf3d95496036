package sqlrows

import (
	"context"
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/webtables/internal/table"
)

type product struct {
	ID    int
	Name  string
	Price int
}

func scanProduct(s Scanner) (product, error) {
	var p product
	err := s.Scan(&p.ID, &p.Name, &p.Price)
	return p, err
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE products (id INTEGER NOT NULL, name TEXT NOT NULL, price INTEGER NOT NULL)`)
	require.NoError(t, err)

	seed := []product{
		{1, "lamp", 30},
		{2, "Desk", 10},
		{3, "chair", 20},
		{4, "bed", 10},
		{5, "Shelf", 10},
	}
	for _, p := range seed {
		_, err = db.ExecContext(ctx, `INSERT INTO products (id, name, price) VALUES (?, ?, ?)`, p.ID, p.Name, p.Price)
		require.NoError(t, err)
	}
	return db
}

func newSource(t *testing.T, db *sql.DB, where string, args ...any) *Source[product] {
	t.Helper()
	src, err := New(db, Config[product]{
		Table:   "products",
		Columns: []string{"id", "name", "price"},
		Sort: map[string]SortColumn{
			"ID":    {Column: "id"},
			"Name":  {Column: "name", NoCase: true},
			"Price": {Column: "price"},
		},
		Where: where,
		Args:  args,
		Scan:  scanProduct,
	})
	require.NoError(t, err)
	return src
}

func productIDs(rows []product) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestSource_Fetch(t *testing.T) {
	src := newSource(t, openTestDB(t), "")

	tests := []struct {
		name  string
		query table.Query
		want  []int
	}{
		{name: "storage order", query: table.Query{Limit: 3}, want: []int{1, 2, 3}},
		{name: "offset", query: table.Query{Offset: 3, Limit: 3}, want: []int{4, 5}},
		{name: "no limit", query: table.Query{Offset: 1}, want: []int{2, 3, 4, 5}},
		{
			name:  "ascending ties in storage order",
			query: table.Query{SortExpression: "Price", Ascending: true, Limit: 10},
			want:  []int{2, 4, 5, 3, 1},
		},
		{
			name:  "descending ties in storage order",
			query: table.Query{SortExpression: "Price", Ascending: false, Limit: 10},
			want:  []int{1, 3, 2, 4, 5},
		},
		{
			name:  "case-insensitive text",
			query: table.Query{SortExpression: "Name", Ascending: true, Limit: 10},
			want:  []int{4, 3, 2, 1, 5},
		},
		{
			name:  "unknown sort expression keeps storage order",
			query: table.Query{SortExpression: "Missing", Ascending: false, Limit: 2},
			want:  []int{1, 2},
		},
		{name: "beyond the end", query: table.Query{Offset: 50, Limit: 10}, want: []int{}},
		{name: "saturated offset", query: table.Query{Offset: math.MaxInt, Limit: 10}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Fetch(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, productIDs(got))
		})
	}
}

func TestSource_MatchesInMemoryPipeline(t *testing.T) {
	db := openTestDB(t)
	src := newSource(t, db, "")

	all, err := src.Fetch(context.Background(), table.Query{})
	require.NoError(t, err)

	q := table.Query{SortExpression: "Price", Ascending: false, Offset: 1, Limit: 3}
	fromSQL, err := src.Fetch(context.Background(), q)
	require.NoError(t, err)
	fromMemory, err := table.FromSlice(all).Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, productIDs(fromMemory), productIDs(fromSQL))
}

func TestSource_Where(t *testing.T) {
	src := newSource(t, openTestDB(t), "price = ?", 10)

	n, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := src.Fetch(context.Background(), table.Query{SortExpression: "ID", Ascending: false, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4}, productIDs(got))
}

func TestSource_SQL(t *testing.T) {
	src := newSource(t, openTestDB(t), "price > ?", 5)

	query, args := src.SelectSQL(table.Query{SortExpression: "Name", Ascending: false, Offset: 20, Limit: 10})
	assert.Equal(t,
		"SELECT id, name, price FROM products WHERE price > ? ORDER BY name COLLATE NOCASE DESC, rowid ASC LIMIT ? OFFSET ?",
		query)
	assert.Equal(t, []any{5, 10, 20}, args)

	count, countArgs := src.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE price > ?", count)
	assert.Equal(t, []any{5}, countArgs)
}

func TestNew_Validation(t *testing.T) {
	db := openTestDB(t)

	_, err := New(db, Config[product]{Table: "products", Columns: []string{"id"}})
	require.ErrorIs(t, err, ErrNoScanner)

	_, err = New(db, Config[product]{Table: "products; DROP TABLE x", Columns: []string{"id"}, Scan: scanProduct})
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = New(db, Config[product]{
		Table: "products", Columns: []string{"id"}, Scan: scanProduct,
		Sort: map[string]SortColumn{"x": {Column: "name desc"}},
	})
	require.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = New(db, Config[product]{Table: "products", Scan: scanProduct})
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestSource_FetchCanceled(t *testing.T) {
	src := newSource(t, openTestDB(t), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, table.Query{})
	require.Error(t, err)
}
