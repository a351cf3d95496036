package demo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/webtables/internal/table"
)

func TestOrders_Deterministic(t *testing.T) {
	a := Orders(20)
	b := Orders(20)
	require.Len(t, a, 20)
	assert.Equal(t, a, b)

	ids := make(map[uuid.UUID]bool)
	for i, o := range a {
		assert.Equal(t, 1001+i, o.Number)
		assert.Equal(t, OrderID(i+1), o.ID)
		assert.False(t, ids[o.ID], "duplicate id")
		ids[o.ID] = true
		assert.Positive(t, o.Total)
		if i > 0 {
			assert.True(t, o.PlacedAt.After(a[i-1].PlacedAt))
		}
	}
	assert.Empty(t, Orders(0))
}

func TestCatalog(t *testing.T) {
	c, err := Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{TableName}, c.Tables())

	def, err := c.Load(context.Background(), table.Key{Table: TableName, Model: "Order", Controller: "orders", Action: "index"})
	require.NoError(t, err)
	assert.Equal(t, "orders", def.ID())
	assert.Equal(t, "placed", def.DefaultSortColumn())

	admin, err := c.Load(context.Background(), table.Key{Table: TableName, Model: "Order", Area: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin-orders", admin.ID())
	assert.Equal(t, 25, admin.DefaultPageSize())
	assert.Equal(t, "id", admin.Columns()[0].Name)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, ":memory:", 40)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	n, err := store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, n)

	// Seeding again is a no-op.
	require.NoError(t, Seed(ctx, store.DB, Orders(40)))
	n, err = store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, n)

	memory := table.FromSlice(Orders(40))
	for _, q := range []table.Query{
		{SortExpression: "PlacedAt", Ascending: false, Offset: 10, Limit: 10},
		{SortExpression: "Total", Ascending: true, Limit: 15},
		{SortExpression: "Number", Ascending: false, Offset: 35, Limit: 10},
	} {
		fromSQL, err := store.Orders.Fetch(ctx, q)
		require.NoError(t, err)
		fromMemory, err := memory.Fetch(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, fromMemory, fromSQL, "query %+v", q)
	}
}
