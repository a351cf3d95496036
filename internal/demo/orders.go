// Package demo provides the sample order data used by the server, the CLI
// and the terminal preview.
package demo

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/webtables/internal/catalog"
)

// TableName is the catalog name of the orders table.
const TableName = "orders"

// DefaultOrderCount is the size of the generated dataset.
const DefaultOrderCount = 137

//go:embed catalog.yaml
var catalogYAML []byte

//nolint:gochecknoglobals // Fixed namespace for deterministic order IDs.
var orderNamespace = uuid.MustParse("6f1c7a52-3c1e-4b8e-9a57-0c7f3f0f5e21")

// Customer is the buyer of an order.
type Customer struct {
	Name    string
	Country string
}

// Order is one row of the demo table.
type Order struct {
	ID       uuid.UUID
	Number   int
	Customer Customer
	Status   string
	Total    float64
	PlacedAt time.Time
}

// Statuses lists the order states used by the generator.
//
//nolint:gochecknoglobals // Read-only sample values.
var Statuses = []string{"pending", "paid", "shipped", "delivered", "cancelled"}

//nolint:gochecknoglobals // Read-only sample values.
var customers = []Customer{
	{Name: "Ada Lovelace", Country: "GB"},
	{Name: "grace hopper", Country: "US"},
	{Name: "Linus Torvalds", Country: "FI"},
	{Name: "Margaret Hamilton", Country: "US"},
	{Name: "Ken Thompson", Country: "US"},
	{Name: "Barbara Liskov", Country: "US"},
	{Name: "Niklaus Wirth", Country: "CH"},
	{Name: "Edsger Dijkstra", Country: "NL"},
	{Name: "Frances Allen", Country: "US"},
	{Name: "Tim Berners-Lee", Country: "GB"},
	{Name: "Ólafur Ragnar", Country: "IS"},
}

// OrderID returns the stable ID of order number n.
func OrderID(n int) uuid.UUID {
	return uuid.NewSHA1(orderNamespace, fmt.Appendf(nil, "order-%d", n))
}

// Orders returns n generated orders. The same n always yields the same data.
func Orders(n int) []Order {
	rng := rand.New(rand.NewPCG(42, 1024)) //nolint:gosec // Sample data, not security sensitive.
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	orders := make([]Order, 0, max(n, 0))
	placed := start
	for i := 1; i <= n; i++ {
		placed = placed.Add(time.Duration(rng.IntN(36)+1) * time.Hour)
		cents := rng.IntN(250000) + 500
		orders = append(orders, Order{
			ID:       OrderID(i),
			Number:   1000 + i,
			Customer: customers[rng.IntN(len(customers))],
			Status:   Statuses[rng.IntN(len(Statuses))],
			Total:    float64(cents) / 100,
			PlacedAt: placed,
		})
	}
	return orders
}

// Catalog returns the embedded table catalog.
func Catalog() (*catalog.Catalog, error) {
	c, err := catalog.Parse(catalogYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

// CatalogYAML returns the raw embedded catalog document.
func CatalogYAML() []byte {
	return append([]byte(nil), catalogYAML...)
}
