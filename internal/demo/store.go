package demo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/webtables/internal/sqlrows"
)

const schema = `CREATE TABLE IF NOT EXISTS orders (
	id               TEXT    NOT NULL,
	number           INTEGER NOT NULL,
	customer_name    TEXT    NOT NULL,
	customer_country TEXT    NOT NULL,
	status           TEXT    NOT NULL,
	total            REAL    NOT NULL,
	placed_at        TEXT    NOT NULL
)`

// Store is a SQLite-backed order table.
type Store struct {
	DB     *sql.DB
	Orders *sqlrows.Source[Order]
}

// OpenStore opens dsn, creates the orders table and seeds it with n orders
// when it is empty.
func OpenStore(ctx context.Context, dsn string, n int) (*Store, error) {
	db, err := sqlrows.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := Seed(ctx, db, Orders(n)); err != nil {
		_ = db.Close()
		return nil, err
	}
	src, err := OrderSource(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{DB: db, Orders: src}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Seed creates the schema and inserts orders if the table is empty.
func Seed(ctx context.Context, db *sql.DB, orders []Order) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating orders table: %w", err)
	}

	var existing int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&existing); err != nil {
		return fmt.Errorf("counting orders: %w", err)
	}
	if existing > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO orders
		(id, number, customer_name, customer_country, status, total, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx,
			o.ID.String(), o.Number, o.Customer.Name, o.Customer.Country,
			o.Status, o.Total, o.PlacedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("seeding order %d: %w", o.Number, err)
		}
	}
	return tx.Commit()
}

// OrderSource returns a row source over the orders table. Sort expressions
// match the catalog's column sort keys.
func OrderSource(db *sql.DB) (*sqlrows.Source[Order], error) {
	return sqlrows.New(db, sqlrows.Config[Order]{
		Table:   "orders",
		Columns: []string{"id", "number", "customer_name", "customer_country", "status", "total", "placed_at"},
		Sort: map[string]sqlrows.SortColumn{
			"Number":        {Column: "number"},
			"Customer.Name": {Column: "customer_name", NoCase: true},
			"Status":        {Column: "status"},
			"Total":         {Column: "total"},
			"PlacedAt":      {Column: "placed_at"},
		},
		Scan: scanOrder,
	})
}

func scanOrder(s sqlrows.Scanner) (Order, error) {
	var (
		o        Order
		id       string
		placedAt string
	)
	if err := s.Scan(&id, &o.Number, &o.Customer.Name, &o.Customer.Country, &o.Status, &o.Total, &placedAt); err != nil {
		return Order{}, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return Order{}, fmt.Errorf("order id %q: %w", id, err)
	}
	o.ID = parsedID
	o.PlacedAt, err = time.Parse(time.RFC3339, placedAt)
	if err != nil {
		return Order{}, fmt.Errorf("order %d placed_at: %w", o.Number, err)
	}
	return o, nil
}
