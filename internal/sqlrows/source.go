// Package sqlrows serves table pages straight from a SQL table, pushing
// ordering and paging into the query instead of loading every row.
package sqlrows

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rshade/webtables/internal/logging"
	"github.com/rshade/webtables/internal/table"
)

// Configuration errors.
var (
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrNoScanner         = errors.New("scan function is required")
)

//nolint:gochecknoglobals // Compiled once.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Scanner is the subset of *sql.Rows a ScanFunc needs.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one row in the order of Config.Columns.
type ScanFunc[T any] func(s Scanner) (T, error)

// SortColumn maps a sort expression onto a SQL column.
type SortColumn struct {
	Column string

	// NoCase orders text case-insensitively.
	NoCase bool
}

// Config describes the table behind a Source.
type Config[T any] struct {
	// Table is the table or view name.
	Table string

	// Columns is the select list, in scan order.
	Columns []string

	// Sort maps table.Query sort expressions to columns. Expressions not
	// listed are ignored and rows keep their storage order.
	Sort map[string]SortColumn

	// Where is an optional trusted filter clause with ? placeholders.
	Where string
	Args  []any

	Scan ScanFunc[T]
}

// Source implements table.Rows over a SQL table. Ties in the sort column are
// broken by rowid, so ordering is stable in both directions.
type Source[T any] struct {
	db  *sql.DB
	cfg Config[T]
}

// New checks cfg and returns a Source reading from db.
func New[T any](db *sql.DB, cfg Config[T]) (*Source[T], error) {
	if cfg.Scan == nil {
		return nil, ErrNoScanner
	}
	idents := append([]string{cfg.Table}, cfg.Columns...)
	for _, sc := range cfg.Sort {
		idents = append(idents, sc.Column)
	}
	for _, ident := range idents {
		if !identPattern.MatchString(ident) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, ident)
		}
	}
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("%w: empty select list", ErrInvalidIdentifier)
	}
	return &Source[T]{db: db, cfg: cfg}, nil
}

// SelectSQL builds the page query for q.
func (s *Source[T]) SelectSQL(q table.Query) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.cfg.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.cfg.Table)

	args := append([]any(nil), s.cfg.Args...)
	if s.cfg.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(s.cfg.Where)
	}

	b.WriteString(" ORDER BY ")
	if sc, ok := s.cfg.Sort[q.SortExpression]; ok && q.SortExpression != "" {
		b.WriteString(sc.Column)
		if sc.NoCase {
			b.WriteString(" COLLATE NOCASE")
		}
		if q.Ascending {
			b.WriteString(" ASC, ")
		} else {
			b.WriteString(" DESC, ")
		}
	}
	b.WriteString("rowid ASC")

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, max(q.Offset, 0))

	return b.String(), args
}

// CountSQL builds the total-count query.
func (s *Source[T]) CountSQL() (string, []any) {
	query := "SELECT COUNT(*) FROM " + s.cfg.Table
	if s.cfg.Where != "" {
		query += " WHERE " + s.cfg.Where
	}
	return query, append([]any(nil), s.cfg.Args...)
}

// Fetch implements table.Rows.
func (s *Source[T]) Fetch(ctx context.Context, q table.Query) ([]T, error) {
	log := logging.FromContext(ctx)
	query, args := s.SelectSQL(q)

	log.Debug().Ctx(ctx).
		Str("component", "sqlrows").
		Str("operation", "fetch").
		Str("sql", query).
		Msg("querying page")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.cfg.Table, err)
	}
	defer rows.Close()

	var out []T
	if q.Limit > 0 {
		out = make([]T, 0, q.Limit)
	}
	for rows.Next() {
		item, scanErr := s.cfg.Scan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning %s: %w", s.cfg.Table, scanErr)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.cfg.Table, err)
	}
	return out, nil
}

// Count returns the number of rows matching the filter.
func (s *Source[T]) Count(ctx context.Context) (int, error) {
	query, args := s.CountSQL()
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", s.cfg.Table, err)
	}
	return n, nil
}
