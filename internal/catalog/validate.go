package catalog

import (
	"errors"
	"fmt"

	"github.com/rshade/webtables/internal/table"
)

// Validate checks the structure of file. All problems are reported together,
// each wrapped in ErrInvalidCatalog.
func Validate(file File) error {
	var errs []error
	seen := make(map[string]bool, len(file.Tables))

	for i, t := range file.Tables {
		where := fmt.Sprintf("tables[%d]", i)
		if t.Name == "" {
			errs = append(errs, invalid("%s: name is required", where))
		} else {
			where = fmt.Sprintf("table %q", t.Name)
			id := t.Name + "|" + t.Model
			if seen[id] {
				errs = append(errs, invalid("%s: declared more than once", where))
			}
			seen[id] = true
		}

		if len(t.Columns) == 0 {
			errs = append(errs, invalid("%s: at least one column is required", where))
		}
		errs = append(errs, validateColumns(where, t.Columns)...)
		errs = append(errs, validateSort(where, t.DefaultSort, t.Columns)...)
		errs = append(errs, validatePaging(where, t.DefaultPageSize, &t.Paging)...)

		for j, s := range t.Scopes {
			scopeWhere := fmt.Sprintf("%s scopes[%d]", where, j)
			if s.Area == "" && s.Controller == "" && s.Action == "" {
				errs = append(errs, invalid("%s: needs area, controller or action", scopeWhere))
			}
			columns := t.Columns
			if s.Columns != nil {
				columns = s.Columns
				errs = append(errs, validateColumns(scopeWhere, s.Columns)...)
			}
			sort := s.DefaultSort
			if sort == nil {
				sort = t.DefaultSort
			}
			errs = append(errs, validateSort(scopeWhere, sort, columns)...)
			errs = append(errs, validatePaging(scopeWhere, s.DefaultPageSize, s.Paging)...)
		}
	}

	return errors.Join(errs...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

func validateColumns(where string, columns []table.Column) []error {
	var errs []error
	names := make(map[string]bool, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			errs = append(errs, invalid("%s: columns[%d] has no name", where, i))
			continue
		}
		if names[col.Name] {
			errs = append(errs, invalid("%s: duplicate column %q", where, col.Name))
		}
		names[col.Name] = true
	}
	return errs
}

func validateSort(where string, sort *SortSpec, columns []table.Column) []error {
	if sort == nil || sort.Column == "" {
		return nil
	}
	for _, col := range columns {
		if col.Name == sort.Column {
			return nil
		}
	}
	return []error{invalid("%s: default sort column %q is not a column", where, sort.Column)}
}

func validatePaging(where string, defaultPageSize int, paging *table.PagingConfig) []error {
	var errs []error
	if defaultPageSize < 0 {
		errs = append(errs, invalid("%s: default_page_size must be positive", where))
	}
	if paging == nil {
		return errs
	}
	for _, size := range paging.PageSizes {
		if size <= 0 {
			errs = append(errs, invalid("%s: page size %d must be positive", where, size))
		}
	}
	if paging.WindowSize < 0 {
		errs = append(errs, invalid("%s: window_size must be positive", where))
	}
	return errs
}
