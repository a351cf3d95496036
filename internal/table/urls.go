package table

import (
	"net/url"
	"strconv"
	"strings"
)

// URLManager builds navigation links for a table. Links start from a base
// action URL and the request's query string (with render flags removed), and
// apply per-link overrides on top.
type URLManager struct {
	base  string
	query url.Values
	state *RequestState

	// ResetPageOnResize makes page-size links jump back to the first page.
	// Enabled by NewURLManager.
	ResetPageOnResize bool
}

// NewURLManager creates a manager for baseURL. query is copied, never
// modified; state supplies the current sort for toggle links.
func NewURLManager(baseURL string, query url.Values, state *RequestState) *URLManager {
	return &URLManager{
		base:              baseURL,
		query:             SanitizeQuery(query),
		state:             state,
		ResetPageOnResize: true,
	}
}

// SanitizeQuery returns a deep copy of query without the reserved render flags.
func SanitizeQuery(query url.Values) url.Values {
	clone := make(url.Values, len(query))
	for key, values := range query {
		if IsReservedParam(key) {
			continue
		}
		clone[key] = append([]string(nil), values...)
	}
	return clone
}

// BaseURL returns the action URL links are built on.
func (m *URLManager) BaseURL() string {
	return m.base
}

// URLFor returns the base URL with the sanitized query string and overrides
// applied. Overrides replace any existing values of the same parameter.
// Reserved render flags are never emitted, even as overrides.
func (m *URLManager) URLFor(overrides map[string]string) string {
	params := make(url.Values, len(m.query)+len(overrides))
	for key, values := range m.query {
		params[key] = append([]string(nil), values...)
	}
	for key, value := range overrides {
		if IsReservedParam(key) {
			continue
		}
		params.Set(key, value)
	}

	encoded := params.Encode()
	if encoded == "" {
		return m.base
	}

	sep := "?"
	if strings.Contains(m.base, "?") {
		sep = "&"
	}
	return m.base + sep + encoded
}

// SortURL returns the link for a column header. Clicking the current sort
// column flips the direction; any other column sorts ascending.
func (m *URLManager) SortURL(col Column) string {
	ascending := true
	if m.state != nil && m.state.SortColumn == col.SortKey() {
		ascending = !m.state.SortAscending
	}
	return m.URLFor(map[string]string{
		ParamSortColumn:    col.SortKey(),
		ParamSortAscending: strconv.FormatBool(ascending),
	})
}

// PageURL returns the link to page n.
func (m *URLManager) PageURL(n int) string {
	return m.URLFor(map[string]string{
		ParamPageNumber: strconv.Itoa(n),
	})
}

// PageSizeURL returns the link that switches to size rows per page.
func (m *URLManager) PageSizeURL(size int) string {
	overrides := map[string]string{
		ParamPageSize: strconv.Itoa(size),
	}
	if m.ResetPageOnResize {
		overrides[ParamPageNumber] = strconv.Itoa(FirstPage)
	}
	return m.URLFor(overrides)
}
