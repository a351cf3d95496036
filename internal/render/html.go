// Package render writes the table, pagination and page-size regions as HTML.
package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/rshade/webtables/internal/markup"
	"github.com/rshade/webtables/internal/table"
)

// Markup attribute names read by the page script.
const (
	// AttrRegion marks the wrapper element of a region.
	AttrRegion = "data-webtable-region"

	// AttrRegions on a link lists the regions to fetch when following it
	// as a partial render.
	AttrRegions = "data-webtable-regions"
)

// Regions re-rendered by each kind of link.
//
//nolint:gochecknoglobals // Read-only lookup values.
var (
	sortLinkRegions     = []string{table.RegionTable}
	pageLinkRegions     = []string{table.RegionTable, table.RegionPagination}
	pageSizeLinkRegions = []string{table.RegionTable, table.RegionPagination, table.RegionPageSize}
)

// View is everything a renderer needs for one request.
type View[T any] struct {
	Definition table.Definition
	State      table.RequestState
	Window     table.PageWindow
	URLs       *table.URLManager

	// Rows holds the current page. Only loaded when the table body renders.
	Rows []T
}

// Labels are the fixed texts of the rendered controls.
type Labels struct {
	First    string
	Previous string
	Next     string
	Last     string
	Empty    string
	NoItems  string
	PageSize string
}

// DefaultLabels returns English labels.
func DefaultLabels() Labels {
	return Labels{
		First:    "«",
		Previous: "‹",
		Next:     "›",
		Last:     "»",
		Empty:    "No records found.",
		NoItems:  "No records",
		PageSize: "Rows per page:",
	}
}

// HTML renders regions as plain HTML with CSS hooks.
type HTML[T any] struct {
	Labels Labels
	Format *Formatter
}

// NewHTML returns an HTML renderer with English labels and formatting.
func NewHTML[T any]() *HTML[T] {
	return &HTML[T]{
		Labels: DefaultLabels(),
		Format: NewFormatter(language.English),
	}
}

func regionsAttr(regions []string) html.Attribute {
	return markup.Attr(AttrRegions, strings.Join(regions, " "))
}

// Table writes the table region.
func (h *HTML[T]) Table(w *markup.Writer, view View[T]) error {
	endRegion := w.Begin("div", markup.Attr(AttrRegion, table.RegionTable))
	defer func() { _ = endRegion() }()

	columns := view.Definition.Columns()

	endTable := w.Begin("table", markup.Attr("id", view.Definition.ID()), markup.Attr("class", "webtable-table"))
	defer func() { _ = endTable() }()

	endHead := w.Begin("thead")
	endRow := w.Begin("tr")
	for _, col := range columns {
		h.header(w, view, col)
	}
	_ = endRow()
	_ = endHead()

	endBody := w.Begin("tbody")
	defer func() { _ = endBody() }()

	if len(view.Rows) == 0 {
		end := w.Begin("tr", markup.Attr("class", "webtable-empty"))
		w.Element("td", h.Labels.Empty, markup.Attr("colspan", strconv.Itoa(max(len(columns), 1))))
		_ = end()
		return w.Err()
	}

	for _, row := range view.Rows {
		end := w.Begin("tr")
		for _, col := range columns {
			w.Element("td", h.Format.Cell(row, col), classAttrs(col.CSSClass)...)
		}
		_ = end()
	}
	return w.Err()
}

func (h *HTML[T]) header(w *markup.Writer, view View[T], col table.Column) {
	attrs := classAttrs(col.CSSClass)
	current := col.SortKey() == view.State.SortColumn
	if current {
		dir := "descending"
		if view.State.SortAscending {
			dir = "ascending"
		}
		attrs = append(attrs, markup.Attr("aria-sort", dir))
	}

	end := w.Begin("th", attrs...)
	defer func() { _ = end() }()

	if !col.Sortable {
		w.Text(col.Title())
		return
	}
	w.Element("a", col.Title(),
		markup.Attr("href", view.URLs.SortURL(col)),
		regionsAttr(sortLinkRegions))
}

// Pagination writes the pager region.
func (h *HTML[T]) Pagination(w *markup.Writer, view View[T]) error {
	endRegion := w.Begin("div", markup.Attr(AttrRegion, table.RegionPagination))
	defer func() { _ = endRegion() }()

	win := view.Window
	endNav := w.Begin("nav", markup.Attr("class", "webtable-pager"), markup.Attr("aria-label", "Pagination"))
	defer func() { _ = endNav() }()

	endList := w.Begin("ul")
	h.pageLink(w, view, table.FirstPage, h.Labels.First, win.HasPrevious(), false)
	h.pageLink(w, view, win.CurrentPage-1, h.Labels.Previous, win.HasPrevious(), false)
	for _, page := range win.Pages() {
		h.pageLink(w, view, page, strconv.Itoa(page), page != win.CurrentPage, page == win.CurrentPage)
	}
	h.pageLink(w, view, win.CurrentPage+1, h.Labels.Next, win.HasNext(), false)
	h.pageLink(w, view, win.TotalPages, h.Labels.Last, win.HasNext(), false)
	_ = endList()

	w.Element("p", h.Summary(win), markup.Attr("class", "webtable-summary"))
	return w.Err()
}

func (h *HTML[T]) pageLink(w *markup.Writer, view View[T], page int, label string, enabled, current bool) {
	var liAttrs []html.Attribute
	switch {
	case current:
		liAttrs = append(liAttrs, markup.Attr("class", "active"))
	case !enabled:
		liAttrs = append(liAttrs, markup.Attr("class", "disabled"))
	}

	end := w.Begin("li", liAttrs...)
	defer func() { _ = end() }()

	if !enabled {
		spanAttrs := []html.Attribute{}
		if current {
			spanAttrs = append(spanAttrs, markup.Attr("aria-current", "page"))
		}
		w.Element("span", label, spanAttrs...)
		return
	}
	w.Element("a", label,
		markup.Attr("href", view.URLs.PageURL(page)),
		regionsAttr(pageLinkRegions))
}

// Summary returns the pager's item range text, e.g. "Showing 11–20 of 1,234".
func (h *HTML[T]) Summary(win table.PageWindow) string {
	if win.TotalResults == 0 {
		return h.Labels.NoItems
	}
	return "Showing " + h.Format.FormatNumber(int64(win.FirstItem())) + "–" +
		h.Format.FormatNumber(int64(win.LastItem())) + " of " +
		h.Format.FormatNumber(int64(win.TotalResults))
}

// PageSize writes the page-size selector region.
func (h *HTML[T]) PageSize(w *markup.Writer, view View[T]) error {
	endRegion := w.Begin("div", markup.Attr(AttrRegion, table.RegionPageSize))
	defer func() { _ = endRegion() }()

	w.Element("span", h.Labels.PageSize, markup.Attr("class", "webtable-pagesize-label"))

	endList := w.Begin("ul", markup.Attr("class", "webtable-pagesize"))
	defer func() { _ = endList() }()

	for _, size := range PageSizeChoices(view.Definition.Paging(), view.State.PageSize) {
		label := strconv.Itoa(size)
		if size == view.State.PageSize {
			end := w.Begin("li", markup.Attr("class", "active"))
			w.Element("span", label, markup.Attr("aria-current", "true"))
			_ = end()
			continue
		}
		end := w.Begin("li")
		w.Element("a", label,
			markup.Attr("href", view.URLs.PageSizeURL(size)),
			regionsAttr(pageSizeLinkRegions))
		_ = end()
	}
	return w.Err()
}

// PageSizeChoices returns the positive configured page sizes, or just current
// when none are configured.
func PageSizeChoices(paging table.PagingConfig, current int) []int {
	var sizes []int
	for _, size := range paging.PageSizes {
		if size > 0 {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 && current > 0 {
		sizes = append(sizes, current)
	}
	return sizes
}

func classAttrs(class string) []html.Attribute {
	if class == "" {
		return nil
	}
	return []html.Attribute{markup.Attr("class", class)}
}
