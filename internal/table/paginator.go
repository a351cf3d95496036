package table

// PageWindow describes the pager for one result set. It is derived per
// request and never stored.
type PageWindow struct {
	// TotalResults is the size of the whole result set.
	TotalResults int

	// PageSize is the number of rows per page.
	PageSize int

	// CurrentPage is the requested page clamped into [1, TotalPages].
	CurrentPage int

	// TotalPages is ceil(TotalResults / PageSize), at least 1.
	TotalPages int

	// WindowStart and WindowEnd bound the page links shown (inclusive).
	WindowStart int
	WindowEnd   int
}

// BuildPageWindow computes the pager for totalResults rows split into pages
// of pageSize, showing at most windowSize page links around currentPage.
//
// The window is centred on the current page and shifted at either edge so it
// stays windowSize long whenever enough pages exist. The caller's page number
// is not modified; out-of-range pages are only clamped for display.
func BuildPageWindow(totalResults, pageSize, windowSize, currentPage int) PageWindow {
	if pageSize <= 0 {
		pageSize = FallbackPageSize
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	totalResults = max(totalResults, 0)

	totalPages := max((totalResults+pageSize-1)/pageSize, 1)
	current := min(max(currentPage, FirstPage), totalPages)

	start := current - windowSize/2
	end := start + windowSize - 1
	if start < FirstPage {
		start = FirstPage
		end = min(windowSize, totalPages)
	}
	if end > totalPages {
		end = totalPages
		start = max(totalPages-windowSize+1, FirstPage)
	}

	return PageWindow{
		TotalResults: totalResults,
		PageSize:     pageSize,
		CurrentPage:  current,
		TotalPages:   totalPages,
		WindowStart:  start,
		WindowEnd:    end,
	}
}

// Pages returns the page numbers inside the window in ascending order.
func (w PageWindow) Pages() []int {
	if w.WindowEnd < w.WindowStart {
		return nil
	}
	pages := make([]int, 0, w.WindowEnd-w.WindowStart+1)
	for p := w.WindowStart; p <= w.WindowEnd; p++ {
		pages = append(pages, p)
	}
	return pages
}

// HasPrevious reports whether a page precedes the current one.
func (w PageWindow) HasPrevious() bool {
	return w.CurrentPage > FirstPage
}

// HasNext reports whether a page follows the current one.
func (w PageWindow) HasNext() bool {
	return w.CurrentPage < w.TotalPages
}

// FirstItem returns the 1-based index of the first row on the current page,
// or 0 when the result set is empty.
func (w PageWindow) FirstItem() int {
	if w.TotalResults == 0 {
		return 0
	}
	return (w.CurrentPage-1)*w.PageSize + 1
}

// LastItem returns the 1-based index of the last row on the current page,
// or 0 when the result set is empty.
func (w PageWindow) LastItem() int {
	if w.TotalResults == 0 {
		return 0
	}
	return min(w.CurrentPage*w.PageSize, w.TotalResults)
}
