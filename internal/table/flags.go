package table

import (
	"net/url"
	"strings"
)

// Reserved route/query parameters that request partial renders. The names are
// shared with page scripts and must not be used for anything else.
const (
	ParamRenderTable      = "renderTable"
	ParamRenderPagination = "renderPagination"
	ParamRenderPageSize   = "renderPageSize"
)

// Route data keys understood by the orchestrator.
const (
	RouteAction     = "action"
	RouteController = "controller"
	RouteArea       = "area"
	RouteID         = "id"
)

// Region names used in markup and partial-render requests.
const (
	RegionTable      = "table"
	RegionPagination = "pagination"
	RegionPageSize   = "pagesize"
)

// ReservedParams lists the render flag names in a fixed order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ReservedParams = []string{ParamRenderTable, ParamRenderPagination, ParamRenderPageSize}

// IsReservedParam reports whether name is one of the render flags.
func IsReservedParam(name string) bool {
	for _, reserved := range ReservedParams {
		if name == reserved {
			return true
		}
	}
	return false
}

// RouteValues is the route data of the current request.
type RouteValues map[string]any

// String returns the route value for key as a string, or "" when absent.
func (r RouteValues) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case interface{ String() string }:
		return typed.String()
	default:
		return ""
	}
}

// RenderFlags records which regions a request asked for.
type RenderFlags struct {
	Table      bool
	Pagination bool
	PageSize   bool
}

// ReadRenderFlags reads the three render flags. Route data wins over the
// query string: when the route carries a flag, its value decides. Only a
// boolean true or the string "true" in any letter case counts as set.
func ReadRenderFlags(route RouteValues, query url.Values) RenderFlags {
	return RenderFlags{
		Table:      flagIsTrue(ParamRenderTable, route, query),
		Pagination: flagIsTrue(ParamRenderPagination, route, query),
		PageSize:   flagIsTrue(ParamRenderPageSize, route, query),
	}
}

// flagIsTrue reads one flag. A route value is final, so a route false hides a
// query true; the two sources are not ORed together.
func flagIsTrue(key string, route RouteValues, query url.Values) bool {
	if v, ok := route[key]; ok {
		switch typed := v.(type) {
		case bool:
			return typed
		case string:
			return strings.EqualFold(typed, "true")
		default:
			return false
		}
	}
	if _, ok := query[key]; ok {
		return strings.EqualFold(query.Get(key), "true")
	}
	return false
}

// TableBody reports whether the table region is rendered: either requested
// explicitly or implied because no other region was requested.
func (f RenderFlags) TableBody() bool {
	return f.Table || (!f.Pagination && !f.PageSize)
}

// Any reports whether any flag was set, i.e. the request is a partial render.
func (f RenderFlags) Any() bool {
	return f.Table || f.Pagination || f.PageSize
}

// Regions lists the regions rendered for f, in render order.
func (f RenderFlags) Regions() []string {
	var regions []string
	if f.TableBody() {
		regions = append(regions, RegionTable)
	}
	if f.Pagination {
		regions = append(regions, RegionPagination)
	}
	if f.PageSize {
		regions = append(regions, RegionPageSize)
	}
	return regions
}

// AllRegions are the flags of a full-page render.
//
//nolint:gochecknoglobals // Value constant.
var AllRegions = RenderFlags{Table: true, Pagination: true, PageSize: true}

// RouteValues returns route data that requests exactly the regions of f.
func (f RenderFlags) RouteValues() RouteValues {
	return RouteValues{
		ParamRenderTable:      f.Table,
		ParamRenderPagination: f.Pagination,
		ParamRenderPageSize:   f.PageSize,
	}
}
