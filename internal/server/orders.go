package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/rshade/webtables/internal/demo"
	"github.com/rshade/webtables/internal/logging"
	"github.com/rshade/webtables/internal/result"
	"github.com/rshade/webtables/internal/table"
)

// Admin listing overrides applied per request on top of the admin scope.
const adminWindowSize = 5

// OrderSource is a row source that also knows its row count.
type OrderSource interface {
	table.Rows[demo.Order]
	Count(ctx context.Context) (int, error)
}

type memoryOrders struct {
	rows []demo.Order
}

// MemoryOrders serves rows from a slice, sorted and paged in process.
func MemoryOrders(rows []demo.Order) OrderSource {
	return memoryOrders{rows: rows}
}

func (m memoryOrders) Fetch(ctx context.Context, q table.Query) ([]demo.Order, error) {
	return table.FromSlice(m.rows).Fetch(ctx, q)
}

func (m memoryOrders) Count(context.Context) (int, error) {
	return len(m.rows), nil
}

// page describes one table route.
type page struct {
	title     string
	route     table.RouteValues
	overrides table.Overrides
}

func (s *Server) ordersIndex(w http.ResponseWriter, r *http.Request) {
	s.renderOrders(w, r, page{
		title: "Orders",
		route: table.RouteValues{
			table.RouteController: "orders",
			table.RouteAction:     "index",
		},
	})
}

// ordersPager serves the pager region alone, selected through route data
// rather than the query string.
func (s *Server) ordersPager(w http.ResponseWriter, r *http.Request) {
	s.renderOrders(w, r, page{
		title: "Orders",
		route: table.RouteValues{
			table.RouteController:       "orders",
			table.RouteAction:           "pager",
			table.ParamRenderPagination: true,
		},
	})
}

func (s *Server) adminOrdersIndex(w http.ResponseWriter, r *http.Request) {
	window := adminWindowSize
	s.renderOrders(w, r, page{
		title: "Orders (admin)",
		route: table.RouteValues{
			table.RouteArea:       "admin",
			table.RouteController: "orders",
			table.RouteAction:     "index",
		},
		overrides: table.Overrides{WindowSize: &window},
	})
}

func (s *Server) renderOrders(w http.ResponseWriter, r *http.Request, p page) {
	ctx := r.Context()
	query := r.URL.Query()

	total, err := s.opts.Orders.Count(ctx)
	if err != nil {
		s.fail(ctx, w, fmt.Errorf("counting orders: %w", err))
		return
	}

	res := result.New[demo.Order](
		s.opts.Definitions,
		s.opts.Orders,
		total,
		demo.TableName,
		table.ParseRequestState(query),
	).WithOverrides(p.overrides)

	rc := result.Context{
		Route:            p.route,
		Query:            query,
		URLs:             result.PathURLBuilder{Prefix: s.opts.Tables.BasePath},
		KeepPageOnResize: !s.opts.Tables.ResetPageOnResize,
	}

	var buf bytes.Buffer
	if table.ReadRenderFlags(p.route, query).Any() {
		rc.Writer = &buf
		err = res.Execute(ctx, rc)
	} else {
		route := maps.Clone(p.route)
		maps.Copy(route, table.AllRegions.RouteValues())
		rc.Route = route
		err = writePage(&buf, p.title, func(pw *bytes.Buffer) error {
			rc.Writer = pw
			return res.Execute(ctx, rc)
		})
	}
	if err != nil {
		s.fail(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, table.ErrDefinitionNotFound) {
		status = http.StatusNotFound
	}
	logging.FromContext(ctx).Error().Ctx(ctx).
		Str("component", "server").
		Int("status", status).
		Err(err).
		Msg("table render failed")
	http.Error(w, http.StatusText(status), status)
}
