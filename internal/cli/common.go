package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/webtables/internal/catalog"
	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/demo"
	"github.com/rshade/webtables/internal/server"
	"github.com/rshade/webtables/internal/table"
)

// loadCatalog returns the configured catalog, or the built-in demo catalog
// when no path is set.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return demo.Catalog()
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

// openOrders opens the configured order source. The returned function
// releases it.
func openOrders(ctx context.Context, cfg *config.Config) (server.OrderSource, func() error, error) {
	switch strings.ToLower(cfg.Data.Source) {
	case config.DataSourceSQLite:
		store, err := demo.OpenStore(ctx, cfg.Data.DSN, cfg.Data.Orders)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite order store: %w", err)
		}
		logger.Debug().Ctx(ctx).
			Str("dsn", cfg.Data.DSN).
			Int("orders", cfg.Data.Orders).
			Msg("using sqlite order store")
		return store.Orders, store.Close, nil
	default:
		return server.MemoryOrders(demo.Orders(cfg.Data.Orders)), func() error { return nil }, nil
	}
}

// tableRoute builds the route values of the orders controller.
func tableRoute(area, action string) table.RouteValues {
	route := table.RouteValues{
		table.RouteController: "orders",
		table.RouteAction:     action,
	}
	if area != "" {
		route[table.RouteArea] = area
	}
	return route
}

// parseRegions maps region names to render flags on route. Unknown names are
// an error; an empty list leaves the route unchanged.
func parseRegions(route table.RouteValues, regions []string) error {
	params := map[string]string{
		table.RegionTable:      table.ParamRenderTable,
		table.RegionPagination: table.ParamRenderPagination,
		table.RegionPageSize:   table.ParamRenderPageSize,
	}
	for _, r := range regions {
		name := strings.ToLower(strings.TrimSpace(r))
		if name == "all" {
			for _, p := range params {
				route[p] = true
			}
			continue
		}
		param, ok := params[name]
		if !ok {
			return fmt.Errorf("unknown region %q (want table, pagination, pagesize or all)", r)
		}
		route[param] = true
	}
	return nil
}
