package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/demo"
	"github.com/rshade/webtables/internal/result"
	"github.com/rshade/webtables/internal/table"
)

type renderOptions struct {
	area    string
	action  string
	query   string
	regions []string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an orders table fragment to stdout",
		Long: `Renders the orders table as the server would answer a partial request.

The query string carries the table state (sortColumn, sortAscending,
pageNumber, pageSize). Without --regions only the table body is rendered.`,
		Example: `  # Second page sorted by total, descending
  webtables render --query "sortColumn=Total&sortAscending=false&pageNumber=2"

  # Pager and page-size selector of the admin listing
  webtables render --area admin --regions pagination,pagesize`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, config.GetGlobalConfig(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.area, "area", "", "route area (for example admin)")
	cmd.Flags().StringVar(&opts.action, "action", "index", "route action")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "request query string")
	cmd.Flags().StringSliceVarP(&opts.regions, "regions", "r", nil,
		"regions to render: table, pagination, pagesize or all")
	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, opts renderOptions) (err error) {
	ctx := cmd.Context()

	query, err := url.ParseQuery(opts.query)
	if err != nil {
		return fmt.Errorf("parsing --query: %w", err)
	}
	route := tableRoute(opts.area, opts.action)
	if err := parseRegions(route, opts.regions); err != nil {
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	orders, closeOrders, err := openOrders(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeOrders()) }()

	total, err := orders.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting orders: %w", err)
	}

	res := result.New[demo.Order](table.NewRegistry(cat), orders, total, demo.TableName, table.ParseRequestState(query))
	out := cmd.OutOrStdout()
	if err := res.Execute(ctx, result.Context{
		Route:            route,
		Query:            query,
		URLs:             result.PathURLBuilder{Prefix: cfg.Tables.BasePath},
		Writer:           out,
		KeepPageOnResize: !cfg.Tables.ResetPageOnResize,
	}); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
