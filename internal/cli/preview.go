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
	"github.com/rshade/webtables/internal/tui"
)

func newPreviewCmd() *cobra.Command {
	var (
		area  string
		query string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse the orders table in the terminal",
		Long: `Shows the orders table with the same sorting and paging rules as the
HTML renderer. On a terminal the preview is interactive:

  n / p    next / previous page
  s        sort by the next sortable column
  r        reverse the sort direction
  + / -    larger / smaller page size
  q        quit

When stdout is not a terminal a single page is printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd, config.GetGlobalConfig(), area, query)
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "route area (for example admin)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "initial query string")
	return cmd
}

func runPreview(cmd *cobra.Command, cfg *config.Config, area, rawQuery string) (err error) {
	ctx := cmd.Context()

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return fmt.Errorf("parsing --query: %w", err)
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

	res := result.New[demo.Order](table.NewRegistry(cat), orders, total, demo.TableName, nil)
	def, err := res.Definition(ctx, tableRoute(area, "index"))
	if err != nil {
		return err
	}
	state := table.ParseRequestState(query)

	out := cmd.OutOrStdout()
	if _, _, isTTY := tui.ResolveTerminal(out); !isTTY {
		return tui.RenderStatic[demo.Order](ctx, out, def, orders, total, state)
	}
	final, err := tui.Run[demo.Order](ctx, def, orders, total, state)
	if err != nil {
		return err
	}
	logger.Debug().Ctx(ctx).
		Str("sort_column", final.SortColumn).
		Bool("sort_ascending", final.SortAscending).
		Int("page", final.PageNumber).
		Int("page_size", final.PageSize).
		Msg("preview closed")
	return nil
}
