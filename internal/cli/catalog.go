package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/webtables/internal/catalog"
	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/demo"
)

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Table catalog commands"}
	cmd.AddCommand(newCatalogValidateCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a table catalog file",
		Long: `Checks the catalog schema version and every table definition: unique
names, known default sort columns, positive page sizes and matchable scopes.

Without a path the configured catalog (--catalog or catalog.path) is checked,
falling back to the built-in demo catalog.`,
		Example: `  # Validate a catalog file
  webtables catalog validate ./catalog.yaml

  # Show the tables it defines
  webtables catalog validate ./catalog.yaml --verbose`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetGlobalConfig().Catalog.Path
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalogValidate(cmd, path, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list the tables in the catalog")
	return cmd
}

func runCatalogValidate(cmd *cobra.Command, path string, verbose bool) error {
	var (
		cat *catalog.Catalog
		err error
	)
	name := path
	if path == "" {
		name = "built-in catalog"
		cat, err = demo.Catalog()
	} else {
		cat, err = catalog.LoadFile(path)
	}
	if err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog is valid: %s (version %s, %d table(s))\n", name, cat.Version(), len(cat.Tables()))
	if verbose {
		for _, t := range cat.Tables() {
			fmt.Fprintf(out, "  - %s\n", t)
		}
	}
	return nil
}
