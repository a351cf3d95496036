package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Persistent flag names.
const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagCatalog = "catalog"
)

// NewRootCmd creates the root Cobra command for the webtables CLI.
// It loads configuration, wires up logging and tracing, and registers the
// serve, render, preview and catalog subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "webtables",
		Short:         "Server-rendered HTML tables with sorting and paging",
		Long:          "webtables renders sortable, paginated HTML tables from declarative table definitions.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().String(flagConfig, "", "config file (default $WEBTABLES_HOME/config.yaml)")
	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging")
	cmd.PersistentFlags().String(flagCatalog, "", "table catalog file (default: built-in demo catalog)")
	cmd.AddCommand(newServeCmd(), newRenderCmd(), newPreviewCmd(), newCatalogCmd())

	return cmd
}

// loadConfig reads the config file named by --config, or the default path,
// then applies the environment and the --catalog flag.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	explicit := path != ""
	if !explicit {
		if home, ok := lookupEnv(config.EnvHome); ok && home != "" {
			path = filepath.Join(home, "config.yaml")
		} else if p, err := config.DefaultConfigPath(); err == nil {
			path = p
		}
	}
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	catalogPath, _ := cmd.Flags().GetString(flagCatalog)
	return config.Load(path, lookupEnv, func(cfg *config.Config) {
		if catalogPath != "" {
			cfg.Catalog.Path = catalogPath
		}
	})
}

const rootCmdExample = `  # Serve the demo order tables
  webtables serve --addr 127.0.0.1:8080

  # Render page 2 of the orders table, sorted by total, to stdout
  webtables render --query "sortColumn=Total&pageNumber=2"

  # Render only the pager of the admin listing
  webtables render --area admin --regions pagination

  # Browse the orders table in the terminal
  webtables preview

  # Validate a table catalog
  webtables catalog validate ./catalog.yaml`
