package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/webtables/internal/logging"
)

// Data source kinds.
const (
	DataSourceMemory = "memory"
	DataSourceSQLite = "sqlite"
)

// Environment variables read by ApplyEnv.
const (
	EnvHome       = "WEBTABLES_HOME"
	EnvAddr       = "WEBTABLES_ADDR"
	EnvCatalog    = "WEBTABLES_CATALOG"
	EnvDataSource = "WEBTABLES_DATA_SOURCE"
	EnvDSN        = "WEBTABLES_DSN"
	EnvOrders     = "WEBTABLES_ORDERS"
	EnvLogLevel   = "WEBTABLES_LOG_LEVEL"
	EnvLogFormat  = "WEBTABLES_LOG_FORMAT"
	EnvLogFile    = "WEBTABLES_LOG_FILE"
)

// Default values.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultDSN             = "file:webtables?mode=memory&cache=shared"
	DefaultOrders          = 137
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the webtables configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Data    DataConfig    `yaml:"data"`
	Tables  TablesConfig  `yaml:"tables"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CatalogConfig locates the table catalog. An empty path uses the built-in
// demo catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// DataConfig selects where demo rows come from.
type DataConfig struct {
	// Source is "memory" (rows sorted and paged in process) or "sqlite"
	// (ordering and paging pushed into SQL).
	Source string `yaml:"source"`
	DSN    string `yaml:"dsn"`
	Orders int    `yaml:"orders"`
}

// TablesConfig holds rendering options shared by every table.
type TablesConfig struct {
	// ResetPageOnResize sends page-size links back to page 1.
	ResetPageOnResize bool `yaml:"reset_page_on_resize"`

	// BasePath prefixes every action URL.
	BasePath string `yaml:"base_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Data: DataConfig{
			Source: DataSourceMemory,
			DSN:    DefaultDSN,
			Orders: DefaultOrders,
		},
		Tables: TablesConfig{
			ResetPageOnResize: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment seen through
// lookupEnv. Overrides run last, before validation.
func Load(path string, lookupEnv func(string) (string, bool), overrides ...func(*Config)) (*Config, error) {
	cfg := New()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
				return nil, mergeErr
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays WEBTABLES_* environment variables onto cfg.
func ApplyEnv(cfg *Config, lookupEnv func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(EnvAddr, &cfg.Server.Addr)
	setString(EnvCatalog, &cfg.Catalog.Path)
	setString(EnvDataSource, &cfg.Data.Source)
	setString(EnvDSN, &cfg.Data.DSN)
	setString(EnvLogLevel, &cfg.Logging.Level)
	setString(EnvLogFormat, &cfg.Logging.Format)
	setString(EnvLogFile, &cfg.Logging.File)

	if v, ok := lookupEnv(EnvOrders); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvOrders, v)
		}
		cfg.Data.Orders = n
	}
	return nil
}

// Validate checks cfg for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("%w: server.addr %q: %w", ErrInvalidConfig, c.Server.Addr, err))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig))
	}
	switch strings.ToLower(c.Data.Source) {
	case DataSourceMemory:
	case DataSourceSQLite:
		if c.Data.DSN == "" {
			errs = append(errs, fmt.Errorf("%w: data.dsn is required for sqlite", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: data.source %q must be %q or %q",
			ErrInvalidConfig, c.Data.Source, DataSourceMemory, DataSourceSQLite))
	}
	if c.Data.Orders < 0 {
		errs = append(errs, fmt.Errorf("%w: data.orders must not be negative", ErrInvalidConfig))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format))
	}
	return errors.Join(errs...)
}
