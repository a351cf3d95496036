// Package catalog loads table definitions from a YAML file.
//
// A catalog lists tables with their columns, default sort, paging and
// optional scopes. A scope overlays part of a table for a given area,
// controller or action, so one table name can render differently under
// /admin than it does elsewhere.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/webtables/internal/logging"
	"github.com/rshade/webtables/internal/table"
)

// SupportedVersions is the range of catalog schema versions this build reads.
const SupportedVersions = "^1.0.0"

// Catalog errors.
var (
	ErrMissingVersion     = errors.New("catalog version is required")
	ErrUnsupportedVersion = errors.New("unsupported catalog version")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

// File is the on-disk catalog document.
type File struct {
	Version string      `yaml:"version"`
	Tables  []TableSpec `yaml:"tables"`
}

// SortSpec selects a default sort.
type SortSpec struct {
	Column    string `yaml:"column"`
	Ascending *bool  `yaml:"ascending,omitempty"`
}

// TableSpec declares one table.
type TableSpec struct {
	// Name is the configuration name results look tables up by.
	Name string `yaml:"name"`

	// Model optionally restricts the table to one row type name.
	Model string `yaml:"model,omitempty"`

	// ID is the DOM id. Defaults to Name.
	ID string `yaml:"id,omitempty"`

	Columns         []table.Column     `yaml:"columns"`
	DefaultSort     *SortSpec          `yaml:"default_sort,omitempty"`
	DefaultPageSize int                `yaml:"default_page_size,omitempty"`
	Paging          table.PagingConfig `yaml:"paging,omitempty"`
	Scopes          []ScopeSpec        `yaml:"scopes,omitempty"`
}

// ScopeSpec overlays a table for matching routes. Empty match fields match
// anything; set fields compare case-insensitively.
type ScopeSpec struct {
	Area       string `yaml:"area,omitempty"`
	Controller string `yaml:"controller,omitempty"`
	Action     string `yaml:"action,omitempty"`

	ID              string              `yaml:"id,omitempty"`
	Columns         []table.Column      `yaml:"columns,omitempty"`
	DefaultSort     *SortSpec           `yaml:"default_sort,omitempty"`
	DefaultPageSize int                 `yaml:"default_page_size,omitempty"`
	Paging          *table.PagingConfig `yaml:"paging,omitempty"`
}

// Catalog is a validated, read-only set of table specs.
// Safe for concurrent use.
type Catalog struct {
	version *semver.Version
	tables  []TableSpec
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(file)
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// New validates file and returns a Catalog.
func New(file File) (*Catalog, error) {
	version, err := checkVersion(file.Version)
	if err != nil {
		return nil, err
	}
	if err := Validate(file); err != nil {
		return nil, err
	}
	return &Catalog{version: version, tables: file.Tables}, nil
}

func checkVersion(raw string) (*semver.Version, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingVersion
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, raw, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, fmt.Errorf("parsing supported versions: %w", err)
	}
	if !constraint.Check(v) {
		return nil, fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return v, nil
}

// Version returns the catalog schema version.
func (c *Catalog) Version() string {
	return c.version.String()
}

// Tables returns the table names in declaration order.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for _, t := range c.tables {
		names = append(names, t.Name)
	}
	return names
}

// Load implements table.Loader. The table is matched by name (and model
// when the spec declares one); the most specific matching scope is overlaid.
func (c *Catalog) Load(ctx context.Context, key table.Key) (table.Definition, error) {
	log := logging.FromContext(ctx)

	spec, ok := c.find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q (model %q)", table.ErrDefinitionNotFound, key.Table, key.Model)
	}

	def := spec.definition()
	scope, matched := spec.bestScope(key)
	if matched {
		scope.apply(def)
	}

	log.Debug().Ctx(ctx).
		Str("component", "catalog").
		Str("operation", "load").
		Str("key", key.String()).
		Bool("scoped", matched).
		Msg("table definition loaded")
	return def, nil
}

// find prefers a spec declared for key.Model over a generic spec of the
// same name.
func (c *Catalog) find(key table.Key) (TableSpec, bool) {
	generic := -1
	for i, spec := range c.tables {
		if spec.Name != key.Table {
			continue
		}
		if spec.Model == "" {
			if generic < 0 {
				generic = i
			}
			continue
		}
		if strings.EqualFold(spec.Model, key.Model) {
			return spec, true
		}
	}
	if generic < 0 {
		return TableSpec{}, false
	}
	return c.tables[generic], true
}

func (t TableSpec) definition() *table.StaticDefinition {
	def := &table.StaticDefinition{
		TableID:      t.ID,
		TableColumns: slices.Clone(t.Columns),
		PageSize:     t.DefaultPageSize,
		PagingSettings: table.PagingConfig{
			PageSizes:  slices.Clone(t.Paging.PageSizes),
			WindowSize: t.Paging.WindowSize,
		},
		SortAscending: true,
	}
	if def.TableID == "" {
		def.TableID = t.Name
	}
	if t.DefaultSort != nil {
		def.SortColumn = t.DefaultSort.Column
		if t.DefaultSort.Ascending != nil {
			def.SortAscending = *t.DefaultSort.Ascending
		}
	}
	return def
}

// bestScope returns the matching scope with the most match fields set.
// Ties go to the scope declared first.
func (t TableSpec) bestScope(key table.Key) (ScopeSpec, bool) {
	best, bestScore := -1, -1
	for i, s := range t.Scopes {
		score, ok := s.match(key)
		if ok && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return ScopeSpec{}, false
	}
	return t.Scopes[best], true
}

func (s ScopeSpec) match(key table.Key) (int, bool) {
	score := 0
	for _, pair := range [][2]string{
		{s.Area, key.Area},
		{s.Controller, key.Controller},
		{s.Action, key.Action},
	} {
		if pair[0] == "" {
			continue
		}
		if !strings.EqualFold(pair[0], pair[1]) {
			return 0, false
		}
		score++
	}
	return score, true
}

func (s ScopeSpec) apply(def *table.StaticDefinition) {
	if s.ID != "" {
		def.TableID = s.ID
	}
	if s.Columns != nil {
		def.TableColumns = slices.Clone(s.Columns)
	}
	if s.DefaultSort != nil {
		def.SortColumn = s.DefaultSort.Column
		def.SortAscending = true
		if s.DefaultSort.Ascending != nil {
			def.SortAscending = *s.DefaultSort.Ascending
		}
	}
	if s.DefaultPageSize > 0 {
		def.PageSize = s.DefaultPageSize
	}
	if s.Paging != nil {
		if s.Paging.PageSizes != nil {
			def.PagingSettings.PageSizes = slices.Clone(s.Paging.PageSizes)
		}
		if s.Paging.WindowSize > 0 {
			def.PagingSettings.WindowSize = s.Paging.WindowSize
		}
	}
}
