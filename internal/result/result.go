// Package result orchestrates one table render: it resolves the table
// definition, defaults the request state, builds the pager and link helpers,
// and dispatches the requested regions inside a single container element.
package result

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/rshade/webtables/internal/logging"
	"github.com/rshade/webtables/internal/markup"
	"github.com/rshade/webtables/internal/render"
	"github.com/rshade/webtables/internal/table"
)

// Errors returned by Execute before anything is written.
var (
	ErrNoProvider = errors.New("no table definition provider configured")
	ErrNoWriter   = errors.New("no response writer configured")
	ErrNoRows     = errors.New("no row source configured")
)

// Renderer writes the three regions of a table.
type Renderer[T any] interface {
	Table(w *markup.Writer, view render.View[T]) error
	Pagination(w *markup.Writer, view render.View[T]) error
	PageSize(w *markup.Writer, view render.View[T]) error
}

// Context is the request-side input of Execute.
type Context struct {
	// Route is the route data: action, controller, area, optional id and
	// optional render flags.
	Route table.RouteValues

	// Query is the request query string.
	Query url.Values

	// URLs builds the action URL navigation links start from.
	URLs ActionURLBuilder

	// Writer receives the markup.
	Writer io.Writer

	// KeepPageOnResize keeps the current page number in page-size links
	// instead of returning to the first page.
	KeepPageOnResize bool
}

type sourceKind int

const (
	sourceBase sourceKind = iota
	sourceBaseWithOverrides
)

// definitionSource selects how the resolved definition is presented: the
// cached base as is, or the base behind an override layer.
type definitionSource struct {
	kind      sourceKind
	overrides table.Overrides
}

func (s definitionSource) resolve(base table.Definition) table.Definition {
	switch s.kind {
	case sourceBaseWithOverrides:
		return table.WithOverrides(base, s.overrides)
	default:
		return base
	}
}

// Result renders one table for one request. Build it with New or FromSlice,
// optionally layer overrides, then call Execute once.
type Result[T any] struct {
	provider   table.DefinitionProvider
	rows       table.Rows[T]
	total      int
	configName string
	state      *table.RequestState
	source     definitionSource
	renderer   Renderer[T]
}

// New creates a Result over a row source holding total rows in all.
// A nil state starts from table.NewRequestState. state is defaulted in place
// by Execute.
func New[T any](
	provider table.DefinitionProvider,
	rows table.Rows[T],
	total int,
	configName string,
	state *table.RequestState,
) *Result[T] {
	if state == nil {
		state = table.NewRequestState()
	}
	return &Result[T]{
		provider:   provider,
		rows:       rows,
		total:      total,
		configName: configName,
		state:      state,
		source:     definitionSource{kind: sourceBase},
		renderer:   render.NewHTML[T](),
	}
}

// FromSlice creates a Result over in-memory rows.
func FromSlice[T any](
	provider table.DefinitionProvider,
	rows []T,
	configName string,
	state *table.RequestState,
) *Result[T] {
	return New[T](provider, table.FromSlice(rows), len(rows), configName, state)
}

// WithOverrides layers o over the resolved definition for this result only.
// The cached definition is never modified. A zero o keeps the base.
func (r *Result[T]) WithOverrides(o table.Overrides) *Result[T] {
	clone := *r
	if o.IsZero() {
		clone.source = definitionSource{kind: sourceBase}
	} else {
		clone.source = definitionSource{kind: sourceBaseWithOverrides, overrides: o}
	}
	return &clone
}

// WithRenderer replaces the default HTML renderer.
func (r *Result[T]) WithRenderer(renderer Renderer[T]) *Result[T] {
	clone := *r
	clone.renderer = renderer
	return &clone
}

// State returns the request state. After Execute it holds the defaulted values.
func (r *Result[T]) State() *table.RequestState {
	return r.state
}

// Key returns the definition cache key for route.
func (r *Result[T]) Key(route table.RouteValues) table.Key {
	return table.Key{
		Table:      r.configName,
		Model:      ModelName[T](),
		Action:     route.String(table.RouteAction),
		Controller: route.String(table.RouteController),
		Area:       route.String(table.RouteArea),
	}
}

// Definition resolves the effective definition for route.
func (r *Result[T]) Definition(ctx context.Context, route table.RouteValues) (table.Definition, error) {
	if r.provider == nil {
		return nil, ErrNoProvider
	}
	key := r.Key(route)
	base, err := r.provider.GetOrLoad(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolving table %q: %w", r.configName, err)
	}
	return r.source.resolve(base), nil
}

// Execute renders the requested regions to c.Writer.
//
// Definition errors are returned before any markup is written. Once the
// container is open it is closed on every exit path, including row source
// errors and panics in a renderer.
func (r *Result[T]) Execute(ctx context.Context, c Context) (err error) {
	log := logging.FromContext(ctx)

	if c.Writer == nil {
		return ErrNoWriter
	}
	if r.rows == nil {
		return ErrNoRows
	}

	def, err := r.Definition(ctx, c.Route)
	if err != nil {
		log.Error().Ctx(ctx).
			Str("component", "result").
			Str("operation", "execute").
			Str("table", r.configName).
			Err(err).
			Msg("table definition unavailable")
		return err
	}

	table.ApplyDefaults(r.state, def)
	flags := table.ReadRenderFlags(c.Route, c.Query)

	urls := c.URLs
	if urls == nil {
		urls = PathURLBuilder{}
	}
	baseURL := urls.Action(
		c.Route.String(table.RouteAction),
		c.Route.String(table.RouteController),
		table.RouteValues{
			table.RouteID:   c.Route[table.RouteID],
			table.RouteArea: c.Route[table.RouteArea],
		},
	)

	view := render.View[T]{
		Definition: def,
		State:      *r.state,
		Window:     table.BuildPageWindow(r.total, r.state.PageSize, def.Paging().Window(), r.state.PageNumber),
		URLs:       table.NewURLManager(baseURL, c.Query, r.state),
	}
	view.URLs.ResetPageOnResize = !c.KeepPageOnResize

	log.Debug().Ctx(ctx).
		Str("component", "result").
		Str("operation", "execute").
		Str("table", def.ID()).
		Str("sort_column", r.state.SortColumn).
		Bool("sort_ascending", r.state.SortAscending).
		Int("page", r.state.PageNumber).
		Int("page_size", r.state.PageSize).
		Int("total", r.total).
		Strs("regions", flags.Regions()).
		Msg("rendering table")

	w := markup.NewWriter(c.Writer)
	endContainer := w.Begin("div",
		markup.Attr("id", def.ID()+"-container"),
		markup.Attr("class", "webtable"),
		markup.Attr("data-webtable", def.ID()),
		markup.Attr("data-webtable-url", baseURL),
	)
	defer func() {
		closeErr := endContainer()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing table container: %w", closeErr)
		}
	}()

	return r.dispatch(ctx, w, flags, def, view)
}

func (r *Result[T]) dispatch(
	ctx context.Context,
	w *markup.Writer,
	flags table.RenderFlags,
	def table.Definition,
	view render.View[T],
) error {
	if flags.TableBody() {
		rows, err := r.rows.Fetch(ctx, table.StateQuery(r.state, def))
		if err != nil {
			return fmt.Errorf("fetching rows for table %q: %w", def.ID(), err)
		}
		view.Rows = rows
		if err := r.renderer.Table(w, view); err != nil {
			return fmt.Errorf("rendering table region: %w", err)
		}
	}
	if flags.Pagination {
		if err := r.renderer.Pagination(w, view); err != nil {
			return fmt.Errorf("rendering pagination region: %w", err)
		}
	}
	if flags.PageSize {
		if err := r.renderer.PageSize(w, view); err != nil {
			return fmt.Errorf("rendering page-size region: %w", err)
		}
	}
	return w.Err()
}

// ModelName returns the type name of T, looking through pointers.
func ModelName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return strings.ReplaceAll(t.String(), " ", "")
}
