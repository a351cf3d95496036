package result

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rshade/webtables/internal/table"
)

// ActionURLBuilder maps a controller action to its URL.
type ActionURLBuilder interface {
	Action(action, controller string, values table.RouteValues) string
}

// ActionURLFunc adapts a function to ActionURLBuilder.
type ActionURLFunc func(action, controller string, values table.RouteValues) string

// Action implements ActionURLBuilder.
func (f ActionURLFunc) Action(action, controller string, values table.RouteValues) string {
	return f(action, controller, values)
}

// PathURLBuilder builds /{area}/{controller}/{action}/{id} paths below Prefix.
// Empty segments are omitted.
type PathURLBuilder struct {
	Prefix string
}

// Action implements ActionURLBuilder.
func (b PathURLBuilder) Action(action, controller string, values table.RouteValues) string {
	segments := []string{strings.TrimRight(b.Prefix, "/")}
	for _, s := range []string{values.String(table.RouteArea), controller, action, routeString(values, table.RouteID)} {
		if s == "" {
			continue
		}
		segments = append(segments, url.PathEscape(s))
	}

	path := strings.Join(segments, "/")
	if path == "" {
		return "/"
	}
	return path
}

// routeString formats a route value of any scalar type.
func routeString(values table.RouteValues, key string) string {
	v, ok := values[key]
	if !ok || v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprint(v)
}
