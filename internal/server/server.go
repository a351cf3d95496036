// Package server serves the demo order tables over HTTP.
//
// Every table route renders through result.Execute. A request without render
// flags gets a full page holding all regions; a request carrying flags gets
// only the requested fragment, which the page script swaps in place.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/table"
)

// ErrNoOrders is returned by New when no order source is configured.
var ErrNoOrders = errors.New("server requires an order source")

// Options configures a Server.
type Options struct {
	Server config.ServerConfig
	Tables config.TablesConfig

	// Definitions resolves table definitions, usually a table.Registry over
	// a catalog.
	Definitions table.DefinitionProvider

	// Orders supplies the rows of the orders tables.
	Orders OrderSource

	Logger zerolog.Logger
}

// Server is the demo HTTP server.
type Server struct {
	opts    Options
	handler http.Handler
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Orders == nil {
		return nil, ErrNoOrders
	}
	if opts.Definitions == nil {
		return nil, fmt.Errorf("server requires a definition provider")
	}
	s := &Server{opts: opts}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware(s.opts.Logger))
	r.Use(requestLogMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.redirect("index"))
		r.Get("/index", s.ordersIndex)
		r.Get("/pager", s.ordersPager)
	})
	r.Route("/admin/orders", func(r chi.Router) {
		r.Get("/index", s.adminOrdersIndex)
	})

	base := strings.TrimRight(s.opts.Tables.BasePath, "/")
	if base == "" {
		return r
	}
	root := chi.NewRouter()
	root.Mount(base, r)
	return root
}

// redirect sends the bare controller path to action, keeping the query.
func (s *Server) redirect(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := strings.TrimRight(r.URL.Path, "/") + "/" + action
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := s.opts.Logger
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.Server.ReadTimeout,
		WriteTimeout: s.opts.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return log.WithContext(context.Background()) },
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("component", "server").
			Str("addr", ln.Addr().String()).
			Msg("serving tables")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Str("component", "server").Msg("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
