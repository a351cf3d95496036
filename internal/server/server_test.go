package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/webtables/internal/config"
	"github.com/rshade/webtables/internal/demo"
	"github.com/rshade/webtables/internal/table"
)

func newTestServer(t *testing.T, mutate func(*Options)) *Server {
	t.Helper()
	cat, err := demo.Catalog()
	require.NoError(t, err)

	cfg := config.New()
	opts := Options{
		Server:      cfg.Server,
		Tables:      cfg.Tables,
		Definitions: table.NewRegistry(cat),
		Orders:      MemoryOrders(demo.Orders(demo.DefaultOrderCount)),
		Logger:      zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	srv, err := New(opts)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestOrders_FullPage(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/orders/index")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, `<div id="orders-container" class="webtable" data-webtable="orders" data-webtable-url="/orders/index">`)
	for _, region := range []string{table.RegionTable, table.RegionPagination, table.RegionPageSize} {
		assert.Contains(t, body, fmt.Sprintf(`data-webtable-region="%s"`, region))
	}
	assert.Contains(t, body, "Showing 1–10 of 137")
	assert.Contains(t, body, "<script>")
	assert.True(t, strings.HasSuffix(body, "</html>"))
}

func TestOrders_Fragments(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name    string
		target  string
		want    []string
		notWant []string
	}{
		{
			name:    "pagination from query",
			target:  "/orders/index?renderPagination=true&pageNumber=3",
			want:    []string{`data-webtable-region="pagination"`, "Showing 21–30 of 137"},
			notWant: []string{"<!DOCTYPE html>", `data-webtable-region="table"`},
		},
		{
			name:    "table and page size",
			target:  "/orders/index?renderTable=true&renderPageSize=true&pageSize=25",
			want:    []string{`data-webtable-region="table"`, `data-webtable-region="pagesize"`},
			notWant: []string{`data-webtable-region="pagination"`, "renderTable"},
		},
		{
			name:    "pager route flag",
			target:  "/orders/pager?pageNumber=2",
			want:    []string{`data-webtable-region="pagination"`, `data-webtable-url="/orders/pager"`},
			notWant: []string{`data-webtable-region="table"`, "<html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestAdminOrders_ScopeAndOverride(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/admin/orders/index?renderTable=true&renderPagination=true")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="admin-orders-container"`)
	assert.Contains(t, body, `data-webtable-url="/admin/orders/index"`)
	assert.Contains(t, body, "Showing 1–25 of 137")
	assert.Contains(t, body, ">5</a>")
	assert.NotContains(t, body, ">6</a>", "window override limits the pager to five pages")
	assert.Contains(t, body, `aria-sort="ascending"`)
}

func TestOrders_DefinitionNotFound(t *testing.T) {
	srv := newTestServer(t, func(o *Options) {
		o.Definitions = table.NewRegistry(table.LoaderFunc(func(_ context.Context, key table.Key) (table.Definition, error) {
			return nil, fmt.Errorf("%w: %s", table.ErrDefinitionNotFound, key.Table)
		}))
	})

	rec := get(t, srv.Handler(), "/orders/index")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "webtable")
}

type failingOrders struct{ OrderSource }

func (failingOrders) Fetch(context.Context, table.Query) ([]demo.Order, error) {
	return nil, fmt.Errorf("database is locked")
}

func TestOrders_RowErrorIsServerError(t *testing.T) {
	srv := newTestServer(t, func(o *Options) {
		o.Orders = failingOrders{OrderSource: MemoryOrders(demo.Orders(3))}
	})

	rec := get(t, srv.Handler(), "/orders/index?renderTable=true")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "webtable-table")
}

func TestOrders_BasePathAndResize(t *testing.T) {
	srv := newTestServer(t, func(o *Options) {
		o.Tables = config.TablesConfig{BasePath: "/app/", ResetPageOnResize: false}
	})
	h := srv.Handler()

	rec := get(t, h, "/app/orders/index?renderPageSize=true&pageNumber=3")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-webtable-url="/app/orders/index"`)
	assert.Contains(t, body, `href="/app/orders/index?pageNumber=3&amp;pageSize=25"`)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/orders/index").Code)
}

func TestOrders_Redirect(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/orders?pageNumber=2")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/orders/index?pageNumber=2", rec.Header().Get("Location"))
}

func TestTraceHeaderReused(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/healthz", HeaderTraceID, "01HZX5T7Q0")
	assert.Equal(t, "01HZX5T7Q0", rec.Header().Get(HeaderTraceID))
}

func TestSQLiteMatchesMemory(t *testing.T) {
	ctx := context.Background()
	store, err := demo.OpenStore(ctx, "file:server_test?mode=memory&cache=shared", 60)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	memory := newTestServer(t, func(o *Options) { o.Orders = MemoryOrders(demo.Orders(60)) }).Handler()
	sqlite := newTestServer(t, func(o *Options) { o.Orders = store.Orders }).Handler()

	for _, target := range []string{
		"/orders/index?renderTable=true&renderPagination=true",
		"/orders/index?renderTable=true&sortColumn=Number&sortAscending=false&pageNumber=2",
		"/orders/index?renderTable=true&sortColumn=Total&pageSize=25&pageNumber=3",
	} {
		want := get(t, memory, target)
		got := get(t, sqlite, target)
		require.Equal(t, http.StatusOK, got.Code, target)
		assert.Equal(t, want.Body.String(), got.Body.String(), target)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, ErrNoOrders)

	_, err = New(Options{Orders: MemoryOrders(nil)})
	require.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	srv := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	cancel()
	require.NoError(t, <-done)
}
