package server

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Client/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-Client/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Client/internal/client"
	"ctchen222/Tic-Tac-Toe-Client/internal/db"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/repository"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	svc := service.NewGameService(repository.NewSQLiteGameRepository(conn), nil)
	t.Cleanup(svc.Close)

	ts := httptest.NewServer(NewServer(controller.NewGameController(svc)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_ClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	c := client.New(ts.URL, time.Second)

	created, err := c.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.PlayerX, created.CurrentPlayer)
	assert.Equal(t, 0, created.MoveCount)

	// X takes the top row while O plays the middle row.
	moves := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for _, m := range moves {
		res, err := c.SubmitMove(ctx, created.ID, m[0], m[1])
		require.NoError(t, err)
		require.True(t, res.Accepted)
	}

	res, err := c.SubmitMove(ctx, created.ID, 1, 1)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, controller.ReasonIllegalMove, res.Reason)

	res, err = c.SubmitMove(ctx, created.ID, 0, 2)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.Equal(t, game.StatusWin, res.State.Status)
	assert.Equal(t, game.PlayerX, res.State.Winner)
	assert.Equal(t, created.ID, res.State.ID)

	fetched, err := c.FetchState(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, res.State, fetched)

	res, err = c.SubmitMove(ctx, created.ID, 2, 2)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, controller.ReasonGameOver, res.Reason)
}

func TestServer_UnknownGame(t *testing.T) {
	ts := newTestServer(t)
	c := client.New(ts.URL, time.Second)

	_, err := c.FetchState(context.Background(), "missing")
	require.True(t, client.IsTransport(err))

	var te *client.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Routes(t *testing.T) {
	srv := NewServer(controller.NewGameController(nil))

	var routes []string
	for _, r := range srv.Engine().Routes() {
		routes = append(routes, r.Method+" "+r.Path)
	}
	assert.ElementsMatch(t, []string{
		"GET /healthz",
		"POST /game",
		"GET /game/:id",
		"POST /move",
	}, routes)
}

func TestServer_SpanNamesUseRouteTemplate(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	conn, err := db.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	svc := service.NewGameService(repository.NewSQLiteGameRepository(conn), nil)
	t.Cleanup(svc.Close)

	h := NewServer(controller.NewGameController(svc)).Handler(otelhttp.WithTracerProvider(tp))
	for _, id := range []string{"a1", "b2"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/game/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	var names []string
	for _, span := range exporter.GetSpans() {
		if span.SpanKind.String() != "server" {
			continue
		}
		names = append(names, span.Name)
		var route string
		for _, attr := range span.Attributes {
			if attr.Key == "http.route" {
				route = attr.Value.AsString()
			}
		}
		assert.Equal(t, "/game/:id", route)
	}
	assert.Equal(t, []string{"GET /game/:id", "GET /game/:id"}, names)
}
