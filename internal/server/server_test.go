package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/app/scoreboard"
	"github.com/preston-bernstein/football-scoreboard/internal/config"
	"github.com/preston-bernstein/football-scoreboard/internal/http/handlers"
	"github.com/preston-bernstein/football-scoreboard/internal/metrics"
	"github.com/preston-bernstein/football-scoreboard/internal/testutil"
)

type stubHTTPServer struct {
	addr          string
	handler       http.Handler
	listenCalls   int
	shutdownCalls int
	listenErr     error
	shutdownErr   error
}

func (s *stubHTTPServer) ListenAndServe() error {
	s.listenCalls++
	return s.listenErr
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls++
	return s.shutdownErr
}

func (s *stubHTTPServer) Addr() string {
	return s.addr
}

func (s *stubHTTPServer) Handler() http.Handler {
	return s.handler
}

type blockingHTTPServer struct {
	addr          string
	handler       http.Handler
	shutdownCalls int
	unblock       chan struct{}
}

func (s *blockingHTTPServer) ListenAndServe() error {
	return nil
}

func (s *blockingHTTPServer) Shutdown(ctx context.Context) error {
	s.shutdownCalls++
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.unblock:
		return nil
	}
}

func (s *blockingHTTPServer) Addr() string {
	return s.addr
}

func (s *blockingHTTPServer) Handler() http.Handler {
	return s.handler
}

func newTestBoard(t *testing.T) *scoreboard.Scoreboard {
	t.Helper()
	board, err := scoreboard.New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return board
}

func gamePath(id string, sub ...string) string {
	p := "/games/" + url.PathEscape(id)
	for _, s := range sub {
		p += "/" + s
	}
	return p
}

func TestServerServesGameLifecycle(t *testing.T) {
	cfg := config.Config{Port: "0"}
	srv, err := newServerWithMetrics(cfg, nil, metrics.NewRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	router := srv.Handler()

	testutil.AssertStatus(t, testutil.Serve(router, http.MethodGet, "/health", nil), http.StatusOK)

	for i, m := range testutil.WorldCupFixture() {
		rr := testutil.ServeJSON(t, router, http.MethodPost, "/games", map[string]string{
			"homeTeam": m.Home,
			"awayTeam": m.Away,
		})
		testutil.AssertStatus(t, rr, http.StatusCreated)

		id := m.Home + "|" + m.Away
		rr = testutil.ServeJSON(t, router, http.MethodPut, gamePath(id, "score"), map[string]int{
			"home": m.HomeScore,
			"away": m.AwayScore,
		})
		testutil.AssertStatus(t, rr, http.StatusOK)

		// Keep start times strictly increasing so the tie-break is deterministic.
		if i < len(testutil.WorldCupFixture())-1 {
			time.Sleep(2 * time.Millisecond)
		}
	}

	rr := testutil.Serve(router, http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var summary handlers.SummaryResponse
	testutil.DecodeJSON(t, rr, &summary)

	want := testutil.WorldCupSummaryOrder()
	if summary.Count != len(want) || len(summary.Games) != len(want) {
		t.Fatalf("expected %d games, got %+v", len(want), summary)
	}
	for i, id := range want {
		if summary.Games[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, summary.Games[i].ID)
		}
	}

	testutil.AssertStatus(t, testutil.Serve(router, http.MethodDelete, gamePath("Spain|Brazil"), nil), http.StatusNoContent)
	testutil.AssertStatus(t, testutil.Serve(router, http.MethodDelete, gamePath("Spain|Brazil"), nil), http.StatusNotFound)

	if got := srv.Scoreboard().Len(); got != len(want)-1 {
		t.Fatalf("expected %d tracked games, got %d", len(want)-1, got)
	}
	if got := srv.metrics.ActiveGames(); got != len(want)-1 {
		t.Fatalf("expected active games gauge %d, got %d", len(want)-1, got)
	}
}

func TestServerRejectsDuplicateStart(t *testing.T) {
	srv, err := newServerWithMetrics(config.Config{Port: "0"}, nil, metrics.NewRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := map[string]string{"homeTeam": "Mexico", "awayTeam": "Canada"}

	testutil.AssertStatus(t, testutil.ServeJSON(t, srv.Handler(), http.MethodPost, "/games", body), http.StatusCreated)
	testutil.AssertStatus(t, testutil.ServeJSON(t, srv.Handler(), http.MethodPost, "/games", body), http.StatusConflict)
}

func TestNewConstructsServer(t *testing.T) {
	cfg := config.Config{
		Port: "0",
		Metrics: config.MetricsConfig{
			Enabled: false,
		},
	}
	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv == nil || srv.Handler() == nil || srv.Scoreboard() == nil {
		t.Fatalf("expected server with handler and scoreboard")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server when metrics are disabled")
	}
}

func TestGracefulShutdownCallsShutdown(t *testing.T) {
	httpSrv := &stubHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, newTestBoard(t), httpSrv)
	srv.gracefulShutdown()

	if httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", httpSrv.shutdownCalls)
	}
}

func TestGracefulShutdownStopsMetrics(t *testing.T) {
	httpSrv := &stubHTTPServer{}
	metricsSrv := &stubHTTPServer{shutdownErr: errors.New("metrics shutdown failure")}
	stopCalls := 0

	srv := newServerWithDeps(config.Config{}, nil, newTestBoard(t), httpSrv)
	srv.metricsServer = metricsSrv
	srv.metricsStop = func(context.Context) error {
		stopCalls++
		return errors.New("exporter failure")
	}
	srv.gracefulShutdown()

	if stopCalls != 1 {
		t.Fatalf("expected metrics stop to be called once, got %d", stopCalls)
	}
	if metricsSrv.shutdownCalls != 1 {
		t.Fatalf("expected metrics server Shutdown to be called once, got %d", metricsSrv.shutdownCalls)
	}
	if httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown despite metrics errors, got %d", httpSrv.shutdownCalls)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	blocking := &blockingHTTPServer{
		addr:    ":0",
		handler: http.NewServeMux(),
		unblock: make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = 5 * time.Millisecond
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{}, nil, newTestBoard(t), blocking)

	start := time.Now()
	srv.gracefulShutdown()
	elapsed := time.Since(start)

	if blocking.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown to be called once, got %d", blocking.shutdownCalls)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
}

func TestGracefulShutdownPrefersConfiguredTimeout(t *testing.T) {
	blocking := &blockingHTTPServer{
		addr:    ":0",
		handler: http.NewServeMux(),
		unblock: make(chan struct{}),
	}

	original := shutdownTimeout
	shutdownTimeout = time.Minute
	defer func() { shutdownTimeout = original }()

	srv := newServerWithDeps(config.Config{ShutdownTimeout: 5 * time.Millisecond}, nil, newTestBoard(t), blocking)

	start := time.Now()
	srv.gracefulShutdown()
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("expected configured timeout to apply, took %s", elapsed)
	}
}

func TestGracefulShutdownLogsActiveGames(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	board := newTestBoard(t)
	if err := board.StartGame(testutil.NewGame(t, "Mexico", "Canada", time.Now)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv := newServerWithDeps(config.Config{}, logger, board, &stubHTTPServer{})
	srv.gracefulShutdown()

	testutil.AssertLogged(t, buf, "shutdown complete", "active_games=1")
}

type errHTTPServer struct {
	shutdownCalls int
}

func (e *errHTTPServer) ListenAndServe() error {
	return errors.New("listen failure")
}

func (e *errHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	e.shutdownCalls++
	return nil
}

func (e *errHTTPServer) Addr() string {
	return ":0"
}

func (e *errHTTPServer) Handler() http.Handler {
	return http.NewServeMux()
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	httpSrv := &errHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, newTestBoard(t), httpSrv)

	var wg sync.WaitGroup
	wg.Add(1)
	stopCalled := make(chan struct{})
	stop := func() {
		close(stopCalled)
		wg.Done()
	}

	srv.startServer(stop)

	select {
	case <-stopCalled:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected stop to be called on listen failure")
	}

	wg.Wait()
}

type closeableHTTPServer struct {
	mu            sync.Mutex
	shutdownCalls int
}

func (c *closeableHTTPServer) ListenAndServe() error {
	return http.ErrServerClosed
}

func (c *closeableHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdownCalls++
	return nil
}

func (c *closeableHTTPServer) Addr() string {
	return ":0"
}

func (c *closeableHTTPServer) Handler() http.Handler {
	return http.NewServeMux()
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpSrv := &closeableHTTPServer{}
	metricsSrv := &closeableHTTPServer{}

	srv := newServerWithDeps(config.Config{}, nil, newTestBoard(t), httpSrv)
	srv.metricsServer = metricsSrv

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run did not return after cancel")
	}

	if httpSrv.shutdownCalls != 1 {
		t.Fatalf("expected server Shutdown called once, got %d", httpSrv.shutdownCalls)
	}
	if metricsSrv.shutdownCalls != 1 {
		t.Fatalf("expected metrics server Shutdown called once, got %d", metricsSrv.shutdownCalls)
	}
}

func configWithPort(port string) config.Config {
	return config.Config{Port: port}
}
