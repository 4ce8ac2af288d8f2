package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paymentmcp/internal/middleware"
)

func newTestEcho(sse http.Handler) *echo.Echo {
	e := echo.New()
	Setup(e, sse, "Payment MCP", zap.NewNop())
	return e
}

func TestHealth(t *testing.T) {
	e := newTestEcho(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "ok", "server": "Payment MCP"}, body)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsPreserved(t *testing.T) {
	e := newTestEcho(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEcho(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/sse", nil)
	req.Header.Set("Origin", "https://client.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Customer-Type-ID")
}

func TestMCPRoutesReachSSEHandler(t *testing.T) {
	var paths []string
	sse := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})
	e := newTestEcho(sse)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sse"},
		{http.MethodPost, "/sse"},
		{http.MethodPost, "/messages"},
		{http.MethodPost, "/messages/"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusAccepted, rec.Code, tc.path)
	}
	assert.Equal(t, []string{"GET /sse", "POST /sse", "POST /messages", "POST /messages/"}, paths)
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opened := make(chan struct{})
	closed := make(chan struct{})
	sse := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(opened)
		<-r.Context().Done()
		close(closed)
	})

	e := NewServer(ctx, sse, "Payment MCP", zap.NewNop())
	go func() {
		if err := e.Start("127.0.0.1:0"); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("start: %v", err)
		}
	}()
	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, 5*time.Second, 10*time.Millisecond)

	// The client keeps the stream open; only the server side may end it.
	responses := make(chan *http.Response, 1)
	go func() {
		resp, err := http.Get("http://" + e.ListenerAddr().String() + "/sse")
		if err == nil {
			responses <- resp
		}
	}()
	defer func() {
		select {
		case resp := <-responses:
			_ = resp.Body.Close()
		default:
		}
	}()

	select {
	case <-opened:
	case <-time.After(5 * time.Second):
		t.Fatal("stream was not opened")
	}

	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	require.NoError(t, e.Shutdown(shutdownCtx))

	select {
	case <-closed:
	default:
		t.Fatal("stream handler still running after shutdown")
	}
}
