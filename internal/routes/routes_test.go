package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/config"
	"github.com/zaqqye/room_backend_v1/internal/metrics"
	"github.com/zaqqye/room_backend_v1/internal/repository"
	"github.com/zaqqye/room_backend_v1/internal/service"
	"github.com/zaqqye/room_backend_v1/internal/ws"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("db down") }

func newEngine(t *testing.T, store Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	mem := repository.NewMemoryStore()
	svc := service.NewRoomService(mem, zap.NewNop(), service.WithRecorder(metrics.NewRecorder(reg)))
	if store == nil {
		store = mem
	}
	r := gin.New()
	Register(r, Deps{
		Cfg:      &config.Config{CORSAllowOrigin: "*"},
		Log:      zap.NewNop(),
		Rooms:    svc,
		Hub:      ws.NewRoomHub(nil),
		Store:    store,
		Gatherer: reg,
	})
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(newEngine(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(newEngine(t, failingPinger{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoomRoutesAndMetrics(t *testing.T) {
	r := newEngine(t, nil)

	w := serve(r, http.MethodPost, "/api/v1/rooms", `{"roomNo":"101","capacity":4,"hasAC":true,"hasAttachedWashroom":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodPost, "/api/v1/rooms/allocate", `{"students":3,"needsAC":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/rooms/search?capacity=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/rooms/101", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remainingCapacity":1`)

	w = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rooms_allocation_requests_total{outcome="allocated"} 1`)
	assert.Contains(t, w.Body.String(), `rooms_allocated_seats_total 3`)
}

func TestWebsocketRouteRequiresUpgrade(t *testing.T) {
	w := serve(newEngine(t, nil), http.MethodGet, "/api/v1/rooms/ws", "")
	// A plain GET is routed to the websocket handler, not treated as a room number.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "Room not found")
}

func TestAllocatePreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/rooms/allocate", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newEngine(t, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
