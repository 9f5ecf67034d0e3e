package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zaqqye/room_backend_v1/internal/models"
)

func TestRoomHub_BroadcastsToClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewRoomHub(nil)
	go hub.Run()

	r := gin.New()
	r.GET("/ws", RoomHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	received := make(chan []byte, 1)
	go func() {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			received <- msg
		}
	}()

	// Registration happens after the upgrade, so keep publishing until the
	// client is in the hub.
	deadline := time.After(3 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	var msg []byte
loop:
	for {
		select {
		case msg = <-received:
			break loop
		case <-ticker.C:
			hub.RoomChanged("room_allocated", models.Room{RoomNo: "101", Capacity: 4, RemainingCapacity: 1, HasAC: true})
		case <-deadline:
			t.Fatal("no event received")
		}
	}

	var ev RoomEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "room_allocated", ev.Type)
	assert.Equal(t, "101", ev.Room.RoomNo)
	assert.Equal(t, 1, ev.Room.RemainingCapacity)
}

func TestRoomHub_NilSafe(t *testing.T) {
	var hub *RoomHub
	assert.NotPanics(t, func() { hub.RoomChanged("room_created", models.Room{RoomNo: "1"}) })
}

func TestRoomHub_DropsWhenQueueFull(t *testing.T) {
	hub := NewRoomHub(nil)
	for i := 0; i < sendBufferSize+10; i++ {
		hub.RoomChanged("room_created", models.Room{RoomNo: "1"})
	}
	assert.Len(t, hub.broadcast, sendBufferSize)
}

func TestRoomHandler_NilHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", RoomHandler(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, 503, w.Code)
}

func dialBoard(t *testing.T, hub *RoomHub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", RoomHandler(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	return conn
}

func TestRoomClient_LogsDisconnects(t *testing.T) {
	cases := []struct {
		name  string
		close func(*websocket.Conn)
		msg   string
		level zapcore.Level
	}{
		{
			name: "clean close",
			close: func(c *websocket.Conn) {
				_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				c.Close()
			},
			msg:   "ws: client disconnected",
			level: zap.DebugLevel,
		},
		{
			name:  "dropped connection",
			close: func(c *websocket.Conn) { c.UnderlyingConn().Close() },
			msg:   "ws: client connection lost",
			level: zap.WarnLevel,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			hub := NewRoomHub(zap.New(core))
			go hub.Run()

			conn := dialBoard(t, hub)
			require.Eventually(t, func() bool {
				return logs.FilterMessage("ws: client connected").Len() == 1
			}, 3*time.Second, 10*time.Millisecond)

			tc.close(conn)

			require.Eventually(t, func() bool {
				return logs.FilterMessage(tc.msg).Len() == 1
			}, 3*time.Second, 10*time.Millisecond)
			assert.Equal(t, tc.level, logs.FilterMessage(tc.msg).All()[0].Level)
		})
	}
}
