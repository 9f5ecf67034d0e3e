package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/config"
	"github.com/zaqqye/room_backend_v1/internal/controllers"
	"github.com/zaqqye/room_backend_v1/internal/middleware"
	"github.com/zaqqye/room_backend_v1/internal/service"
	"github.com/zaqqye/room_backend_v1/internal/ws"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Rooms    *service.RoomService
	Hub      *ws.RoomHub
	Store    Pinger
	Gatherer prometheus.Gatherer
}

func Register(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID(), middleware.AccessLog(d.Log), middleware.CORS(d.Cfg.CORSAllowOrigin))

	roomCtrl := &controllers.RoomController{Svc: d.Rooms, Log: d.Log}

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if d.Store != nil {
			if err := d.Store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		rooms.POST("", roomCtrl.CreateRoom)
		rooms.GET("", roomCtrl.ListRooms)
		rooms.GET("/search", roomCtrl.SearchRooms)
		rooms.POST("/allocate", roomCtrl.AllocateRoom)
		rooms.GET("/ws", ws.RoomHandler(d.Hub))
		rooms.GET("/:roomNo", roomCtrl.GetRoom)
		rooms.DELETE("/:roomNo", roomCtrl.DeleteRoom)
	}
}
