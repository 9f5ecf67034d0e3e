package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/zaqqye/room_backend_v1/internal/config"
	"github.com/zaqqye/room_backend_v1/internal/database"
	"github.com/zaqqye/room_backend_v1/internal/logger"
	"github.com/zaqqye/room_backend_v1/internal/metrics"
	"github.com/zaqqye/room_backend_v1/internal/repository"
	"github.com/zaqqye/room_backend_v1/internal/routes"
	"github.com/zaqqye/room_backend_v1/internal/service"
	"github.com/zaqqye/room_backend_v1/internal/ws"
)

type roomStore interface {
	service.RoomStore
	routes.Pinger
}

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "room-backend")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zl.Sync()

	var store roomStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		zl.Warn("using in-memory room store; data is lost on restart")
		store = repository.NewMemoryStore()
	case config.StoreDriverPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			zl.Fatal("database connection failed", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			zl.Fatal("database migration failed", zap.Error(err))
		}
		store = repository.NewRoomRepo(db)
	default:
		zl.Fatal("unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
	}

	if cfg.SeedDemoRooms {
		if err := database.SeedDemoRooms(context.Background(), store, zl); err != nil {
			zl.Fatal("room seed failed", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := ws.NewRoomHub(zl.Named("ws"))
	go hub.Run()

	rooms := service.NewRoomService(store, zl.Named("rooms"),
		service.WithEvents(hub),
		service.WithRecorder(metrics.NewRecorder(reg)),
	)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.Register(r, routes.Deps{
		Cfg:      cfg,
		Log:      zl,
		Rooms:    rooms,
		Hub:      hub,
		Store:    store,
		Gatherer: reg,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server exited with error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
