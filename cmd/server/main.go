package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/analysis"
	"github.com/northseawatch/scrubber-backend-go/internal/api"
	"github.com/northseawatch/scrubber-backend-go/internal/config"
	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/handler"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/publisher"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
	"github.com/northseawatch/scrubber-backend-go/internal/service"

	// Import analyzer packages to register them
	_ "github.com/northseawatch/scrubber-backend-go/internal/analysis/emission"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: "scrubber-backend",
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing:", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing)

	// 初始化数据库
	db, err := database.Open(ctx, database.Config{Driver: cfg.DBDriver, DSN: cfg.DSN()})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	metrics := observability.NewCollector()

	deps := analysis.Deps{DB: db}
	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, metrics)
		if err != nil {
			log.Fatal("Failed to connect to NATS:", err)
		}
		defer pub.Close()
		deps.Publisher = pub
	} else {
		log.Printf("[NATS] NATS_URL not set, rate updates will not be published")
	}

	ships := repository.NewShipRepository(db)
	positions := repository.NewPositionRepository(db)
	scrubbers := repository.NewScrubberRepository(db)
	navStatus := repository.NewNavStatusRepository(db)

	taskService := service.NewAnalysisTaskService(repository.NewAnalysisTaskRepository(db), deps, metrics)

	portService := service.NewPortService(repository.NewPortRepository(db), repository.NewEngineRepository(db))

	// 初始化路由
	router, limiter := api.SetupRouter(cfg, api.Handlers{
		Ship:         handler.NewShipHandler(service.NewShipService(ships, scrubbers, navStatus, cfg.ActiveShipWindow, metrics)),
		Path:         handler.NewPathHandler(service.NewPathService(ships, positions, scrubbers, cfg.ShipPathWindow, metrics)),
		Distribution: handler.NewDistributionHandler(service.NewDistributionService(positions, scrubbers, metrics)),
		Discharge:    handler.NewDischargeHandler(metrics),
		AnalysisTask: handler.NewAnalysisTaskHandler(taskService),
		Port:         handler.NewPortHandler(portService),
	}, metrics)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s (driver=%s)", cfg.Port, db.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	taskService.Shutdown()
	log.Printf("Server stopped")
}
