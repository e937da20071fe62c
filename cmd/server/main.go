package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ogurasousui/hr-records/internal/adapters/http/handler"
	"github.com/ogurasousui/hr-records/internal/adapters/http/middleware"
	"github.com/ogurasousui/hr-records/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-records/internal/core/catalog"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	pg "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/ogurasousui/hr-records/internal/platform/server"
)

const healthProbeInterval = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env")

	boot := logger.Bootstrap()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal("failed to load config", "path", cfgPath, "error", err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		boot.Fatal("failed to build logger", "error", err)
	}
	defer log.Sync()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database pool", "error", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	catalogRepo := postgres.NewCatalogRepository(dbPool)
	catalogSvc := catalog.NewService(catalogRepo, nil, txManager)

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	employeeSvc := employee.NewService(employeeRepo, catalogRepo, nil, txManager)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checkDB := func(ctx context.Context) error {
		return pg.CheckHealth(ctx, dbPool)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Employees:      handler.NewEmployeeHandler(employeeSvc, log),
		Skills:         handler.NewCatalogHandler(catalogSvc, catalog.KindSkill, log),
		Certifications: handler.NewCatalogHandler(catalogSvc, catalog.KindCertification, log),
		Languages:      handler.NewCatalogHandler(catalogSvc, catalog.KindLanguage, log),
		Health:         handler.NewHealthHandler(checkDB, log),
		Metrics:        middleware.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         log,
	})

	runners := []server.Runner{
		server.NewHTTP(cfg.Server.HTTPListenAddr, router, cfg.Server.ShutdownTimeout, log),
	}

	if cfg.Server.GRPCListenAddr != "" {
		grpcServer := server.NewGRPC(cfg.Server.GRPCListenAddr, log)
		runners = append(runners,
			grpcServer,
			server.RunnerFunc{Label: "health-probe", Fn: func(ctx context.Context) error {
				return grpcServer.WatchHealth(ctx, checkDB, healthProbeInterval)
			}},
		)
	}

	if err := server.Run(ctx, log, runners...); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
