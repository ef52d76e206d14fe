package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/roster-sync/internal/adapters/http/handler"
	"github.com/ogurasousui/roster-sync/internal/adapters/provider"
	"github.com/ogurasousui/roster-sync/internal/adapters/repository/postgres"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
	"github.com/ogurasousui/roster-sync/internal/platform/config"
	pg "github.com/ogurasousui/roster-sync/internal/platform/db/postgres"
	"github.com/ogurasousui/roster-sync/internal/platform/logging"
	"github.com/ogurasousui/roster-sync/internal/platform/metrics"
	"github.com/ogurasousui/roster-sync/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fallback := logging.New(config.LoggingConfig{})
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.Logging)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database pool")
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)
	promMetrics := metrics.New()

	orgRepo := postgres.NewOrganizationRepository(dbPool)
	orgSvc := organization.NewService(orgRepo, nil, txManager)

	sources := provider.NewRegistry(orgRepo, nil, provider.Config{
		HousecallProBaseURL: cfg.Providers.HousecallProBaseURL,
		JobberBaseURL:       cfg.Providers.JobberBaseURL,
	})

	rosterRepo := postgres.NewEmployeeRepository(dbPool)
	rosterSvc := roster.NewService(rosterRepo, sources, nil, txManager, promMetrics, logging.WithComponent(log, "roster"))

	router := handler.NewRouter(handler.RouterConfig{
		Organizations:  orgSvc,
		Roster:         rosterSvc,
		MetricsHandler: promMetrics.Handler(),
		Logger:         logging.WithComponent(log, "http"),
	})

	httpServer := server.New(cfg.Server.ListenAddr, router, cfg.Server.ShutdownTimeout)

	log.Info().Str("listen_addr", cfg.Server.ListenAddr).Msg("server listening")

	if err := httpServer.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
