package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/incident-center/internal/api/http"
	"github.com/spec-kit/incident-center/internal/api/http/handlers"
	"github.com/spec-kit/incident-center/internal/config"
	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/events"
	"github.com/spec-kit/incident-center/internal/observability"
	"github.com/spec-kit/incident-center/internal/persistence"
	"github.com/spec-kit/incident-center/internal/repository"
	"github.com/spec-kit/incident-center/internal/seed"
	"github.com/spec-kit/incident-center/internal/service"
	"github.com/spec-kit/incident-center/internal/store"
	"github.com/spec-kit/incident-center/internal/worker"
)

func main() {
	var envFile, seedFile string
	flagSet := pflag.NewFlagSet("incident-center", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	flagSet.StringVar(&seedFile, "seed-file", "", "YAML file with roster and records (overrides STORE_SEED_FILE)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("parse flags: %v", err)
	}

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if seedFile != "" {
		cfg.Store.SeedFile = seedFile
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data, err := loadSeed(cfg.Store)
	if err != nil {
		logger.Fatal("failed to load seed data", zap.Error(err))
	}

	readiness := map[string]handlers.Pinger{}

	var roster repository.RosterRepository
	switch cfg.Roster.Source {
	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.ApplyRosterSchema(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to apply roster schema", zap.Error(err))
			}
		}
		roster = repository.NewPostgresRoster(pg.PoolHandle())
		readiness["postgres"] = pg
	default:
		roster = repository.NewMemoryRoster(data.Roster)
	}

	var blobs repository.BlobStore
	switch cfg.Blob.Backend {
	case config.BackendRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		blobs = repository.NewRedisBlobStore(redis.Client, cfg.Blob.TTL())
		readiness["redis"] = redis
	default:
		blobs = repository.NewMemoryBlobStore()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartEventLogWorker(service.NewEventLogService(dispatcher, logger, metrics))

	recordHandlers := make(map[domain.Variant]*handlers.RecordsHandler, 2)
	var incidentDashboard *service.DashboardService
	for _, variant := range []domain.Variant{domain.VariantIncident, domain.VariantTicket} {
		st, err := store.New(variant)
		if err != nil {
			logger.Fatal("failed to create store", zap.Error(err))
		}
		if err := st.Init(data.Records(variant)); err != nil {
			logger.Fatal("failed to seed store", zap.String("variant", string(variant)), zap.Error(err))
		}
		recordService := service.NewRecordService(service.RecordDependencies{
			Store:        st,
			Roster:       roster,
			Blobs:        blobs,
			Dispatcher:   dispatcher,
			Logger:       logger.Named(string(variant)),
			DefaultActor: cfg.App.DefaultActor,
			MaxBlobBytes: cfg.Blob.MaxBytes,
		})
		dashboard := service.NewDashboardService(st, roster)
		if variant == domain.VariantIncident {
			incidentDashboard = dashboard
		}
		recordHandlers[variant] = handlers.NewRecordsHandler(recordService, dashboard)
		logger.Info("store ready", zap.String("variant", string(variant)), zap.Int("records", st.Len()))
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Blob.BodyLimit(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Metrics:   handlers.NewMetricsHandler(metrics),
		Roster:    handlers.NewRosterHandler(incidentDashboard),
		Blobs:     handlers.NewBlobsHandler(blobs),
		Incidents: recordHandlers[domain.VariantIncident],
		Tickets:   recordHandlers[domain.VariantTicket],
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func loadSeed(cfg config.StoreConfig) (*seed.Data, error) {
	switch {
	case cfg.SeedFile != "":
		return seed.LoadFile(cfg.SeedFile)
	case cfg.SeedDemo:
		data, err := seed.Demo()
		if err != nil {
			return nil, fmt.Errorf("demo seed: %w", err)
		}
		return data, nil
	default:
		return &seed.Data{}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
