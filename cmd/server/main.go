package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/service"
	"github.com/ilcdb/record-management/internal/config"
	"github.com/ilcdb/record-management/internal/domain/lifecycle"
	"github.com/ilcdb/record-management/internal/infrastructure/export"
	openaiCorrector "github.com/ilcdb/record-management/internal/infrastructure/external/openai"
	"github.com/ilcdb/record-management/internal/infrastructure/persistence/docstore"
	"github.com/ilcdb/record-management/internal/infrastructure/persistence/repository"
	"github.com/ilcdb/record-management/internal/infrastructure/storage"
	httpserver "github.com/ilcdb/record-management/internal/interfaces/http"
	"github.com/ilcdb/record-management/pkg/database"
	"github.com/ilcdb/record-management/pkg/utils"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ILCDB record management service",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	svcLogger := utils.NewServiceLogger(logger)
	store := docstore.New(db.DB, logger)

	procurementRepo := repository.NewRecordRepository(store, docstore.CollectionProcurements, logger)
	honorariaRepo := repository.NewRecordRepository(store, docstore.CollectionHonoraria, logger)
	travelRepo := repository.NewRecordRepository(store, docstore.CollectionTravelVouchers, logger)

	// The corrector is optional: without an API key, PR number suggestions
	// are disabled and validation still works.
	var corrector *openaiCorrector.Corrector
	if cfg.OpenAI.APIKey != "" {
		corrector = openaiCorrector.NewCorrector(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.Temperature,
			logger,
		)
	} else {
		logger.Warn("OPENAI_API_KEY not set, PR number suggestions disabled")
	}

	var prNumbers service.PRNumberService
	if corrector != nil {
		prNumbers = service.NewPRNumberService(procurementRepo, corrector, svcLogger)
	} else {
		prNumbers = service.NewPRNumberService(procurementRepo, nil, svcLogger)
	}

	collections := httpserver.Collections{
		"procurements": service.NewRecordService(lifecycle.Procurement, procurementRepo, prNumbers, svcLogger),
		"honoraria":    service.NewRecordService(lifecycle.Honoraria, honorariaRepo, nil, svcLogger),
		"travel-vouchers": service.NewRecordService(
			lifecycle.TravelVoucher, travelRepo, nil, svcLogger),
	}

	fileStorage := storage.NewLocalFileStorage(cfg.Export.OutputDir, logger)
	exporter := export.NewExcelExporter(logger)
	exports := service.NewExportService(exporter, fileStorage, svcLogger)
	queries := service.NewQueryService(svcLogger)
	signatures := export.NewSignatureDecoder(logger)

	handlers := httpserver.NewHandlers(collections, queries, prNumbers, exports, signatures, svcLogger)
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handlers, svcLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
