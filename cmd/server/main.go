package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/api"
	"github.com/oficinapro/auditoria/internal/config"
	"github.com/oficinapro/auditoria/internal/nfse"
	"github.com/oficinapro/auditoria/internal/report"
	"github.com/oficinapro/auditoria/internal/service"
	"github.com/oficinapro/auditoria/pkg/database"
	"github.com/oficinapro/auditoria/pkg/utils"
)

func main() {
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

	logger.Info("Starting workshop receivables audit service",
		zap.String("period", cfg.Audit.Period),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open snapshot database", zap.Error(err))
	}
	defer db.Close()

	if err := db.VerifySchema(context.Background(), "ORDEMS", "CONTAS", "FCAIXA"); err != nil {
		logger.Fatal("Snapshot schema verification failed", zap.Error(err))
	}

	writer := report.NewWriter(cfg.Report.OutputDir, logger)
	audits := service.NewAuditService(db.DB, writer, logger)
	notes := nfse.NewExtractor(logger)

	server := api.NewServer(api.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, audits, notes, cfg.Audit, cfg.NFSe, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
