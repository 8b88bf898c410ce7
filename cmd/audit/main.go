// Command audit runs one reconciliation pass end to end and writes the
// ledger and audit workbooks. It is the batch counterpart of the HTTP
// server, meant for month-end closings.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/config"
	"github.com/oficinapro/auditoria/internal/report"
	"github.com/oficinapro/auditoria/internal/service"
	"github.com/oficinapro/auditoria/pkg/database"
	"github.com/oficinapro/auditoria/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	period := flag.String("period", "", "period to audit (YYYY-MM, overrides config)")
	tolerance := flag.Float64("tolerance", 0, "relative match tolerance (overrides config)")
	statement := flag.String("statement", "", "processor statement CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	opts := service.RunOptions{
		Period:        cfg.Audit.Period,
		Tolerance:     cfg.Audit.Tolerance,
		StatementPath: cfg.Audit.StatementPath,
		WriteReports:  true,
	}
	if *period != "" {
		opts.Period = *period
	}
	if *tolerance > 0 {
		opts.Tolerance = *tolerance
	}
	if *statement != "" {
		opts.StatementPath = *statement
	}

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

	ctx := context.Background()
	if err := db.VerifySchema(ctx, "ORDEMS", "CONTAS", "FCAIXA"); err != nil {
		logger.Fatal("Snapshot schema verification failed", zap.Error(err))
	}

	writer := report.NewWriter(cfg.Report.OutputDir, logger)
	audits := service.NewAuditService(db.DB, writer, logger)

	run, err := audits.Run(ctx, opts)
	if err != nil {
		logger.Fatal("Reconciliation failed", zap.Error(err))
	}

	fmt.Printf("Período:            %s\n", run.Period)
	fmt.Printf("Transações:         %d\n", run.Summary.Total)
	fmt.Printf("Coincidentes:       %d (cartão %d, PIX %d)\n",
		run.Summary.Matched, run.Summary.MatchedCard, run.Summary.MatchedPIX)
	fmt.Printf("Divergentes:        %d\n", run.Summary.Mismatched)
	fmt.Printf("Não encontradas:    %d\n", run.Summary.Unmatched)
	fmt.Printf("Taxa de sucesso:    %.1f%%\n", run.Summary.SuccessRate*100)
	fmt.Printf("Linhas excluídas:   %d\n", run.ExcludedRows)
	fmt.Printf("Recebimentos:       %s\n", run.LedgerPath)
	fmt.Printf("Auditoria:          %s\n", run.AuditPath)
}
