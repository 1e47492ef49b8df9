package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/export"
	"github.com/joseph-ayodele/cv-intake/internal/ledger"
)

// cv-export dumps the ledger to an XLSX workbook and prints per-status
// submission stats.
//
// usage: cv-export <out.xlsx>
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		logger.Error("usage: cv-export <out.xlsx>")
		os.Exit(2)
	}
	outPath := os.Args[1]

	cfg := common.LoadConfig()
	if cfg.Ledger.SheetID == "" || cfg.Ledger.CredentialsPath == "" {
		logger.Error("GOOGLE_SHEET_ID and GOOGLE_CREDENTIALS_PATH are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sheetsLedger, err := ledger.NewSheetsLedger(ctx, ledger.Config{
		SheetID:         cfg.Ledger.SheetID,
		SheetName:       cfg.Ledger.SheetName,
		CredentialsPath: cfg.Ledger.CredentialsPath,
		Timeout:         cfg.Ledger.Timeout,
	}, logger)
	if err != nil {
		logger.Error("create sheets ledger", "error", err)
		os.Exit(1)
	}

	svc := export.NewService(sheetsLedger, logger)

	workbook, err := svc.ExportXLSX(ctx)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, workbook, 0o644); err != nil {
		logger.Error("write workbook", "path", outPath, "error", err)
		os.Exit(1)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		logger.Error("stats failed", "error", err)
		os.Exit(1)
	}
	summary, _ := json.Marshal(stats)
	logger.Info("export complete", "path", outPath, "stats", string(summary))
}
