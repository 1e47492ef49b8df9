package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/extract"
	"github.com/joseph-ayodele/cv-intake/internal/fetch"
	"github.com/joseph-ayodele/cv-intake/internal/ledger"
	"github.com/joseph-ayodele/cv-intake/internal/llm/openai"
	"github.com/joseph-ayodele/cv-intake/internal/notify"
	"github.com/joseph-ayodele/cv-intake/internal/pipeline"
	"github.com/joseph-ayodele/cv-intake/internal/server"
	"github.com/joseph-ayodele/cv-intake/internal/validate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	if err := sheetsLedger.EnsureHeader(ctx); err != nil {
		logger.Error("initialize ledger header", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.NewFetcher(fetch.Config{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
		MaxBytes: cfg.Fetch.MaxBytes,
		Timeout:  cfg.Fetch.Timeout,
		TempDir:  cfg.Fetch.TempDir,
	}, nil, logger)

	extractor := extract.NewExtractor(logger)

	llmClient := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		TextBudget:  cfg.LLM.TextBudget,
	}, logger)

	sender := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       cfg.Twilio.WhatsAppNumber,
		Timeout:    cfg.Twilio.Timeout,
	}, logger)

	processor := pipeline.NewProcessor(
		fetcher,
		extractor,
		llmClient,
		validate.NewNormalizer(logger),
		sheetsLedger,
		sender,
		logger,
	)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.New(processor, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("webhook serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
