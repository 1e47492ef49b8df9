package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
	"github.com/joseph-ayodele/cv-intake/internal/extract"
	"github.com/joseph-ayodele/cv-intake/internal/llm"
	"github.com/joseph-ayodele/cv-intake/internal/llm/openai"
	"github.com/joseph-ayodele/cv-intake/internal/validate"
)

// cv-extract runs text and field extraction against a local resume file and
// prints the normalized record. Useful for prompt and parser debugging
// without a webhook round trip.
//
// usage: cv-extract <file.pdf|file.docx>
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		logger.Error("usage: cv-extract <file.pdf|file.docx>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	var format constants.DocumentFormat
	switch filepath.Ext(path) {
	case ".pdf":
		format = constants.FormatPDF
	case ".docx":
		format = constants.FormatDOCX
	default:
		logger.Error("unsupported extension", "path", path)
		os.Exit(2)
	}

	doc := &entity.ExtractedDocument{
		SubmissionID: "local",
		Format:       format,
		Payload:      payload,
	}
	if err := extract.NewExtractor(logger).Text(doc); err != nil {
		logger.Error("text extraction failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		TextBudget:  cfg.LLM.TextBudget,
	}, logger)

	fields, _, err := client.ExtractFields(ctx, llm.ExtractRequest{
		Text:         doc.Text,
		SubmissionID: "local",
	})
	if err != nil {
		logger.Error("field extraction failed", "error", err)
		os.Exit(1)
	}

	rec := validate.NewNormalizer(logger).Record(fields, doc.Text)
	out, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(out))
}
