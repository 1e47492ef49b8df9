// Package extract converts fetched resume documents into plain text.
//
// Dispatch is by format tag: PDF extraction walks pages in order and joins
// them with blank-line separators; DOCX extraction walks body paragraphs and
// then table cells in document order. Text order is never rearranged: the
// output reads top-to-bottom exactly as the document does.
package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

// Extractor extracts plain text from a fetched document.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Text extracts the document's plain text and stores it on doc.Text.
// A document that yields only whitespace fails with the empty-document
// sentinel; the pipeline never sends empty context to the field extractor.
func (e *Extractor) Text(doc *entity.ExtractedDocument) error {
	start := time.Now()

	var (
		text string
		err  error
	)
	switch doc.Format {
	case constants.FormatPDF:
		text, err = pdfText(doc.Payload)
	case constants.FormatDOCX:
		text, err = docxText(doc.Payload)
	default:
		return common.NewAppError("EXTRACTION_ERROR",
			fmt.Sprintf("no extractor for format %q", doc.Format), common.ErrExtraction)
	}
	if err != nil {
		e.logger.Error("extract.failed",
			"submission_id", doc.SubmissionID,
			"format", doc.Format,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return common.NewAppError("EXTRACTION_ERROR", err.Error(), common.ErrExtraction)
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Error("extract.empty_document",
			"submission_id", doc.SubmissionID,
			"format", doc.Format,
		)
		return common.NewAppError("EMPTY_DOCUMENT", "document yielded no text", common.ErrEmptyDocument)
	}

	doc.Text = text
	e.logger.Info("extract.ok",
		"submission_id", doc.SubmissionID,
		"format", doc.Format,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
