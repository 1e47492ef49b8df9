// Package pipeline sequences one submission through fetch, text extraction,
// field inference, validation, persistence and notification.
//
// Each submission traverses the stage machine exactly once:
//
//	Received → Fetching → Extracting → Inferring → Validating → Persisting → Notifying → Done
//
// with Failed reachable from any non-terminal stage. The notifier is the one
// stage guaranteed to run after a failure; a notifier failure is logged and
// swallowed so the sender never sees raw error detail.
package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
	"github.com/joseph-ayodele/cv-intake/internal/ledger"
	"github.com/joseph-ayodele/cv-intake/internal/llm"
	"github.com/joseph-ayodele/cv-intake/internal/notify"
	"github.com/joseph-ayodele/cv-intake/internal/validate"
)

// Stage identifies a step of the submission state machine.
type Stage string

const (
	StageReceived   Stage = "received"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageInferring  Stage = "inferring"
	StageValidating Stage = "validating"
	StagePersisting Stage = "persisting"
	StageNotifying  Stage = "notifying"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Fetcher retrieves one attachment. Satisfied by *fetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, submissionID string, ref entity.AttachmentRef) (*entity.ExtractedDocument, error)
}

// TextExtractor fills doc.Text. Satisfied by *extract.Extractor.
type TextExtractor interface {
	Text(doc *entity.ExtractedDocument) error
}

// Processor owns one traversal of the stage machine per submission. There is
// no cross-submission shared state beyond the ledger's append target, so
// concurrent submissions run through independent invocations safely.
type Processor struct {
	fetcher    Fetcher
	extractor  TextExtractor
	fields     llm.FieldExtractor
	normalizer *validate.Normalizer
	ledger     ledger.Appender
	sender     notify.Sender
	logger     *slog.Logger
}

func NewProcessor(
	fetcher Fetcher,
	extractor TextExtractor,
	fields llm.FieldExtractor,
	normalizer *validate.Normalizer,
	appender ledger.Appender,
	sender notify.Sender,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		fetcher:    fetcher,
		extractor:  extractor,
		fields:     fields,
		normalizer: normalizer,
		ledger:     appender,
		sender:     sender,
		logger:     logger,
	}
}

// Run processes one submission end-to-end and never returns an error: all
// failures collapse into a failed PipelineResult and the caller (the webhook
// layer) always gets a normal completion.
func (p *Processor) Run(ctx context.Context, sub entity.InboundSubmission) entity.PipelineResult {
	start := time.Now()
	stage := StageReceived

	p.logger.Info("pipeline.received",
		"submission_id", sub.SubmissionID,
		"from", sub.From,
		"attachments", len(sub.Attachments),
	)

	res := p.process(ctx, sub, &stage)

	// Notifying runs for every outcome, including Failed.
	stage = StageNotifying
	if err := p.sender.Send(ctx, sub.From, notify.Compose(res)); err != nil {
		// Logged and swallowed: the submission outcome is already decided
		// and the sender must never receive a second message for this run.
		p.logger.Error("pipeline.notify_failed",
			"submission_id", sub.SubmissionID,
			"error", err,
		)
	}

	final := StageDone
	if res.Status == constants.StatusFailed {
		final = StageFailed
	}
	p.logger.Info("pipeline.finished",
		"submission_id", sub.SubmissionID,
		"stage", string(final),
		"status", res.Status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// process runs the stages up to persistence. The stage pointer records how
// far the machine got for failure tagging.
func (p *Processor) process(ctx context.Context, sub entity.InboundSubmission, stage *Stage) entity.PipelineResult {
	ref := sub.FirstSupportedAttachment()
	if ref == nil {
		p.logger.Info("pipeline.no_document", "submission_id", sub.SubmissionID)
		return entity.PipelineResult{
			Status:  constants.StatusFailed,
			Stage:   string(StageReceived),
			Message: notify.WelcomeMessage,
		}
	}

	*stage = StageFetching
	doc, err := p.fetcher.Fetch(ctx, sub.SubmissionID, *ref)
	if err != nil {
		return p.failed(sub, *stage, err)
	}
	// Cleanup is owned here so the temp file goes away on every path,
	// including cancellation and panics further down the pipeline.
	defer doc.Cleanup()

	*stage = StageExtracting
	if err := p.extractor.Text(doc); err != nil {
		return p.failed(sub, *stage, err)
	}

	*stage = StageInferring
	fields, _, err := p.fields.ExtractFields(ctx, llm.ExtractRequest{
		Text:         doc.Text,
		SubmissionID: sub.SubmissionID,
	})
	if err != nil {
		return p.failed(sub, *stage, err)
	}

	*stage = StageValidating
	rec := p.normalizer.Record(fields, doc.Text)

	status := constants.StatusSuccess
	if !rec.Complete() {
		status = constants.StatusPartial
	}

	*stage = StagePersisting
	rowRef, err := p.ledger.AppendRow(ctx, entity.LedgerRow{
		Timestamp: sub.ReceivedAt,
		SourceID:  normalizeSource(sub.From),
		Record:    rec,
		Status:    status,
	})
	if err != nil {
		return p.failed(sub, *stage, err)
	}

	return entity.PipelineResult{
		Status: status,
		Record: &rec,
		RowRef: rowRef,
	}
}

var sourceRe = regexp.MustCompile(`[^\d+]`)

// normalizeSource strips the provider prefix from the sender id and keeps
// digits plus a single leading '+', matching what the ledger stores.
func normalizeSource(from string) string {
	s := strings.TrimPrefix(strings.TrimSpace(from), "whatsapp:")
	s = sourceRe.ReplaceAllString(s, "")
	if strings.Contains(s, "+") {
		s = "+" + strings.ReplaceAll(s, "+", "")
	}
	if s == "" {
		return from
	}
	return s
}

func (p *Processor) failed(sub entity.InboundSubmission, stage Stage, err error) entity.PipelineResult {
	p.logger.Error("pipeline.stage_failed",
		"submission_id", sub.SubmissionID,
		"stage", string(stage),
		"error", err,
	)
	return entity.PipelineResult{
		Status: constants.StatusFailed,
		Stage:  string(stage),
	}
}
