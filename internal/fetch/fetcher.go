package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

// Config for the attachment fetcher.
type Config struct {
	// Username/Password authenticate media downloads against the provider
	// (Twilio uses the account SID and auth token).
	Username string
	Password string
	MaxBytes int64
	Timeout  time.Duration
	TempDir  string // "" means the OS default
}

// Fetcher downloads an attachment, resolves its format and spools the bytes
// to a scoped temp file.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewFetcher(cfg Config, client *http.Client, logger *slog.Logger) *Fetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{cfg: cfg, client: client, logger: logger}
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04") // docx is a zip container
)

// Fetch retrieves the attachment and returns the payload plus a resolved
// format tag. Transient network and 429/5xx failures are retried; anything
// else fails with the fetch sentinel. The caller owns Cleanup on the result.
func (f *Fetcher) Fetch(ctx context.Context, submissionID string, ref entity.AttachmentRef) (*entity.ExtractedDocument, error) {
	rid := uuid.New().String()
	start := time.Now()

	f.logger.Info("fetch.start",
		"req_id", rid,
		"submission_id", submissionID,
		"content_type", ref.ContentType,
	)

	format := constants.FormatFromContentType(ref.ContentType)

	var payload []byte
	policy := common.RetryPolicy{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, Transient: transient}
	err := common.Retry(ctx, policy, f.logger, "fetch", func() error {
		var err error
		payload, err = f.download(ctx, ref.URL)
		return err
	})
	if err != nil {
		f.logger.Error("fetch.failed",
			"req_id", rid,
			"submission_id", submissionID,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.NewAppError("FETCH_ERROR", err.Error(), common.ErrFetch)
	}

	// Fall back to magic-byte sniffing when the declared type is unhelpful.
	if format == constants.FormatUnknown {
		format = sniffFormat(payload)
	}
	if format == constants.FormatUnknown {
		f.logger.Error("fetch.unsupported_format",
			"req_id", rid,
			"submission_id", submissionID,
			"content_type", ref.ContentType,
		)
		return nil, common.NewAppError("FETCH_ERROR",
			fmt.Sprintf("unsupported content type %q", ref.ContentType), common.ErrFetch)
	}

	path, err := f.spool(payload, format)
	if err != nil {
		return nil, common.NewAppError("FETCH_ERROR", "spool attachment", common.ErrFetch)
	}

	f.logger.Info("fetch.ok",
		"req_id", rid,
		"submission_id", submissionID,
		"format", format,
		"bytes", len(payload),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &entity.ExtractedDocument{
		SubmissionID: submissionID,
		Format:       format,
		Payload:      payload,
		TempPath:     path,
	}, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.cfg.Username != "" {
		req.SetBasicAuth(f.cfg.Username, f.cfg.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Warn("fetch.body_close_error", "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		return nil, &statusError{code: resp.StatusCode}
	}

	// Read one byte past the cap so oversized payloads are detectable
	// without buffering them whole.
	payload, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(payload)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("attachment exceeds %d byte limit", f.cfg.MaxBytes)
	}
	return payload, nil
}

func (f *Fetcher) spool(payload []byte, format constants.DocumentFormat) (string, error) {
	tmp, err := os.CreateTemp(f.cfg.TempDir, "resume-*"+constants.FormatExtensions[format])
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func sniffFormat(payload []byte) constants.DocumentFormat {
	switch {
	case bytes.HasPrefix(payload, pdfMagic):
		return constants.FormatPDF
	case bytes.HasPrefix(payload, zipMagic):
		return constants.FormatDOCX
	default:
		return constants.FormatUnknown
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("non-2xx status: %d", e.code) }

// transient classifies retryable download failures: transport errors,
// rate limits and server-side 5xx. Oversized payloads and 4xx are fatal.
func transient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code/100 == 5
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
