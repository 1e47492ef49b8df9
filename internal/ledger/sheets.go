// Package ledger persists candidate records to the shared Google Sheet.
//
// The append relies on the backend's atomic-append guarantee for safety
// under concurrent writers; no client-side locking is attempted.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

// Config for the sheets-backed ledger.
type Config struct {
	SheetID         string
	SheetName       string
	CredentialsPath string
	Timeout         time.Duration
	MaxRetries      int
}

// SheetsLedger appends rows through the Sheets values.append API.
type SheetsLedger struct {
	cfg    Config
	values *sheets.SpreadsheetsValuesService
	logger *slog.Logger
}

// NewSheetsLedger builds a ledger client authenticated with a service
// account credentials file.
func NewSheetsLedger(ctx context.Context, cfg Config, logger *slog.Logger) (*SheetsLedger, error) {
	if cfg.SheetName == "" {
		cfg.SheetName = "CV Data"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsLedger{cfg: cfg, values: svc.Spreadsheets.Values, logger: logger}, nil
}

// EnsureHeader writes the fixed column header when the sheet is blank.
// Called once at startup, not per append.
func (l *SheetsLedger) EnsureHeader(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	resp, err := l.values.Get(l.cfg.SheetID, l.rangeName("1:1")).Context(ctx).Do()
	if err != nil {
		return common.NewAppError("PERSISTENCE_ERROR", "read header row", common.ErrPersistence)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := make([]interface{}, len(constants.LedgerColumns))
	for i, c := range constants.LedgerColumns {
		header[i] = c
	}
	_, err = l.values.Update(l.cfg.SheetID, l.rangeName("A1"), &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return common.NewAppError("PERSISTENCE_ERROR", "write header row", common.ErrPersistence)
	}
	l.logger.Info("ledger.header_initialized", "sheet", l.cfg.SheetName)
	return nil
}

// AppendRow appends exactly one row in the fixed column order. Rate-limit
// and server-side failures are retried a bounded number of times; exhaustion
// surfaces a persistence error; a validated record is never dropped quietly.
func (l *SheetsLedger) AppendRow(ctx context.Context, row entity.LedgerRow) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	cells := row.Cells()
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	var rowRef string
	policy := common.RetryPolicy{
		MaxRetries: l.cfg.MaxRetries,
		BaseDelay:  time.Second,
		Transient:  transient,
	}
	err := common.Retry(ctx, policy, l.logger, "ledger.append", func() error {
		callCtx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()

		resp, err := l.values.Append(l.cfg.SheetID, l.rangeName("A1"), &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(callCtx).
			Do()
		if err != nil {
			return err
		}
		if resp.Updates != nil {
			rowRef = resp.Updates.UpdatedRange
		}
		return nil
	})
	if err != nil {
		// Escalate: after retries this is silent data loss risk.
		l.logger.Error("ledger.append.exhausted",
			"req_id", rid,
			"source_id", row.SourceID,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError("PERSISTENCE_ERROR", err.Error(), common.ErrPersistence)
	}

	l.logger.Info("ledger.append.ok",
		"req_id", rid,
		"source_id", row.SourceID,
		"row_ref", rowRef,
		"status", row.Status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rowRef, nil
}

// ListRows returns all data rows (header excluded), each padded or clipped
// to the fixed column count.
func (l *SheetsLedger) ListRows(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	resp, err := l.values.Get(l.cfg.SheetID, l.rangeName("A:I")).Context(ctx).Do()
	if err != nil {
		return nil, common.NewAppError("PERSISTENCE_ERROR", "list rows", common.ErrPersistence)
	}

	var rows [][]string
	for i, raw := range resp.Values {
		if i == 0 {
			continue // header
		}
		row := make([]string, len(constants.LedgerColumns))
		for j := 0; j < len(row) && j < len(raw); j++ {
			row[j] = fmt.Sprintf("%v", raw[j])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *SheetsLedger) rangeName(ref string) string {
	return fmt.Sprintf("'%s'!%s", l.cfg.SheetName, ref)
}

// transient: quota/rate-limit rejections and server-side errors.
func transient(err error) bool {
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == http.StatusTooManyRequests || ge.Code/100 == 5
	}
	return true
}
