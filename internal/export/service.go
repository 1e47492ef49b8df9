package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/ledger"
)

// Service is a tiny façade over the ledger that produces XLSX bytes and
// submission stats for operator tooling.
type Service struct {
	reader ledger.Reader
	logger *slog.Logger
}

func NewService(reader ledger.Reader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, logger: logger}
}

// ExportXLSX returns an XLSX workbook with all ledger rows under the fixed
// column header.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	rows, err := s.reader.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledger rows: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Candidates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range constants.LedgerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range rows {
		for cIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(cIdx+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 18) // source
	_ = f.SetColWidth(sheet, "C", "D", 26) // name, email
	_ = f.SetColWidth(sheet, "F", "F", 48) // skills
	_ = f.SetColWidth(sheet, "H", "H", 40) // education

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// Stats summarizes the ledger by pipeline status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Stats counts persisted submissions per status column value.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.reader.ListRows(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list ledger rows: %w", err)
	}

	st := Stats{Total: len(rows), ByStatus: map[string]int{}}
	statusCol := len(constants.LedgerColumns) - 1
	for _, row := range rows {
		// Reader implementations are not required to pad short rows.
		status := ""
		if statusCol < len(row) {
			status = row[statusCol]
		}
		if status == "" {
			status = "unknown"
		}
		st.ByStatus[status]++
	}
	return st, nil
}
