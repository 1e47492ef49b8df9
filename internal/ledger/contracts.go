package ledger

import (
	"context"

	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

// Appender is the append-only ledger interface the pipeline depends on.
// AppendRow persists exactly one row and returns a stable row reference;
// rows are never updated or reordered by this pipeline.
type Appender interface {
	AppendRow(ctx context.Context, row entity.LedgerRow) (rowRef string, err error)
}

// Reader lists persisted rows for export and stats tooling.
type Reader interface {
	ListRows(ctx context.Context) ([][]string, error)
}
