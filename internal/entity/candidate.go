package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/cv-intake/constants"
)

// CandidateRecord is the structured result of one extracted resume.
type CandidateRecord struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"` // lower-cased for storage
	DisplayEmail    string   `json:"-"`     // original casing, used in notifications
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	YearsExperience *float64 `json:"years_experience,omitempty"`
	Education       string   `json:"education,omitempty"`
	Excerpt         string   `json:"excerpt,omitempty"` // bounded raw-text audit sample

	Tag     constants.RecordTag `json:"tag"`
	Missing []string            `json:"missing,omitempty"` // names of missing/invalid required fields
}

// Complete reports whether name and email are both present and valid.
func (r *CandidateRecord) Complete() bool {
	return r.Tag == constants.RecordComplete
}

// LedgerRow is a CandidateRecord plus submission metadata, persisted as one
// append-only row with a fixed column order.
type LedgerRow struct {
	Timestamp time.Time
	SourceID  string
	Record    CandidateRecord
	Status    constants.PipelineStatus
}

// Cells renders the row in the fixed ledger column order. Absent optional
// fields render as empty cells, never omitted columns.
func (lr *LedgerRow) Cells() []string {
	years := ""
	if lr.Record.YearsExperience != nil {
		years = strings.TrimSuffix(strings.TrimSuffix(
			fmt.Sprintf("%.1f", *lr.Record.YearsExperience), "0"), ".")
	}
	return []string{
		lr.Timestamp.UTC().Format(time.RFC3339),
		lr.SourceID,
		lr.Record.Name,
		lr.Record.Email,
		lr.Record.Phone,
		strings.Join(lr.Record.Skills, ", "),
		years,
		lr.Record.Education,
		string(lr.Status),
	}
}

// PipelineResult is the outcome of one submission; it exists only for the
// duration of one request and feeds the notifier.
type PipelineResult struct {
	Status  constants.PipelineStatus
	Stage   string // stage that failed, empty on success/partial
	Record  *CandidateRecord
	Message string // human-readable outcome for the notifier
	RowRef  string // ledger reference of the appended row, when persisted
}
