package llm

import "context"

// CandidateFields is the normalized shape we want from the LLM.
type CandidateFields struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	YearsExperience *float64 `json:"years_experience,omitempty"` // non-negative
	Education       string   `json:"education,omitempty"`
}

// ParseOutcome records how the model response became structured data.
type ParseOutcome string

const (
	OutcomeParsed      ParseOutcome = "parsed"      // decoded on first attempt
	OutcomeRepaired    ParseOutcome = "repaired"    // decoded after the repair pass
	OutcomeUnparseable ParseOutcome = "unparseable" // no usable object recovered
)

// ExtractRequest carries the document text and provenance hints.
type ExtractRequest struct {
	Text         string
	SubmissionID string
}

// FieldExtractor is the interface the pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (CandidateFields, []byte /*rawJSON*/, error)
}
