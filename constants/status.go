package constants

// PipelineStatus is the canonical outcome for a processed submission.
type PipelineStatus string

// Stable values (the "status" column stores these exact strings).
const (
	StatusSuccess PipelineStatus = "success" // complete record persisted
	StatusPartial PipelineStatus = "partial" // persisted with missing required fields
	StatusFailed  PipelineStatus = "failed"  // nothing persisted
)

// RecordTag marks whether a candidate record has all required fields.
type RecordTag string

const (
	RecordComplete   RecordTag = "complete"
	RecordIncomplete RecordTag = "incomplete"
)
