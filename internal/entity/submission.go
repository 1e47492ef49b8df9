package entity

import (
	"os"
	"time"

	"github.com/joseph-ayodele/cv-intake/constants"
)

// AttachmentRef points at a provider-hosted attachment on an inbound message.
type AttachmentRef struct {
	URL         string
	ContentType string
}

// InboundSubmission is one document-bearing event from a sender. It is built
// on webhook receipt, immutable, and discarded when the pipeline finishes.
type InboundSubmission struct {
	SubmissionID string    // uuid, assigned on receipt
	From         string    // opaque sender id, e.g. "whatsapp:+14155551234"
	Body         string    // free-text message body
	Attachments  []AttachmentRef
	ReceivedAt   time.Time
}

// FirstSupportedAttachment returns the first attachment whose declared
// content type maps to a supported format. When no declared type matches,
// it falls back to the first attachment with a URL: providers sometimes
// deliver documents as application/octet-stream, and the fetcher resolves
// the real format from the payload's magic bytes. Nil only when the
// submission carries no attachment at all.
func (s *InboundSubmission) FirstSupportedAttachment() *AttachmentRef {
	for i := range s.Attachments {
		if constants.FormatFromContentType(s.Attachments[i].ContentType) != constants.FormatUnknown {
			return &s.Attachments[i]
		}
	}
	for i := range s.Attachments {
		if s.Attachments[i].URL != "" {
			return &s.Attachments[i]
		}
	}
	return nil
}

// ExtractedDocument is the fetched attachment, owned exclusively by one
// pipeline invocation. The byte payload is spooled at TempPath; Cleanup must
// run on every exit path.
type ExtractedDocument struct {
	SubmissionID string
	Format       constants.DocumentFormat
	Payload      []byte
	TempPath     string
	Text         string
}

// Cleanup removes the spooled temp file. Safe to call more than once.
func (d *ExtractedDocument) Cleanup() {
	if d == nil || d.TempPath == "" {
		return
	}
	_ = os.Remove(d.TempPath)
	d.TempPath = ""
}
