package notify

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

// WelcomeMessage is sent for text-only submissions with no resume attached.
const WelcomeMessage = "Welcome to the CV intake service!\n\n" +
	"Please send your resume as a PDF or DOCX file to get started."

// failureMessage deliberately carries no internal error detail.
const failureMessage = "Sorry, we couldn't process your resume. " +
	"Please make sure it's a readable PDF or DOCX file and try again."

// Compose renders the outbound confirmation for a pipeline result. Success
// echoes the extracted identity back for confirmation; partial lists what is
// missing; failure is a generic apology.
func Compose(res entity.PipelineResult) string {
	switch res.Status {
	case constants.StatusSuccess:
		return successMessage(res.Record)
	case constants.StatusPartial:
		return partialMessage(res.Record)
	default:
		if res.Message != "" {
			return res.Message
		}
		return failureMessage
	}
}

func successMessage(rec *entity.CandidateRecord) string {
	email := rec.DisplayEmail
	if email == "" {
		email = rec.Email
	}
	var b strings.Builder
	b.WriteString("Resume received successfully!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Email: %s\n", email)
	fmt.Fprintf(&b, "Skills captured: %d\n", len(rec.Skills))
	b.WriteString("\nYour application has been recorded. We'll contact you soon!")
	return b.String()
}

func partialMessage(rec *entity.CandidateRecord) string {
	var b strings.Builder
	b.WriteString("Thanks! We received your resume, but couldn't find: ")
	b.WriteString(strings.Join(rec.Missing, ", "))
	b.WriteString(".\n\nYour submission was recorded anyway. ")
	b.WriteString("Please resend a resume that includes these details, or reply with them here.")
	return b.String()
}
