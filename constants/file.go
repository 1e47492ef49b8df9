package constants

import "strings"

// DocumentFormat tags the binary format of a fetched attachment.
type DocumentFormat string

const (
	FormatPDF     DocumentFormat = "pdf"
	FormatDOCX    DocumentFormat = "docx"
	FormatUnknown DocumentFormat = "unknown"
)

// ContentTypeFormats maps declared MIME types to document formats.
var ContentTypeFormats = map[string]DocumentFormat{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
}

// FormatFromContentType resolves a declared content type to a format tag,
// ignoring any parameters (e.g. "; charset=...").
func FormatFromContentType(ct string) DocumentFormat {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if f, ok := ContentTypeFormats[ct]; ok {
		return f
	}
	return FormatUnknown
}

// FormatExtensions holds the extensions used when spooling attachments to disk.
var FormatExtensions = map[DocumentFormat]string{
	FormatPDF:  ".pdf",
	FormatDOCX: ".docx",
}
