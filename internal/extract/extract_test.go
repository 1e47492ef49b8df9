package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"baliance.com/gooxml/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
)

func buildDocx(t *testing.T, paragraphs []string, tableCells [][]string) []byte {
	t.Helper()
	doc := document.New()
	for _, p := range paragraphs {
		doc.AddParagraph().AddRun().AddText(p)
	}
	if len(tableCells) > 0 {
		tbl := doc.AddTable()
		for _, rowCells := range tableCells {
			row := tbl.AddRow()
			for _, c := range rowCells {
				row.AddCell().AddParagraph().AddRun().AddText(c)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	return buf.Bytes()
}

// buildPdf assembles a minimal uncompressed PDF, one content stream per
// page, each fragment shown with a Tj operator. Object offsets are computed
// while writing so the xref table is always consistent.
func buildPdf(t *testing.T, pages [][]string) []byte {
	t.Helper()

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, fragments := range pages {
		var content strings.Builder
		content.WriteString("BT /F1 12 Tf 72 720 Td ")
		for _, frag := range fragments {
			fmt.Fprintf(&content, "(%s) Tj 0 -16 Td ", frag)
		}
		content.WriteString("ET")
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objs)+1, xref)
	return buf.Bytes()
}

func TestPdfTextPreservesOrder(t *testing.T) {
	fragments := []string{"Ada Lovelace", "ada@example.com", "EXPERIENCE", "Analyst Engine Ltd"}
	payload := buildPdf(t, [][]string{fragments})

	doc := &entity.ExtractedDocument{Format: constants.FormatPDF, Payload: payload}
	require.NoError(t, NewExtractor(nil).Text(doc))

	last := -1
	for _, frag := range fragments {
		idx := strings.Index(doc.Text, frag)
		require.GreaterOrEqual(t, idx, 0, "missing fragment %q", frag)
		assert.Greater(t, idx, last, "fragment %q out of order", frag)
		last = idx
	}
}

func TestPdfTextJoinsPagesWithBlankLine(t *testing.T) {
	payload := buildPdf(t, [][]string{
		{"Page one summary"},
		{"Page two education"},
	})

	doc := &entity.ExtractedDocument{Format: constants.FormatPDF, Payload: payload}
	require.NoError(t, NewExtractor(nil).Text(doc))

	first := strings.Index(doc.Text, "Page one summary")
	sep := strings.Index(doc.Text, "\n\n")
	second := strings.Index(doc.Text, "Page two education")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	require.GreaterOrEqual(t, sep, 0, "pages not separated by a blank line")
	assert.Less(t, first, sep)
	assert.Less(t, sep, second)
}

func TestDocxTextPreservesOrder(t *testing.T) {
	fragments := []string{"Ada Lovelace", "ada@example.com", "EXPERIENCE", "Analyst Engine Ltd", "EDUCATION", "University of London"}
	payload := buildDocx(t, fragments, nil)

	doc := &entity.ExtractedDocument{Format: constants.FormatDOCX, Payload: payload}
	require.NoError(t, NewExtractor(nil).Text(doc))

	// every fragment present, in document order
	last := -1
	for _, frag := range fragments {
		idx := strings.Index(doc.Text, frag)
		require.GreaterOrEqual(t, idx, 0, "missing fragment %q", frag)
		assert.Greater(t, idx, last, "fragment %q out of order", frag)
		last = idx
	}
}

func TestDocxTextIncludesTables(t *testing.T) {
	payload := buildDocx(t,
		[]string{"SKILLS"},
		[][]string{
			{"Language", "Years"},
			{"Go", "5"},
		},
	)

	doc := &entity.ExtractedDocument{Format: constants.FormatDOCX, Payload: payload}
	require.NoError(t, NewExtractor(nil).Text(doc))

	assert.Contains(t, doc.Text, "SKILLS")
	assert.Contains(t, doc.Text, "Language\tYears")
	assert.Contains(t, doc.Text, "Go\t5")
	// paragraph body comes before table content
	assert.Less(t, strings.Index(doc.Text, "SKILLS"), strings.Index(doc.Text, "Go\t5"))
}

func TestEmptyDocxFailsWithEmptyDocument(t *testing.T) {
	payload := buildDocx(t, []string{"", "   "}, nil)

	doc := &entity.ExtractedDocument{Format: constants.FormatDOCX, Payload: payload}
	err := NewExtractor(nil).Text(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrEmptyDocument))
	assert.Empty(t, doc.Text)
}

func TestCorruptPdfFailsWithExtractionError(t *testing.T) {
	doc := &entity.ExtractedDocument{
		Format:  constants.FormatPDF,
		Payload: []byte("%PDF-1.4 this is not a real pdf"),
	}
	err := NewExtractor(nil).Text(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}

func TestUnknownFormatRejected(t *testing.T) {
	doc := &entity.ExtractedDocument{
		Format:  constants.FormatUnknown,
		Payload: []byte("plain text"),
	}
	err := NewExtractor(nil).Text(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}
