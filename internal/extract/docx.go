package extract

import (
	"bytes"
	"fmt"
	"strings"

	"baliance.com/gooxml/document"
)

// docxText extracts body paragraphs in order, then table text in row/cell
// order. Cells within a row are tab-separated so tabular resumes keep their
// reading order on one line.
func docxText(payload []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var lines []string
	for _, para := range doc.Paragraphs() {
		lines = append(lines, paragraphText(para))
	}
	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			var cells []string
			for _, cell := range row.Cells() {
				var parts []string
				for _, para := range cell.Paragraphs() {
					if t := paragraphText(para); t != "" {
						parts = append(parts, t)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.Join(lines, "\n"), nil
}

func paragraphText(para document.Paragraph) string {
	var b strings.Builder
	for _, run := range para.Runs() {
		b.WriteString(run.Text())
	}
	return b.String()
}
