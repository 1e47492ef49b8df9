package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateHeadPreservesDocumentHead(t *testing.T) {
	text := "IDENTITY BLOCK\n" + strings.Repeat("filler ", 2000)

	got := TruncateHead(text, 100)
	assert.Len(t, []rune(got), 100)
	assert.True(t, strings.HasPrefix(got, "IDENTITY BLOCK"))

	// under budget is untouched
	assert.Equal(t, "short", TruncateHead("short", 100))
	// zero budget disables truncation
	assert.Equal(t, text, TruncateHead(text, 0))
}
