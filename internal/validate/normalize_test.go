package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/llm"
)

func TestRecordCompleteNormalizesEmail(t *testing.T) {
	n := NewNormalizer(nil)
	years := 4.0

	rec := n.Record(llm.CandidateFields{
		Name:            "  Ada   Lovelace ",
		Email:           "Ada.Lovelace@Example.COM",
		Phone:           "+44 (20) 7946-0958",
		Skills:          []string{"Go", "go", " SQL ", "Python", "sql"},
		YearsExperience: &years,
		Education:       "BSc  Mathematics",
	}, "raw resume text")

	assert.Equal(t, constants.RecordComplete, rec.Tag)
	assert.True(t, rec.Complete())
	assert.Empty(t, rec.Missing)

	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Equal(t, "ada.lovelace@example.com", rec.Email)
	assert.Equal(t, "Ada.Lovelace@Example.COM", rec.DisplayEmail)
	assert.Equal(t, "+442079460958", rec.Phone)
	assert.Equal(t, "BSc Mathematics", rec.Education)
	// case-insensitive dedup keeps first-seen casing and order
	assert.Equal(t, []string{"Go", "SQL", "Python"}, rec.Skills)
	require.NotNil(t, rec.YearsExperience)
	assert.Equal(t, 4.0, *rec.YearsExperience)
}

func TestRecordMissingEmailTagsIncomplete(t *testing.T) {
	n := NewNormalizer(nil)

	rec := n.Record(llm.CandidateFields{Name: "Grace Hopper"}, "text")
	assert.Equal(t, constants.RecordIncomplete, rec.Tag)
	assert.Equal(t, []string{"email"}, rec.Missing)

	rec = n.Record(llm.CandidateFields{Email: "not-an-email"}, "text")
	assert.Equal(t, constants.RecordIncomplete, rec.Tag)
	assert.Equal(t, []string{"name", "email"}, rec.Missing)
}

func TestRecordNegativeYearsDropped(t *testing.T) {
	n := NewNormalizer(nil)
	years := -1.0

	rec := n.Record(llm.CandidateFields{
		Name:            "Ada",
		Email:           "ada@example.com",
		YearsExperience: &years,
	}, "text")
	assert.Nil(t, rec.YearsExperience)
	assert.Equal(t, constants.RecordComplete, rec.Tag)
}

func TestExcerptBounded(t *testing.T) {
	n := NewNormalizer(nil)

	long := strings.Repeat("resume content ", 100)
	rec := n.Record(llm.CandidateFields{Name: "Ada", Email: "ada@example.com"}, long)
	assert.LessOrEqual(t, len([]rune(rec.Excerpt)), ExcerptLimit)
	assert.True(t, strings.HasSuffix(rec.Excerpt, "..."))

	rec = n.Record(llm.CandidateFields{Name: "Ada", Email: "ada@example.com"}, "short text")
	assert.Equal(t, "short text", rec.Excerpt)
}
