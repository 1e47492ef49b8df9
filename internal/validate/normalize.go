// Package validate turns raw extracted fields into a tagged CandidateRecord.
//
// Missing optional fields are never an error. A record missing name or a
// well-formed email is tagged incomplete and carries the offending field
// names; it is persisted and reported, not dropped.
package validate

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/cv-intake/constants"
	"github.com/joseph-ayodele/cv-intake/internal/entity"
	"github.com/joseph-ayodele/cv-intake/internal/llm"
)

// ExcerptLimit bounds the raw-text audit sample stored on each record.
const ExcerptLimit = 500

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`[^\d+]`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalizer validates and normalizes extracted candidate fields.
type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Record builds a tagged CandidateRecord from raw fields and the document
// text. Email is lower-cased for storage while the original casing is kept
// for display; skills are deduplicated case-insensitively preserving
// first-seen casing and order.
func (n *Normalizer) Record(fields llm.CandidateFields, docText string) entity.CandidateRecord {
	rec := entity.CandidateRecord{
		Name:      collapse(fields.Name),
		Education: collapse(fields.Education),
		Excerpt:   excerpt(docText),
	}

	displayEmail := strings.TrimSpace(fields.Email)
	rec.DisplayEmail = displayEmail
	rec.Email = strings.ToLower(displayEmail)

	rec.Phone = normalizePhone(fields.Phone)
	rec.Skills = dedupeSkills(fields.Skills)

	if fields.YearsExperience != nil && *fields.YearsExperience >= 0 {
		y := *fields.YearsExperience
		rec.YearsExperience = &y
	}

	var missing []string
	if rec.Name == "" {
		missing = append(missing, "name")
	}
	if rec.Email == "" || !emailRe.MatchString(rec.Email) {
		missing = append(missing, "email")
	}

	if len(missing) > 0 {
		rec.Tag = constants.RecordIncomplete
		rec.Missing = missing
		n.logger.Warn("validate.incomplete", "missing", missing)
	} else {
		rec.Tag = constants.RecordComplete
	}
	return rec
}

// normalizePhone keeps digits and a single leading '+'.
func normalizePhone(phone string) string {
	p := phoneRe.ReplaceAllString(strings.TrimSpace(phone), "")
	if strings.Contains(p, "+") {
		p = "+" + strings.ReplaceAll(p, "+", "")
	}
	return p
}

// dedupeSkills drops case-insensitive duplicates, keeping the first-seen
// casing and the original order.
func dedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	var out []string
	for _, s := range skills {
		s = collapse(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func excerpt(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= ExcerptLimit {
		return text
	}
	return string(runes[:ExcerptLimit-3]) + "..."
}
