package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StripMarkdownFences removes a surrounding ```json ... ``` block when the
// model wraps its output despite instructions.
func StripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FirstJSONObject extracts the first balanced {...} substring, skipping
// braces inside string literals. This is the single repair pass applied to
// malformed-but-received responses; it is never worth a network retry.
func FirstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// known placeholder spellings the model uses for absent values
var absentValues = map[string]struct{}{
	"n/a": {}, "na": {}, "none": {}, "null": {}, "unknown": {}, "not found": {},
}

// SanitizeFields normalizes a decoded response map in place so it can pass
// schema validation:
//   - "N/A"-style placeholders and empty strings are dropped
//   - a comma-joined skills string is split into an array
//   - numeric strings for years_experience are coerced to numbers, and
//     negatives are dropped
//   - unknown keys are removed (the schema forbids additionalProperties)
//
// It returns the cleaned JSON plus the list of dropped keys.
func SanitizeFields(raw []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	known := map[string]struct{}{
		"name": {}, "email": {}, "phone": {}, "skills": {},
		"years_experience": {}, "education": {},
	}

	var dropped []string
	for k, v := range m {
		if _, ok := known[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k)
			continue
		}
		if s, ok := v.(string); ok {
			t := strings.TrimSpace(s)
			if _, absent := absentValues[strings.ToLower(t)]; absent || t == "" {
				delete(m, k)
				dropped = append(dropped, k)
				continue
			}
			m[k] = t
		}
	}

	if v, ok := m["skills"]; ok {
		switch t := v.(type) {
		case string:
			var skills []any
			for _, part := range strings.Split(t, ",") {
				if p := strings.TrimSpace(part); p != "" {
					skills = append(skills, p)
				}
			}
			m["skills"] = skills
		case []any:
			// keep as-is; element cleanup is the validator's job
		default:
			delete(m, "skills")
			dropped = append(dropped, "skills")
		}
	}

	if v, ok := m["years_experience"]; ok {
		switch t := v.(type) {
		case float64:
			if t < 0 {
				delete(m, "years_experience")
				dropped = append(dropped, "years_experience")
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil && f >= 0 {
				m["years_experience"] = f
			} else {
				delete(m, "years_experience")
				dropped = append(dropped, "years_experience")
			}
		default:
			delete(m, "years_experience")
			dropped = append(dropped, "years_experience")
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}
