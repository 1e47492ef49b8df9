package llm

import "strings"

// TruncateHead keeps the first budget characters of the document text.
// Candidate identity fields sit at the top of a resume, so truncation always
// preserves the head, cutting at a rune boundary.
func TruncateHead(text string, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

// BuildSystemPrompt returns the fixed extraction instruction. The JSON
// schema is appended by the client so prompt text and constraint stay in step.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a resume parser. Return ONLY a JSON object that matches the JSON Schema provided.",
		"Extract the candidate's full name exactly as written at the top of the resume.",
		"Extract the email address exactly as written.",
		"For 'phone', keep only digits and a leading '+'.",
		"For 'skills', return an array of individual skill names gathered from the whole document, in the order they appear.",
		"For 'years_experience', return a non-negative number of years, if stated or clearly inferable.",
		"For 'education', return the highest or most recent degree with institution and year.",
		"Omit any field that is not present in the resume. Never output null or placeholder text.",
	}
	return strings.Join(parts, " ")
}

func BuildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Resume text:\n\n")
	b.WriteString(text)
	return b.String()
}
