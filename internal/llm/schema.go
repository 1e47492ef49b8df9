package llm

// BuildCandidateJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the response.
func BuildCandidateJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"email": map[string]any{"type": "string"},
			"phone": map[string]any{"type": "string"},
			"skills": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"years_experience": map[string]any{"type": "number", "minimum": 0.0},
			"education":        map[string]any{"type": "string"},
		},
		// Required-field enforcement is the validator's job: a response
		// missing name or email must still round-trip so the record can be
		// tagged incomplete instead of dropped.
		"required": []string{},
	}
}
