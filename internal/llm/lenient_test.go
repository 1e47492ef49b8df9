package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkdownFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"name":"Ada"}`, `{"name":"Ada"}`},
		{"fenced", "```json\n{\"name\":\"Ada\"}\n```", `{"name":"Ada"}`},
		{"fenced no lang", "```\n{\"name\":\"Ada\"}\n```", `{"name":"Ada"}`},
		{"leading whitespace", "  \n```json\n{}\n```", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripMarkdownFences(tc.in))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	got, ok := FirstJSONObject(`Here is the result: {"name":"Ada","note":"uses {braces} in strings"} trailing`)
	require.True(t, ok)
	assert.Equal(t, `{"name":"Ada","note":"uses {braces} in strings"}`, got)

	got, ok = FirstJSONObject(`prefix {"outer":{"inner":1}} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"outer":{"inner":1}}`, got)

	_, ok = FirstJSONObject("no json here")
	assert.False(t, ok)

	_, ok = FirstJSONObject(`{"unterminated": true`)
	assert.False(t, ok)
}

func TestSanitizeFieldsDropsPlaceholders(t *testing.T) {
	raw := []byte(`{"name":"Ada Lovelace","email":"N/A","phone":"","location":"London"}`)
	cleaned, dropped, err := SanitizeFields(raw)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(cleaned, &m))

	assert.Equal(t, "Ada Lovelace", m["name"])
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "phone")
	assert.NotContains(t, m, "location") // unknown key removed
	assert.ElementsMatch(t, []string{"email", "phone", "location"}, dropped)
}

func TestSanitizeFieldsSplitsSkillsString(t *testing.T) {
	raw := []byte(`{"skills":"Go, Python,  SQL , "}`)
	cleaned, _, err := SanitizeFields(raw)
	require.NoError(t, err)

	var m map[string][]string
	require.NoError(t, json.Unmarshal(cleaned, &m))
	assert.Equal(t, []string{"Go", "Python", "SQL"}, m["skills"])
}

func TestSanitizeFieldsYearsExperience(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *float64
	}{
		{"number kept", `{"years_experience":4.5}`, ptr(4.5)},
		{"string coerced", `{"years_experience":"7"}`, ptr(7.0)},
		{"negative dropped", `{"years_experience":-2}`, nil},
		{"garbage dropped", `{"years_experience":"about five"}`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cleaned, _, err := SanitizeFields([]byte(tc.in))
			require.NoError(t, err)

			var fields CandidateFields
			require.NoError(t, json.Unmarshal(cleaned, &fields))
			if tc.want == nil {
				assert.Nil(t, fields.YearsExperience)
			} else {
				require.NotNil(t, fields.YearsExperience)
				assert.Equal(t, *tc.want, *fields.YearsExperience)
			}
		})
	}
}

func TestSanitizedOutputValidatesAgainstSchema(t *testing.T) {
	raw := []byte(`{"name":"Ada","email":"ada@example.com","skills":"Go, SQL","years_experience":"3","confidence":0.9}`)
	cleaned, _, err := SanitizeFields(raw)
	require.NoError(t, err)

	assert.NoError(t, ValidateJSONAgainstSchema(BuildCandidateJSONSchema(), cleaned))
}

func ptr(f float64) *float64 { return &f }
