package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cv-intake/internal/common"
	"github.com/joseph-ayodele/cv-intake/internal/llm"
)

// ExtractFields implements llm.FieldExtractor using text-only chat/completions.
// Transport failures, rate limits and empty responses are retried with
// backoff; a malformed-but-received body goes through the repair path instead.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.CandidateFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	text := llm.TruncateHead(req.Text, c.cfg.TextBudget)
	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"submission_id", req.SubmissionID,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(text),
		"truncated", len(text) < len(req.Text),
	)

	schema := llm.BuildCandidateJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPromptWithSchema(schema)},
			{"role": "user", "content": llm.BuildUserPrompt(text)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	var content string
	policy := common.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		BaseDelay:  c.cfg.RetryDelay,
		Transient:  transient,
	}
	err := common.Retry(ctx, policy, c.logger, "llm.extract", func() error {
		raw, err := c.post(ctx, endpoint, body)
		if err != nil {
			return err
		}
		content, err = decodeChoice(raw)
		return err
	})
	if err != nil {
		c.logger.Error("llm.extract.unreachable",
			"req_id", rid,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, nil, common.NewAppError("EXTRACTION_ERROR", err.Error(), common.ErrExtraction)
	}

	fields, rawContent, outcome, err := parseContent(content, schema)
	if err != nil {
		c.logger.Error("llm.extract.unparseable",
			"req_id", rid,
			"error", err,
			"content", llm.TruncateHead(content, 300),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CandidateFields{}, rawContent, common.NewAppError("SCHEMA_VIOLATION", err.Error(), common.ErrSchemaViolation)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"outcome", outcome,
		"name", fields.Name,
		"email", fields.Email,
		"skills", len(fields.Skills),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, rawContent, nil
}

// parseContent turns a model response into CandidateFields: strict decode
// first, then exactly one repair pass over the first balanced JSON object.
func parseContent(content string, schema map[string]any) (llm.CandidateFields, []byte, llm.ParseOutcome, error) {
	outcome := llm.OutcomeParsed
	candidate := llm.StripMarkdownFences(content)

	cleaned, _, err := llm.SanitizeFields([]byte(candidate))
	if err != nil {
		repaired, ok := llm.FirstJSONObject(content)
		if !ok {
			return llm.CandidateFields{}, []byte(content), llm.OutcomeUnparseable,
				fmt.Errorf("no JSON object in response")
		}
		outcome = llm.OutcomeRepaired
		cleaned, _, err = llm.SanitizeFields([]byte(repaired))
		if err != nil {
			return llm.CandidateFields{}, []byte(content), llm.OutcomeUnparseable,
				fmt.Errorf("repair pass failed: %w", err)
		}
	}

	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		return llm.CandidateFields{}, cleaned, llm.OutcomeUnparseable,
			fmt.Errorf("schema validation failed: %w", err)
	}

	var fields llm.CandidateFields
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		return llm.CandidateFields{}, cleaned, llm.OutcomeUnparseable,
			fmt.Errorf("unmarshal fields: %w", err)
	}
	return fields, cleaned, outcome, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{status: resp.StatusCode, body: string(raw)}
	}
	return raw, nil
}

func decodeChoice(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 || strings.TrimSpace(cc.Choices[0].Message.Content) == "" {
		return "", errNoContent
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

var errNoContent = errors.New("no content in openai response")

type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string { return fmt.Sprintf("openai status %d: %s", e.status, e.body) }

// transient: network errors, 429, 5xx and empty completions are retried;
// a 4xx means the request itself is wrong and retrying cannot help.
func transient(err error) bool {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status == http.StatusTooManyRequests || ae.status/100 == 5
	}
	return true
}

func buildSystemPromptWithSchema(schema map[string]any) string {
	return llm.BuildSystemPrompt() + "\n\nJSON Schema:\n" + mustJSON(schema)
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
