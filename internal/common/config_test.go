package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CREDENTIALS_PATH", "/tmp/creds.json")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5000", cfg.Server.HTTPAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 6000, cfg.LLM.TextBudget)
	assert.Equal(t, "CV Data", cfg.Ledger.SheetName)
	assert.Equal(t, int64(10<<20), cfg.Fetch.MaxBytes)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TEXT_BUDGET", "4000")
	t.Setenv("FETCH_MAX_BYTES", "1048576")
	t.Setenv("FETCH_TIMEOUT", "5s")

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 4000, cfg.LLM.TextBudget)
	assert.Equal(t, int64(1048576), cfg.Fetch.MaxBytes)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TWILIO_ACCOUNT_SID", "")

	cfg := LoadConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}
