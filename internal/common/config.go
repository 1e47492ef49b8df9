package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Twilio TwilioConfig
	LLM    LLMConfig
	Ledger LedgerConfig
	Fetch  FetchConfig
}

// ServerConfig holds webhook server configuration
type ServerConfig struct {
	HTTPAddr string
}

// TwilioConfig holds messaging provider credentials
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string // format: whatsapp:+1234567890
	Timeout        time.Duration
}

// LLMConfig holds completion service configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	TextBudget  int // max document chars sent to the model
}

// LedgerConfig holds spreadsheet backend configuration
type LedgerConfig struct {
	SheetID         string
	CredentialsPath string
	SheetName       string
	Timeout         time.Duration
}

// FetchConfig holds attachment download configuration
type FetchConfig struct {
	MaxBytes int64
	Timeout  time.Duration
	TempDir  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":5000"),
		},
		Twilio: TwilioConfig{
			AccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
			WhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
			Timeout:        getEnvAsDuration("TWILIO_TIMEOUT", 15*time.Second),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			TextBudget:  getEnvAsInt("OPENAI_TEXT_BUDGET", 6000),
		},
		Ledger: LedgerConfig{
			SheetID:         getEnv("GOOGLE_SHEET_ID", ""),
			CredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", ""),
			SheetName:       getEnv("GOOGLE_SHEET_NAME", "CV Data"),
			Timeout:         getEnvAsDuration("SHEETS_TIMEOUT", 20*time.Second),
		},
		Fetch: FetchConfig{
			MaxBytes: getEnvAsInt64("FETCH_MAX_BYTES", 10<<20),
			Timeout:  getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
			TempDir:  getEnv("FETCH_TEMP_DIR", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Twilio.AccountSID == "" {
		return NewAppError("CONFIG_ERROR", "TWILIO_ACCOUNT_SID is required", ErrInvalidInput)
	}
	if c.Twilio.AuthToken == "" {
		return NewAppError("CONFIG_ERROR", "TWILIO_AUTH_TOKEN is required", ErrInvalidInput)
	}
	if c.Twilio.WhatsAppNumber == "" {
		return NewAppError("CONFIG_ERROR", "TWILIO_WHATSAPP_NUMBER is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Ledger.SheetID == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_SHEET_ID is required", ErrInvalidInput)
	}
	if c.Ledger.CredentialsPath == "" {
		return NewAppError("CONFIG_ERROR", "GOOGLE_CREDENTIALS_PATH is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
