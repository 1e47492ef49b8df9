package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joseph-ayodele/cv-intake/internal/common"
)

// Sender dispatches one outbound message to a recipient.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioConfig for the messaging client.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string // e.g. "whatsapp:+14155238886"
	BaseURL    string // default https://api.twilio.com
	Timeout    time.Duration
}

// TwilioSender sends WhatsApp messages through the Twilio Messages API.
type TwilioSender struct {
	cfg    TwilioConfig
	http   *http.Client
	logger *slog.Logger
}

func NewTwilioSender(cfg TwilioConfig, logger *slog.Logger) *TwilioSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TwilioSender{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Send posts one message. It is called exactly once per pipeline run; the
// orchestrator owns that guarantee, this client never resends on its own.
func (t *TwilioSender) Send(ctx context.Context, to, body string) error {
	start := time.Now()

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(t.cfg.BaseURL, "/"), t.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return common.NewAppError("NOTIFICATION_ERROR", "build request", common.ErrNotification)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		t.logger.Error("notify.send_error", "to", to, "error", err)
		return common.NewAppError("NOTIFICATION_ERROR", err.Error(), common.ErrNotification)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			t.logger.Warn("notify.body_close_error", "error", cerr)
		}
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		t.logger.Error("notify.rejected",
			"to", to,
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return common.NewAppError("NOTIFICATION_ERROR",
			fmt.Sprintf("twilio status %d", resp.StatusCode), common.ErrNotification)
	}

	t.logger.Info("notify.sent",
		"to", to,
		"chars", len(body),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
