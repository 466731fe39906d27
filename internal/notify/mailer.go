package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Mailer delivers a single email. Implementations talk to an external mail
// API; callers treat delivery as best-effort.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type Email struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type httpMailer struct {
	apiKey     string
	baseURL    string
	from       string
	httpClient *http.Client
}

func NewHTTPMailer(apiKey, baseURL, from string) Mailer {
	if apiKey == "" {
		logger.L().Warn("mail API key is empty, sends will fail")
	}

	return &httpMailer{
		apiKey:  apiKey,
		baseURL: baseURL,
		from:    from,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (m *httpMailer) Send(ctx context.Context, email Email) error {
	log := logger.FromCtx(ctx).With(
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
	)

	if email.From == "" {
		email.From = m.from
	}

	jsonBody, err := json.Marshal(email)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Error("mail API request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		log.Error("mail API returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return fmt.Errorf("mail API error: %s", string(body))
	}

	log.Info("email dispatched")
	return nil
}
