// Package sms delivers one-time codes through an external SMS
// provider. The provider is consumed as an opaque HTTP API; delivery
// failure is reported to the caller, never retried here.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender sends verification codes via SMS.
type Sender interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}

// HTTPSender posts to a phone.email-style send-otp endpoint.
type HTTPSender struct {
	apiURL     string
	apiKey     string
	appName    string
	httpClient *http.Client
}

func NewHTTPSender(apiURL, apiKey, appName string) *HTTPSender {
	return &HTTPSender{
		apiURL:     apiURL,
		apiKey:     apiKey,
		appName:    appName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *HTTPSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(sendRequest{
		Phone:   phone,
		Message: fmt.Sprintf("Your %s verification code is: %s", s.appName, code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("sms provider response invalid: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("sms provider rejected message: %s", result.Message)
	}
	return nil
}

// LogSender logs the code instead of sending it. Used in development
// when SMS_API_KEY is unset.
type LogSender struct{}

func (LogSender) SendVerificationCode(_ context.Context, phone, code string) error {
	slog.Info("sms delivery skipped (no provider configured)", "phone", phone, "code", code)
	return nil
}
