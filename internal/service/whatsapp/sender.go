package whatsapp

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/lib/sl"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Service sends text messages through the WhatsApp Cloud API.
type Service struct {
	token   string
	phoneID string
	baseUrl string
	client  *http.Client
	log     *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	if !conf.WhatsApp.Enabled {
		return nil
	}
	return &Service{
		token:   conf.WhatsApp.Token,
		phoneID: conf.WhatsApp.PhoneID,
		baseUrl: strings.TrimRight(conf.WhatsApp.BaseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.With(sl.Module("whatsapp")),
	}
}

type textBody struct {
	Body string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// NormalizePhone keeps digits only, as the API expects.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Service) SendText(ctx context.Context, phone, text string) error {
	if s.token == "" || s.phoneID == "" {
		return fmt.Errorf("whatsapp: %w", entity.ErrNotConfigured)
	}
	to := NormalizePhone(phone)
	if to == "" {
		return entity.NewValidationError("recipient_phone", "phone number is required")
	}

	bodyBytes, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return fmt.Errorf("marshal send body: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseUrl, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.With(sl.Err(err)).Error("send HTTP")
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.log.With(
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		).Error("non-2xx from whatsapp")
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode)
	}

	s.log.With(
		sl.Secret("to", to),
	).Info("whatsapp message sent")
	return nil
}
