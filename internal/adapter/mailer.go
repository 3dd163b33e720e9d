package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/go-resty/resty/v2"
)

type httpMailer struct {
	client *resty.Client

	fromAddress  string
	resetURLBase string

	logger *logger.Logger
}

// mailMessage is the JSON body accepted by the mail relay's send endpoint.
type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// NewHTTPMailer constructs an HTTP/REST implementation of [Mailer].
// It normalises and validates the base URL from cfg.BaseURL, and configures
// the underlying client with the relay's API key and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPMailer(cfg config.Mailer, logger *logger.Logger) (Mailer, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mailer base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetAuthToken(cfg.APIKey)

	return &httpMailer{
		client:       client,
		fromAddress:  cfg.FromAddress,
		resetURLBase: cfg.ResetURLBase,
		logger:       logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SendPasswordReset implements [Mailer]. It POSTs the reset message to
// POST /v1/mail/send. The raw token appears only inside the composed link and
// is never logged.
func (h *httpMailer) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	log := logger.FromContext(ctx)

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(mailMessage{
			From:    h.fromAddress,
			To:      email,
			Subject: "Reset your vault password",
			Text:    h.composeResetText(email, resetToken),
		}).
		Post("/v1/mail/send")
	if err != nil {
		log.Err(err).Str("func", "httpMailer.SendPasswordReset").Msg("mail relay request failed")
		return fmt.Errorf("send password reset: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "httpMailer.SendPasswordReset").Int("status", resp.StatusCode()).Msg("mail relay returned an error status")
		return err
	}

	return nil
}

func (h *httpMailer) composeResetText(email, resetToken string) string {
	link := fmt.Sprintf("%s?email=%s&token=%s",
		h.resetURLBase, url.QueryEscape(email), url.QueryEscape(resetToken))

	return fmt.Sprintf(
		"A password reset was requested for your vault.\n\n"+
			"Open the link below within one hour to choose a new password:\n\n%s\n\n"+
			"Resetting the password wipes all stored vault data. "+
			"If you did not request this, ignore this message.", link)
}
