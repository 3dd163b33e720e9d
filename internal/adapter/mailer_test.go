package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, handler http.HandlerFunc) (Mailer, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mailer, err := NewHTTPMailer(config.Mailer{
		BaseURL:        srv.URL,
		APIKey:         "relay-key",
		FromAddress:    "no-reply@zero-vault.example",
		ResetURLBase:   "https://vault.example/reset",
		RequestTimeout: 5 * time.Second,
	}, logger.NewLogger("test"))
	require.NoError(t, err)

	return mailer, srv
}

func TestNewHTTPMailer_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPMailer(config.Mailer{BaseURL: "   "}, logger.NewLogger("test"))
	require.Error(t, err)
}

func TestNormalizeBaseURL_AddsScheme(t *testing.T) {
	got, err := normalizeBaseURL("api.mail.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.mail.example.com", got)
}

func TestSendPasswordReset_Success(t *testing.T) {
	var captured mailMessage
	var gotPath, gotAuth string

	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	})

	err := mailer.SendPasswordReset(context.Background(), "john@example.com", "deadbeef")
	require.NoError(t, err)

	assert.Equal(t, "/v1/mail/send", gotPath)
	assert.Equal(t, "Bearer relay-key", gotAuth)
	assert.Equal(t, "no-reply@zero-vault.example", captured.From)
	assert.Equal(t, "john@example.com", captured.To)
	assert.Contains(t, captured.Text, "https://vault.example/reset?email=john%40example.com&token=deadbeef")
	assert.Contains(t, captured.Text, "wipes all stored vault data")
}

func TestSendPasswordReset_Unauthorized(t *testing.T) {
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusUnauthorized)
	})

	err := mailer.SendPasswordReset(context.Background(), "john@example.com", "deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestSendPasswordReset_RateLimited(t *testing.T) {
	mailer, _ := newTestMailer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	err := mailer.SendPasswordReset(context.Background(), "john@example.com", "deadbeef")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
}
