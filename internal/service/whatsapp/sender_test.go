package whatsapp

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/config"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(url string) *Service {
	conf := &config.Config{}
	conf.WhatsApp.Enabled = true
	conf.WhatsApp.BaseURL = url
	conf.WhatsApp.PhoneID = "123"
	conf.WhatsApp.Token = "tok"
	return NewService(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendText(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/123/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestService(srv.URL).SendText(context.Background(), "+91 98765-43210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "919876543210", got.To)
	assert.Equal(t, "hello", got.Text.Body)
}

func TestSendTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestService(srv.URL).SendText(context.Background(), "12345", "hello")
	assert.Error(t, err)
}

func TestSendTextEmptyPhone(t *testing.T) {
	err := newTestService("http://unused").SendText(context.Background(), "n/a", "hello")
	assert.True(t, entity.IsValidationError(err))
}

func TestDisabled(t *testing.T) {
	assert.Nil(t, NewService(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil))))
	s := &Service{}
	assert.True(t, errors.Is(s.SendText(context.Background(), "1", "x"), entity.ErrNotConfigured))
}
