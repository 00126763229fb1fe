package file

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/fileurl"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type store map[string]string

func (s store) DownloadFile(_ context.Context, id string) (string, string, io.ReadCloser, error) {
	data, ok := s[id]
	if !ok {
		return "", "", nil, entity.ErrNotFound
	}
	return "note.txt", "text/plain", io.NopCloser(strings.NewReader(data)), nil
}

type tokens struct{}

func (tokens) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "valid" {
		return &entity.UserAuth{ID: "u1", Role: entity.ManagerRole}, nil
	}
	return nil, errors.New("invalid")
}

func TestDownload(t *testing.T) {
	signer := fileurl.NewSigner("secret", time.Minute)
	router := chi.NewRouter()
	router.Get("/api/files/{id}", Download(slog.New(slog.NewTextHandler(io.Discard, nil)), store{"f1": "hello"}, signer, tokens{}))

	tests := []struct {
		name   string
		url    string
		bearer string
		want   int
		body   string
	}{
		{"signed", signer.Sign("f1"), "", http.StatusOK, "hello"},
		{"bearer", "/api/files/f1", "valid", http.StatusOK, "hello"},
		{"bad signature", "/api/files/f1?expires=9999999999&sig=00", "", http.StatusUnauthorized, ""},
		{"signature for another file", strings.Replace(signer.Sign("f2"), "f2", "f1", 1), "", http.StatusUnauthorized, ""},
		{"no credentials", "/api/files/f1", "", http.StatusUnauthorized, ""},
		{"missing file", signer.Sign("nope"), "", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.bearer != "" {
				r.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
				assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
			}
		})
	}
}
