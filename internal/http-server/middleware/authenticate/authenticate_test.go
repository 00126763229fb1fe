package authenticate

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/api/cont"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth map[string]*entity.UserAuth

func (a tokenAuth) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if u, ok := a[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

func TestAuthenticate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := tokenAuth{"good": {ID: "u1", Role: entity.ManagerRole}}

	var seen *entity.UserAuth
	h := New(log, auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		seen, err = cont.GetUser(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
	assert.Equal(t, "good", seen.Token)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "bearer  abc ")
	assert.Equal(t, "abc", BearerToken(r))
}
