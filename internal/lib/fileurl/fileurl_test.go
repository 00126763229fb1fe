package fileurl

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func query(t *testing.T, link string) url.Values {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query()
}

func TestSignAndVerify(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	link := signer.Sign("abc123")
	require.True(t, strings.HasPrefix(link, "/api/files/abc123?"))

	q := query(t, link)
	assert.True(t, signer.Verify("abc123", q.Get("expires"), q.Get("sig")))
	assert.False(t, signer.Verify("other", q.Get("expires"), q.Get("sig")))
	assert.False(t, NewSigner("wrong", time.Minute).Verify("abc123", q.Get("expires"), q.Get("sig")))
}

func TestVerifyExpired(t *testing.T) {
	signer := NewSigner("secret", time.Minute)
	q := query(t, signer.Sign("abc123"))

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.False(t, signer.Verify("abc123", q.Get("expires"), q.Get("sig")))
	assert.False(t, signer.Verify("abc123", "not-a-number", q.Get("sig")))
}

func TestSignEmptyID(t *testing.T) {
	assert.Empty(t, NewSigner("secret", 0).Sign(""))
}
