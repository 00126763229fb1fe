// Package fileurl signs and verifies expiring download links for stored files.
// Links carry no bearer token, so they can be used in <img src> and <audio src>.
package fileurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

const basePath = "/api/files"

// Signer produces links valid for a fixed TTL. The MAC covers "{id}:{expires}".
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a relative URL for fileID, or "" for an empty ID.
func (s *Signer) Sign(fileID string) string {
	if fileID == "" {
		return ""
	}
	expires := s.now().Add(s.ttl).Unix()
	return fmt.Sprintf("%s/%s?expires=%d&sig=%s", basePath, fileID, expires, s.mac(fileID, expires))
}

// Verify reports whether sig matches fileID and expires is still in the future.
func (s *Signer) Verify(fileID, expires, sig string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || s.now().Unix() > exp {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(s.mac(fileID, exp)))
}

func (s *Signer) mac(fileID string, expires int64) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(fileID + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(h.Sum(nil))
}
