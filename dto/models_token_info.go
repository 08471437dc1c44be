package dto

import (
	"net/http"
	"time"
)

// TokenInfo represents active credential or session data.
// It supports both header-based tokens and cookie-based sessions.
type TokenInfo struct {
	// Authorization token, e.g. "Bearer abc123" or "Basic Zm9vOmJhcg=="
	AccessToken string
	// TokenType is inferred if not provided (default "Bearer").
	TokenType string
	// Expiry time. Optional, empty for cookie-only sessions.
	Expiry  time.Time
	Cookies []*http.Cookie
}

// IsExpired returns true if the token is close to or past expiry. A
// cookie session expires once every cookie carrying an expiry has lapsed.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	if t.AccessToken == "" && len(t.Cookies) == 0 {
		return true
	}
	if t.AccessToken == "" && t.Expiry.IsZero() {
		return sessionLapsed(t.Cookies, buffer)
	}
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry.Add(-buffer))
}

// sessionLapsed treats cookies without an expiry as live for the session.
func sessionLapsed(cookies []*http.Cookie, buffer time.Duration) bool {
	deadline := time.Now().Add(buffer)
	for _, ck := range cookies {
		if ck.Expires.IsZero() || ck.Expires.After(deadline) {
			return false
		}
	}
	return true
}
