package httpclient

import (
	"fmt"
	"strings"
	"time"
)

// normalizeAuthType ensures proper "Bearer", "Basic", or custom capitalization.
func normalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		if t == "" {
			return "Bearer"
		}
		return t
	}
}

// -----------------------------------------------------------------------------
// HEADER + COOKIE MANAGEMENT
// -----------------------------------------------------------------------------

// attachAuth injects auth credentials, or session cookies for credentialed
// requests. An Authorization header set by the caller is kept.
func (c *HTTPClient) attachAuth(req *HTTPRequest) {
	if c.token.AccessToken != "" {
		if req.Header("Authorization") == "" {
			req.SetHeader("Authorization", fmt.Sprintf("%s %s", normalizeAuthType(c.token.TokenType), c.token.AccessToken))
		}
		return
	}

	if !req.WithCredentials || len(c.token.Cookies) == 0 {
		return
	}
	now := time.Now()
	var merged strings.Builder
	for _, ck := range c.token.Cookies {
		// expired session cookies are left for the server to reissue
		if ck.Name == "" || (!ck.Expires.IsZero() && ck.Expires.Before(now)) {
			continue
		}
		merged.WriteString(ck.Name + "=" + ck.Value + "; ")
	}
	if merged.Len() > 0 {
		req.SetHeader("Cookie", merged.String())
	}
}
