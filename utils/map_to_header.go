package utils

import (
	"net/http"
	"strings"
)

// MapToHeader converts object metadata into response headers. Keys are
// canonicalised and blank keys are skipped.
func MapToHeader(m map[string]string) http.Header {
	h := make(http.Header, len(m))
	for k, v := range m {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		h.Set(k, strings.TrimSpace(v))
	}
	return h
}
