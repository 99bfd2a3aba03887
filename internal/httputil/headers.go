package httputil

import (
	"net/http"

	"github.com/google/uuid"
)

// Preferences is the read-only view of persisted user state the header
// composer needs. Both getters fail open: ok is false when the preference
// is absent or unreadable.
type Preferences interface {
	Token() (string, bool)
	LocaleHint() (string, bool)
}

// ComposeHeaders merges the caller-supplied headers with the auth and
// locale hints derived from persisted preferences. A missing preference
// means its header is omitted entirely, never defaulted. Caller-set values
// are not overridden. The input header set is not mutated.
func ComposeHeaders(base http.Header, p Preferences) http.Header {
	h := http.Header{}
	for k, vals := range base {
		for _, v := range vals {
			h.Add(k, v)
		}
	}

	if p != nil {
		if token, ok := p.Token(); ok && h.Get("Authorization") == "" {
			h.Set("Authorization", "Bearer "+token)
		}
		if hint, ok := p.LocaleHint(); ok && h.Get("Locale") == "" {
			h.Set("Locale", hint)
		}
	}

	if h.Get("X-Request-ID") == "" {
		h.Set("X-Request-ID", uuid.NewString())
	}
	return h
}

// JSONHeaders returns the baseline headers for Wanslu API calls.
func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	return h
}
