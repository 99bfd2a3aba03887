package httputil

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// APITransport is an http.RoundTripper that applies the shared request
// pipeline for every API call: ComposeHeaders → RateLimiter → Send.
// Headers already set by the caller win over composed ones.
type APITransport struct {
	Base        http.RoundTripper
	Prefs       Preferences
	RateLimiter *rate.Limiter
	Log         *logrus.Logger
}

func (t *APITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	composed := ComposeHeaders(req.Header, t.Prefs)
	req.Header = composed

	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if t.Log != nil {
		entry := t.Log.WithFields(logrus.Fields{
			"method":   req.Method,
			"url":      req.URL.Redacted(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
		})
		if err != nil {
			entry.WithError(err).Debug("api request failed")
		} else {
			entry.WithField("status", resp.StatusCode).Debug("api request")
		}
	}
	return resp, err
}
