// Package wanslu is the REST client for the api.wanslu.shop marketplace
// backend. Each search source keeps its own wire shape quarantined here;
// everything leaves this package as normalized models.
package wanslu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wanslu/storefront/internal/httputil"
	"github.com/wanslu/storefront/internal/prefs"
	"github.com/wanslu/storefront/internal/source"
)

// ErrAuthRequired signals that a persisted token is missing or rejected.
// Presentation layers turn it into a login redirect, not a display error.
var ErrAuthRequired = errors.New("authentication required")

// APIError is a server-signaled error envelope (status:"error").
type APIError struct {
	Code    string
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
	}
	return "api error: " + e.Message
}

// Client is the shared low-level API client. Auth, locale and request-id
// headers are applied by the transport; Client owns URL building, the
// response envelope, and the error taxonomy.
type Client struct {
	httpc   *http.Client
	baseURL string
	prefs   *prefs.Store
	log     *logrus.Logger
}

func NewClient(httpc *http.Client, baseURL string, store *prefs.Store, log *logrus.Logger) *Client {
	return &Client{
		httpc:   httpc,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefs:   store,
		log:     log,
	}
}

// envelope is the common response wrapper. Sources unpack Data/Result into
// their own shapes.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Blocked bool            `json:"blocked"`
	Data    json.RawMessage `json:"data"`
	Result  json.RawMessage `json:"result"`
	Meta    struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// requireAuth returns ErrAuthRequired when no token is persisted, so
// authenticated endpoints are never called expecting an anonymous success.
func (c *Client) requireAuth() error {
	if _, ok := c.prefs.Token(); !ok {
		return ErrAuthRequired
	}
	return nil
}

// do performs one API call and interprets the shared envelope. Region
// blocks and auth failures are mapped to their typed errors here so no
// caller branches on raw payloads.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range httputil.JSONHeaders() {
		req.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(c.httpc, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrAuthRequired
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("decode response (%s): %w", path, err)
	}

	if env.Blocked && env.Status == "error" {
		return nil, &source.BlockedError{Message: env.Message}
	}
	if env.Status == "error" {
		return nil, &APIError{Code: env.Code, Message: env.Message, Data: env.Data}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}
	return &env, nil
}

// parsePrice converts the string decimals the marketplace APIs use
// ("12.50", "1,299.00") into a float. Empty input is zero.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parsePercent converts "18%" to 0.18.
func parsePercent(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f / 100
}
