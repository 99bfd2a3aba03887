package httputil

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrefs struct {
	token  string
	locale string
}

func (f fakePrefs) Token() (string, bool) {
	return f.token, f.token != ""
}

func (f fakePrefs) LocaleHint() (string, bool) {
	return f.locale, f.locale != ""
}

func TestComposeHeaders_FullPreferences(t *testing.T) {
	base := JSONHeaders()
	h := ComposeHeaders(base, fakePrefs{token: "abc123", locale: "en/USD"})

	assert.Equal(t, "Bearer abc123", h.Get("Authorization"))
	assert.Equal(t, "en/USD", h.Get("Locale"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))

	id := h.Get("X-Request-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestComposeHeaders_MissingPreferencesOmitHeaders(t *testing.T) {
	h := ComposeHeaders(http.Header{}, fakePrefs{})

	_, hasAuth := h["Authorization"]
	assert.False(t, hasAuth, "no token means no Authorization header at all")
	_, hasLocale := h["Locale"]
	assert.False(t, hasLocale, "partial locale prefs omit the hint, never default it")
	assert.NotEmpty(t, h.Get("X-Request-ID"))
}

func TestComposeHeaders_NilPreferences(t *testing.T) {
	h := ComposeHeaders(http.Header{}, nil)
	_, hasAuth := h["Authorization"]
	assert.False(t, hasAuth)
	assert.NotEmpty(t, h.Get("X-Request-ID"))
}

func TestComposeHeaders_CallerValuesWin(t *testing.T) {
	base := http.Header{}
	base.Set("Authorization", "Bearer caller-token")
	base.Set("X-Request-ID", "fixed-id")

	h := ComposeHeaders(base, fakePrefs{token: "pref-token", locale: "en/USD"})
	assert.Equal(t, "Bearer caller-token", h.Get("Authorization"))
	assert.Equal(t, "fixed-id", h.Get("X-Request-ID"))
}

func TestComposeHeaders_DoesNotMutateInput(t *testing.T) {
	base := http.Header{}
	base.Set("Accept", "application/json")

	_ = ComposeHeaders(base, fakePrefs{token: "abc", locale: "en/USD"})

	assert.Len(t, base, 1, "composition must copy, not mutate")
	assert.Empty(t, base.Get("Authorization"))
	assert.Empty(t, base.Get("X-Request-ID"))
}

func TestComposeHeaders_FreshRequestIDPerCall(t *testing.T) {
	a := ComposeHeaders(http.Header{}, nil).Get("X-Request-ID")
	b := ComposeHeaders(http.Header{}, nil).Get("X-Request-ID")
	assert.NotEqual(t, a, b)
}
