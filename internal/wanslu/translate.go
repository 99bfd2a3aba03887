package wanslu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Translator calls the Wanslu translation endpoint. It satisfies
// translate.Backend; caching and coalescing live in the translate package.
type Translator struct {
	client *Client
}

func NewTranslator(client *Client) *Translator {
	return &Translator{client: client}
}

func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	body := map[string]any{
		"text": text,
		"to":   targetLang,
	}

	env, err := t.client.do(ctx, http.MethodPost, "/v1/translate", nil, body)
	if err != nil {
		return "", err
	}

	var payload struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if payload.Translation == "" {
		return "", fmt.Errorf("empty translation for %q", targetLang)
	}
	return payload.Translation, nil
}
