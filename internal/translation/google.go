package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Google calls the public Google Translate web endpoint.
type Google struct {
	endpoint   string
	httpClient *http.Client
}

func NewGoogle(endpoint string) *Google {
	if endpoint == "" {
		endpoint = "https://translate.googleapis.com/translate_a/single"
	}
	return &Google{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("google translate: empty text")
	}
	if source == "" {
		source = AutoDetect
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{Provider: g.Name(), Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", ErrNotFound
	}
	return translated, nil
}

// parseGoogleResponse joins the translated sentence fragments found in
// the first element of the nested-array response.
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(raw) == 0 {
		return "", nil
	}

	var sentences [][]interface{}
	if err := json.Unmarshal(raw[0], &sentences); err != nil {
		// null when nothing was translated
		return "", nil
	}

	var sb strings.Builder
	for _, s := range sentences {
		if len(s) == 0 {
			continue
		}
		if part, ok := s[0].(string); ok {
			sb.WriteString(part)
		}
	}
	return sb.String(), nil
}
