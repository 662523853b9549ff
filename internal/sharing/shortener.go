package sharing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const defaultShortenerTimeout = 5 * time.Second

// Shortener exchanges a long share link for a short one through a configured
// HTTP endpoint. A nil Shortener is valid and always falls back to the long
// URL, as does any endpoint failure.
type Shortener struct {
	httpClient *http.Client
	endpoint   string
}

// ShortenerOption configures optional client behavior.
type ShortenerOption func(*Shortener)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ShortenerOption {
	return func(s *Shortener) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) ShortenerOption {
	return func(s *Shortener) {
		if timeout > 0 {
			s.httpClient.Timeout = timeout
		}
	}
}

// NewShortener builds a shortener client. An empty endpoint returns nil,
// which callers treat as "shortening disabled".
func NewShortener(endpoint string, opts ...ShortenerOption) *Shortener {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil
	}

	shortener := &Shortener{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultShortenerTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(shortener)
		}
	}
	return shortener
}

// Shorten returns the short form of longURL, or longURL itself when the
// shortener is disabled or the endpoint misbehaves. Sharing never fails
// because of the shortener.
func (s *Shortener) Shorten(ctx context.Context, longURL string) string {
	if s == nil || longURL == "" {
		return longURL
	}

	payload, err := json.Marshal(map[string]string{"url": longURL})
	if err != nil {
		return longURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return longURL
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return longURL
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return longURL
	}

	var body struct {
		ShortURL string `json:"short_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return longURL
	}
	if strings.TrimSpace(body.ShortURL) == "" {
		return longURL
	}
	return body.ShortURL
}
