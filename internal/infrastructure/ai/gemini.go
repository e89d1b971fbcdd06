// Package ai proxies requests from the extension to the Gemini API so the
// API key never reaches the client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chismoso/checkin-api/internal/core/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("gemini api key not configured")

// GeminiClient forwards allow-listed requests upstream.
type GeminiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGeminiClient(baseURL, apiKey string) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether an API key is available.
func (c *GeminiClient) Configured() bool { return c.apiKey != "" }

// Proxy forwards a request to the Gemini API and returns the upstream
// status and body verbatim. Only model endpoints are reachable; anything
// else is rejected before a byte leaves the process.
func (c *GeminiClient) Proxy(ctx context.Context, endpoint, method string, body json.RawMessage) (int, json.RawMessage, error) {
	if !c.Configured() {
		return 0, nil, ErrNotConfigured
	}
	if endpoint != "/models" && !strings.HasPrefix(endpoint, "/models/") {
		return 0, nil, fmt.Errorf("endpoint %q: %w", endpoint, domain.ErrInvalidInput)
	}
	if method == "" {
		method = http.MethodPost
	}

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint+"?key="+c.apiKey, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read gemini response: %w", err)
	}
	return resp.StatusCode, payload, nil
}
