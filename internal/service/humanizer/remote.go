// internal/service/humanizer/remote.go
package humanizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"humanizer-service/internal/domain/text"
)

const defaultRemoteTimeout = 10 * time.Second

// RemoteStrategy calls an external humanization service with a bounded
// timeout. Failures are reported to the caller, which retries against the
// local fallback.
type RemoteStrategy struct {
	url    string
	apiKey string
	client *http.Client
}

func NewRemoteStrategy(url, apiKey string, timeout time.Duration) *RemoteStrategy {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteStrategy{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *RemoteStrategy) Name() string {
	return "remote"
}

type remoteRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type remoteResponse struct {
	Humanized string `json:"humanized"`
	Original  string `json:"original"`
	Status    string `json:"status"`
}

func (s *RemoteStrategy) Humanize(ctx context.Context, input string, level text.Level) (string, error) {
	body, err := json.Marshal(remoteRequest{Text: input, Mode: modeForLevel(level)})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("humanization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("humanization service returned status %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if out.Humanized == "" {
		return "", fmt.Errorf("humanization service returned empty result")
	}

	return out.Humanized, nil
}
