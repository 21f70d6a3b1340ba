package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// httpHeicConverter invokes the convert-heic function over HTTP. It expects
// the function contract: POST {tempPath, userId} -> {url}.
type httpHeicConverter struct {
	endpoint string
	token    string
	hc       *http.Client
}

func NewHTTPHeicConverter(endpoint, token string) *httpHeicConverter {
	return &httpHeicConverter{
		endpoint: endpoint,
		token:    token,
		hc:       &http.Client{},
	}
}

func (c *httpHeicConverter) Convert(ctx context.Context, tempPath, userID string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"tempPath": tempPath,
		"userId":   userID,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("converter returned no url")
	}

	return result.URL, nil
}
