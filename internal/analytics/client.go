package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnavsh/safety-copilot/internal/types"
)

// Client handles communication with the analytics API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an analytics client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves one panel's data as raw JSON.
func (c *Client) Fetch(ctx context.Context, panel Panel, dataset types.Dataset) (json.RawMessage, error) {
	query := url.Values{}
	if panel.Dataset {
		query.Set("dataset", string(dataset))
	}
	for k, v := range panel.Params {
		query.Set(k, v)
	}
	target := c.baseURL + panel.Route
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("analytics returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("analytics returned invalid JSON for panel %q", panel.Name)
	}
	return json.RawMessage(data), nil
}

// MapHTML retrieves the incident map as a self-contained HTML document.
func (c *Client) MapHTML(ctx context.Context, dataset types.Dataset) (string, error) {
	target := c.baseURL + "/api/map?dataset=" + url.QueryEscape(string(dataset))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("map endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}
