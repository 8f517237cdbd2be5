package schedulerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result wraps one proxied scheduler response. Source names the endpoint
// that actually answered; scheduler builds vary, so callers must not assume
// a fixed path.
type Result struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Source string `json:"source,omitempty"`
	Data   any    `json:"data"`
}

// Client proxies the scheduler HTTP API with tolerant endpoint probing.
type Client struct {
	baseURL     string
	nowEndpoint string
	http        *http.Client
	log         *zap.Logger
}

func New(baseURL, nowEndpoint string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		nowEndpoint: nowEndpoint,
		http:        &http.Client{Timeout: 2500 * time.Millisecond},
		log:         logger,
	}
}

// Health hits /health, which every scheduler build exposes.
func (c *Client) Health(ctx context.Context) Result {
	data, err := c.getJSON(ctx, "/health")
	if err != nil {
		return Result{Error: err.Error(), Source: "/health"}
	}
	return Result{OK: true, Source: "/health", Data: data}
}

// NowPlaying probes the known now-playing endpoint variants, preferring an
// explicitly configured one.
func (c *Client) NowPlaying(ctx context.Context) Result {
	candidates := []string{"/now", "/now_playing", "/playing", "/current", "/np", "/status"}
	if c.nowEndpoint != "" {
		candidates = []string{c.nowEndpoint}
	}
	for _, path := range candidates {
		if data, err := c.getJSON(ctx, path); err == nil {
			return Result{OK: true, Source: path, Data: data}
		}
	}
	return Result{Data: map[string]any{
		"note": "scheduler does not expose a now-playing endpoint",
	}}
}

// Upcoming probes the queue endpoint variants: /next?n=N, /nextN, /next1.
func (c *Client) Upcoming(ctx context.Context, n int) Result {
	if n < 1 {
		n = 1
	}
	for _, path := range []string{
		fmt.Sprintf("/next?n=%d", n),
		fmt.Sprintf("/next%d", n),
		"/next1",
	} {
		if data, err := c.getJSON(ctx, path); err == nil {
			return Result{OK: true, Source: path, Data: data}
		}
	}
	return Result{Data: map[string]any{
		"note": "no upcoming endpoint found on scheduler",
	}}
}

// getJSON fetches one path and decodes tolerantly: non-JSON bodies come
// back wrapped as raw_text rather than failing.
func (c *Client) getJSON(ctx context.Context, path string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("scheduler probe failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "application/json") {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return data, nil
		}
	}
	txt := strings.TrimSpace(string(body))
	if txt == "" {
		return map[string]any{}, nil
	}
	return map[string]any{"raw_text": txt}, nil
}
