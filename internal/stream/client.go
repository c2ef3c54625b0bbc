package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/arnavsh/safety-copilot/internal/types"
	"go.uber.org/zap"
)

const (
	// Frames can carry whole chart figures; allow generous line sizes.
	scanBufferSize  = 64 * 1024
	maxFrameSize    = 4 * 1024 * 1024
	defaultEndpoint = "/api/agent/stream"
)

// Config holds stream client configuration.
type Config struct {
	BaseURL string        // e.g., "http://localhost:8000"
	Model   string        // default model sent with every request
	Timeout time.Duration // dial/header timeout; the stream itself is not bounded
}

// Client opens event streams against the backend agent.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Request carries the connection parameters for one session.
type Request struct {
	Question string        `json:"question"`
	Dataset  types.Dataset `json:"dataset"`
	Model    string        `json:"model"`
}

// NewClient creates a stream client. A nil logger is replaced with a no-op.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		// No overall client timeout: the response body is a long-lived
		// stream. The response-header timeout bounds the dial instead,
		// and ctx cancels the body.
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		logger: logger,
	}
}

// Open starts a stream for one question. The returned Stream must be
// closed by the caller; ctx cancellation tears the connection down.
func (c *Client) Open(ctx context.Context, req Request) (*Stream, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+defaultEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, scanBufferSize), maxFrameSize)

	c.logger.Debug("stream opened",
		zap.String("dataset", string(req.Dataset)),
		zap.String("model", req.Model))

	return &Stream{
		body:    resp.Body,
		scanner: scanner,
		logger:  c.logger,
	}, nil
}

// Stream is one open event stream. Next is not safe for concurrent use;
// Close may be called from any goroutine, any number of times.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Next returns the next decoded event in arrival order. Malformed frames
// are skipped, never fatal. Returns io.EOF when the stream ends without a
// terminal event.
func (s *Stream) Next() (Event, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		// Tolerate SSE-style framing from older backends.
		line = strings.TrimPrefix(line, "data: ")

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			s.logger.Debug("skipping malformed frame", zap.Error(err))
			continue
		}
		return ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Close shuts the underlying connection down. Idempotent.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
