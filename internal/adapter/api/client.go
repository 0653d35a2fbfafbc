package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the remote storefront REST API on behalf of the session
// carried in each request context.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, lgr logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  lgr,
	}
}

// envelope is the common {success, message, data} response wrapper
type envelope[T any] struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type checker interface {
	check(s *schemaCheck)
}

// call performs one request and validates the envelope and, when present,
// its data field.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*T, error) {
	raw, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrSchema, method, path, err)
	}

	s := &schemaCheck{}
	s.require(env.Success != nil, "success")
	if env.Data != nil {
		if v, ok := any(env.Data).(checker); ok {
			v.check(s)
		}
	}
	if err := s.err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return env.Data, nil
}

// callData is call for endpoints whose data field is mandatory
func callData[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*T, error) {
	data, err := call[T](ctx, c, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%s %s: %w: data", method, path, ErrSchema)
	}
	return data, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	session := interfaces.SessionFrom(ctx)
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s %s: %w", method, path, err)
	}

	if c.logger != nil {
		c.logger.Debug("api_call", fmt.Sprintf("%s %s", method, path), session.RequestID, map[string]interface{}{
			"status":      resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
