// Package bookingapi is the HTTP client for the remote scheduling service.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/meeting-intake/internal/domain/booking"
)

type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *Client) Name() string { return "bookingapi" }

func (c *Client) Ping(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/v1/ping", nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return serviceErr(status, body)
	}
	return nil
}

// Book posts the flattened request and returns the service's success payload
// verbatim. Non-2xx replies become a *booking.ServiceError carrying whatever
// message the body held.
func (c *Client) Book(ctx context.Context, req booking.Request) (json.RawMessage, error) {
	jb, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodPost, "/v1/bookings", jb)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, serviceErr(status, body)
	}
	return json.RawMessage(body), nil
}

func serviceErr(status int, body []byte) *booking.ServiceError {
	var r struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &r)
	return &booking.ServiceError{Status: status, Message: r.Message}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("booking request: %w", err)
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
