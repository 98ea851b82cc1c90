// Package client is a thin HTTP client for the NeoGarden API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
)

const DefaultBaseURL = "http://localhost:8000"

const gardenNotFound = "Garden not found"

var ErrGardenNotFound = errors.New("garden not found")

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Hello calls the API root and returns its greeting.
func (c *Client) Hello(ctx context.Context) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodGet, "/api/", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) CreateStatusCheck(ctx context.Context, clientName string) (models.StatusCheck, error) {
	var out models.StatusCheck
	err := c.do(ctx, http.MethodPost, "/api/status", models.StatusCheckCreate{ClientName: &clientName}, &out)
	return out, err
}

func (c *Client) ListStatusChecks(ctx context.Context) ([]models.StatusCheck, error) {
	var out []models.StatusCheck
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

func (c *Client) CreateGarden(ctx context.Context, input models.GardenCreate) (models.Garden, error) {
	var out models.Garden
	err := c.do(ctx, http.MethodPost, "/api/gardens", input, &out)
	return out, err
}

func (c *Client) ListGardens(ctx context.Context) ([]models.Garden, error) {
	var out []models.Garden
	err := c.do(ctx, http.MethodGet, "/api/gardens", nil, &out)
	return out, err
}

// GetGarden returns ErrGardenNotFound for both the 404 and the legacy 200 not-found answer.
func (c *Client) GetGarden(ctx context.Context, id string) (models.Garden, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/gardens/"+url.PathEscape(id), nil, &raw); err != nil {
		return models.Garden{}, err
	}
	if isNotFoundBody(raw) {
		return models.Garden{}, ErrGardenNotFound
	}

	var out models.Garden
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.Garden{}, fmt.Errorf("decode garden: %w", err)
	}
	return out, nil
}

// DeleteGarden returns the server's confirmation message.
func (c *Client) DeleteGarden(ctx context.Context, id string) (string, error) {
	var out messageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/gardens/"+url.PathEscape(id), nil, &out); err != nil {
		return "", err
	}
	if out.Error == gardenNotFound {
		return "", ErrGardenNotFound
	}
	return out.Message, nil
}

func isNotFoundBody(raw json.RawMessage) bool {
	var body messageResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}
	return body.Error == gardenNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && isNotFoundBody(data) {
		return ErrGardenNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
