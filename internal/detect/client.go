package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/subinlebow/quotegen-backend/pkg/config"
	pkgerrors "github.com/subinlebow/quotegen-backend/pkg/errors"
)

const (
	detectPath                 = "/v1/detect"
	healthPath                 = "/healthz"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 30 * time.Second
)

// Client calls the inference service over HTTP: the image is POSTed as the
// request body and detections come back as JSON. Failures surface as
// retryable dependency errors; retry policy belongs to the caller.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	minConfidence float64
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured inference base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a detector client from config.
func NewClient(cfg config.DetectorConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("detector base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	client := &Client{
		baseURL:       baseURL,
		minConfidence: cfg.MinConfidence,
		httpClient:    &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// Ping reports whether the inference service is reachable. Any HTTP answer
// below 500 counts; the service may not expose a dedicated health route.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("detector client not configured")
	}
	url := strings.TrimRight(c.baseURL, "/") + healthPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("detector health returned status %d", resp.StatusCode)
	}
	return nil
}

// Detect posts the image to the inference service and returns detections at
// or above the configured confidence floor.
func (c *Client) Detect(ctx context.Context, image []byte) ([]Detection, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "detector client not configured")
	}
	if len(image) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}

	url := strings.TrimRight(c.baseURL, "/") + detectPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build detect request")
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute detect request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "detect request failed")
	}

	var apiResp struct {
		Detections []Detection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode detect response")
	}

	detections := make([]Detection, 0, len(apiResp.Detections))
	for _, d := range apiResp.Detections {
		if d.Confidence < c.minConfidence {
			continue
		}
		detections = append(detections, d)
	}

	return detections, nil
}
