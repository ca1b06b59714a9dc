// Package featureapi talks to the feature-card backend: the client fetches
// feature info and stacked data, and the payload types describe the wire
// format both sides share.
package featureapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"featurecard/domain/core"
	"featurecard/domain/feature"
	"featurecard/internal"
	apperrors "featurecard/internal/errors"
)

const (
	opFeatureInfo = "get_feature_info"
	opStackedData = "get_stacked_data"

	// maxBodyBytes bounds a response body; samples are visualization sized.
	maxBodyBytes = 64 << 20
)

// Client fetches feature data over HTTP.
type Client struct {
	baseURL    string
	target     string
	httpClient *http.Client
	logger     *internal.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTarget sets the target column sent with stacked-data requests. When
// unset the backend uses its configured default.
func WithTarget(target string) Option {
	return func(c *Client) { c.target = target }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     internal.DefaultLogger.With("FeatureAPI"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchFeature retrieves and validates the feature info of one column.
func (c *Client) FetchFeature(ctx context.Context, key feature.Key) (feature.Feature, error) {
	query := url.Values{"column": {key.Column}}
	body, err := c.get(ctx, key, opFeatureInfo, query)
	if err != nil {
		return nil, err
	}
	return DecodeFeatureInfo(key, body)
}

// FetchStacked retrieves the per-target-class samples of one column, read
// according to level.
func (c *Client) FetchStacked(ctx context.Context, key feature.Key, level feature.LevelOfMeasurement) (*feature.Stacked, error) {
	query := url.Values{"column": {key.Column}}
	if c.target != "" {
		query.Set("target", c.target)
	}
	body, err := c.get(ctx, key, opStackedData, query)
	if err != nil {
		return nil, err
	}
	return DecodeStacked(body, level)
}

// get issues one request and classifies the failure: 404 is NotFound, every
// other failure is transient.
func (c *Client) get(ctx context.Context, key feature.Key, op string, query url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/feature-card/%s/%s/?%s",
		c.baseURL, url.PathEscape(key.FileID.String()), op, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, core.NewTransientError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("%s %s failed: %v", op, key, err)
		return nil, core.NewTransientError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, core.NewTransientError(op, err)
	}
	c.logger.Debug("%s %s -> %d in %s", op, key, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, core.NewNotFoundError(key.FileID.String(), key.Column)
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.ExternalServiceError("feature-api",
			core.NewTransientError(op, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))))
	}
	return body, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
