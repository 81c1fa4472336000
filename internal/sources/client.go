package sources

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/utils"
)

const (
	defaultUserAgent = "jobpulse/1.0 (+https://github.com/spigell/jobpulse)"
	contentEncoding  = "gzip"
	errorBodyPreview = 200
)

// Client performs read-only GET requests against job board APIs.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	limiter *HostLimiter
	logger  *zap.Logger
}

func NewClient(logger *zap.Logger, limiter *HostLimiter) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// No client-wide timeout: every call is bounded by the caller's context,
	// which the Runner sets from fetch.timeout.
	return &Client{
		HTTPClient: &http.Client{},
		UserAgent: defaultUserAgent,
		limiter:   limiter,
		logger:    logger,
	}
}

// getJSON fetches rawURL and decodes the body keeping numbers as json.Number,
// so ids survive without float formatting.
func (c *Client) getJSON(ctx context.Context, rawURL string, q url.Values) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	if err := c.limiter.WaitURL(ctx, req.URL.String()); err != nil {
		return nil, err
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, utils.Preview(string(data), errorBodyPreview))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return payload, nil
}

// decodeItem decodes a single loosely typed feed item into target.
func decodeItem(item any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(item)
}

// itemsUnder returns the array stored under key of a JSON object payload.
func itemsUnder(payload any, key string) ([]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload: expected object, got %T", payload)
	}
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("unexpected payload: missing %q", key)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload: %q is %T, not an array", key, raw)
	}
	return items, nil
}
