package apiclient

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

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bubbl-app/bubbl-metrics/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Client talks to the metrics backend over HTTP/JSON. It implements
// model.Backend. The base URL is fixed at construction.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	timeout    time.Duration
	activeDays int
	log        zerolog.Logger
	validate   *validator.Validate
}

var _ model.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithActiveDays sets the window used by the active users/groups counters.
func WithActiveDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.activeDays = days
		}
	}
}

// WithLogger sets the logger used for per-request debug logging.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q has no host", baseURL)
	}

	c := &Client{
		baseURL:    u,
		http:       &http.Client{},
		timeout:    model.DefaultRequestTimeout,
		activeDays: model.DefaultActiveWindowDays,
		log:        zerolog.Nop(),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ActiveDays returns the window used by the active counters.
func (c *Client) ActiveDays() int {
	return c.activeDays
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// request performs one HTTP round trip and returns the body of a 2xx response.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, op string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, validationError(op, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, transportError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).
			Dur("elapsed", time.Since(start)).Msg("backend request failed")
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, statusError(op, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(op, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

// getJSON issues a GET and decodes the JSON body into dest.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, op string, dest any) error {
	data, err := c.request(ctx, http.MethodGet, path, query, nil, op)
	if err != nil {
		return err
	}
	return decodeJSON(op, data, dest)
}

func decodeJSON(op string, data []byte, dest any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return decodeError(op, fmt.Errorf("empty response body"))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return decodeError(op, err)
	}
	return nil
}

func daysQuery(days int) url.Values {
	return url.Values{"days": {fmt.Sprint(days)}}
}
