package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/metrics"
)

const defaultUserAgent = "pitwall/1.0"

var (
	// ErrUnavailable matches network failures and non-2xx responses.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrMalformed matches bodies that could not be decoded into the expected shape.
	ErrMalformed = errors.New("malformed upstream payload")
)

// Kind classifies a FetchError.
type Kind string

const (
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
)

// FetchError describes a failed upstream request. It never carries a partial body.
type FetchError struct {
	URL    string
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream %s: status %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("upstream %s: %s: %v", e.URL, e.Kind, e.Err)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (e *FetchError) Unwrap() []error {
	sentinel := ErrUnavailable
	if e.Kind == KindDecode {
		sentinel = ErrMalformed
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// Client performs single-attempt GET requests against upstream JSON APIs.
type Client struct {
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get fetches url and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.get(ctx, url)
	metrics.RecordUpstreamRequest(hostOf(url), outcome(err), time.Since(start))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("upstream request failed")
	}
	return body, err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Kind: KindStatus, Status: resp.StatusCode}
	}
	return body, nil
}

// GetJSON fetches url and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		derr := &FetchError{URL: url, Kind: KindDecode, Err: err}
		logging.Ctx(ctx).Warn().Err(derr).Msg("decode upstream payload")
		return derr
	}
	return nil
}

func outcome(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	if err != nil {
		return string(KindNetwork)
	}
	return "ok"
}
