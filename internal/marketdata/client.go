package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/framework-foundry/weekly/internal/logger"
	"github.com/framework-foundry/weekly/internal/models"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRateLimit  = 10 // requests per second
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

// APIError is a non-2xx response from the market data API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error %d: %s", e.StatusCode, e.Message)
}

// Client is a rate-limited HTTP client for the EOD market data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithRetries sets how many times a failed request is retried and the pause
// between attempts.
func WithRetries(max int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryDelay = delay
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a market data API client.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// eodRow is one daily bar as the API returns it.
type eodRow struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// FetchDaily returns the instrument's daily bars between from and to
// inclusive, oldest first.
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/eod/%s", c.baseURL, url.PathEscape(symbol))

	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("period", "d")
	params.Set("fmt", "json")
	params.Set("api_token", c.apiKey)

	body, err := c.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}

	var rows []eodRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", symbol, err)
	}

	points := make([]models.PricePoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.PricePoint{
			Date:   r.Date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return points, nil
}

// FetchSeriesSet fetches the weekly series for every instrument. Any failed
// instrument fails the whole set so the caller can fall back to fixtures.
func (c *Client) FetchSeriesSet(ctx context.Context, instruments []Instrument, weekEnding string) (SeriesSet, error) {
	from, to, err := WeekWindow(weekEnding)
	if err != nil {
		return nil, err
	}

	set := make(SeriesSet, len(instruments))
	for _, inst := range instruments {
		points, err := c.FetchDaily(ctx, inst.Symbol, from, to)
		if err != nil {
			return nil, err
		}
		logger.Debug("Fetched %d bars for %s (%s)", len(points), inst.Name, inst.Symbol)
		set[inst.Name] = Series{
			Symbol:   inst.Symbol,
			Region:   inst.Region,
			ETFProxy: inst.ETFProxy,
			Data:     points,
		}
	}
	return set, nil
}

// get performs a rate-limited GET with retries on server errors.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying market data request (attempt %d/%d): %v", attempt, c.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := c.doGet(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// Client errors will not improve on retry.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}
