package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/outclass-odds/internal/arbitrage"
	"github.com/yourusername/outclass-odds/internal/logger"
	"github.com/yourusername/outclass-odds/internal/metrics"
)

const (
	// DefaultBaseURL is The Odds API v4 endpoint.
	DefaultBaseURL = "https://api.the-odds-api.com/v4"
	DefaultRegions = "us"
	DefaultMarkets = arbitrage.DefaultMarketKey

	maxErrorBody = 4096
)

// Query selects the events to fetch.
type Query struct {
	Sport   string
	Regions string
	Markets string
}

func (q Query) withDefaults() Query {
	if q.Regions == "" {
		q.Regions = DefaultRegions
	}
	if q.Markets == "" {
		q.Markets = DefaultMarkets
	}
	return q
}

// Config configures a Client.
type Config struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	// Cache overrides the in-memory response cache, e.g. with a RedisCache.
	Cache ResponseCache
	HTTP  HTTPClientConfig
}

// Client fetches events from The Odds API.
type Client struct {
	baseURL string
	apiKey  string
	http    *RateLimitedHTTPClient
	cache   ResponseCache
	logger  *logger.OddsLogger
}

// NewClient creates a new odds client. Without Cache, a zero CacheTTL disables
// response caching.
func NewClient(cfg Config, log *logrus.Logger) *Client {
	if log == nil {
		log = discardLogger()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cache := cfg.Cache
	if cache == nil && cfg.CacheTTL > 0 {
		cache = NewOddsCache(cfg.CacheTTL)
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    NewRateLimitedHTTPClient(cfg.HTTP, log),
		cache:   cache,
		logger:  logger.NewOddsLogger(log),
	}
}

// HasAPIKey reports whether a provider API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// FetchOdds returns the events for the query. Without an API key the built-in
// sample events are returned instead of calling the provider.
func (c *Client) FetchOdds(ctx context.Context, q Query) ([]arbitrage.RawEvent, error) {
	if strings.TrimSpace(q.Sport) == "" {
		return nil, ErrMissingSport
	}
	q = q.withDefaults()

	if !c.HasAPIKey() {
		c.logger.LogSampleFallback(q.Sport)
		metrics.RecordOddsRequest("sample", 0)
		return SampleEvents(), nil
	}

	key := CacheKey{Sport: q.Sport, Regions: q.Regions, Markets: q.Markets}
	if c.cache != nil {
		if events, ok := c.cache.Get(ctx, key); ok {
			metrics.RecordOddsRequest("cache_hit", 0)
			c.logger.LogOddsRequest(q.Sport, q.Regions, q.Markets, len(events), true, 0)
			return events, nil
		}
	}

	start := time.Now()
	events, err := c.fetch(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordOddsRequest("error", elapsed)
		c.logger.LogOddsError(q.Sport, err)
		return nil, err
	}

	metrics.RecordOddsRequest("success", elapsed)
	c.logger.LogOddsRequest(q.Sport, q.Regions, q.Markets, len(events), false, float64(elapsed.Milliseconds()))

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, events); err != nil {
			c.logger.LogCacheError(err)
		}
	}
	return events, nil
}

func (c *Client) fetch(ctx context.Context, q Query) ([]arbitrage.RawEvent, error) {
	resp, err := c.http.Get(ctx, c.oddsURL(q))
	if err != nil {
		return nil, newAPIError(ErrCodeNetworkError, "request failed", 0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, newAPIError(ErrCodeAuthenticationFailed, "invalid API key", resp.StatusCode, nil)
	case http.StatusTooManyRequests:
		return nil, newAPIError(ErrCodeRateLimitExceeded, "request quota exhausted", resp.StatusCode, nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, newAPIError(ErrCodeServerError, msg, resp.StatusCode, nil)
	}

	events, err := DecodeEvents(resp.Body)
	if err != nil {
		return nil, newAPIError(ErrCodeInvalidData, "malformed response body", resp.StatusCode, err)
	}
	return events, nil
}

func (c *Client) oddsURL(q Query) string {
	params := url.Values{}
	params.Set("regions", q.Regions)
	params.Set("markets", q.Markets)
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "unix")
	params.Set("apiKey", c.apiKey)
	return c.baseURL + "/sports/" + url.PathEscape(q.Sport) + "/odds?" + params.Encode()
}

// CircuitOpen reports whether the transport has stopped calling the provider.
func (c *Client) CircuitOpen() bool {
	return c.http.IsOpen()
}

// Close releases idle connections and the cache. In-memory responses are
// dropped; a shared cache only has its connection closed.
func (c *Client) Close() error {
	var cacheErr error
	switch cache := c.cache.(type) {
	case *OddsCache:
		cacheErr = cache.Clear(context.Background())
	case io.Closer:
		cacheErr = cache.Close()
	}
	return errors.Join(cacheErr, c.http.Close())
}

// IsAPIError reports whether err is a provider error with the given code.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
