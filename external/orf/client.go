package orf

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nation-points/internal/domain/event"
	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/platform/metrics"
	"github.com/riskibarqy/nation-points/internal/platform/resilience"
	"github.com/riskibarqy/nation-points/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://afeeds.orf.at/alpine-api/api"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultTimeout   = 15 * time.Second

	acceptHeader        = "application/json,text/plain,*/*"
	defaultMaxBodyBytes = 8 << 20
	defaultRetryBackoff = time.Second
	breakerName         = "orf"
)

var errFeedTransient = crerr.New("orf feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	MaxBodyBytes   int64
	RateLimit      float64
	RateBurst      int
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads race documents from the ORF alpine results feed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxRetries     int
	retryBackoff   time.Duration
	maxBodyBytes   int64
	limiter        *rate.Limiter
	logger         *logging.Logger
	metrics        *metrics.Manager
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "orf_client")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	metricsManager := cfg.Metrics
	onChange := func(name string, from, to resilience.CircuitState) {
		metricsManager.SetBreakerState(name, to.Level())
		logger.Warn("feed circuit breaker changed state", "breaker", name, "from", string(from), "to", string(to))
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   retryBackoff,
		maxBodyBytes:   maxBodyBytes,
		limiter:        limiter,
		logger:         logger,
		metrics:        metricsManager,
		breaker:        resilience.NewCircuitBreaker(breakerName, cfg.CircuitBreaker, onChange),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		now:            time.Now,
	}
}

// EventURL is the feed address of the final results of eventID.
func (c *Client) EventURL(eventID string) string {
	return c.baseURL + "/sportevents/" + url.PathEscape(eventID) + "?detailtype=end"
}

// CircuitState reports the feed breaker state for health checks.
func (c *Client) CircuitState() resilience.CircuitState {
	if !c.circuitEnabled {
		return resilience.CircuitStateClosed
	}
	return c.breaker.State()
}

// FetchEvent downloads and parses the result document of one event.
// Every failure wraps usecase.ErrTransportFailure; an open circuit also
// wraps usecase.ErrDependencyUnavailable.
func (c *Client) FetchEvent(ctx context.Context, eventID string) (jsonvalue.Value, error) {
	eventID = strings.TrimSpace(eventID)
	if !event.IsID(eventID) {
		return jsonvalue.Value{}, fmt.Errorf("%w: event id must be decimal digits, got %q", usecase.ErrInvalidInput, eventID)
	}

	start := c.now()
	fullURL := c.EventURL(eventID)

	out, err, shared := c.flight.Do(eventID, func() (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "event_id", eventID, "state", string(c.breaker.State()))
				return nil, fmt.Errorf("%w: %w: results feed is temporarily unavailable", usecase.ErrTransportFailure, usecase.ErrDependencyUnavailable)
			}
		}

		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if !stderrors.Is(err, usecase.ErrTransportFailure) {
			err = fmt.Errorf("%w: %w", usecase.ErrTransportFailure, err)
		}
		c.observe(start, err)
		return jsonvalue.Value{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		err := fmt.Errorf("%w: unexpected response payload type %T", usecase.ErrTransportFailure, out)
		c.observe(start, err)
		return jsonvalue.Value{}, err
	}

	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		err = fmt.Errorf("%w: decode feed document: %w", usecase.ErrTransportFailure, err)
		c.logger.WarnContext(ctx, "feed returned malformed json", "url", fullURL, "body", abbreviateBody(raw), "error", err)
		c.observe(start, err)
		return jsonvalue.Value{}, err
	}

	c.logger.DebugContext(ctx, "fetched feed document", "event_id", eventID, "bytes", len(raw), "shared", shared)
	c.observe(start, nil)
	return doc, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}

		raw, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			break
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Wrapf(errFeedTransient, "send request: %v", err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, c.maxBodyBytes+1)); err != nil {
		return nil, crerr.Wrapf(errFeedTransient, "read response body: %v", err)
	}
	if int64(buf.Len()) > c.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, crerr.Wrapf(errFeedTransient, "feed status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
		}
		return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(buf.B))
	}

	raw := make([]byte, buf.Len())
	copy(raw, buf.B)
	return raw, nil
}

func (c *Client) observe(start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case stderrors.Is(err, usecase.ErrDependencyUnavailable):
		outcome = metrics.OutcomeUnavailable
	default:
		outcome = metrics.OutcomeTransport
	}
	c.metrics.ObserveFeedRequest(outcome, c.now().Sub(start))
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
