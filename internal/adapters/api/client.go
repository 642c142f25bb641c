package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/metrics"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
	"github.com/andrescamacho/spaceconquest-go/internal/infrastructure/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultBaseURL     = "http://localhost:8080"
	defaultTimeout     = 10 * time.Second
	defaultBackoffBase = 500 * time.Millisecond
)

// GameServerClient implements ports.GameClient over the game server's REST API
type GameServerClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewGameServerClient creates a client from the server configuration.
// If clock is nil, uses RealClock for production
func NewGameServerClient(cfg config.ServerConfig, clock shared.Clock) *GameServerClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backoff := cfg.Retry.BackoffBase
	if backoff <= 0 {
		backoff = defaultBackoffBase
	}

	limit, burst := rate.Inf, 1
	if cfg.RateLimit.Requests > 0 {
		limit = rate.Limit(cfg.RateLimit.Requests)
		burst = max(cfg.RateLimit.Burst, 1)
	}

	return &GameServerClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(limit, burst),
		baseURL:     baseURL,
		maxRetries:  cfg.Retry.MaxAttempts,
		backoffBase: backoff,
		clock:       clock,
	}
}

// NewGameServerClientWithHTTP creates a client around an existing http.Client, for tests
func NewGameServerClientWithHTTP(baseURL string, httpClient *http.Client, clock shared.Clock) *GameServerClient {
	c := NewGameServerClient(config.ServerConfig{BaseURL: baseURL}, clock)
	c.httpClient = httpClient
	return c
}

// errorBody is the server's error envelope
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// addJitter adds random jitter to a duration to avoid thundering herd
// Returns a duration between 50% and 150% of the original value
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// request performs one call against the game server.
//
// route is the low-cardinality endpoint label used for metrics, path the
// concrete URL path and query. An empty token sends no Authorization header.
// Only GET requests are retried, and only on network failures.
func (c *GameServerClient) request(ctx context.Context, method, route, path, token string, body interface{}, result interface{}) error {
	attempts := 1
	if method == http.MethodGet && c.maxRetries > 0 {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				return shared.NewNetworkError(ctx.Err())
			}
			metrics.RecordRetry(route)
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<(attempt-1))))
		}

		lastErr = c.do(ctx, method, route, path, token, body, result)
		if lastErr == nil || !shared.IsNetworkError(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *GameServerClient) do(ctx context.Context, method, route, path, token string, body interface{}, result interface{}) error {
	waitStart := time.Now()
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return shared.NewNetworkError(fmt.Errorf("rate limiter: %w", err))
	}
	metrics.RecordRateLimitWait(method, route, time.Since(waitStart).Seconds())

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(method, route, 0, time.Since(start).Seconds())
		return shared.NewNetworkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.RecordAPIRequest(method, route, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return shared.NewNetworkError(fmt.Errorf("failed to read response: %w", err))
	}

	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return err
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return shared.NewMalformedPayloadError(route, err)
		}
	}

	return nil
}

// classifyStatus maps a non-2xx response onto the domain error taxonomy
func classifyStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := serverMessage(status, body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return shared.NewAuthorizationError(status, message)
	case status >= 500:
		return shared.NewNetworkError(fmt.Errorf("server error (status %d): %s", status, message))
	case status >= 400:
		return shared.NewBusinessError(status, message)
	default:
		return shared.NewNetworkError(fmt.Errorf("unexpected status %d", status))
	}
}

// serverMessage extracts {"error": "..."} verbatim, falling back to the raw body
func serverMessage(status int, body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(status)
}

// IsCancelled reports whether err stems from the caller giving up
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
