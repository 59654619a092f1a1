package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sd3v/wrapped/internal/auth"
	"github.com/sd3v/wrapped/internal/shared"
	"golang.org/x/time/rate"
)

const baseURL = "https://api.spotify.com/v1"

// requestInterval spaces outgoing requests so bursts of concurrent
// fetches stay under Spotify's rate limit.
const requestInterval = 100 * time.Millisecond

// maxRateLimitRetries caps how many 429 responses a single logical
// request will wait out before giving up.
const maxRateLimitRetries = 5

// defaultRetryAfter applies when a 429 response carries no Retry-After header.
const defaultRetryAfter = time.Second

// TokenProvider supplies bearer tokens and performs the single refresh
// attempt a 401 response is allowed.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (*auth.TokenSet, error)
}

// Client is the shared chokepoint for all Spotify Web API traffic.
// Every request, regardless of which goroutine issues it, passes through
// one rate limiter, so concurrent fetches are serialized to the request
// interval rather than racing each other into 429s.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	limiter *rate.Limiter
	logger  *log.Logger

	// sleep is overridable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client backed by the given token provider.
func NewClient(tokens TokenProvider, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
		logger:  logger,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Get performs an authenticated GET against the API and decodes the JSON
// response into out. The endpoint must start with "/" and may carry a
// query string.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.request(ctx, endpoint, out, 0, 0)
}

// request is the single retry loop behind every API call. rateRetries
// counts consecutive 429s waited out; authRetries counts the refresh
// attempts spent on 401s (at most one).
func (c *Client) request(ctx context.Context, endpoint string, out any, rateRetries, authRetries int) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if rateRetries >= maxRateLimitRetries {
			return fmt.Errorf("%w: %s", shared.ErrRateLimitExceeded, endpoint)
		}
		wait := retryAfter(resp)
		c.logger.Warn("rate limited, backing off", "endpoint", endpoint, "wait", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
		return c.request(ctx, endpoint, out, rateRetries+1, authRetries)

	case resp.StatusCode == http.StatusUnauthorized && authRetries < 1:
		c.logger.Debug("access token rejected, refreshing", "endpoint", endpoint)
		refreshed, refreshErr := c.tokens.RefreshToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		if refreshed == nil {
			return shared.ErrNotAuthenticated
		}
		return c.request(ctx, endpoint, out, rateRetries, authRetries+1)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func retryAfter(resp *http.Response) time.Duration {
	if raw := resp.Header.Get("Retry-After"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Status != 0 {
		return &envelope.Error
	}
	return &APIError{Status: resp.StatusCode, Message: "request failed"}
}
