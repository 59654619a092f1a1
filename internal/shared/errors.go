package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrMissingVerifier   = fmt.Errorf("code verifier not found")
	ErrTokenExchange     = fmt.Errorf("token exchange failed")
	ErrRefreshFailed     = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken    = fmt.Errorf("no refresh token available")
	ErrTimeout           = fmt.Errorf("operation timed out")
	ErrCallbackProcessed = fmt.Errorf("callback already processed")

	// API and service errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrRateLimitExceeded = fmt.Errorf("rate limit retries exhausted")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
