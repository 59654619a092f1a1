package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sd3v/wrapped/internal/shared"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// tokenEndpoint is a scripted token server recording each form it receives.
type tokenEndpoint struct {
	server   *httptest.Server
	requests atomic.Int64
	forms    chan url.Values
	status   int
	body     map[string]any
}

func newTokenEndpoint(t *testing.T) *tokenEndpoint {
	t.Helper()
	te := &tokenEndpoint{
		forms:  make(chan url.Values, 8),
		status: http.StatusOK,
		body: map[string]any{
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
			"expires_in":    3600,
			"token_type":    "Bearer",
		},
	}
	te.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.requests.Add(1)
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		te.forms <- form
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(te.status)
		json.NewEncoder(w).Encode(te.body)
	}))
	t.Cleanup(te.server.Close)
	return te
}

func newTestManager(t *testing.T, endpoint *tokenEndpoint) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	m := NewManager(shared.SpotifyConfig{
		ClientID:    "client-123",
		RedirectURI: "http://127.0.0.1:8888/callback",
		Scopes:      []string{"user-top-read", "user-read-recently-played"},
	}, store, shared.NewLogger(io.Discard))
	m.config.Endpoint.TokenURL = endpoint.server.URL
	m.now = func() time.Time { return testNow }
	return m, store
}

func TestLoginURL(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	m, store := newTestManager(t, endpoint)

	authURL, err := m.LoginURL()
	if err != nil {
		t.Fatalf("LoginURL error: %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}
	q := parsed.Query()

	verifier, _ := store.Get(KeyCodeVerifier)
	if len(verifier) != VerifierLength {
		t.Fatalf("stored verifier length = %d, want %d", len(verifier), VerifierLength)
	}

	checks := map[string]string{
		"client_id":             "client-123",
		"response_type":         "code",
		"redirect_uri":          "http://127.0.0.1:8888/callback",
		"scope":                 "user-top-read user-read-recently-played",
		"code_challenge_method": "S256",
		"code_challenge":        DeriveChallenge(verifier),
		"show_dialog":           "true",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("authorize URL %s = %q, want %q", key, got, want)
		}
	}

	t.Run("fresh verifier per call", func(t *testing.T) {
		if _, err := m.LoginURL(); err != nil {
			t.Fatalf("LoginURL error: %v", err)
		}
		second, _ := store.Get(KeyCodeVerifier)
		if second == verifier {
			t.Error("second LoginURL reused the verifier")
		}
	})
}

func TestHandleCallback(t *testing.T) {
	t.Run("missing verifier fails before any network call", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, _ := newTestManager(t, endpoint)

		err := m.HandleCallback(context.Background(), "auth-code")
		if !errors.Is(err, shared.ErrMissingVerifier) {
			t.Fatalf("HandleCallback error = %v, want ErrMissingVerifier", err)
		}
		if n := endpoint.requests.Load(); n != 0 {
			t.Errorf("token endpoint hit %d times, want 0", n)
		}
	})

	t.Run("successful exchange persists tokens and consumes the verifier", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, store := newTestManager(t, endpoint)
		store.Set(KeyCodeVerifier, "stored-verifier")

		if err := m.HandleCallback(context.Background(), "auth-code"); err != nil {
			t.Fatalf("HandleCallback error: %v", err)
		}

		form := <-endpoint.forms
		wantForm := map[string]string{
			"client_id":     "client-123",
			"grant_type":    "authorization_code",
			"code":          "auth-code",
			"redirect_uri":  "http://127.0.0.1:8888/callback",
			"code_verifier": "stored-verifier",
		}
		for key, want := range wantForm {
			if got := form.Get(key); got != want {
				t.Errorf("exchange form %s = %q, want %q", key, got, want)
			}
		}

		access, _ := store.Get(KeyAccessToken)
		if access != "new-access" {
			t.Errorf("stored access token = %q", access)
		}
		refresh, _ := store.Get(KeyRefreshToken)
		if refresh != "new-refresh" {
			t.Errorf("stored refresh token = %q", refresh)
		}
		expiry, _ := store.Get(KeyTokenExpiry)
		wantExpiry := strconv.FormatInt(testNow.UnixMilli()+(3600-60)*1000, 10)
		if expiry != wantExpiry {
			t.Errorf("stored expiry = %s, want %s", expiry, wantExpiry)
		}
		verifier, _ := store.Get(KeyCodeVerifier)
		if verifier != "" {
			t.Error("verifier survived a successful exchange")
		}

		session, _ := m.Status()
		if session.State != StateAuthenticated {
			t.Errorf("session state = %v, want authenticated", session.State)
		}
	})

	t.Run("replayed callback fails without reaching the endpoint", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, store := newTestManager(t, endpoint)
		store.Set(KeyCodeVerifier, "stored-verifier")

		if err := m.HandleCallback(context.Background(), "auth-code"); err != nil {
			t.Fatalf("first HandleCallback error: %v", err)
		}
		before := endpoint.requests.Load()

		err := m.HandleCallback(context.Background(), "auth-code")
		if !errors.Is(err, shared.ErrMissingVerifier) {
			t.Fatalf("replay error = %v, want ErrMissingVerifier", err)
		}
		if endpoint.requests.Load() != before {
			t.Error("replayed callback reached the token endpoint")
		}
	})

	t.Run("rejected exchange surfaces the provider description", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		endpoint.status = http.StatusBadRequest
		endpoint.body = map[string]any{"error": "invalid_grant", "error_description": "Invalid authorization code"}
		m, store := newTestManager(t, endpoint)
		store.Set(KeyCodeVerifier, "stored-verifier")

		err := m.HandleCallback(context.Background(), "bad-code")
		if !errors.Is(err, shared.ErrTokenExchange) {
			t.Fatalf("HandleCallback error = %v, want ErrTokenExchange", err)
		}
		if got := err.Error(); !strings.Contains(got, "Invalid authorization code") {
			t.Errorf("error %q missing provider description", got)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("no stored refresh token is a no-op", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, _ := newTestManager(t, endpoint)

		tokens, err := m.RefreshToken(context.Background())
		if err != nil {
			t.Fatalf("RefreshToken error: %v", err)
		}
		if tokens != nil {
			t.Errorf("RefreshToken = %+v, want nil", tokens)
		}
		if n := endpoint.requests.Load(); n != 0 {
			t.Errorf("token endpoint hit %d times, want 0", n)
		}
	})

	t.Run("success persists the new token set", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, store := newTestManager(t, endpoint)
		store.Set(KeyRefreshToken, "old-refresh")

		tokens, err := m.RefreshToken(context.Background())
		if err != nil {
			t.Fatalf("RefreshToken error: %v", err)
		}
		if tokens.AccessToken != "new-access" {
			t.Errorf("access token = %q", tokens.AccessToken)
		}

		form := <-endpoint.forms
		if form.Get("grant_type") != "refresh_token" || form.Get("refresh_token") != "old-refresh" {
			t.Errorf("unexpected refresh form: %v", form)
		}
	})

	t.Run("omitted refresh token is carried over", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		endpoint.body = map[string]any{"access_token": "new-access", "expires_in": 3600, "token_type": "Bearer"}
		m, store := newTestManager(t, endpoint)
		store.Set(KeyRefreshToken, "old-refresh")

		tokens, err := m.RefreshToken(context.Background())
		if err != nil {
			t.Fatalf("RefreshToken error: %v", err)
		}
		if tokens.RefreshToken != "old-refresh" {
			t.Errorf("carried refresh token = %q, want old-refresh", tokens.RefreshToken)
		}
		stored, _ := store.Get(KeyRefreshToken)
		if stored != "old-refresh" {
			t.Errorf("stored refresh token = %q, want old-refresh", stored)
		}
	})

	t.Run("rejection ends the session", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		endpoint.status = http.StatusBadRequest
		endpoint.body = map[string]any{"error": "invalid_grant"}
		m, store := newTestManager(t, endpoint)
		store.Set(KeyAccessToken, "stale-access")
		store.Set(KeyRefreshToken, "revoked-refresh")

		_, err := m.RefreshToken(context.Background())
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("RefreshToken error = %v, want ErrRefreshFailed", err)
		}

		for _, key := range credentialKeys {
			if value, _ := store.Get(key); value != "" {
				t.Errorf("credential %s survived a failed refresh: %q", key, value)
			}
		}
		session, _ := m.Status()
		if session.State != StateUnauthenticated {
			t.Errorf("session state = %v, want unauthenticated", session.State)
		}
	})
}

func TestAccessToken(t *testing.T) {
	t.Run("empty store yields empty token and no error", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, _ := newTestManager(t, endpoint)

		token, err := m.AccessToken(context.Background())
		if err != nil {
			t.Fatalf("AccessToken error: %v", err)
		}
		if token != "" {
			t.Errorf("AccessToken = %q, want \"\"", token)
		}
	})

	t.Run("unexpired token returned without network traffic", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, store := newTestManager(t, endpoint)
		store.Set(KeyAccessToken, "current-access")
		store.Set(KeyTokenExpiry, strconv.FormatInt(testNow.Add(time.Hour).UnixMilli(), 10))

		token, err := m.AccessToken(context.Background())
		if err != nil {
			t.Fatalf("AccessToken error: %v", err)
		}
		if token != "current-access" {
			t.Errorf("AccessToken = %q, want current-access", token)
		}
		if n := endpoint.requests.Load(); n != 0 {
			t.Errorf("token endpoint hit %d times, want 0", n)
		}
	})

	t.Run("expired token triggers exactly one refresh", func(t *testing.T) {
		endpoint := newTokenEndpoint(t)
		m, store := newTestManager(t, endpoint)
		store.Set(KeyAccessToken, "stale-access")
		store.Set(KeyRefreshToken, "valid-refresh")
		store.Set(KeyTokenExpiry, strconv.FormatInt(testNow.Add(-time.Minute).UnixMilli(), 10))

		token, err := m.AccessToken(context.Background())
		if err != nil {
			t.Fatalf("AccessToken error: %v", err)
		}
		if token != "new-access" {
			t.Errorf("AccessToken = %q, want new-access", token)
		}
		if n := endpoint.requests.Load(); n != 1 {
			t.Errorf("token endpoint hit %d times, want 1", n)
		}
	})
}

func TestLogout(t *testing.T) {
	endpoint := newTokenEndpoint(t)
	m, store := newTestManager(t, endpoint)
	for _, key := range credentialKeys {
		store.Set(key, "value")
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	for _, key := range credentialKeys {
		if value, _ := store.Get(key); value != "" {
			t.Errorf("credential %s survived logout", key)
		}
	}
}
