// Package auth implements the Spotify authorization code + PKCE flow
// for a public client (no client secret), along with persistent
// credential storage and token lifecycle management.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sd3v/wrapped/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// expiryMargin is subtracted from the advertised token lifetime so a
// token is treated as expired slightly before Spotify rejects it.
const expiryMargin = 60 * time.Second

// TokenSet mirrors the token endpoint's response body.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// SessionState describes whether a usable credential record exists.
type SessionState int

const (
	StateUnknown SessionState = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is a point-in-time view of the authentication state.
type Session struct {
	State SessionState
	Err   error
}

// Manager owns the PKCE login flow and the stored token lifecycle.
// A single Manager is shared by the CLI commands and the API client;
// its methods are safe for concurrent use.
type Manager struct {
	config *oauth2.Config
	store  CredentialStore
	client *http.Client
	logger *log.Logger
	now    func() time.Time

	mu      sync.Mutex
	session Session
}

// NewManager wires a Manager from the application config and a credential store.
func NewManager(cfg shared.SpotifyConfig, store CredentialStore, logger *log.Logger) *Manager {
	return &Manager{
		config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURI,
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		store:   store,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
		session: Session{State: StateUnknown},
	}
}

// LoginURL generates a fresh code verifier, persists it, and returns the
// authorization URL the user's browser should open. Each call replaces any
// previously stored verifier, so only the most recent login attempt can
// complete.
func (m *Manager) LoginURL() (string, error) {
	verifier, err := GenerateVerifier(VerifierLength)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(KeyCodeVerifier, verifier); err != nil {
		return "", fmt.Errorf("failed to store code verifier: %w", err)
	}

	authURL := m.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", DeriveChallenge(verifier)),
		oauth2.SetAuthURLParam("show_dialog", "true"),
	)
	return authURL, nil
}

// HandleCallback exchanges the authorization code for tokens using the
// stored verifier. The verifier is single-use: it is deleted once the
// exchange succeeds, so a replayed callback fails with [shared.ErrMissingVerifier]
// before any network traffic.
func (m *Manager) HandleCallback(ctx context.Context, code string) error {
	verifier, err := m.store.Get(KeyCodeVerifier)
	if err != nil {
		return err
	}
	if verifier == "" {
		return shared.ErrMissingVerifier
	}

	form := url.Values{
		"client_id":     {m.config.ClientID},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {m.config.RedirectURL},
		"code_verifier": {verifier},
	}

	tokens, err := m.postTokenForm(ctx, form, shared.ErrTokenExchange)
	if err != nil {
		m.setSession(Session{State: StateUnauthenticated, Err: err})
		return err
	}

	if err := m.persistTokens(tokens); err != nil {
		return err
	}
	if err := m.store.Delete(KeyCodeVerifier); err != nil {
		return fmt.Errorf("failed to clear code verifier: %w", err)
	}

	m.setSession(Session{State: StateAuthenticated})
	m.logger.Info("authenticated with Spotify")
	return nil
}

// RefreshToken exchanges the stored refresh token for a new access token.
// Returns (nil, nil) when no refresh token is stored. A rejected refresh
// clears all credentials, forcing a fresh login.
func (m *Manager) RefreshToken(ctx context.Context) (*TokenSet, error) {
	refresh, err := m.store.Get(KeyRefreshToken)
	if err != nil {
		return nil, err
	}
	if refresh == "" {
		return nil, nil
	}

	form := url.Values{
		"client_id":     {m.config.ClientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refresh},
	}

	tokens, err := m.postTokenForm(ctx, form, shared.ErrRefreshFailed)
	if err != nil {
		m.logger.Warn("token refresh rejected, clearing session", "error", err)
		if clearErr := m.Logout(); clearErr != nil {
			return nil, clearErr
		}
		return nil, err
	}

	// Spotify may omit the refresh token on rotation; keep the old one.
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refresh
	}
	if err := m.persistTokens(tokens); err != nil {
		return nil, err
	}

	m.setSession(Session{State: StateAuthenticated})
	return tokens, nil
}

// AccessToken returns a currently valid access token, refreshing it first
// when the stored expiry has passed. Returns "" (no error) when no token
// is stored at all.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	token, err := m.store.Get(KeyAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	expiryRaw, err := m.store.Get(KeyTokenExpiry)
	if err != nil {
		return "", err
	}
	if expiryRaw != "" {
		expiry, parseErr := strconv.ParseInt(expiryRaw, 10, 64)
		if parseErr == nil && m.now().UnixMilli() >= expiry {
			refreshed, refreshErr := m.RefreshToken(ctx)
			if refreshErr != nil {
				return "", refreshErr
			}
			if refreshed == nil {
				return "", nil
			}
			return refreshed.AccessToken, nil
		}
	}

	return token, nil
}

// Logout removes every stored credential field.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.setSession(Session{State: StateUnauthenticated})
	return nil
}

// Status reports the current session state, inspecting the store when the
// in-memory state is still unknown.
func (m *Manager) Status() (Session, error) {
	m.mu.Lock()
	current := m.session
	m.mu.Unlock()
	if current.State != StateUnknown {
		return current, nil
	}

	token, err := m.store.Get(KeyAccessToken)
	if err != nil {
		return Session{State: StateUnknown, Err: err}, err
	}
	state := StateUnauthenticated
	if token != "" {
		state = StateAuthenticated
	}
	session := Session{State: state}
	m.setSession(session)
	return session, nil
}

func (m *Manager) setSession(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// postTokenForm posts an urlencoded form to the token endpoint and decodes
// the token response. Non-200 responses wrap sentinel with the endpoint's
// error_description when one is present.
func (m *Manager) postTokenForm(ctx context.Context, form url.Values, sentinel error) (*TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil && body.ErrorDescription != "" {
			return nil, fmt.Errorf("%w: %s", sentinel, body.ErrorDescription)
		}
		return nil, fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}

	var tokens TokenSet
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &tokens, nil
}

// persistTokens stores the token set, recording the expiry as epoch
// milliseconds with a safety margin ahead of the advertised lifetime.
func (m *Manager) persistTokens(tokens *TokenSet) error {
	expiry := m.now().UnixMilli() + (tokens.ExpiresIn-int64(expiryMargin.Seconds()))*1000
	pairs := map[string]string{
		KeyAccessToken: tokens.AccessToken,
		KeyTokenExpiry: strconv.FormatInt(expiry, 10),
	}
	if tokens.RefreshToken != "" {
		pairs[KeyRefreshToken] = tokens.RefreshToken
	}
	for key, value := range pairs {
		if err := m.store.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}
