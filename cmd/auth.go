package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sd3v/wrapped/internal/auth"
	"github.com/sd3v/wrapped/internal/server"
	"github.com/sd3v/wrapped/internal/shared"
	"github.com/sd3v/wrapped/internal/spotify"
	"github.com/urfave/cli/v3"
)

// authTimeout bounds how long the login flow waits for the browser redirect.
const authTimeout = 2 * time.Minute

// AuthLogin runs the PKCE authorization flow with a local HTTP server.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	if r.config.Credentials.Spotify.ClientID == "" {
		return fmt.Errorf("%w: credentials.spotify.client_id is not set, run setup first", shared.ErrMissingConfig)
	}
	if err := r.ensureSession(); err != nil {
		return err
	}

	authURL, err := r.manager.LoginURL()
	if err != nil {
		return fmt.Errorf("failed to start login: %w", err)
	}

	callbackHandler := server.NewCallbackHandler(r.manager)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(callbackHandler)

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	return r.writePlain("✓ Authentication successful\n")
}

// AuthStatus reports the session state and, when authenticated, the profile it belongs to.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(); err != nil {
		return err
	}

	session, err := r.manager.Status()
	if err != nil {
		return err
	}

	if session.State != auth.StateAuthenticated {
		return r.writePlain("✗ Not authenticated\nRun 'wrapped auth login' to get started.\n")
	}

	client := spotify.NewClient(r.manager, r.logger)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("User: %s (%s)\n", user.DisplayName, user.ID)
	if user.Product != "" {
		r.writePlain("Plan: %s\n", user.Product)
	}
	r.writePlain("Scopes: %s\n", r.config.Credentials.Spotify.Scope())
	return nil
}

// AuthRefresh forces a token refresh regardless of expiry.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(); err != nil {
		return err
	}

	tokens, err := r.manager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if tokens == nil {
		return fmt.Errorf("%w: no refresh token stored", shared.ErrNoRefreshToken)
	}

	return r.writePlain("✓ Token refreshed (valid for %ds)\n", tokens.ExpiresIn)
}

// AuthLogout clears all stored credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(); err != nil {
		return err
	}
	if err := r.manager.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}
