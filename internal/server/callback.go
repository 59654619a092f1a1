package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sd3v/wrapped/internal/shared"
)

// Exchanger completes the authorization flow by trading the callback's
// code for tokens. Satisfied by auth.Manager.
type Exchanger interface {
	HandleCallback(ctx context.Context, code string) error
}

// CallbackResult signals how the authorization flow ended.
type CallbackResult struct {
	err error
}

func (r CallbackResult) Error() error {
	return r.err
}

// CallbackHandler receives the provider's authorization redirect on the
// loopback server and finishes the code exchange. It processes exactly
// one callback: the single-use code verifier makes a replayed redirect
// useless, and the handler rejects it before touching the network.
type CallbackHandler struct {
	exchanger  Exchanger
	resultChan chan CallbackResult
	once       sync.Once

	mu        sync.Mutex
	processed bool
}

// NewCallbackHandler creates a handler that delegates the code exchange
// to the given Exchanger.
func NewCallbackHandler(exchanger Exchanger) *CallbackHandler {
	return &CallbackHandler{
		exchanger:  exchanger,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the authorization redirect: surfaces provider-denied
// errors, exchanges the code, and reports the outcome on the result channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.processed {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.processed = true
	h.mu.Unlock()

	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		err := fmt.Errorf("authorization denied: %s", errParam)
		h.send(CallbackResult{err: err})
		http.Error(w, "Authorization denied", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: missing authorization code", shared.ErrInvalidInput)
		h.send(CallbackResult{err: err})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	if err := h.exchanger.HandleCallback(r.Context(), code); err != nil {
		h.send(CallbackResult{err: err})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(CallbackResult{})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the flow result exactly once and closes the channel.
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives the flow's single outcome.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; }
        .container { text-align: center; background: #181818; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #b3b3b3; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
