// Package githubauth runs the delegated GitHub OAuth login: a loopback
// callback server catches the browser redirect, the authorization code
// is exchanged for an access token, and the caller trades that token
// for a Taiga session. The flow blocks until the callback arrives, the
// context is cancelled, or the timeout expires.
package githubauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	defaultPort    = 8765
	defaultTimeout = 5 * time.Minute
)

// Flow configures one delegated login attempt.
type Flow struct {
	ClientID     string
	ClientSecret string

	// Port for the loopback callback server. Defaults to 8765.
	Port int

	// Timeout bounds the wait for the browser callback. Defaults to
	// 5 minutes.
	Timeout time.Duration
}

type callback struct {
	code  string
	state string
	err   string
}

// Authorize runs the flow. promptURL receives the authorization URL to
// present to the user (print it or open a browser, the caller decides).
// It returns the exchanged GitHub token.
func (f *Flow) Authorize(ctx context.Context, promptURL func(url string)) (*oauth2.Token, error) {
	if f.ClientID == "" || f.ClientSecret == "" {
		return nil, errors.New("github OAuth requires a client ID and secret")
	}
	port := f.Port
	if port == 0 {
		port = defaultPort
	}
	timeout := f.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	conf := &oauth2.Config{
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	results := make(chan callback, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		cb := callback{
			code:  q.Get("code"),
			state: q.Get("state"),
			err:   q.Get("error_description"),
		}
		if cb.err == "" && q.Get("error") != "" {
			cb.err = q.Get("error")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if cb.code != "" {
			fmt.Fprint(w, successPage)
		} else {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, failurePage, cb.err)
		}

		select {
		case results <- cb:
		default: // duplicate callback; first one wins
		}
	})

	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	promptURL(conf.AuthCodeURL(state))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for github authorization: %w", ctx.Err())
	case cb := <-results:
		if cb.err != "" {
			return nil, fmt.Errorf("github authorization failed: %s", cb.err)
		}
		if cb.state != state {
			return nil, errors.New("github authorization failed: state mismatch")
		}
		tok, err := conf.Exchange(ctx, cb.code)
		if err != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w", err)
		}
		return tok, nil
	}
}

// randomState produces an unguessable state parameter.
func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 4rem;">
<h1>Authentication successful</h1>
<p>You can close this window and return to your terminal.</p>
</body>
</html>`

const failurePage = `<!DOCTYPE html>
<html>
<head><title>Authentication Failed</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 4rem;">
<h1>Authentication failed</h1>
<p>%s</p>
<p>Please try again from your terminal.</p>
</body>
</html>`
