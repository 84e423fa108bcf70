package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/thanhpk/randstr"
	api "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"tunebridge/resolver"
)

// Credentials identifies the registered Spotify application.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Authenticate runs the authorization-code flow: it spins up a local
// callback server on the redirect URI, hands the authorization URL to
// promptURL (typically printed for the user to open), and blocks until
// the callback delivers a token or ctx expires.
func Authenticate(ctx context.Context, creds Credentials, promptURL func(string), log *logrus.Logger) (*Client, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client credentials", resolver.ErrCatalogUnavailable)
	}

	redirect, err := url.Parse(creds.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("parse redirect URI: %w", err)
	}

	authenticator := spotifyauth.New(
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithClientSecret(creds.ClientSecret),
		spotifyauth.WithRedirectURL(creds.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
		),
	)

	var (
		state    = randstr.Hex(16)
		tokens   = make(chan *oauth2.Token, 1)
		failures = make(chan error, 1)
	)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		token, err := authenticator.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			failures <- err
			return
		}
		fmt.Fprintln(w, "Authentication complete. You can close this tab.")
		tokens <- token
	})

	server := &http.Server{Addr: ":" + redirect.Port(), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			failures <- err
		}
	}()
	defer server.Shutdown(context.Background())

	promptURL(authenticator.AuthURL(state))

	select {
	case token := <-tokens:
		return NewClient(api.New(authenticator.Client(ctx, token)), log), nil
	case err := <-failures:
		return nil, fmt.Errorf("%w: authentication: %v", resolver.ErrCatalogUnavailable, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
