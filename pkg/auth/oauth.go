// Package auth handles the Google OAuth flow used by the calendar notifier.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google Cloud console.
	ClientSecretsFile = "credentials.json"
	// TokenFile caches the access and refresh token.
	TokenFile = "google-token.json"
	// LocalhostAuthPort receives the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// CalendarScopes are the scopes the calendar notifier needs.
var CalendarScopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// GetConfig reads the client secrets in dir and pins the redirect to the local listener.
func GetConfig(dir string, scopes []string, log *zap.Logger) (*oauth2.Config, error) {
	path := filepath.Join(dir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", path, err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	redirect := fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	if u, err := url.Parse(cfg.RedirectURL); err == nil && (u.Hostname() == "localhost" || u.Hostname() == "127.0.0.1") {
		u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
		redirect = u.String()
	}
	if redirect != cfg.RedirectURL {
		log.Debug("overriding oauth redirect", zap.String("from", cfg.RedirectURL), zap.String("to", redirect))
		cfg.RedirectURL = redirect
	}
	return cfg, nil
}

// GetClient returns an HTTP client authorized for scopes. It reuses the cached
// token when present and runs the browser flow otherwise. Refreshed tokens are
// written back to the cache.
func GetClient(ctx context.Context, dir string, scopes []string, log *zap.Logger) (*http.Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := GetConfig(dir, scopes, log)
	if err != nil {
		return nil, err
	}

	tokenPath := filepath.Join(dir, TokenFile)
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		log.Info("no cached google token, starting web authorization", zap.String("path", tokenPath))
		tok, err = getTokenFromWeb(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}

	src := cfg.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh google token: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := saveToken(tokenPath, current); err != nil {
			log.Warn("could not cache refreshed google token", zap.Error(err))
		}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(current, src)), nil
}

// RemoveToken deletes the cached token so the next GetClient re-authorizes.
func RemoveToken(dir string) error {
	err := os.Remove(filepath.Join(dir, TokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// getTokenFromWeb runs the authorization code flow through a local listener.
func getTokenFromWeb(ctx context.Context, cfg *oauth2.Config, log *zap.Logger) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "localhost:"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintln(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize systasks:\n%s\n", authURL)
	log.Debug("waiting for authorization code", zap.String("redirect", cfg.RedirectURL))

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization timed out: %w", ctx.Err())
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// GetCalendarService builds an authorized Calendar service.
func GetCalendarService(ctx context.Context, dir string, log *zap.Logger) (*calendar.Service, error) {
	client, err := GetClient(ctx, dir, CalendarScopes, log)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}
