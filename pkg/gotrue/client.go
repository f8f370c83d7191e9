// Package gotrue talks to a GoTrue compatible auth server (as used by Supabase).
package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	api "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const grantTypePKCE = "pkce"

var (
	ErrEmptyCode     = errors.New("auth code is empty")
	ErrNoAccessToken = errors.New("gotrue: token response without access token")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type Client interface {
	// ExchangeCode trades a PKCE auth code for a session.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error)
}

type client struct {
	api api.Client
}

func NewClient(baseURL, apiKey string) Client {
	return NewClientWithHTTP(baseURL, apiKey, &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewClientWithHTTP points the SDK at baseURL (the server's /auth/v1 root) instead of a Supabase project.
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) Client {
	sdk := api.New("", apiKey).
		WithCustomGoTrueURL(strings.TrimRight(baseURL, "/")).
		WithClient(*httpClient)

	return &client{api: sdk}
}

type tokenResult struct {
	resp *types.TokenResponse
	err  error
}

// ExchangeCode stops waiting when ctx is done; the SDK call itself is bounded by the HTTP client timeout.
func (c *client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan tokenResult, 1)

	go func() {
		resp, err := c.api.Token(types.TokenRequest{
			GrantType:    grantTypePKCE,
			Code:         code,
			CodeVerifier: codeVerifier,
		})
		done <- tokenResult{resp: resp, err: err}
	}()

	var result tokenResult

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-done:
	}

	if result.err != nil {
		return nil, fmt.Errorf("gotrue: exchanging auth code: %w", result.err)
	}

	if result.resp == nil || result.resp.AccessToken == "" {
		return nil, ErrNoAccessToken
	}

	return toSession(result.resp.Session), nil
}

func toSession(s types.Session) *Session {
	return &Session{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		RefreshToken: s.RefreshToken,
		User: User{
			ID:    s.User.ID.String(),
			Email: s.User.Email,
		},
	}
}
