package helloasso

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dghubble/sling"
	"github.com/grimpo6/helloasso-certificates/internal/config"
)

// Authenticator exchanges client credentials for an access token
type Authenticator struct {
	creds config.Credentials
	token *sling.Sling
}

type tokenRequest struct {
	ClientID     string `url:"client_id"`
	ClientSecret string `url:"client_secret"`
	GrantType    string `url:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewAuthenticator creates an Authenticator for the configured token endpoint
func NewAuthenticator(cfg *config.Config, httpClient *http.Client) *Authenticator {
	return &Authenticator{
		creds: cfg.Credentials,
		token: sling.New().
			Client(httpClient).
			Set("User-Agent", UserAgent).
			Set("Accept", "application/json").
			Post(cfg.TokenURL),
	}
}

// Token performs the client-credentials grant and returns the bearer token.
// Credentials are checked before any request is sent.
func (a *Authenticator) Token(ctx context.Context) (AccessToken, error) {
	if a.creds.ClientID == "" || a.creds.ClientSecret == "" || a.creds.SessionCookie == "" {
		return "", fmt.Errorf("%w: client id, client secret and session cookie are all required", config.ErrMissingCredentials)
	}

	body := tokenRequest{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		GrantType:    "client_credentials",
	}

	var resp tokenResponse
	if err := receive(ctx, a.token.New().BodyForm(body), "api.token", &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", ErrAuthentication)
	}

	return AccessToken(resp.AccessToken), nil
}
