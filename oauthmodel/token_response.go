package oauthmodel

import (
	"strings"
	"time"

	"github.com/jrsteele09/labit-client/users"
	"golang.org/x/oauth2"
)

// TokenResponse is the body returned by the Kakao login and token refresh endpoints.
type TokenResponse struct {
	// AccessToken is the LABit JWT sent as "Authorization: Bearer <accessToken>".
	// Lifespan: 30 minutes on the default backend configuration.
	AccessToken string `json:"accessToken"`

	// RefreshToken is exchanged at the refresh endpoint for a new pair.
	// May be omitted on refresh when the backend does not rotate it.
	RefreshToken string `json:"refreshToken,omitempty"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType,omitempty"`

	// ExpiresIn is the access token lifetime in seconds (e.g. 1800).
	ExpiresIn int64 `json:"expiresIn,omitempty"`

	// Scope is optional and unused by the blog client.
	Scope string `json:"scope,omitempty"`

	// IssuedAt is a Unix timestamp.
	IssuedAt int64 `json:"issuedAt,omitempty"`

	// User is included by the login endpoint.
	User *users.Profile `json:"user,omitempty"`
}

// Validate checks the response carries what a session needs
func (t *TokenResponse) Validate() error {
	if t == nil || strings.TrimSpace(t.AccessToken) == "" {
		return ErrMissingAccessToken
	}
	return nil
}

// OAuth2Token converts the response into an oauth2.Token; now anchors ExpiresIn
func (t *TokenResponse) OAuth2Token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

// RefreshRequest is the body of the token refresh call.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ErrorResponse is the body the backend's global exception handler writes on failures.
type ErrorResponse struct {
	Timestamp string            `json:"timestamp,omitempty"`
	Status    int               `json:"status,omitempty"`
	Error     string            `json:"error,omitempty"` // Machine readable code, e.g. "TOKEN_EXPIRED"
	Message   string            `json:"message,omitempty"`
	Path      string            `json:"path,omitempty"`
	Details   map[string]string `json:"details,omitempty"` // Field validation errors
}

// Envelope is the {success, message, data} wrapper some backend controllers return.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}
