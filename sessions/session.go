package sessions

import (
	"time"

	"github.com/jrsteele09/labit-client/users"
	"golang.org/x/oauth2"
)

// State is the client's authentication state
type State int

const (
	Unauthenticated State = iota // No usable credentials
	Authenticated                // Access token held
	Refreshing                   // A refresh call is in flight
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	}
	return "unauthenticated"
}

// Session is the client-held authentication state.
// Empty strings mean the token is absent.
type Session struct {
	AccessToken  string         `json:"accessToken,omitempty"`  // Short-lived bearer credential
	RefreshToken string         `json:"refreshToken,omitempty"` // Used only against the refresh endpoint
	User         *users.Profile `json:"user,omitempty"`         // Minimal profile for display and role checks
	UpdatedAt    time.Time      `json:"updatedAt,omitempty"`    // Last mutation
}

func (s Session) State() State {
	if s.AccessToken == "" {
		return Unauthenticated
	}
	return Authenticated
}

// CanRefresh reports whether a 401 can be recovered from
func (s Session) CanRefresh() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Token converts the session credentials to an oauth2.Token. Expiry comes from the access token's exp claim.
func (s Session) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := users.AccessTokenExpiry(s.AccessToken); ok {
		tok.Expiry = exp
	}
	return tok
}

// clone deep copies the profile so readers never share it with the store
func (s Session) clone() Session {
	s.User = s.User.Clone()
	return s
}
