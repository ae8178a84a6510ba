package users

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims the LABit backend puts into its access tokens
type AccessClaims struct {
	UserID       any    `json:"userId,omitempty"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseAccessToken decodes the token's claims without verifying the signature.
// Only the backend can verify; the client reads the payload for display and expiry.
func ParseAccessToken(accessToken string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("[users ParseAccessToken] %w", err)
	}
	return claims, nil
}

// ProfileFromAccessToken builds a Profile from the access token payload
func ProfileFromAccessToken(accessToken string) (*Profile, error) {
	claims, err := ParseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	id, err := claims.id()
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:           id,
		Nickname:     claims.Nickname,
		Email:        claims.Email,
		ProfileImage: claims.ProfileImage,
		Role:         ParseRole(claims.Role),
	}, nil
}

// AccessTokenExpiry returns the exp claim. ok is false for opaque tokens or tokens without exp.
func AccessTokenExpiry(accessToken string) (expiry time.Time, ok bool) {
	claims, err := ParseAccessToken(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// id prefers the userId claim and falls back to sub
func (c *AccessClaims) id() (int64, error) {
	switch v := c.UserID.(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	if c.Subject == "" {
		return 0, fmt.Errorf("[users AccessClaims] token carries no user id")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("[users AccessClaims] subject %q is not a user id: %w", c.Subject, err)
	}
	return id, nil
}
