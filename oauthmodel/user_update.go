package oauthmodel

import "github.com/jrsteele09/labit-client/users"

// UserUpdateRequest is the body of PUT /auth/me
type UserUpdateRequest struct {
	Nickname     string `json:"nickname,omitempty" validate:"omitempty,min=2,max=20"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	ProfileImage string `json:"profileImage,omitempty" validate:"omitempty,url"`
}

// UserUpdateResponse carries a re-issued access token because the nickname/email claims changed
type UserUpdateResponse struct {
	User        *users.Profile `json:"user"`
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType,omitempty"`
	ExpiresIn   int64          `json:"expiresIn,omitempty"`
	Message     string         `json:"message,omitempty"`
}
