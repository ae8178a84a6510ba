package oauthmodel

import "errors"

var (
	ErrMissingAccessToken = errors.New("token response has no access token")
	ErrMissingCode        = errors.New("authorization code is required")
)
