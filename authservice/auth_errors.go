package authservice

import "errors"

var (
	ErrMalformedUpdate = errors.New("profile update response has no access token or user")
	ErrNotLoggedIn     = errors.New("not logged in")
)
