// Package authservice implements the LABit account flows (Kakao login, profile, logout)
// on top of the authenticated API client and its session store.
package authservice

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/labit-client/apiclient"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/internal/validation"
	"github.com/jrsteele09/labit-client/oauthmodel"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/jrsteele09/labit-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	pathKakaoPath     = "/auth/kakao/path"
	pathKakaoLogin    = "/auth/kakao/login"
	pathMe            = "/auth/me"
	pathValidateToken = "/auth/token/validate"
	pathLogout        = "/auth/logout"
	pathWithdrawal    = "/auth/withdrawal"
)

// AuthService provides the account operations of the LABit blog
type AuthService struct {
	client    *apiclient.Client
	store     sessions.Store
	notifier  Notifier
	validator *validation.Validator
	nowTime   func() time.Time
}

// AuthServiceOption defines a function type to modify the AuthService instance
type AuthServiceOption func(*AuthService)

func WithNotifier(n Notifier) AuthServiceOption {
	return func(as *AuthService) {
		as.notifier = n
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthServiceOption {
	return func(as *AuthService) {
		as.nowTime = nowFunc
	}
}

// NewAuthService creates an AuthService that stores credentials in the client's session store
func NewAuthService(client *apiclient.Client, options ...AuthServiceOption) (*AuthService, error) {
	if client == nil {
		return nil, errors.New("[NewAuthService] client is required")
	}

	as := &AuthService{
		client:    client,
		store:     client.Store(),
		notifier:  noopNotifier{},
		validator: validation.NewValidator(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(as)
	}
	if as.notifier == nil {
		as.notifier = noopNotifier{}
	}
	return as, nil
}

// KakaoAuthPath returns the Kakao authorization URL the user must visit to obtain a code
func (as *AuthService) KakaoAuthPath(ctx context.Context) (string, error) {
	var path string
	resp, err := as.client.Do(ctx, http.MethodGet, pathKakaoPath, nil, apiclient.Public())
	if err != nil {
		return "", err
	}
	if err := resp.Decode(&path); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// KakaoLogin exchanges a Kakao authorization code for a LABit session and stores it.
// The user comes from the response, or from the access token claims when the response has none.
func (as *AuthService) KakaoLogin(ctx context.Context, code string) (*users.Profile, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, oauthmodel.ErrMissingCode
	}

	resp, err := as.client.Do(ctx, http.MethodPost, pathKakaoLogin, nil, apiclient.Public(), apiclient.WithParam("code", code))
	if err != nil {
		return nil, err
	}

	var tokens oauthmodel.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, err
	}
	if err := tokens.Validate(); err != nil {
		return nil, errors.Wrap(err, "[AuthService KakaoLogin]")
	}

	user := tokens.User
	if user == nil {
		if user, err = users.ProfileFromAccessToken(tokens.AccessToken); err != nil {
			log.Warn().Err(err).Msg("login response has no user and the token carries no profile")
		}
	}

	session := sessions.Session{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, User: user}
	if err := as.store.Login(session); err != nil {
		log.Warn().Err(err).Msg("session was not persisted")
	}

	nickname := ""
	if user != nil {
		nickname = user.Nickname
	}
	log.Info().Str("nickname", nickname).Bool("refreshable", session.CanRefresh()).Msg("logged in with kakao")
	return user.Clone(), nil
}

// Me fetches the current user from the server and updates the stored profile
func (as *AuthService) Me(ctx context.Context) (*users.Profile, error) {
	epoch := as.store.Epoch()
	var user users.Profile
	if err := as.client.Get(ctx, pathMe, &user); err != nil {
		return nil, err
	}
	if err := as.store.SetUser(epoch, &user); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionEnded) {
			return nil, err
		}
		log.Warn().Err(err).Msg("updated profile was not persisted")
	}
	return &user, nil
}

// UpdateMe changes the profile. The server re-issues the access token because its claims changed,
// so the new token replaces the stored one while the refresh token is kept.
func (as *AuthService) UpdateMe(ctx context.Context, req oauthmodel.UserUpdateRequest) (*oauthmodel.UserUpdateResponse, error) {
	if err := as.validator.Struct(req); err != nil {
		as.notifier.Error("Invalid input", "Check the information you entered.")
		return nil, err
	}

	epoch := as.store.Epoch()
	var out oauthmodel.UserUpdateResponse
	if err := as.client.Put(ctx, pathMe, req, &out); err != nil {
		as.notifyUpdateFailure(err)
		return nil, err
	}
	if out.AccessToken == "" || out.User == nil {
		as.notifier.Error("Update failed", "The server returned an unexpected response.")
		return nil, ErrMalformedUpdate
	}

	if err := as.store.SetTokens(epoch, out.AccessToken, ""); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionEnded) {
			return nil, err
		}
		log.Warn().Err(err).Msg("re-issued token was not persisted")
	}
	if err := as.store.SetUser(epoch, out.User); err != nil {
		log.Warn().Err(err).Msg("updated profile was not persisted")
	}

	msg := out.Message
	if msg == "" {
		msg = "Your profile was updated."
	}
	as.notifier.Success("Profile updated", msg)
	return &out, nil
}

func (as *AuthService) notifyUpdateFailure(err error) {
	var apiErr *apiclient.Error
	if !apperrors.As(err, &apiErr) {
		as.notifier.Error("Update failed", "An error occurred while updating your profile.")
		return
	}
	switch {
	case apiErr.Status == http.StatusConflict:
		as.notifier.Error("Update failed", "That email or nickname is already in use.")
	case apiErr.Status == http.StatusBadRequest:
		as.notifier.Error("Invalid input", "Check the information you entered.")
	case apiErr.Kind == apiclient.KindAuthInvalid || apiErr.Kind == apiclient.KindAuthExpired:
		as.notifier.Error("Session expired", "Your login has expired. Please log in again.")
	default:
		as.notifier.Error("Update failed", "An error occurred while updating your profile.")
	}
}

// ValidateToken asks the server whether the stored access token is still accepted (e.g. not blacklisted)
func (as *AuthService) ValidateToken(ctx context.Context) (bool, error) {
	if err := as.validator.ValidateAccessToken(as.store.Get().AccessToken); err != nil {
		return false, nil
	}
	var valid bool
	if err := as.client.Get(ctx, pathValidateToken, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

// Logout tells the server (and Kakao, when kakaoAccessToken is set) to end the session.
// The local session always ends, whatever the server says.
func (as *AuthService) Logout(ctx context.Context, kakaoAccessToken string) error {
	var opts []apiclient.RequestOption
	if kakaoAccessToken != "" {
		opts = append(opts, apiclient.WithParam("kakaoAccessToken", kakaoAccessToken))
	}
	if as.store.Get().AccessToken != "" {
		if err := as.client.Post(ctx, pathLogout, nil, nil, opts...); err != nil {
			log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}
	return as.client.Logout(ctx)
}

// Withdraw deletes the account and ends the local session
func (as *AuthService) Withdraw(ctx context.Context, kakaoAccessToken string) error {
	var opts []apiclient.RequestOption
	if kakaoAccessToken != "" {
		opts = append(opts, apiclient.WithParam("kakaoAccessToken", kakaoAccessToken))
	}
	if err := as.client.Get(ctx, pathWithdrawal, nil, opts...); err != nil {
		as.notifier.Error("Withdrawal failed", "An error occurred while deleting your account.")
		return err
	}
	as.notifier.Success("Account deleted", "Your account has been deleted.")
	return as.client.Logout(ctx)
}

// Initialize restores a persisted session at startup. An expired access token is refreshed when
// possible; a token the server rejects ends the session. Network failures keep the session.
func (as *AuthService) Initialize(ctx context.Context) (*users.Profile, error) {
	session := as.store.Get()
	if session.State() == sessions.Unauthenticated {
		return nil, ErrNotLoggedIn
	}

	if exp, ok := users.AccessTokenExpiry(session.AccessToken); ok && !as.nowTime().Before(exp) {
		if !session.CanRefresh() {
			log.Info().Msg("stored access token expired and cannot be refreshed")
			if err := as.client.Logout(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to clear expired session")
			}
			return nil, apperrors.ErrTokenExpired
		}
		if err := as.client.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	valid, err := as.ValidateToken(ctx)
	if err != nil {
		return nil, err
	}
	if !valid {
		if !as.store.Get().CanRefresh() {
			if err := as.client.Logout(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to clear rejected session")
			}
			return nil, apperrors.ErrInvalidToken
		}
		if err := as.client.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	user, err := as.Me(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Str("nickname", user.Nickname).Msg("session restored")
	return user, nil
}
