package apiclient

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/oauthmodel"
	"github.com/pkg/errors"
)

const refreshKey = "refresh"

// Refresh exchanges the stored refresh token for a new token pair.
// Concurrent callers share one underlying call and all observe its outcome; once it
// completes the next call starts a new refresh. Any failure ends the session.
// Each caller stops waiting when its own ctx ends, without cancelling the shared call.
func (c *Client) Refresh(ctx context.Context) error {
	epoch, _ := c.currentSession()
	return c.sharedRefresh(ctx, epoch, "")
}

// sharedRefresh joins the in-flight refresh or starts one. A non-empty staleToken makes a
// newly started refresh a no-op when the session already moved past that token.
func (c *Client) sharedRefresh(ctx context.Context, epoch uint64, staleToken string) error {
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		c.refreshing.Add(1)
		defer c.refreshing.Add(-1)

		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return nil, c.refresh(refreshCtx, epoch, staleToken)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context, epoch uint64, staleToken string) error {
	if c.store.Epoch() != epoch {
		return apperrors.ErrSessionEnded
	}
	session := c.store.Get()
	if staleToken != "" && session.AccessToken != "" && session.AccessToken != staleToken {
		return nil
	}
	if session.RefreshToken == "" {
		c.endSession(epoch, "no refresh token")
		return apperrors.ErrNoRefreshToken
	}

	c.logger.Info().Str("path", c.refreshPath).Msg("refreshing access token")

	pending, err := newPendingRequest(http.MethodPost, c.refreshPath, oauthmodel.RefreshRequest{RefreshToken: session.RefreshToken}, Public())
	if err != nil {
		c.endSession(epoch, "token refresh failed")
		return errors.Wrap(apperrors.ErrRefreshFailed, err.Error())
	}

	tokens, err := c.exchange(ctx, pending)
	if err != nil {
		c.logger.Warn().Err(err).Msg("token refresh failed")
		c.endSession(epoch, "token refresh failed")
		return err
	}

	// A logout while the call was in flight wins over the new tokens; an empty refresh token keeps the old one
	if err := c.store.SetTokens(epoch, tokens.AccessToken, tokens.RefreshToken); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionEnded) {
			return apperrors.ErrSessionEnded
		}
		c.logger.Warn().Err(err).Msg("refreshed tokens were not persisted")
	}
	c.logger.Info().Msg("access token refreshed")
	return nil
}

func (c *Client) exchange(ctx context.Context, pending *PendingRequest) (*oauthmodel.TokenResponse, error) {
	resp, err := c.send(ctx, pending, "")
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrRefreshFailed, "send: %v", err)
	}
	if !resp.OK() {
		return nil, errors.Wrapf(apperrors.ErrRefreshFailed, "status %d", resp.StatusCode)
	}

	var tokens oauthmodel.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		return nil, errors.Wrap(apperrors.ErrRefreshFailed, err.Error())
	}
	if tokens.AccessToken == "" {
		var wrapped oauthmodel.Envelope[oauthmodel.TokenResponse]
		if err := resp.Decode(&wrapped); err == nil {
			tokens = wrapped.Data
		}
	}
	if err := tokens.Validate(); err != nil {
		return nil, errors.Wrap(apperrors.ErrRefreshFailed, err.Error())
	}
	return &tokens, nil
}
