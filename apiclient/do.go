package apiclient

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/jrsteele09/labit-client/users"
	"github.com/pkg/errors"
)

// Do sends method path with body and returns the response of a 2xx call, or an *Error.
//
// body is nil, a JSON serialisable value, or a *MultipartForm. A 401 on an authenticated
// request is recovered with one refresh and one replay; nothing is retried twice.
func (c *Client) Do(ctx context.Context, method, path string, body any, options ...RequestOption) (*Response, error) {
	pending, err := newPendingRequest(method, path, body, options...)
	if err != nil {
		return nil, &Error{Kind: KindClient, Message: msgBadRequest, Err: err}
	}
	if pending.Public {
		resp, err := c.send(ctx, pending, "")
		if err != nil {
			return nil, transportError(ctx, nil, err)
		}
		return result(resp)
	}
	return c.doAuthenticated(ctx, pending)
}

func (c *Client) Get(ctx context.Context, path string, out any, options ...RequestOption) error {
	return c.call(ctx, http.MethodGet, path, nil, out, options)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, options ...RequestOption) error {
	return c.call(ctx, http.MethodPost, path, body, out, options)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, options ...RequestOption) error {
	return c.call(ctx, http.MethodPut, path, body, out, options)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, options ...RequestOption) error {
	return c.call(ctx, http.MethodPatch, path, body, out, options)
}

func (c *Client) Delete(ctx context.Context, path string, out any, options ...RequestOption) error {
	return c.call(ctx, http.MethodDelete, path, nil, out, options)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, options []RequestOption) error {
	resp, err := c.Do(ctx, method, path, body, options...)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return &Error{Kind: KindServer, Message: msgServer, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) doAuthenticated(ctx context.Context, pending *PendingRequest) (*Response, error) {
	epoch, sessionCtx := c.currentSession()
	reqCtx, cancel := bindToSession(ctx, sessionCtx)
	defer cancel()

	session := c.store.Get()
	if c.expiresSoon(session) {
		if err := c.sharedRefresh(ctx, epoch, session.AccessToken); err != nil {
			return nil, refreshError(ctx, err)
		}
		session = c.store.Get()
	}

	resp, err := c.send(reqCtx, pending, session.AccessToken)
	if err != nil {
		return nil, transportError(ctx, sessionCtx, err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return c.finish(epoch, resp)
	}
	return c.recoverUnauthorized(ctx, reqCtx, sessionCtx, epoch, pending, session.AccessToken)
}

// recoverUnauthorized handles a 401: refresh once (or reuse a refresh another caller already
// completed in this wave), then replay once. A second 401 ends the session.
func (c *Client) recoverUnauthorized(ctx, reqCtx, sessionCtx context.Context, epoch uint64, pending *PendingRequest, sentToken string) (*Response, error) {
	if c.store.Epoch() != epoch {
		return nil, cancelled(nil)
	}
	current := c.store.Get()
	switch {
	case current.AccessToken != "" && current.AccessToken != sentToken:
		c.logger.Debug().Str("path", pending.Path).Msg("token already refreshed, replaying")
	case current.CanRefresh():
		if err := c.sharedRefresh(ctx, epoch, sentToken); err != nil {
			return nil, refreshError(ctx, err)
		}
	case current.State() == sessions.Unauthenticated:
		// Nothing to end: the store stays as it is and sibling requests keep running
		return nil, authInvalid(http.StatusUnauthorized, apperrors.ErrNoRefreshToken)
	default:
		c.endSession(epoch, "unauthorized without refresh token")
		return nil, authInvalid(http.StatusUnauthorized, apperrors.ErrNoRefreshToken)
	}

	resp, err := c.send(reqCtx, pending, c.store.Get().AccessToken)
	if err != nil {
		return nil, transportError(ctx, sessionCtx, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.endSession(epoch, "replay rejected after refresh")
		return nil, authInvalid(http.StatusUnauthorized, classify(resp))
	}
	return c.finish(epoch, resp)
}

// finish discards responses that outlived the session they were issued under
func (c *Client) finish(epoch uint64, resp *Response) (*Response, error) {
	if c.store.Epoch() != epoch {
		return nil, cancelled(nil)
	}
	return result(resp)
}

func (c *Client) expiresSoon(session sessions.Session) bool {
	if !c.proactive || !session.CanRefresh() {
		return false
	}
	exp, ok := users.AccessTokenExpiry(session.AccessToken)
	return ok && !c.nowTime().Before(exp.Add(-c.refreshSkew))
}

// send runs the before-send pipeline, performs one attempt and reads the whole body
func (c *Client) send(ctx context.Context, pending *PendingRequest, accessToken string) (*Response, error) {
	req, err := pending.httpRequest(ctx, c.baseURL)
	if err != nil {
		return nil, &Error{Kind: KindClient, Message: msgBadRequest, Err: err}
	}

	steps := append([]BeforeSend{requestID, userAgent(c.userAgent), bearer(accessToken)}, c.beforeSend...)
	for _, step := range steps {
		if err := step(req); err != nil {
			return nil, &Error{Kind: KindClient, Message: msgBadRequest, Err: errors.Wrap(err, "before send")}
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Request:    req,
		Duration:   time.Since(start),
	}
	logResponse(c.logger)(resp)
	for _, step := range c.afterRecv {
		step(resp)
	}
	return resp, nil
}

func result(resp *Response) (*Response, error) {
	if resp.OK() {
		return resp, nil
	}
	return nil, classify(resp)
}

// transportError classifies a failure where no response was received
func transportError(ctx, sessionCtx context.Context, err error) error {
	var apiErr *Error
	if apperrors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case apperrors.Is(ctx.Err(), context.Canceled):
		return &Error{Kind: KindCancelled, Message: msgInterrupted, Err: err}
	case sessionCtx != nil && sessionCtx.Err() != nil:
		return cancelled(err)
	}
	return &Error{Kind: KindNetwork, Message: msgNetwork, Err: err}
}

func refreshError(ctx context.Context, err error) error {
	switch {
	case apperrors.Is(err, apperrors.ErrSessionEnded):
		return cancelled(err)
	case ctx.Err() != nil:
		return &Error{Kind: KindAuthExpired, Message: msgAuthExpired, Status: http.StatusUnauthorized, Err: err}
	}
	return authInvalid(http.StatusUnauthorized, err)
}
