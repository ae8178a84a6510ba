// Package apiclient is the authenticated LABit API client. It attaches bearer tokens,
// recovers from access-token expiry with a single shared refresh, replays the failed
// request once, and ends the session when recovery is impossible.
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultRefreshPath = "/auth/token/refresh"
	defaultUserAgent   = "labit-client"
	defaultRefreshSkew = 30 * time.Second
)

// Client performs HTTP calls against the LABit API on behalf of the session held in its Store
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	store       sessions.Store
	navigator   Navigator
	refreshPath string
	userAgent   string
	timeout     time.Duration
	proactive   bool
	refreshSkew time.Duration
	beforeSend  []BeforeSend
	afterRecv   []AfterReceive
	logger      zerolog.Logger
	nowTime     func() time.Time

	refreshGroup singleflight.Group
	refreshing   atomic.Int32

	// sessionCtx is cancelled whenever the client ends the session, abandoning in-flight authenticated requests
	sessionLock   sync.Mutex
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
}

// Option defines a function type to modify the Client instance
type Option func(*Client)

// WithHTTPClient replaces the default http.Client; its Timeout is left as provided
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each attempt and each refresh call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) {
		c.navigator = n
	}
}

func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// WithBeforeSend appends steps that run after the built-in request-ID, user-agent and bearer steps
func WithBeforeSend(steps ...BeforeSend) Option {
	return func(c *Client) {
		c.beforeSend = append(c.beforeSend, steps...)
	}
}

// WithAfterReceive appends steps that run after the built-in response logging
func WithAfterReceive(steps ...AfterReceive) Option {
	return func(c *Client) {
		c.afterRecv = append(c.afterRecv, steps...)
	}
}

// WithProactiveRefresh refreshes before sending when the access token's exp claim is within skew of now
func WithProactiveRefresh(enabled bool, skew time.Duration) Option {
	return func(c *Client) {
		c.proactive = enabled
		c.refreshSkew = skew
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// New creates a client for the API rooted at baseURL, e.g. "http://localhost:8080/api"
func New(baseURL string, store sessions.Store, options ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidBaseURL, "[apiclient New] %q", baseURL)
	}
	if store == nil {
		return nil, errors.New("[apiclient New] session store is required")
	}

	c := &Client{
		baseURL:     u,
		store:       store,
		navigator:   noopNavigator{},
		refreshPath: defaultRefreshPath,
		userAgent:   defaultUserAgent,
		timeout:     defaultTimeout,
		refreshSkew: defaultRefreshSkew,
		logger:      log.Logger,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.navigator == nil {
		c.navigator = noopNavigator{}
	}
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())
	return c, nil
}

// Store exposes the session store the client reads credentials from
func (c *Client) Store() sessions.Store {
	return c.store
}

// State is Refreshing while a refresh call is in flight, otherwise the session's own state
func (c *Client) State() sessions.State {
	if c.refreshing.Load() > 0 {
		return sessions.Refreshing
	}
	return c.store.Get().State()
}

// Logout clears the session and abandons every in-flight authenticated request
func (c *Client) Logout(_ context.Context) error {
	c.sessionLock.Lock()
	err := c.store.Clear()
	c.resetSessionContext()
	c.sessionLock.Unlock()

	c.logger.Info().Msg("session cleared by logout")
	return err
}

// currentSession pairs the store epoch with the context that is cancelled when the client ends it
func (c *Client) currentSession() (uint64, context.Context) {
	c.sessionLock.Lock()
	defer c.sessionLock.Unlock()
	return c.store.Epoch(), c.sessionCtx
}

// resetSessionContext must be called with sessionLock held
func (c *Client) resetSessionContext() {
	c.sessionCancel()
	c.sessionCtx, c.sessionCancel = context.WithCancel(context.Background())
}

// endSession clears the session and signals the login boundary, once per epoch
func (c *Client) endSession(epoch uint64, reason string) {
	c.sessionLock.Lock()
	if c.store.Epoch() != epoch {
		c.sessionLock.Unlock()
		return
	}
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
	c.resetSessionContext()
	c.sessionLock.Unlock()

	c.logger.Warn().Str("reason", reason).Msg("session ended")
	c.navigator.RedirectToLogin(reason)
}

// bindToSession derives a context that is also cancelled when sessionCtx ends
func bindToSession(ctx, sessionCtx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(sessionCtx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}
