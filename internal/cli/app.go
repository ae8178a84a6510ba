// Package cli implements the labit command line client.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jrsteele09/labit-client/admin"
	"github.com/jrsteele09/labit-client/apiclient"
	"github.com/jrsteele09/labit-client/authservice"
	"github.com/jrsteele09/labit-client/blog"
	"github.com/jrsteele09/labit-client/internal/config"
	"github.com/jrsteele09/labit-client/sessions"
	"github.com/jrsteele09/labit-client/sessions/filepersist"
	"github.com/jrsteele09/labit-client/sessions/redispersist"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// App holds the services one CLI invocation works with
type App struct {
	cfg       config.Config
	client    *apiclient.Client
	auth      *authservice.AuthService
	posts     *blog.PostService
	comments  *blog.CommentService
	nav       *admin.NavigationService
	dashboard *admin.DashboardService
	assets    *admin.AssetService
	uploads   *admin.UploadService
	closers   []io.Closer
}

// AppOption adjusts how NewApp builds its dependencies
type AppOption func(*appOptions)

type appOptions struct {
	persister sessions.Persister
	stderr    io.Writer
}

// WithPersister replaces the configured file or Redis persister. A persister that is also an
// io.Closer is closed with the App.
func WithPersister(p sessions.Persister) AppOption {
	return func(o *appOptions) {
		o.persister = p
	}
}

// WithNoticeWriter sets where login boundary notices are printed
func WithNoticeWriter(w io.Writer) AppOption {
	return func(o *appOptions) {
		o.stderr = w
	}
}

// NewApp loads the persisted session and builds the API client and services from cfg
func NewApp(ctx context.Context, cfg config.Config, options ...AppOption) (*App, error) {
	opts := appOptions{stderr: io.Discard}
	for _, opt := range options {
		opt(&opts)
	}

	app := &App{cfg: cfg}
	persister := opts.persister
	if c, ok := persister.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	if persister == nil {
		var err error
		if persister, err = app.newPersister(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	store, err := sessions.NewStore(ctx, persister)
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "[cli NewApp] load session")
	}

	notices := opts.stderr
	app.client, err = apiclient.New(cfg.GetAPIBaseURL(), store,
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithRefreshPath(cfg.GetRefreshPath()),
		apiclient.WithProactiveRefresh(cfg.GetProactiveRefresh(), cfg.GetRefreshSkew()),
		apiclient.WithUserAgent(cfg.GetAppName()+"-cli"),
		apiclient.WithLogger(log.Logger),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(reason string) {
			fmt.Fprintf(notices, "Session ended (%s). Run `labit login` to sign in again.\n", reason)
		})),
	)
	if err != nil {
		app.Close()
		return nil, err
	}

	if err := app.buildServices(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) newPersister(ctx context.Context) (sessions.Persister, error) {
	namespace := app.cfg.GetSessionNamespace()
	if addr := app.cfg.GetRedisAddr(); addr != "" {
		rdb, err := redispersist.Dial(ctx, addr, "", 0)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, rdb)
		log.Debug().Str("addr", addr).Msg("persisting session in redis")
		return redispersist.New(rdb, namespace, app.cfg.GetSessionTTL())
	}
	return filepersist.New(app.cfg.GetSessionFile(), namespace, filepersist.WithHexKey(app.cfg.GetSessionKey()))
}

func (app *App) buildServices() (err error) {
	if app.auth, err = authservice.NewAuthService(app.client, authservice.WithNotifier(authservice.LogNotifier{})); err != nil {
		return err
	}
	if app.posts, err = blog.NewPostService(app.client); err != nil {
		return err
	}
	if app.comments, err = blog.NewCommentService(app.client); err != nil {
		return err
	}
	if app.nav, err = admin.NewNavigationService(app.client); err != nil {
		return err
	}
	if app.dashboard, err = admin.NewDashboardService(app.client); err != nil {
		return err
	}
	if app.assets, err = admin.NewAssetService(app.client); err != nil {
		return err
	}
	app.uploads, err = admin.NewUploadService(app.client)
	return err
}

// Close releases the Redis connection and any closable persister; it is safe to call twice
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close")
		}
	}
	app.closers = nil
}
