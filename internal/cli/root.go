package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/labit-client/authservice"
	"github.com/jrsteele09/labit-client/internal/config"
	apperrors "github.com/jrsteele09/labit-client/internal/errors"
	"github.com/jrsteele09/labit-client/internal/logging"
	"github.com/spf13/cobra"
)

// annotationSession marks commands that need a restored session before they run
const annotationSession = "labit/session"

type appKey struct{}

// NewRootCommand builds the labit command tree. The App is created once per invocation, before the
// selected command runs, and closed after it.
func NewRootCommand(cfg config.Config, options ...AppOption) *cobra.Command {
	var quiet bool
	root := &cobra.Command{
		Use:           "labit",
		Short:         "Command line client for the LABit blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Configure(cmd.ErrOrStderr(), cfg.GetLogLevel(), cfg.GetEnv())
			if !quiet {
				displayAppname(cmd.ErrOrStderr(), cfg.GetAppName())
			}

			app, err := NewApp(cmd.Context(), cfg, append([]AppOption{WithNoticeWriter(cmd.ErrOrStderr())}, options...)...)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))

			if _, ok := cmd.Annotations[annotationSession]; ok {
				if err := app.restoreSession(cmd); err != nil {
					app.Close()
					return err
				}
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not print the banner")

	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newMeCommand(),
		newRefreshCommand(),
		newPostsCommand(),
		newCommentsCommand(),
		newNavCommand(),
		newDashboardCommand(),
		newAssetsCommand(),
		newUploadCommand(),
	)
	closeAfterRun(root)
	return root
}

// closeAfterRun wraps every RunE so the App is released whether or not the command fails;
// cobra skips post-run hooks after an error
func closeAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer func() {
			if app := appFrom(cmd); app != nil {
				app.Close()
			}
		}()
		return run(cmd, args)
	}
}

// Execute runs the command tree against os.Args
func Execute(ctx context.Context, cfg config.Config) error {
	return NewRootCommand(cfg).ExecuteContext(ctx)
}

func appFrom(cmd *cobra.Command) *App {
	if cmd.Context() == nil {
		return nil
	}
	app, _ := cmd.Context().Value(appKey{}).(*App)
	return app
}

func (app *App) restoreSession(cmd *cobra.Command) error {
	if _, err := app.auth.Initialize(cmd.Context()); err != nil {
		if apperrors.Is(err, authservice.ErrNotLoggedIn) {
			return fmt.Errorf("not logged in, run `labit login` first")
		}
		return err
	}
	return nil
}

func withSession(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationSession] = "true"
	return cmd
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
