package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/labit-client/admin"
	"github.com/jrsteele09/labit-client/blog"
	"github.com/spf13/cobra"
)

func newLoginCommand() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Kakao authorization code",
		Long: `Without --code, prints the Kakao authorization URL to visit.
The code returned to the redirect page is then passed with --code.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := appFrom(cmd)
			if code == "" {
				authURL, err := app.auth.KakaoAuthPath(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Open this URL and sign in, then run `labit login --code <code>`:\n%s\n", authURL)
				return nil
			}
			user, err := app.auth.KakaoLogin(cmd.Context(), code)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Nickname, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code from the Kakao redirect")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	var kakaoToken string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appFrom(cmd).auth.Logout(cmd.Context(), kakaoToken); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
	cmd.Flags().StringVar(&kakaoToken, "kakao-token", "", "Kakao access token to revoke along with the session")
	return cmd
}

func newMeCommand() *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "me",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := appFrom(cmd).client.Store().Get().User
			if user == nil {
				return fmt.Errorf("no user in session")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %d\n", user.ID)
			fmt.Fprintf(out, "nickname: %s\n", user.Nickname)
			fmt.Fprintf(out, "email:    %s\n", user.Email)
			fmt.Fprintf(out, "role:     %s\n", user.Role)
			return nil
		},
	})
}

func newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appFrom(cmd).client.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Access token refreshed")
			return nil
		},
	}
}

func newPostsCommand() *cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Read posts",
	}

	var page blog.PageRequest
	var search, tag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List published posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps := appFrom(cmd).posts
			var (
				result *blog.Page[blog.Post]
				err    error
			)
			switch {
			case search != "":
				result, err = ps.Search(cmd.Context(), search, page)
			case tag != "":
				result, err = ps.ByTag(cmd.Context(), tag, page)
			default:
				result, err = ps.List(cmd.Context(), page)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range result.Content {
				fmt.Fprintf(out, "%6d  %-50s  %s  %d views\n", p.ID, truncate(p.Title, 50), p.Author.Nickname, p.ViewCount)
			}
			fmt.Fprintf(out, "page %d of %d (%d posts)\n", result.Number+1, max(result.TotalPages, 1), result.TotalElements)
			return nil
		},
	}
	list.Flags().IntVar(&page.Page, "page", 0, "zero based page number")
	list.Flags().IntVar(&page.Size, "size", blog.DefaultPageSize, "posts per page")
	list.Flags().StringVar(&search, "search", "", "keyword to search titles and content")
	list.Flags().StringVar(&tag, "tag", "", "only posts with this tag")

	get := &cobra.Command{
		Use:   "get <postID>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := appFrom(cmd).posts.Get(cmd.Context(), id)
			if err != nil {
				if blog.IsNotFound(err) {
					return fmt.Errorf("post %d not found", id)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n", p.Title, strings.Repeat("=", len(p.Title)))
			fmt.Fprintf(out, "by %s", p.Author.Nickname)
			if !p.PublishedDate.IsZero() {
				fmt.Fprintf(out, " on %s", p.PublishedDate.Format("2006-01-02"))
			}
			fmt.Fprintf(out, "\ntags: %s\n\n%s\n", strings.Join(p.Tags, ", "), p.Content)
			return nil
		},
	}

	posts.AddCommand(list, get)
	return posts
}

func newCommentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <postID>",
		Short: "Show the comment thread of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tree, err := appFrom(cmd).comments.ByPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d comments\n", blog.CountComments(tree))
			for _, c := range blog.FlattenComments(tree) {
				indent := strings.Repeat("  ", c.Depth)
				if c.IsDeleted {
					fmt.Fprintf(out, "%s[deleted]\n", indent)
					continue
				}
				fmt.Fprintf(out, "%s%s: %s\n", indent, c.Author.Nickname, c.Content)
			}
			return nil
		},
	}
}

func newNavCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := appFrom(cmd).nav.Tree(cmd.Context())
			if err != nil {
				return err
			}
			printNav(cmd, tree)
			return nil
		},
	}
}

func printNav(cmd *cobra.Command, items []*admin.NavItem) {
	for _, item := range items {
		if item == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s\n", strings.Repeat("  ", item.Depth), item.Label, item.Href)
		printNav(cmd, item.Children)
	}
}

func newDashboardCommand() *cobra.Command {
	var logs int
	cmd := withSession(&cobra.Command{
		Use:   "dashboard",
		Short: "Show admin dashboard statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds := appFrom(cmd).dashboard
			stats, err := ds.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users   %8d  (+%d today, %+.1f%%)\n", stats.Users.Total, stats.Users.NewToday, stats.Users.Growth)
			fmt.Fprintf(out, "posts   %8d  (+%d today, %+.1f%%)\n", stats.Posts.Total, stats.Posts.NewToday, stats.Posts.Growth)
			fmt.Fprintf(out, "assets  %8d  (+%d today, %+.1f%%)\n", stats.Assets.Total, stats.Assets.UploadedToday, stats.Assets.Growth)
			fmt.Fprintf(out, "views   %8d  (+%d today, %+.1f%%)\n", stats.Views.Total, stats.Views.Today, stats.Views.Growth)
			if logs <= 0 {
				return nil
			}
			entries, err := ds.ActivityLogs(cmd.Context(), logs)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-8s %-20s %s\n", e.CreatedDate.Format("2006-01-02 15:04"), e.Status, e.Action, e.User)
			}
			return nil
		},
	})
	cmd.Flags().IntVar(&logs, "logs", 0, "also show this many recent activity log entries")
	return cmd
}

func newAssetsCommand() *cobra.Command {
	return withSession(&cobra.Command{
		Use:   "assets",
		Short: "List the asset library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			assets, err := appFrom(cmd).assets.All(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			admin.WalkAssets(assets, func(a *admin.Asset) bool {
				indent := strings.Repeat("  ", a.Depth)
				if a.IsFolder() {
					fmt.Fprintf(out, "%s%s/ (%d files)\n", indent, a.Name, a.FileCount)
				} else {
					fmt.Fprintf(out, "%s%s  %d bytes  %s\n", indent, a.Name, a.Size, a.URL)
				}
				return true
			})
			return nil
		},
	})
}

func newUploadCommand() *cobra.Command {
	var folderID int64
	var kind string
	cmd := withSession(&cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to the asset library, or as a profile image or thumbnail with --as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, out := appFrom(cmd), cmd.OutOrStdout()
			var (
				res *admin.UploadResult
				err error
			)
			switch kind {
			case "", "asset":
				asset, err := app.assets.Upload(cmd.Context(), args[0], folderID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded %s (id %d) %s\n", asset.Name, asset.ID, asset.URL)
				return nil
			case "image":
				res, err = app.uploads.Image(cmd.Context(), args[0])
			case "thumbnail":
				res, err = app.uploads.Thumbnail(cmd.Context(), args[0])
			case "file":
				res, err = app.uploads.File(cmd.Context(), args[0])
			default:
				return fmt.Errorf("unknown upload kind %q", kind)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Uploaded %s\n", res.FileURL)
			return nil
		},
	})
	cmd.Flags().Int64Var(&folderID, "folder", 0, "asset folder id; 0 uploads to the root")
	cmd.Flags().StringVar(&kind, "as", "asset", "asset, image, thumbnail or file")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
