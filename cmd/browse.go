package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/dom"
	"github.com/ziadkadry99/docnav/internal/history"
	"github.com/ziadkadry99/docnav/internal/progress"
	"github.com/ziadkadry99/docnav/internal/terminal"
)

// layoutWidth is the box width of the headless page. The terminal wraps
// text by columns, so it only has to be positive.
const layoutWidth = 960

var browseCmd = &cobra.Command{
	Use:   "browse [path]",
	Short: "Browse the documentation site in the terminal",
	Long: `Loads the page at path (for example /docs/intro) from the configured site and
runs the navigation engine on it. Links are followed in place, back and forward
restore the scroll position, and the session is saved so --resume can pick it
up later.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Bool("resume", false, "resume the most recent session")
	browseCmd.Flags().String("session", "", "resume the session with this id")
	browseCmd.Flags().Bool("no-history", false, "do not read or write the session history")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resume, _ := cmd.Flags().GetBool("resume")
	sessionID, _ := cmd.Flags().GetString("session")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	if len(args) == 0 && !resume && sessionID == "" {
		return fmt.Errorf("a path is required unless --resume or --session is given")
	}
	if noHistory && (resume || sessionID != "") {
		return fmt.Errorf("--no-history cannot be combined with --resume or --session")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	var store *history.Store
	if !noHistory {
		s, database, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store = s
	}

	var session *history.Session
	switch {
	case sessionID != "":
		var baseURL string
		session, baseURL, err = store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		warnOtherSite(baseURL, cfg.BaseURL)
	case resume:
		var baseURL string
		session, baseURL, err = store.Latest(ctx)
		if errors.Is(err, history.ErrNoSession) {
			return fmt.Errorf("no saved session to resume; start one with `docnav browse <path>`")
		}
		if err != nil {
			return err
		}
		warnOtherSite(baseURL, cfg.BaseURL)
	default:
		session = history.NewSession(args[0])
	}

	client := content.NewClient(cfg.BaseURL, cfg.ContentEndpoint, cfg.RequestTimeout).WithLogger(logger)

	return terminal.Run(ctx, terminal.AppConfig{
		Client:  client,
		Session: session,
		Store:   store,
		Options: terminal.Options{
			Navigator: cfg.NavigatorOptions(logger),
			Layout: dom.LayoutOptions{
				LineHeight: cfg.Terminal.LineHeight,
				Width:      layoutWidth,
				Viewport:   cfg.Terminal.ViewportHeight,
			},
			Width: cfg.Terminal.Width,
		},
		FrameInterval: cfg.FrameInterval,
		Out:           os.Stdout,
		Indicator:     progress.NewIndicator(os.Stderr),
		Logger:        logger,
	})
}

func warnOtherSite(saved, configured string) {
	if saved != configured {
		fmt.Fprintf(os.Stderr, "Note: session was recorded against %s; browsing %s\n", saved, configured)
	}
}
