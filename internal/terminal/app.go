package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/history"
	"github.com/ziadkadry99/docnav/internal/loop"
	"github.com/ziadkadry99/docnav/internal/progress"
)

const pollInterval = 50 * time.Millisecond

// Menu actions.
const (
	actionFollow  = "Follow a link"
	actionBack    = "Back"
	actionForward = "Forward"
	actionDown    = "Scroll down"
	actionUp      = "Scroll up"
	actionToggle  = "Open or close a contents group"
	actionMenu    = "Show or hide the contents menu"
	actionQuit    = "Quit"
)

// AppConfig wires an interactive session.
type AppConfig struct {
	Client  *content.Client
	Session *history.Session
	// Store persists the session after every step. May be nil.
	Store         *history.Store
	Options       Options
	FrameInterval time.Duration
	Out           io.Writer
	Indicator     progress.Indicator
	Logger        *slog.Logger
}

// App runs a Browser on a live loop and drives it from prompts.
type App struct {
	ctx     context.Context
	cfg     AppConfig
	loop    *loop.Loop
	browser *Browser
}

// DetectWidth returns the width of the terminal attached to stdout, or
// DefaultWidth.
func DetectWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// Run loads the session's page and runs the interactive menu until the user
// quits or ctx is done.
func Run(ctx context.Context, cfg AppConfig) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Indicator == nil {
		cfg.Indicator = progress.NewIndicator(os.Stderr)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Options.Width == 0 {
		cfg.Options.Width = DetectWidth()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := &App{ctx: ctx, cfg: cfg, loop: loop.New(cfg.FrameInterval)}
	go func() {
		if err := app.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Logger.Error("terminal: loop stopped", "error", err)
		}
	}()

	pathname, _ := cfg.Session.Location()
	cfg.Indicator.Start("Loading " + pathname)
	src, err := LoadDocument(ctx, cfg.Client, cfg.Session)
	cfg.Indicator.Stop()
	if err != nil {
		return err
	}

	fetcher := content.NewAsync(cfg.Client, app.loop)
	app.call(func() {
		app.browser, err = New(src, cfg.Session, fetcher, app.loop, cfg.Options)
	})
	if err != nil {
		return err
	}

	for ctx.Err() == nil {
		app.wait(ctx)
		app.save(ctx)
		app.call(func() { app.browser.Render(cfg.Out) })

		quit, err := app.step()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if quit {
			return nil
		}
	}
	return ctx.Err()
}

// call runs fn on the loop and waits for it, or for the session to end.
func (a *App) call(fn func()) {
	done := make(chan struct{})
	a.loop.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-a.ctx.Done():
	}
}

// wait blocks while the browser is fetching or animating, showing the
// indicator once a fetch is pending.
func (a *App) wait(ctx context.Context) {
	started := false
	for {
		var busy, pending bool
		a.call(func() {
			busy = a.browser.Busy()
			pending = a.browser.Controller().Pending()
		})
		if !busy {
			break
		}
		if pending && !started {
			pathname, _ := a.cfg.Session.Location()
			a.cfg.Indicator.Start("Loading " + pathname)
			started = true
		}
		if started {
			a.cfg.Indicator.Tick()
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(pollInterval):
		}
	}
	if started {
		a.cfg.Indicator.Stop()
	}
}

func (a *App) save(ctx context.Context) {
	if a.cfg.Store == nil {
		return
	}
	var err error
	a.call(func() {
		err = a.cfg.Store.Save(ctx, a.cfg.Client.BaseURL(), a.cfg.Session)
	})
	if err != nil {
		a.cfg.Logger.Warn("terminal: saving history failed", "error", err)
	}
}

// step prompts for one action and performs it.
func (a *App) step() (quit bool, err error) {
	menu := promptui.Select{
		Label: "Action",
		Items: []string{actionFollow, actionDown, actionUp, actionBack, actionForward, actionToggle, actionMenu, actionQuit},
		Size:  8,
	}
	_, choice, err := menu.Run()
	if err != nil {
		return false, err
	}

	switch choice {
	case actionQuit:
		return true, nil
	case actionFollow:
		return false, a.follow()
	case actionToggle:
		return false, a.toggle()
	case actionBack:
		a.call(func() { err = a.browser.Back() })
	case actionForward:
		a.call(func() { err = a.browser.Forward() })
	case actionDown:
		a.call(func() { a.browser.ScrollPage(1) })
	case actionUp:
		a.call(func() { a.browser.ScrollPage(-1) })
	case actionMenu:
		a.call(func() { err = a.browser.ToggleSidebar() })
	}
	if errors.Is(err, history.ErrNoEntry) || errors.Is(err, ErrNoMenuButton) {
		fmt.Fprintf(a.cfg.Out, "%v\n", err)
		return false, nil
	}
	return false, err
}

func (a *App) follow() error {
	var links []Link
	a.call(func() { links = a.browser.Links() })
	if len(links) == 0 {
		fmt.Fprintln(a.cfg.Out, "no links on this page")
		return nil
	}

	items := make([]string, len(links))
	for i, l := range links {
		items[i] = fmt.Sprintf("[%d] %s  %s", l.Index, l.Text, l.Href)
	}
	prompt := promptui.Select{
		Label: "Link",
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return err
	}

	var taken bool
	a.call(func() { taken = a.browser.Follow(links[idx]) })
	if !taken {
		fmt.Fprintf(a.cfg.Out, "%s leaves the documentation; open it in a browser\n", links[idx].Href)
	}
	return nil
}

func (a *App) toggle() error {
	var groups []Group
	a.call(func() { groups = a.browser.Groups() })
	if len(groups) == 0 {
		fmt.Fprintln(a.cfg.Out, "no contents groups on this page")
		return nil
	}

	items := make([]string, len(groups))
	for i, g := range groups {
		state := "closed"
		if g.Open {
			state = "open"
		}
		items[i] = fmt.Sprintf("%s (%s)", g.Label, state)
	}
	prompt := promptui.Select{Label: "Group", Items: items, Size: 10}
	idx, _, err := prompt.Run()
	if err != nil {
		return err
	}
	a.call(func() { a.browser.ToggleGroup(groups[idx]) })
	return nil
}
