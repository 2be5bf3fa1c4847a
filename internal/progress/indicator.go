package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Indicator provides feedback while an article is loading.
type Indicator interface {
	Start(message string)
	Tick()
	Stop()
}

// NewIndicator returns a TerminalIndicator if w is an interactive terminal,
// or a LineIndicator if the CI environment variable is set or w is not a
// terminal.
func NewIndicator(w io.Writer) Indicator {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineIndicator{w: w}
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &TerminalIndicator{w: w}
	}
	return &LineIndicator{w: w}
}

// TerminalIndicator displays a spinner in the terminal.
type TerminalIndicator struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalIndicator) Start(message string) {
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalIndicator) Tick() {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *TerminalIndicator) Stop() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// LineIndicator prints one line per load, suitable for logs and pipes.
type LineIndicator struct {
	w       io.Writer
	message string
	ticks   int
}

// NewLineIndicator returns a LineIndicator writing to w.
func NewLineIndicator(w io.Writer) *LineIndicator {
	return &LineIndicator{w: w}
}

func (r *LineIndicator) Start(message string) {
	r.message = message
	r.ticks = 0
	fmt.Fprintf(r.w, "%s...\n", message)
}

func (r *LineIndicator) Tick() {
	r.ticks++
}

func (r *LineIndicator) Stop() {
	if r.message == "" {
		return
	}
	fmt.Fprintf(r.w, "%s: done\n", r.message)
	r.message = ""
}
