package config

import (
	"time"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/navigator"
	"github.com/ziadkadry99/docnav/internal/pagecache"
	"github.com/ziadkadry99/docnav/internal/scroll"
	"github.com/ziadkadry99/docnav/internal/toc"
)

// DefaultConfigFile is the configuration file read from the working directory.
const DefaultConfigFile = ".docnav.yml"

// DefaultHistoryDB is where browsing sessions are stored. A leading ~ is the
// user's home directory.
const DefaultHistoryDB = "~/.docnav/history.db"

// DefaultLinkPatterns are the in-site link globs of the documentation theme.
var DefaultLinkPatterns = []string{"/docs/*", "/docs/**/*"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	scrollOpts := scroll.DefaultOptions()
	return &Config{
		BaseURL:          "http://localhost:8080",
		ContentEndpoint:  content.DefaultEndpoint,
		LinkPatterns:     append([]string(nil), DefaultLinkPatterns...),
		CacheCapacity:    pagecache.DefaultCapacity,
		SpinnerDelay:     navigator.DefaultSpinnerDelay,
		ScrollDuration:   scrollOpts.Duration,
		CollapseDuration: toc.DefaultCollapseDuration,
		HeaderHeight:     scrollOpts.HeaderHeight,
		FrameInterval:    16 * time.Millisecond,
		RequestTimeout:   30 * time.Second,
		HistoryDB:        DefaultHistoryDB,
		Terminal: TerminalConfig{
			ViewportHeight: 600,
			LineHeight:     20,
		},
	}
}
