package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/docnav/internal/navigator"
	"github.com/ziadkadry99/docnav/internal/scroll"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCNAV_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCNAV_BASE_URL -> base_url,
	// DOCNAV_TERMINAL__WIDTH -> terminal.width.
	if err := k.Load(env.Provider("DOCNAV_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DOCNAV_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if !strings.HasPrefix(c.ContentEndpoint, "/") {
		return fmt.Errorf("content_endpoint %q must start with /", c.ContentEndpoint)
	}

	if len(c.LinkPatterns) == 0 {
		return fmt.Errorf("link_patterns is required")
	}
	for _, p := range c.LinkPatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid link pattern %q", p)
		}
	}

	if c.CacheCapacity <= 0 {
		return fmt.Errorf("cache_capacity must be positive")
	}
	if c.SpinnerDelay <= 0 {
		return fmt.Errorf("spinner_delay must be positive")
	}
	if c.ScrollDuration <= 0 {
		return fmt.Errorf("scroll_duration must be positive")
	}
	if c.CollapseDuration <= 0 {
		return fmt.Errorf("collapse_duration must be positive")
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}
	if c.HeaderHeight < 0 {
		return fmt.Errorf("header_height must be non-negative")
	}

	if c.HistoryDB == "" {
		return fmt.Errorf("history_db is required")
	}

	if c.Terminal.ViewportHeight <= 0 {
		return fmt.Errorf("terminal.viewport_height must be positive")
	}
	if c.Terminal.LineHeight <= 0 {
		return fmt.Errorf("terminal.line_height must be positive")
	}
	if c.Terminal.Width < 0 {
		return fmt.Errorf("terminal.width must be non-negative")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", raw)
	}
	return nil
}

// HistoryPath returns the history database path with a leading ~ expanded.
func (c *Config) HistoryPath() (string, error) {
	p := c.HistoryDB
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// NavigatorOptions returns the navigation engine settings of c.
func (c *Config) NavigatorOptions(logger *slog.Logger) navigator.Options {
	opts := navigator.DefaultOptions()
	opts.LinkPatterns = c.LinkPatterns
	opts.CacheCapacity = c.CacheCapacity
	opts.SpinnerDelay = c.SpinnerDelay
	opts.CollapseDuration = c.CollapseDuration
	opts.Scroll = scroll.Options{
		Duration:     c.ScrollDuration,
		HeaderHeight: c.HeaderHeight,
		MaxLead:      scroll.DefaultOptions().MaxLead,
	}
	opts.Logger = logger
	return opts
}
