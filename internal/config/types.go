package config

import "time"

// Config is the top-level docnav configuration, corresponding to .docnav.yml.
type Config struct {
	BaseURL         string   `yaml:"base_url" koanf:"base_url"`
	ContentEndpoint string   `yaml:"content_endpoint" koanf:"content_endpoint"`
	LinkPatterns    []string `yaml:"link_patterns" koanf:"link_patterns"`

	CacheCapacity    int           `yaml:"cache_capacity" koanf:"cache_capacity"`
	SpinnerDelay     time.Duration `yaml:"spinner_delay" koanf:"spinner_delay"`
	ScrollDuration   time.Duration `yaml:"scroll_duration" koanf:"scroll_duration"`
	CollapseDuration time.Duration `yaml:"collapse_duration" koanf:"collapse_duration"`
	HeaderHeight     float64       `yaml:"header_height" koanf:"header_height"`
	FrameInterval    time.Duration `yaml:"frame_interval" koanf:"frame_interval"`
	RequestTimeout   time.Duration `yaml:"request_timeout" koanf:"request_timeout"`

	HistoryDB string `yaml:"history_db" koanf:"history_db"`

	Terminal TerminalConfig `yaml:"terminal" koanf:"terminal"`
}

// TerminalConfig holds settings of the terminal client's page layout.
type TerminalConfig struct {
	ViewportHeight float64 `yaml:"viewport_height" koanf:"viewport_height"`
	LineHeight     float64 `yaml:"line_height" koanf:"line_height"`
	// Width is the wrap width in columns; zero detects the terminal width.
	Width int `yaml:"width" koanf:"width"`
}
