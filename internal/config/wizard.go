package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docnav! Let's point it at your documentation site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site origin.
	basePrompt := promptui.Prompt{
		Label:    "Documentation site URL",
		Default:  cfg.BaseURL,
		Validate: validateBaseURL,
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")

	// 2. Content endpoint.
	endpointPrompt := promptui.Prompt{
		Label:   "Article fragment endpoint",
		Default: cfg.ContentEndpoint,
		Validate: func(s string) error {
			if !strings.HasPrefix(s, "/") {
				return fmt.Errorf("endpoint must start with /")
			}
			return nil
		},
	}
	if cfg.ContentEndpoint, err = endpointPrompt.Run(); err != nil {
		return nil, fmt.Errorf("content endpoint: %w", err)
	}

	// 3. In-site links.
	linksPrompt := promptui.Prompt{
		Label:    "In-site link patterns (comma-separated globs)",
		Default:  strings.Join(cfg.LinkPatterns, ","),
		Validate: validatePatternList,
	}
	links, err := linksPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("link patterns: %w", err)
	}
	cfg.LinkPatterns = splitAndTrim(links)

	// 4. History.
	historyPrompt := promptui.Select{
		Label: "Remember browsing sessions",
		Items: []string{
			"yes - in " + DefaultHistoryDB,
			"yes - next to this config (.docnav/history.db)",
		},
	}
	idx, _, err := historyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history selection: %w", err)
	}
	if idx == 1 {
		cfg.HistoryDB = ".docnav/history.db"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePatternList(s string) error {
	patterns := splitAndTrim(s)
	if len(patterns) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
