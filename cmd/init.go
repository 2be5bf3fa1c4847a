package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docnav/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docnav configuration with an interactive wizard",
	Long: `Runs an interactive wizard that points docnav at a documentation site and writes the .docnav.yml file named by --config.
An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfigTarget(cfgFile, initForce); err != nil {
			return err
		}
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Browsing %s. Start with: docnav browse %s\n", cfg.BaseURL, startPath(cfg.LinkPatterns))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

// checkConfigTarget refuses to overwrite an existing config without force.
func checkConfigTarget(path string, force bool) error {
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("checking %s: %w", path, err)
	case !force:
		return fmt.Errorf("%s already exists; rerun with --force to replace it", path)
	}
	return nil
}

// startPath suggests a first page from the in-site link patterns: the
// literal directory before the first glob character of the first pattern.
func startPath(patterns []string) string {
	if len(patterns) == 0 {
		return "/"
	}
	p := patterns[0]
	for i, r := range p {
		if r == '*' || r == '?' || r == '[' || r == '{' {
			p = p[:i]
			break
		}
	}
	if p == "" {
		return "/"
	}
	return p
}
