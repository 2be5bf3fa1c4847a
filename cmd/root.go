package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docnav",
	Short: "Browse documentation sites with in-place article navigation",
	Long: `docnav drives the navigation engine of a documentation site. Article links
are loaded in place from the site's content endpoint, the table of contents
follows the current article, and back/forward restore the exact scroll
position. The browse command runs the engine in the terminal and remembers
sessions so they can be resumed.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docnav.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
