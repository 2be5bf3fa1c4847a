package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build information set via ldflags. Empty values fall back to the module's
// build info.
var (
	Version = ""
	Commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of docnav",
	Long:  `Prints the docnav version, the commit it was built from and the Go toolchain and platform of the binary.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		writeVersion(cmd.OutOrStdout(), info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func writeVersion(w io.Writer, info *debug.BuildInfo) {
	fmt.Fprintf(w, "docnav %s\n", buildVersion(info))
	fmt.Fprintf(w, "  commit: %s\n", buildCommit(info))
	fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// buildVersion prefers the ldflags version, then the module version.
func buildVersion(info *debug.BuildInfo) string {
	if Version != "" {
		return Version
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// buildCommit prefers the ldflags commit, then the VCS revision, shortened
// to seven characters.
func buildCommit(info *debug.BuildInfo) string {
	commit := Commit
	if commit == "" && info != nil {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				commit = s.Value
			}
		}
	}
	if commit == "" {
		return "unknown"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return commit
}
