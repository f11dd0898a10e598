package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), version, info, verbose)
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Include commit and toolchain")
}

func printVersion(w io.Writer, v string, info *debug.BuildInfo, verbose bool) {
	fmt.Fprintln(w, "langdrill", v)
	if !verbose {
		return
	}
	if info == nil {
		fmt.Fprintf(w, "  go      %s\n", runtime.Version())
		return
	}
	settings := map[string]string{}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	if rev := settings["vcs.revision"]; rev != "" {
		if settings["vcs.modified"] == "true" {
			rev += " (dirty)"
		}
		fmt.Fprintf(w, "  commit  %s\n", rev)
	}
	if t := settings["vcs.time"]; t != "" {
		fmt.Fprintf(w, "  built   %s\n", t)
	}
	fmt.Fprintf(w, "  go      %s %s/%s\n", info.GoVersion, runtime.GOOS, runtime.GOARCH)
}
