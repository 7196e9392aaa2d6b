package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ducktape version",
		Long:  "Prints the ducktape release together with the commit and Go toolchain it was built from.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			cmd.Println(describeBuild(info))
		},
	}
}

// describeBuild renders info as "ducktape <version> (<commit>) <go version>".
func describeBuild(info *debug.BuildInfo) string {
	if info == nil {
		return "ducktape (unknown build)"
	}

	version := info.Main.Version
	if version == "" {
		version = "(devel)"
	}

	line := "ducktape " + version

	var revision, modified string

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}

	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}

		if modified == "true" {
			revision += "+dirty"
		}

		line = fmt.Sprintf("%s (%s)", line, revision)
	}

	if info.GoVersion != "" {
		line += " " + info.GoVersion
	}

	return line
}
