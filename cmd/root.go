// Package cmd provides the root command and CLI setup for ducktape.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	"ducktape.dev/pkg/ducktape/internal/domain"
	"ducktape.dev/pkg/ducktape/pkg/test"
)

// LoaderFactory builds the loader used by a discovery run.
type LoaderFactory func(opts domain.Options, session *test.Session) (domain.Loader, error)

var loaderFactory LoaderFactory
var sessionStore adapter.SessionStore

// resultsRootFlag is a root-level flag shared by commands that create sessions.
var resultsRootFlag string

// logFileFlag overrides the rotating log file location.
var logFileFlag string

// verboseFlag lowers the log level to debug.
var verboseFlag bool

// formatFlag selects how discovered tests are printed.
var formatFlag string

func init() {
	// Initialize shared dependencies.
	sessionStore = adapter.NewLocalSessionStore()
	loaderFactory = func(opts domain.Options, session *test.Session) (domain.Loader, error) {
		return domain.NewLocalLoader(opts, session, test.DefaultPrototypes())
	}

	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newViewCmd())
}

const symbolsHelp = `A discovery symbol is a path to a directory or a Go source file, optionally
followed by "::" and the name of a single test type:
  - ./tests                          every test below ./tests
  - ./tests/test_client.go           every test type in one file
  - ./tests/test_client.go::Client   one test type

Only directories holding the package marker (doc.go by default) are
descended into.`

const rootLongDescription = `Ducktape discovers system tests written as Go types: every leaf type
embedding test.Test in a matching file becomes one or more runnable units,
one per test method.

` + symbolsHelp

const discoverLongDescription = `Discover tests for the given symbols (default: current directory) and
print them without running anything.

` + symbolsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ducktape",
		Short: "System test discovery tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey), debugTee(cmd))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&resultsRootFlag, resultsRootFlagName, "o",
			viper.GetString(resultsRootConfigKey),
			"directory receiving one results directory per session",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(resultsRootFlagName), resultsRootConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(formatConfigKey), "output format: table, yaml or tui")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatConfigKey)
}

// debugTee returns the stream that mirrors the log when --debug is set.
// Commands without the flag never mirror.
func debugTee(cmd *cobra.Command) io.Writer {
	if debug, err := cmd.Flags().GetBool(debugFlagName); err == nil && debug {
		return cmd.ErrOrStderr()
	}

	return nil
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
