package cmd

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ducktape.dev/pkg/ducktape/internal/controller"
	"ducktape.dev/pkg/ducktape/internal/session"
	"ducktape.dev/pkg/ducktape/pkg/test"
)

var filePatternFlag string
var methodPatternFlag string
var packageMarkerFlag string
var debugFlag bool
var noSessionFlag bool

func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "discover [symbols...]",
		Aliases: []string{"collect"},
		Short:   "Discover tests without running them",
		Long:    discoverLongDescription,
		RunE:    runDiscover,
	}

	configureDiscoverFlags(cmd)

	return cmd
}

func configureDiscoverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filePatternFlag, filePatternFlagName, viper.GetString(filePatternConfigKey), "regular expression selecting test files by base name")
	bindFlagToConfig(cmd.Flags().Lookup(filePatternFlagName), filePatternConfigKey)

	cmd.Flags().StringVar(&methodPatternFlag, methodPatternFlagName, viper.GetString(methodPatternConfigKey), "regular expression selecting test methods")
	bindFlagToConfig(cmd.Flags().Lookup(methodPatternFlagName), methodPatternConfigKey)

	cmd.Flags().StringVar(&packageMarkerFlag, packageMarkerFlagName, viper.GetString(packageMarkerConfigKey), "file marking a directory as part of a test package")
	bindFlagToConfig(cmd.Flags().Lookup(packageMarkerFlagName), packageMarkerConfigKey)

	cmd.Flags().BoolVar(&debugFlag, debugFlagName, false, "mirror debug logging to stderr")
	cmd.Flags().BoolVar(&noSessionFlag, noSessionFlagName, false, "do not allocate a session id or results directory")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	symbols := args
	if len(symbols) == 0 {
		symbols = []string{"."}
	}

	ui, err := newCommandUI(cmd)
	if err != nil {
		return err
	}

	opts, err := discoveryOptions()
	if err != nil {
		return err
	}

	// Usage is only useful for flag and argument mistakes.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	manager := session.NewManager(sessionStore, globalLogger)

	sess, err := startSession(cmd, manager)
	if err != nil {
		ui.DisplayError(ctx, err)
		return err
	}

	loader, err := loaderFactory(opts, sess)
	if err != nil {
		ui.DisplayError(ctx, err)
		return err
	}

	units, err := loader.Discover(symbols)
	if err != nil {
		ui.DisplayError(ctx, err)
		return err
	}

	recordUnits(manager, sess, units)

	return ui.DisplayUnits(ctx, units)
}

// newCommandUI builds the UI selected by the output format. The pager needs
// the command to write to a terminal.
func newCommandUI(cmd *cobra.Command) (controller.UI, error) {
	out, _ := cmd.OutOrStdout().(*os.File)

	return controller.NewUI(cmd, viper.GetString(formatConfigKey), controller.IsTTY(out))
}

func startSession(cmd *cobra.Command, manager *session.Manager) (*test.Session, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	noSession, _ := cmd.Flags().GetBool(noSessionFlagName)
	debug, _ := cmd.Flags().GetBool(debugFlagName)

	return manager.Start(session.Config{
		WorkDir:     workDir,
		ResultsRoot: viper.GetString(resultsRootConfigKey),
		MetadataDir: viper.GetString(metadataDirConfigKey),
		Ephemeral:   noSession,
		Debug:       debug,
		Args:        test.Args(viper.AllSettings()),
	})
}

// recordUnits keeps the discovered tests with the session results. Failures
// are logged and never fail discovery.
func recordUnits(manager *session.Manager, sess *test.Session, units []*test.Unit) {
	var manifest bytes.Buffer
	if err := controller.EncodeManifest(&manifest, units); err != nil {
		sess.Log().Warn("could not encode discovered tests", "session", sess.ID, "error", err)
		return
	}

	if err := manager.Record(sess, manifest.Bytes()); err != nil {
		sess.Log().Warn("could not record discovered tests", "session", sess.ID, "error", err)
	}
}
