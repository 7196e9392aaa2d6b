package cmd

import (
	"bytes"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ducktape.dev/pkg/ducktape/internal/controller"
	"ducktape.dev/pkg/ducktape/internal/session"
)

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [session-id]",
		Short: "View the tests recorded by an earlier session",
		Long: `View the tests a discovery session recorded in its results directory.
Without an id the newest session, reached through the "latest" link, is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id := session.LatestLinkName
	if len(args) == 1 {
		id = args[0]
	}

	ui, err := newCommandUI(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	manager := session.NewManager(sessionStore, globalLogger)

	manifest, err := manager.Manifest(viper.GetString(resultsRootConfigKey), id)
	if err != nil {
		ui.DisplayError(ctx, err)
		return err
	}

	units, err := controller.DecodeManifest(bytes.NewReader(manifest))
	if err != nil {
		ui.DisplayError(ctx, err)
		return err
	}

	return ui.DisplayUnits(ctx, units)
}
