package controller

import (
	"context"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

// YAMLUI prints discovered units as a yaml document for other tools.
type YAMLUI struct {
	cmd *cobra.Command
}

// NewYAMLUI creates a new YAMLUI.
func NewYAMLUI(cmd *cobra.Command) *YAMLUI {
	return &YAMLUI{cmd: cmd}
}

// DisplayUnits encodes the units to the command output.
func (y *YAMLUI) DisplayUnits(ctx context.Context, units []*test.Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return EncodeManifest(y.cmd.OutOrStdout(), units)
}

// DisplayError writes the failure as a yaml document on stderr.
func (y *YAMLUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	out, _ := yaml.Marshal(map[string]string{"error": err.Error()})
	_, _ = y.cmd.ErrOrStderr().Write(out)
}
