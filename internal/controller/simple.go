package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayUnits prints the discovered units as a table.
func (s *SimpleUI) DisplayUnits(ctx context.Context, units []*test.Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(units) == 0 {
		s.printf("No tests discovered\n")
		return nil
	}

	s.printf("\n%s", renderUnitTable(buildRows(units)))

	return nil
}

// DisplayError prints a discovery failure.
func (s *SimpleUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "Failed while trying to discover tests: %v\n", err)
}

func renderUnitTable(rows []unitRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Test", "Type", "Method", "File"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, row := range rows {
		file := shortFile(row.File)
		if row.Line > 0 {
			file = fmt.Sprintf("%s:%d", file, row.Line)
		}

		table.Append([]string{row.ID, row.Type, row.Method, file})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Tests %d", len(rows)),
		"",
		"",
		fmt.Sprintf("%d file(s)", countFiles(rows)),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
