// Package controller provides output adapters for displaying discovered tests.
package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

// Output formats accepted by NewUI.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatTUI   = "tui"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatYAML, FormatTUI}

// UI defines the interface for displaying discovery results.
// Implementations can use different output methods (table, yaml, TUI).
type UI interface {
	DisplayUnits(ctx context.Context, units []*test.Unit) error
	DisplayError(ctx context.Context, err error)
}

// NewUI selects the UI for format. The interactive pager is only used on a
// terminal; elsewhere it degrades to the table.
func NewUI(cmd *cobra.Command, format string, isTTY bool) (UI, error) {
	switch format {
	case "", FormatTable:
		return NewSimpleUI(cmd), nil
	case FormatYAML:
		return NewYAMLUI(cmd), nil
	case FormatTUI:
		if !isTTY {
			return NewSimpleUI(cmd), nil
		}

		return NewTUI(cmd.OutOrStdout()), nil
	default:
		return nil, fmt.Errorf("unknown output format %q, expected one of %v", format, Formats)
	}
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// unitRow is the flattened view of a unit shared by every renderer.
type unitRow struct {
	ID      string `yaml:"id"`
	Module  string `yaml:"module"`
	Package string `yaml:"package"`
	Type    string `yaml:"type"`
	Method  string `yaml:"method"`
	File    string `yaml:"file"`
	Line    int    `yaml:"line"`
}

func buildRows(units []*test.Unit) []unitRow {
	rows := make([]unitRow, 0, len(units))

	for _, unit := range units {
		row := unitRow{ID: unit.ID, Method: unit.Method}

		if unit.Context != nil {
			row.Module = unit.Context.Module
			row.Package = unit.Context.Type.Package
			row.Type = unit.Context.TypeName
			row.File = unit.Context.Type.File
			row.Line = unit.Context.Type.Line
		}

		rows = append(rows, row)
	}

	return rows
}

// countFiles returns the number of distinct source files behind rows.
func countFiles(rows []unitRow) int {
	files := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		files[row.File] = struct{}{}
	}

	return len(files)
}

// shortFile trims file to its directory and base name.
func shortFile(file string) string {
	if file == "" {
		return ""
	}

	return filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file))
}
