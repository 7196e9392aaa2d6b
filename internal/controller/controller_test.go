package controller

import (
	"bytes"
	"context"
	"errors"
	"path"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

func newUnit(session *test.Session, module, typeName, file, method string) *test.Unit {
	info := test.TypeInfo{Name: typeName, Package: path.Dir(module), File: file, Line: 12}
	ctx := test.NewContext(session, module, info, method)

	return &test.Unit{ID: ctx.ID(), Context: ctx, Instance: &test.Test{}, Method: method}
}

func sampleUnits() []*test.Unit {
	session := test.NewSession("2024-03-05--001", "/work", nil, nil)

	return []*test.Unit{
		newUnit(session, "suite/test_a", "TestA", "/work/suite/test_a.go", "TestOne"),
		newUnit(session, "suite/test_a", "TestA", "/work/suite/test_a.go", "TestTwo"),
		newUnit(session, "suite/test_b", "TestB", "/work/suite/test_b.go", "Run"),
	}
}

func newCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return cmd, &out, &errOut
}

func TestNewUI(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		isTTY   bool
		want    any
		wantErr bool
	}{
		{"default", "", false, &SimpleUI{}, false},
		{"table", FormatTable, true, &SimpleUI{}, false},
		{"yaml", FormatYAML, false, &YAMLUI{}, false},
		{"tui on terminal", FormatTUI, true, &TUI{}, false},
		{"tui without terminal", FormatTUI, false, &SimpleUI{}, false},
		{"unknown", "xml", false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, _ := newCommand()

			ui, err := NewUI(cmd, tt.format, tt.isTTY)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, ui)
		})
	}
}

func TestIsTTY_Nil(t *testing.T) {
	assert.False(t, IsTTY(nil))
}

func TestSimpleUI_DisplayUnits(t *testing.T) {
	cmd, out, _ := newCommand()

	err := NewSimpleUI(cmd).DisplayUnits(context.Background(), sampleUnits())
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "suite/test_a.TestA.TestOne")
	assert.Contains(t, got, "suite/test_a.TestA.TestTwo")
	assert.Contains(t, got, "suite/test_b.TestB.Run")
	assert.Contains(t, got, "suite/test_b.go:12")
	assert.Contains(t, got, "TOTAL TESTS 3")
	assert.Contains(t, got, "2 FILE(S)")
}

func TestSimpleUI_DisplayUnitsEmpty(t *testing.T) {
	cmd, out, _ := newCommand()

	require.NoError(t, NewSimpleUI(cmd).DisplayUnits(context.Background(), nil))
	assert.Equal(t, "No tests discovered\n", out.String())
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	cmd, out, _ := newCommand()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSimpleUI(cmd).DisplayUnits(ctx, sampleUnits())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestSimpleUI_DisplayError(t *testing.T) {
	cmd, _, errOut := newCommand()

	NewSimpleUI(cmd).DisplayError(context.Background(), errors.New("boom"))
	assert.Equal(t, "Failed while trying to discover tests: boom\n", errOut.String())
}

func TestYAMLUI_DisplayUnits(t *testing.T) {
	cmd, out, _ := newCommand()

	require.NoError(t, NewYAMLUI(cmd).DisplayUnits(context.Background(), sampleUnits()))

	var doc unitDocument
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, "2024-03-05--001", doc.Session)
	assert.Equal(t, 3, doc.Total)
	require.Len(t, doc.Tests, 3)
	assert.Equal(t, unitRow{
		ID:      "suite/test_b.TestB.Run",
		Module:  "suite/test_b",
		Package: "suite",
		Type:    "TestB",
		Method:  "Run",
		File:    "/work/suite/test_b.go",
		Line:    12,
	}, doc.Tests[2])
}

func TestYAMLUI_DisplayError(t *testing.T) {
	cmd, _, errOut := newCommand()

	NewYAMLUI(cmd).DisplayError(context.Background(), errors.New("boom"))
	assert.Equal(t, "error: boom\n", errOut.String())
}

func TestTUI_DisplayUnitsSmallList(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewTUI(&buf).DisplayUnits(context.Background(), sampleUnits()))

	got := buf.String()
	assert.Contains(t, got, "discovered tests")
	assert.Contains(t, got, "TestOne")
	assert.Contains(t, got, "Total: 3 test(s) across 2 file(s)")
	assert.NotContains(t, got, "Page")
}

func TestTUI_DisplayUnitsEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewTUI(&buf).DisplayUnits(context.Background(), nil))
	assert.Contains(t, buf.String(), "No tests discovered")
}

func manyRows(n int) []unitRow {
	rows := make([]unitRow, n)
	for i := range rows {
		rows[i] = unitRow{ID: "m.T.Test", Module: "m", Type: "T", Method: "Test", File: "m.go"}
	}

	return rows
}

func TestUnitListModel_Pagination(t *testing.T) {
	model := newUnitListModel(manyRows(30))

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 18})
	model = updated.(unitListModel)

	assert.Equal(t, 10, model.itemsPerPage())
	assert.True(t, model.needsPagination())
	assert.Equal(t, 20, model.maxOffset())

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	model = updated.(unitListModel)
	assert.Equal(t, 1, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	model = updated.(unitListModel)
	assert.Equal(t, 20, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	model = updated.(unitListModel)
	assert.Equal(t, 20, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	model = updated.(unitListModel)
	assert.Equal(t, 0, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = updated.(unitListModel)
	assert.Equal(t, 0, model.offset)

	assert.Contains(t, model.View(), "Page 1/3 | Showing 1-10 of 30")
}

func TestUnitListModel_Quit(t *testing.T) {
	model := newUnitListModel(manyRows(3))

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	model = updated.(unitListModel)

	assert.True(t, model.quitting)
	require.NotNil(t, cmd)
	assert.Empty(t, model.View())
}

func TestManifest_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, sampleUnits()))

	units, err := DecodeManifest(&buf)
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.Equal(t, "suite/test_a.TestA.TestTwo", units[1].ID)
	assert.Equal(t, units[1].ID, units[1].Context.ID())
	assert.Equal(t, "2024-03-05--001", units[1].Context.Session.ID)
	assert.Equal(t, 12, units[1].Context.Type.Line)
	assert.Equal(t, "suite", units[1].Context.Type.Package)
	assert.Nil(t, units[1].Instance)
	assert.Equal(t, buildRows(sampleUnits()), buildRows(units))
}

func TestDecodeManifest_Invalid(t *testing.T) {
	_, err := DecodeManifest(bytes.NewBufferString("tests: [unterminated"))
	assert.Error(t, err)
}
