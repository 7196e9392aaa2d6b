package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"ducktape.dev/pkg/ducktape/pkg/test"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	fileStyle   = lipgloss.NewStyle().Faint(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayUnits shows the units, paging through them when they do not fit
// on the screen.
func (p *TUI) DisplayUnits(ctx context.Context, units []*test.Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newUnitListModel(buildRows(units))

	// Get initial terminal size
	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(f.Fd())
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If list is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayError prints a discovery failure.
func (p *TUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	_, _ = fmt.Fprintln(p.output, errorStyle.Render("Failed while trying to discover tests: "+err.Error()))
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Quit},
	}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "u"), key.WithHelp("u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "d"), key.WithHelp("d", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// unitListModel represents the Bubble Tea model for paging through units.
type unitListModel struct {
	rows     []unitRow
	files    int
	help     help.Model
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newUnitListModel(rows []unitRow) unitListModel {
	return unitListModel{
		rows:  rows,
		files: countFiles(rows),
		help:  help.New(),
	}
}

func (ulm unitListModel) Init() tea.Cmd {
	return nil
}

func (ulm unitListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ulm.height = msg.Height
		ulm.width = msg.Width
		ulm.help.Width = msg.Width
		ulm.offset = ulm.clamp(ulm.offset)

		return ulm, nil

	case tea.KeyMsg:
		return ulm.handleKeyPress(msg)
	}

	return ulm, nil
}

func (ulm unitListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		ulm.quitting = true
		return ulm, tea.Quit
	case key.Matches(msg, keys.Down):
		ulm.offset = ulm.clamp(ulm.offset + 1)
	case key.Matches(msg, keys.Up):
		ulm.offset = ulm.clamp(ulm.offset - 1)
	case key.Matches(msg, keys.PageDown):
		ulm.offset = ulm.clamp(ulm.offset + ulm.itemsPerPage())
	case key.Matches(msg, keys.PageUp):
		ulm.offset = ulm.clamp(ulm.offset - ulm.itemsPerPage())
	case key.Matches(msg, keys.Top):
		ulm.offset = 0
	case key.Matches(msg, keys.Bottom):
		ulm.offset = ulm.maxOffset()
	}

	return ulm, nil
}

func (ulm unitListModel) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if maxOffset := ulm.maxOffset(); offset > maxOffset {
		return maxOffset
	}

	return offset
}

// itemsPerPage calculates how many items can fit on screen.
func (ulm unitListModel) itemsPerPage() int {
	if ulm.height == 0 {
		return 10 // Default
	}
	// Reserve space for the title, the total line and the footer.
	reserved := 8

	available := ulm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (ulm unitListModel) maxOffset() int {
	maxOff := len(ulm.rows) - ulm.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

// needsPagination returns true if the list is too large to fit on screen.
func (ulm unitListModel) needsPagination() bool {
	if len(ulm.rows) == 0 {
		return false
	}

	return len(ulm.rows) > ulm.itemsPerPage() && ulm.height > 0
}

func (ulm unitListModel) View() string {
	if ulm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("ducktape - discovered tests"))
	b.WriteString("\n\n")

	if len(ulm.rows) == 0 {
		b.WriteString("  No tests discovered\n")
		return b.String()
	}

	ulm.renderUnitList(&b)

	return b.String()
}

func (ulm unitListModel) renderUnitList(b *strings.Builder) {
	total := len(ulm.rows)
	paginate := ulm.needsPagination()

	start, end := 0, total
	if paginate {
		start = ulm.clamp(ulm.offset)
		end = min(start+ulm.itemsPerPage(), total)
	}

	for _, row := range ulm.rows[start:end] {
		fmt.Fprintf(b, "  %s.%s %s\n",
			typeStyle.Render(row.Type),
			row.Method,
			fileStyle.Render(row.Module))
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "  Total: %d test(s) across %d file(s)\n", total, ulm.files)

	// Footer with navigation help
	if paginate {
		perPage := ulm.itemsPerPage()
		currentPage := (start / perPage) + 1
		totalPages := (total + perPage - 1) / perPage

		b.WriteString("\n")
		b.WriteString(footerStyle.Render(fmt.Sprintf("  Page %d/%d | Showing %d-%d of %d", currentPage, totalPages, start+1, end, total)))
		b.WriteString("\n  ")
		b.WriteString(ulm.help.View(keys))
		b.WriteString("\n")
	}
}
