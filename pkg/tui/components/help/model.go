// Package help shows the key reference next to the calendar while the list
// is hidden. The reference is help.md rendered with glamour into a viewport.
package help

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/agenda/pkg/tui/theme"
)

//go:embed help.md
var helpMarkdown string

const (
	minWidth  = 32
	minHeight = 8
	// narrowest wrap glamour is asked for
	minWrap = 10
)

// Model is the help pane.
type Model struct {
	vp    viewport.Model
	th    theme.PanelTheme
	outer [2]int
	// wrap is the width the current content was rendered for.
	wrap int
	err  error
}

// New sizes the pane to width x height, never smaller than 32x8.
func New(width, height int, th theme.PanelTheme) *Model {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	m := &Model{vp: vp, th: th}
	m.SetSize(width, height)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update scrolls the reference. g and G jump to either end.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "g", "home":
			m.vp.GotoTop()
			return m, nil
		case "G", "end":
			m.vp.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View draws a title line with the scroll position above the reference.
func (m *Model) View() string {
	title := m.th.Title.Render(fmt.Sprintf("keys %3.f%%", m.vp.ScrollPercent()*100))
	body := m.vp.View()
	if m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	inner := lipgloss.JoinVertical(lipgloss.Left, title, body)
	return m.th.FocusedFrame.Width(m.outer[0]).Height(m.outer[1]).Render(inner)
}

// Err is the glamour error from the last render, if any.
func (m *Model) Err() error { return m.err }

// SetSize resizes the pane, frame included. The markdown is rendered again
// only when the wrap width changes.
func (m *Model) SetSize(width, height int) {
	width = max(width, minWidth)
	height = max(height, minHeight)
	m.outer = [2]int{width, height}

	innerW := max(width-m.th.FocusedFrame.GetHorizontalFrameSize(), 1)
	// One line goes to the title.
	innerH := max(height-m.th.FocusedFrame.GetVerticalFrameSize()-1, 1)
	m.vp.SetWidth(innerW)
	m.vp.SetHeight(innerH)

	if wrap := max(innerW, minWrap); wrap != m.wrap {
		m.render(wrap)
	}
}

func (m *Model) render(wrap int) {
	m.wrap = wrap
	// notty keeps the output free of escape codes; the frame supplies the
	// colour.
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		var out string
		if out, err = r.Render(strings.TrimSpace(helpMarkdown)); err == nil {
			m.err = nil
			m.vp.SetContent(strings.Trim(out, "\n"))
			m.vp.GotoTop()
			return
		}
	}
	m.err = err
	m.vp.SetContent("")
}
