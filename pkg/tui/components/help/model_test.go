package help

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/agenda/pkg/tui/theme"
)

func plain(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			esc = true
		case esc:
			esc = !ansi.IsTerminator(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestHelpRendersKeys(t *testing.T) {
	m := New(60, 60, theme.Default().Panel)
	if err := m.Err(); err != nil {
		t.Fatalf("render help: %v", err)
	}
	view := plain(m.View())
	for _, want := range []string{"previous / next day", "previous / next month", "keys"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in help, got:\n%s", want, view)
		}
	}
}

func TestHelpClampsSize(t *testing.T) {
	m := New(1, 1, theme.Default().Panel)
	if m.outer != [2]int{minWidth, minHeight} {
		t.Fatalf("expected minimum size %dx%d, got %v", minWidth, minHeight, m.outer)
	}
}

func TestHelpJumpsToEnds(t *testing.T) {
	m := New(40, 10, theme.Default().Panel)
	m, _ = m.Update(tea.KeyPressMsg{Code: 'G', Text: "G"})
	if !m.vp.AtBottom() {
		t.Fatalf("expected G to reach the bottom")
	}
	if !strings.Contains(plain(m.View()), "quit") {
		t.Fatalf("expected the last section at the bottom, got:\n%s", plain(m.View()))
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	if !m.vp.AtTop() {
		t.Fatalf("expected g to return to the top")
	}
}

func TestHelpRerendersOnlyForNewWidth(t *testing.T) {
	m := New(40, 10, theme.Default().Panel)
	wrap := m.wrap
	m.SetSize(40, 30)
	if m.wrap != wrap {
		t.Fatalf("height change must not re-render, wrap %d -> %d", wrap, m.wrap)
	}
	m.SetSize(70, 30)
	if m.wrap == wrap {
		t.Fatalf("expected a re-render for the wider pane")
	}
}
