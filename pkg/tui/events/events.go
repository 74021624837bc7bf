// Package events holds the messages Bubble Tea components use to talk to
// each other.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// DayChangeMsg is emitted when the user scrolls the list onto another day.
type DayChangeMsg struct {
	Component ComponentID
	Day       day.Day
}

// Describe renders the change in a human-friendly format for logs.
func (m DayChangeMsg) Describe() string {
	return fmt.Sprintf(`component:%q day:%q`, m.Component, m.Day.Key())
}

// DayChangeCmd wraps a DayChangeMsg in a tea.Cmd.
func DayChangeCmd(id ComponentID, d day.Day) tea.Cmd {
	return func() tea.Msg {
		return DayChangeMsg{Component: id, Day: d}
	}
}

// RefreshMsg asks the owner of the data to reload it.
type RefreshMsg struct {
	Component ComponentID
}

// Describe renders the request for logs.
func (m RefreshMsg) Describe() string {
	return fmt.Sprintf(`component:%q refresh`, m.Component)
}

// RefreshCmd wraps a RefreshMsg in a tea.Cmd.
func RefreshCmd(id ComponentID) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{Component: id}
	}
}

// SourceLoadedMsg carries a fresh snapshot of the data.
type SourceLoadedMsg struct {
	Source agenda.MapSource
	Err    error
}

// Describe renders the load result for logs.
func (m SourceLoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`load failed: %v`, m.Err)
	}
	return fmt.Sprintf(`loaded days:%d`, len(m.Source))
}

// FocusMsg reports that a component took keyboard focus.
type FocusMsg struct {
	Component ComponentID
}

// FocusCmd wraps a FocusMsg in a tea.Cmd.
func FocusCmd(id ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: id}
	}
}

// BlurMsg reports that a component lost keyboard focus.
type BlurMsg struct {
	Component ComponentID
}

// BlurCmd wraps a BlurMsg in a tea.Cmd.
func BlurCmd(id ComponentID) tea.Cmd {
	return func() tea.Msg {
		return BlurMsg{Component: id}
	}
}
