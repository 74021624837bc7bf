package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer   FooterTheme
	Panel    PanelTheme
	List     ListTheme
	Calendar CalendarTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
}

// ListTheme styles the reservation list rows.
type ListTheme struct {
	Header         lipgloss.Style
	SelectedHeader lipgloss.Style
	Time           lipgloss.Style
	Title          lipgloss.Style
	Note           lipgloss.Style
	Placeholder    lipgloss.Style
	Empty          lipgloss.Style
	Spinner        lipgloss.Style
}

// CalendarTheme styles the month grid.
type CalendarTheme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Empty    lipgloss.Style
	Unloaded lipgloss.Style
	Entry    lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("63")
	dim := lipgloss.Color("244")

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(dim),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("238")).
				Padding(0, 1),
			FocusedFrame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
		List: ListTheme{
			Header:         lipgloss.NewStyle().Bold(true),
			SelectedHeader: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Time:           lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Title:          lipgloss.NewStyle(),
			Note:           lipgloss.NewStyle().Foreground(dim).Italic(true),
			Placeholder:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Empty:          lipgloss.NewStyle().Foreground(dim),
			Spinner:        lipgloss.NewStyle().Foreground(accent),
		},
		Calendar: CalendarTheme{
			Title:    lipgloss.NewStyle().Bold(true),
			Header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
			Empty:    lipgloss.NewStyle().Foreground(dim),
			Unloaded: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
			Entry:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
			Today:    lipgloss.NewStyle().Underline(true),
			Selected: lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0")),
		},
	}
}
