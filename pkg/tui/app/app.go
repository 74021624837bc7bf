// Package teaui hosts the Bubble Tea program for the agenda TUI.
package teaui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/tui/components/calendar"
	"tableflip.dev/agenda/pkg/tui/components/help"
	"tableflip.dev/agenda/pkg/tui/components/reservationlist"
	"tableflip.dev/agenda/pkg/tui/events"
	"tableflip.dev/agenda/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeGoto
	modeHelp
)

type focusArea int

const (
	focusCalendar focusArea = iota
	focusList
)

const listID = events.ComponentID("agenda")

// calendarWidth is the month grid plus the panel frame.
const calendarWidth = 20 + 4

// Options configures the program.
type Options struct {
	// Today defaults to day.Today().
	Today day.Day
	// Selected is the day shown first. Defaults to Today.
	Selected day.Day
	UI       store.UISettings
	Logger   *zap.Logger
}

// Model contains UI state
type Model struct {
	store  store.Persistence
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
	theme  theme.Theme
	ui     store.UISettings

	mode  mode
	focus focusArea

	today      day.Day
	selected   day.Day
	src        agenda.MapSource
	refreshing bool

	list  *reservationlist.Model
	help  *help.Model
	input textinput.Model

	termWidth  int
	termHeight int

	status    string
	statusErr bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// New builds the root model over st.
func New(st store.Persistence, opts Options) *Model {
	if opts.Today.IsZero() {
		opts.Today = day.Today()
	}
	if opts.Selected.IsZero() {
		opts.Selected = opts.Today
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("tui")
	}

	th := theme.Default()

	ti := textinput.New()
	ti.Placeholder = "2024-07-04, jul 4, +3, today"
	ti.CharLimit = 64
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	ti.Styles.Cursor.Shape = tea.CursorBlock
	ti.Styles.Cursor.Blink = false

	var ctrlOpts []agenda.Option
	if opts.UI.ForwardDays > 0 {
		ctrlOpts = append(ctrlOpts, agenda.WithForwardDays(opts.UI.ForwardDays))
	}
	if opts.UI.EstimatedRowHeight > 0 {
		ctrlOpts = append(ctrlOpts, agenda.WithEstimatedRowHeight(opts.UI.EstimatedRowHeight))
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		store:    st,
		ctx:      ctx,
		cancel:   cancel,
		log:      opts.Logger,
		theme:    th,
		ui:       opts.UI,
		mode:     modeNormal,
		focus:    focusList,
		today:    opts.Today,
		selected: opts.Selected,
		src:      agenda.MapSource{},
		help:     help.New(60, 20, th.Panel),
		input:    ti,
	}
	m.list = reservationlist.New(m.props(), m.src, reservationlist.Options{
		ID:                listID,
		Theme:             &th.List,
		ScrollThrottle:    opts.UI.ScrollThrottle,
		SettleDelay:       opts.UI.SettleDelay,
		ControllerOptions: ctrlOpts,
		Logger:            opts.Logger.Named("list"),
	})
	m.list.Focus()
	return m
}

// Init loads the data and starts watching the store.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), m.load(), startWatchCmd(m.ctx, m.store))
}

// Selected returns the selected day.
func (m *Model) Selected() day.Day { return m.selected }

// List exposes the reservation list.
func (m *Model) List() *reservationlist.Model { return m.list }

func (m *Model) props() agenda.Props {
	return agenda.Props{
		SelectedDay:         m.selected,
		CurrentMonth:        m.selected.MonthStart(),
		ShowOnlySelectedDay: m.ui.ShowOnlySelectedDay,
		Refreshing:          m.refreshing,
	}
}

func (m *Model) load() tea.Cmd {
	if m.store == nil {
		return nil
	}
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		src, err := st.Snapshot(ctx)
		return events.SourceLoadedMsg{Source: src, Err: err}
	}
}

func startWatchCmd(parent context.Context, st store.Persistence) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := st.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// selectDay moves the selection the way the calendar does: the list is told
// through its props and scrolls on its own.
func (m *Model) selectDay(d day.Day, cmds *[]tea.Cmd) {
	if d.IsZero() || d.Equal(m.selected) {
		return
	}
	m.selected = d
	*cmds = append(*cmds, m.list.SetProps(m.props()))
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Update routes messages to the list and reacts to its events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	forward := true

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		cmds = append(cmds, m.applySizes())
		forward = false
	case tea.KeyPressMsg:
		forward = !m.handleKeyPress(msg, &cmds)
	case events.DayChangeMsg:
		// The list scrolled onto another day; follow it without a scroll back.
		forward = false
		if msg.Component == listID {
			m.selectDay(msg.Day, &cmds)
		}
	case events.RefreshMsg:
		forward = false
		m.refreshing = true
		m.setStatus("Refreshing")
		cmds = append(cmds, m.list.SetProps(m.props()), m.load())
	case events.SourceLoadedMsg:
		forward = false
		m.refreshing = false
		if msg.Err != nil {
			m.log.Warn("load failed", zap.Error(msg.Err))
			m.setError(fmt.Errorf("load: %w", msg.Err))
			cmds = append(cmds, m.list.SetProps(m.props()))
			break
		}
		m.src = msg.Source
		if m.src == nil {
			m.src = agenda.MapSource{}
		}
		if m.status == "Refreshing" {
			m.setStatus("")
		}
		cmds = append(cmds, m.list.SetSource(m.src), m.list.SetProps(m.props()))
	case watchStartedMsg:
		forward = false
		if msg.err != nil {
			m.log.Warn("watch failed", zap.Error(msg.err))
			m.setError(fmt.Errorf("watch: %w", msg.err))
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		forward = false
		m.log.Debug("store changed", zap.Stringer("type", msg.event.Type), zap.String("day", msg.event.Day.Key()))
		cmds = append(cmds, m.load(), m.waitForWatch())
	case watchStoppedMsg:
		forward = false
		m.stopWatch()
		if m.ctx.Err() == nil {
			cmds = append(cmds, startWatchCmd(m.ctx, m.store))
		}
	case tea.QuitMsg:
		m.shutdown()
	}

	if forward {
		if m.mode == modeHelp {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			_, cmd := m.list.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) shutdown() {
	m.stopWatch()
	m.cancel()
}

// handleKeyPress reports whether the key was consumed.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		*cmds = append(*cmds, tea.Quit)
		return true
	}
	switch m.mode {
	case modeGoto:
		return m.handleGotoKey(msg, cmds)
	case modeHelp:
		return m.handleHelpKey(msg)
	default:
		return m.handleNormalKey(msg, cmds)
	}
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "q", "esc", "?":
		m.mode = modeNormal
		return true
	default:
		return false
	}
}

func (m *Model) handleGotoKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc":
		m.exitGoto()
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.exitGoto()
		if value == "" {
			break
		}
		d, err := day.ParseLoose(value, m.today)
		if err != nil {
			m.setError(err)
			break
		}
		m.setStatus("")
		m.selectDay(d, cmds)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
	return true
}

func (m *Model) exitGoto() {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = modeNormal
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q":
		m.shutdown()
		*cmds = append(*cmds, tea.Quit)
	case "?":
		m.mode = modeHelp
	case ":":
		m.mode = modeGoto
		m.input.SetValue("")
		*cmds = append(*cmds, m.input.Focus())
	case "tab":
		m.toggleFocus(cmds)
	case "h", "left":
		m.selectDay(m.selected.AddDays(-1), cmds)
	case "l", "right":
		m.selectDay(m.selected.AddDays(1), cmds)
	case "[":
		m.selectDay(m.selected.AddMonths(-1), cmds)
	case "]":
		m.selectDay(m.selected.AddMonths(1), cmds)
	case "t":
		m.selectDay(m.today, cmds)
	default:
		if m.focus != focusCalendar {
			return false
		}
		switch msg.String() {
		case "k", "up":
			m.selectDay(m.selected.AddDays(-7), cmds)
		case "j", "down":
			m.selectDay(m.selected.AddDays(7), cmds)
		case "enter":
			m.toggleFocus(cmds)
		case "r":
			*cmds = append(*cmds, events.RefreshCmd(listID))
		default:
			return false
		}
	}
	return true
}

func (m *Model) toggleFocus(cmds *[]tea.Cmd) {
	if m.focus == focusList {
		m.focus = focusCalendar
		*cmds = append(*cmds, m.list.Blur())
		return
	}
	m.focus = focusList
	*cmds = append(*cmds, m.list.Focus())
}

// applySizes splits the terminal between the calendar and the list.
func (m *Model) applySizes() tea.Cmd {
	if m.termWidth == 0 || m.termHeight == 0 {
		return nil
	}
	frameX := m.theme.Panel.Frame.GetHorizontalFrameSize()
	frameY := m.theme.Panel.Frame.GetVerticalFrameSize()

	width := m.termWidth - calendarWidth - 1 - frameX
	if width < 20 {
		width = 20
	}
	// One line for the footer.
	height := m.termHeight - 1 - frameY
	if height < 3 {
		height = 3
	}
	m.help.SetSize(width+frameX, height+frameY)
	return m.list.SetSize(width, height)
}

// View renders the calendar pane, the list pane and the footer.
func (m *Model) View() string {
	left := m.frame(m.focus == focusCalendar).Render(m.renderCalendar())

	var right string
	if m.mode == modeHelp {
		right = m.help.View()
	} else {
		right = m.frame(m.focus == focusList).Render(m.list.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m *Model) frame(focused bool) lipgloss.Style {
	if focused {
		return m.theme.Panel.FocusedFrame
	}
	return m.theme.Panel.Frame
}

func (m *Model) renderCalendar() string {
	month := m.selected.MonthStart()
	grid := calendar.Render(month, calendar.Cells(month, m.selected, m.today, m.src), calendar.OptionsFrom(m.theme.Calendar))

	var summary string
	items, ok := m.src.Lookup(m.selected.Key())
	switch {
	case !ok:
		summary = "not loaded"
	case len(items) == 1:
		summary = "1 reservation"
	case len(items) == 0:
		summary = "no reservations"
	default:
		summary = fmt.Sprintf("%d reservations", len(items))
	}
	return strings.Join([]string{
		grid,
		"",
		m.theme.Panel.Title.Render(m.selected.String()),
		m.theme.Footer.Status.Render(summary),
	}, "\n")
}

func (m *Model) renderFooter() string {
	if m.mode == modeGoto {
		return m.theme.Footer.Prompt.Render("go to: ") + m.input.View()
	}
	hint := m.theme.Footer.Help.Render("h/l day  [/] month  t today  : go to  tab focus  ? help  q quit")
	if m.status == "" {
		return hint
	}
	style := m.theme.Footer.Status
	if m.statusErr {
		style = m.theme.Footer.Error
	}
	return style.Render(m.status) + "  " + hint
}

// Run launches the interactive TUI program.
func Run(st store.Persistence, opts Options) error {
	m := New(st, opts)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
