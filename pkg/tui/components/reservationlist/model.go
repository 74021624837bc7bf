// Package reservationlist is the scrolling agenda list. It renders one row per
// day of the agenda window, reports row heights and scroll activity to an
// agenda.Controller, and scrolls wherever the controller tells it to.
package reservationlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/tui/events"
	"tableflip.dev/agenda/pkg/tui/theme"
)

const (
	defaultScrollThrottle = 200 * time.Millisecond
	defaultSettleDelay    = 150 * time.Millisecond
	wheelStep             = 3
)

// Options tunes the list.
type Options struct {
	ID events.ComponentID
	// Theme defaults to theme.Default().List.
	Theme *theme.ListTheme
	// ScrollThrottle is the minimum gap between scroll reports while the
	// user scrolls. The final offset is always reported on settle.
	ScrollThrottle time.Duration
	// SettleDelay is how long the list must be idle before a scroll gesture
	// counts as finished.
	SettleDelay time.Duration
	// OnScroll receives every reported offset.
	OnScroll func(offset float64)
	// RenderEmptyData draws the list while the selected day is not loaded.
	// Nil shows a spinner with "loading <day>".
	RenderEmptyData func(selected day.Day) string
	// ControllerOptions are passed to agenda.NewController.
	ControllerOptions []agenda.Option
	Logger            *zap.Logger
}

// Model is the Bubble Tea list widget. It implements agenda.Widget.
type Model struct {
	id    events.ComponentID
	ctrl  *agenda.Controller
	th    theme.ListTheme
	log   *zap.Logger
	onScr func(float64)
	empty func(day.Day) string

	width  int
	height int
	offset int

	window agenda.Window
	rows   []string
	lines  []string
	// gen counts renderings; measurements of an older one are dropped.
	gen int

	spinner spinner.Model
	limiter *rate.Limiter
	settle  time.Duration

	// gesture bookkeeping for keyboard and wheel scrolling
	gesture bool
	steps   int
	seq     int

	// dayPending is set when a day change went out since the last settle
	// tick and the parent has not answered with SetProps yet.
	dayPending bool

	focused bool
	out     []tea.Cmd
}

type rowsMeasuredMsg struct {
	id      events.ComponentID
	gen     int
	heights []int
}

type scrollEchoMsg struct {
	id events.ComponentID
}

type settleMsg struct {
	id  events.ComponentID
	seq int
}

// New builds the list for props over src. The controller is mounted and the
// list attaches itself as its widget.
func New(props agenda.Props, src agenda.Source, opts Options) *Model {
	if opts.ID == "" {
		opts.ID = events.ComponentID("reservationlist")
	}
	if opts.ScrollThrottle <= 0 {
		opts.ScrollThrottle = defaultScrollThrottle
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.Logger == nil {
		opts.Logger = logging.New("reservationlist")
	}
	th := theme.Default().List
	if opts.Theme != nil {
		th = *opts.Theme
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = th.Spinner

	m := &Model{
		id:      opts.ID,
		th:      th,
		log:     opts.Logger,
		onScr:   opts.OnScroll,
		empty:   opts.RenderEmptyData,
		spinner: sp,
		limiter: rate.NewLimiter(rate.Every(opts.ScrollThrottle), 1),
		settle:  opts.SettleDelay,
		width:   60,
		height:  20,
	}
	cb := agenda.Callbacks{
		OnDayChange: func(d day.Day) {
			m.dayPending = true
			m.out = append(m.out, events.DayChangeCmd(m.id, d))
		},
		OnScroll: m.onScr,
		OnRefresh: func() {
			m.out = append(m.out, events.RefreshCmd(m.id))
		},
	}
	ctrlOpts := append([]agenda.Option{agenda.WithLogger(opts.Logger)}, opts.ControllerOptions...)
	m.ctrl = agenda.NewController(props, src, cb, ctrlOpts...)
	m.ctrl.Mount()
	m.ctrl.OnViewportLayout(float64(m.height))
	m.ctrl.AttachWidget(m)
	m.layout()
	return m
}

// Controller exposes the underlying controller.
func (m *Model) Controller() *agenda.Controller { return m.ctrl }

// Offset returns the first visible line.
func (m *Model) Offset() int { return m.offset }

// SetSize configures the viewport dimensions. The returned command carries
// the new row measurements.
func (m *Model) SetSize(width, height int) tea.Cmd {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 20
	}
	if width != m.width || height != m.height {
		m.width = width
		m.height = height
		m.ctrl.OnViewportLayout(float64(height))
		// Wrapping changes with the width; every row is measured again.
		m.rows = nil
		m.layout()
	}
	return m.flush()
}

// SetProps hands new props to the controller.
func (m *Model) SetProps(p agenda.Props) tea.Cmd {
	m.dayPending = false
	m.ctrl.SetProps(p)
	m.layout()
	return m.flush()
}

// SetSource hands new data to the controller.
func (m *Model) SetSource(src agenda.Source) tea.Cmd {
	m.ctrl.SetSource(src)
	m.layout()
	return m.flush()
}

// Focus marks the list as receiving keys.
func (m *Model) Focus() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	return events.FocusCmd(m.id)
}

// Blur stops the list from receiving keys.
func (m *Model) Blur() tea.Cmd {
	if !m.focused {
		return nil
	}
	m.focused = false
	return events.BlurCmd(m.id)
}

// ScrollToOffset implements agenda.Widget. The offset is clamped on the next
// layout and the resulting scroll event is delivered back through Update like
// any other.
func (m *Model) ScrollToOffset(offset float64) {
	m.offset = int(offset + 0.5)
	id := m.id
	m.out = append(m.out, func() tea.Msg {
		return scrollEchoMsg{id: id}
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(append(m.drain(), m.spinner.Tick)...)
}

// Update handles keys, wheel events and the list's own async messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			cmds = append(cmds, m.userScroll(-1))
		case "down", "j":
			cmds = append(cmds, m.userScroll(1))
		case "pgup", "b":
			cmds = append(cmds, m.userScroll(-m.page()))
		case "pgdown", "f", "space":
			cmds = append(cmds, m.userScroll(m.page()))
		case "r":
			m.ctrl.Refresh()
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			cmds = append(cmds, m.userScroll(-wheelStep))
		case tea.MouseWheelDown:
			cmds = append(cmds, m.userScroll(wheelStep))
		}
	case rowsMeasuredMsg:
		if msg.id != m.id || msg.gen != m.gen {
			return m, nil
		}
		for i, h := range msg.heights {
			m.ctrl.OnRowLayout(i, float64(h))
		}
	case scrollEchoMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.ctrl.OnScroll(float64(m.offset))
	case settleMsg:
		if msg.id != m.id || msg.seq != m.seq {
			return m, nil
		}
		cmds = append(cmds, m.settleTick())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.layout()
	cmds = append(cmds, m.drain()...)
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// userScroll moves the list by delta lines as a user gesture.
func (m *Model) userScroll(delta int) tea.Cmd {
	if !m.gesture {
		m.gesture = true
		m.ctrl.OnTouchCapture()
		m.ctrl.OnDragBegin()
	}
	next := m.clamp(m.offset + delta)
	if next != m.offset {
		m.steps++
		m.offset = next
		if m.limiter.Allow() {
			m.ctrl.OnScroll(float64(m.offset))
		}
	}
	m.seq++
	return m.settleAfter(m.seq)
}

// settleTick ends the gesture once no step happened since the last tick. A
// tick that still saw movement is reported as a drag end with velocity and
// waits for the next one.
func (m *Model) settleTick() tea.Cmd {
	velocity := float64(m.steps)
	m.steps = 0
	m.ctrl.OnScroll(float64(m.offset))
	if m.dayPending {
		// Ending the drag now would scroll back to the old day before the
		// parent hands over the new one; wait one more tick.
		m.dayPending = false
		return m.settleAfter(m.seq)
	}
	m.ctrl.OnDragEnd(&velocity)
	if velocity != 0 {
		return m.settleAfter(m.seq)
	}
	m.gesture = false
	return nil
}

func (m *Model) settleAfter(seq int) tea.Cmd {
	id := m.id
	return tea.Tick(m.settle, func(time.Time) tea.Msg {
		return settleMsg{id: id, seq: seq}
	})
}

func (m *Model) drain() []tea.Cmd {
	out := m.out
	m.out = nil
	return out
}

func (m *Model) flush() tea.Cmd {
	cmds := m.drain()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) page() int {
	if m.height <= 1 {
		return 1
	}
	return m.height - 1
}

func (m *Model) clamp(offset int) int {
	maxOffset := len(m.lines) - m.height
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// layout renders rows for the current window. Rows whose group did not
// change keep their rendering; new renderings are measured asynchronously.
func (m *Model) layout() {
	w := m.ctrl.Window()
	selected := m.ctrl.Props().SelectedDay
	rows := make([]string, len(w))
	changed := len(w) != len(m.rows)
	for i := range w {
		if i < len(m.rows) && i < len(m.window) && m.window[i].Equal(w[i]) {
			rows[i] = m.rows[i]
			continue
		}
		rows[i] = m.renderRow(w[i], selected)
		changed = true
	}
	m.window = w
	m.rows = rows
	if changed {
		m.gen++
	}

	m.lines = m.lines[:0]
	for _, r := range rows {
		m.lines = append(m.lines, strings.Split(r, "\n")...)
	}
	m.offset = m.clamp(m.offset)

	if changed || !m.ctrl.Ledger().IsComplete(len(w)) {
		heights := make([]int, len(rows))
		for i, r := range rows {
			heights[i] = lipgloss.Height(r)
		}
		id, gen := m.id, m.gen
		m.out = append(m.out, func() tea.Msg {
			return rowsMeasuredMsg{id: id, gen: gen, heights: heights}
		})
	}
}

func (m *Model) renderRow(g agenda.Group, selected day.Day) string {
	header := m.th.Header
	if g.Day.Equal(selected) {
		header = m.th.SelectedHeader
	}
	var b strings.Builder
	b.WriteString(header.Render(fmt.Sprintf("%s %2d  %s", g.Day.Weekday().String()[:3], g.Day.DayOfMonth(), g.Day.MonthLabel())))
	b.WriteString("\n")
	if g.Placeholder() {
		b.WriteString(m.th.Placeholder.Render("  no reservations"))
		b.WriteString("\n")
	}
	for _, r := range g.Items {
		b.WriteString(m.renderItem(r))
	}
	return b.String()
}

func (m *Model) renderItem(r reservation.Reservation) string {
	wrap := m.width - 4
	if wrap < 10 {
		wrap = 10
	}
	var b strings.Builder
	prefix := "  "
	if tr := r.TimeRange(); tr != "" {
		prefix = "  " + m.th.Time.Render(tr) + " "
	}
	title := wordwrap.String(r.Title, wrap-lipgloss.Width(prefix)+2)
	for i, line := range strings.Split(title, "\n") {
		if i == 0 {
			b.WriteString(prefix)
		} else {
			b.WriteString(strings.Repeat(" ", lipgloss.Width(prefix)))
		}
		b.WriteString(m.th.Title.Render(line))
		b.WriteString("\n")
	}
	if note := strings.TrimSpace(r.Note); note != "" {
		for _, line := range strings.Split(wordwrap.String(note, wrap), "\n") {
			b.WriteString("    ")
			b.WriteString(m.th.Note.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// View renders the visible part of the list, or the empty-data view when
// the selected day is not loaded.
func (m *Model) View() string {
	if m.ctrl.EmptyData() {
		return m.renderEmptyData()
	}
	var top []string
	if m.ctrl.Props().Refreshing {
		top = append(top, m.spinner.View()+" "+m.th.Empty.Render("refreshing"))
	}
	height := m.height - len(top)
	if height < 1 {
		height = 1
	}
	end := m.offset + height
	if end > len(m.lines) {
		end = len(m.lines)
	}
	visible := append(top, m.lines[m.offset:end]...)
	for len(visible) < m.height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func (m *Model) renderEmptyData() string {
	if m.empty != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, m.empty(m.ctrl.Props().SelectedDay))
	}
	msg := m.spinner.View() + " " + m.th.Empty.Render("loading "+m.ctrl.Props().SelectedDay.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}
