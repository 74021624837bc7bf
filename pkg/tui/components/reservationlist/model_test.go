package reservationlist

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/agenda"
	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/reservation"
	"tableflip.dev/agenda/pkg/tui/events"
)

func stripANSIString(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fiveDays has one short reservation on each of July 1st to 5th, so every
// row is a header, one item line and a spacer.
func fiveDays() agenda.MapSource {
	src := agenda.MapSource{}
	d := day.MustParse("2024-07-01")
	for i := 0; i < 5; i++ {
		src.Add(reservation.Reservation{ID: d.Key(), Day: d, Title: "visit " + d.Key()})
		d = d.AddDays(1)
	}
	return src
}

func props(key string) agenda.Props {
	d := day.MustParse(key)
	return agenda.Props{SelectedDay: d, CurrentMonth: d.MonthStart()}
}

func newList(t *testing.T, selected string, src agenda.Source) *Model {
	t.Helper()
	m := New(props(selected), src, Options{
		SettleDelay:    time.Millisecond,
		ScrollThrottle: time.Nanosecond,
		Logger:         zap.NewNop(),
	})
	drain(t, m, m.drain()...)
	drain(t, m, m.SetSize(40, 5))
	return m
}

// drain runs cmds through the list until nothing is left and returns the
// messages meant for other components. Spinner ticks are dropped.
func drain(t *testing.T, m *Model, cmds ...tea.Cmd) []tea.Msg {
	t.Helper()
	return pump(m, true, cmds...)
}

// pump is drain with control over settle ticks; without them a gesture
// stays open across calls.
func pump(m *Model, settle bool, cmds ...tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(msg)...)
		case spinner.TickMsg:
		case settleMsg:
			if settle {
				_, next := m.Update(msg)
				queue = append(queue, next)
			}
		case rowsMeasuredMsg, scrollEchoMsg:
			_, next := m.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func press(t *testing.T, m *Model, key string, times int) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	for i := 0; i < times; i++ {
		r := []rune(key)[0]
		_, cmd := m.Update(tea.KeyPressMsg{Code: r, Text: key})
		out = append(out, pump(m, false, cmd)...)
	}
	return out
}

func dayChanges(msgs []tea.Msg) []string {
	var keys []string
	for _, msg := range msgs {
		if dc, ok := msg.(events.DayChangeMsg); ok {
			keys = append(keys, dc.Day.Key())
		}
	}
	return keys
}

func TestListScrollsToSelectedDay(t *testing.T) {
	m := newList(t, "2024-07-03", fiveDays())

	if got := m.Offset(); got != 6 {
		t.Fatalf("expected the 3rd at line 6, got %d", got)
	}
	if !m.Controller().Ledger().IsComplete(5) {
		t.Fatalf("expected every row measured")
	}
	view := stripANSIString(m.View())
	if !strings.Contains(view, "visit 2024-07-03") {
		t.Fatalf("expected the 3rd to be visible, got:\n%s", view)
	}
	if strings.Contains(view, "visit 2024-07-01") {
		t.Fatalf("the 1st should be scrolled away, got:\n%s", view)
	}
}

func TestListReportsUserScroll(t *testing.T) {
	m := newList(t, "2024-07-03", fiveDays())
	m.Focus()

	msgs := press(t, m, "j", 3)
	if got := dayChanges(msgs); len(got) != 1 || got[0] != "2024-07-04" {
		t.Fatalf("expected one change to the 4th, got %v", got)
	}
	if !m.Controller().Gating().IsTouched {
		t.Fatalf("expected the gesture to be in progress")
	}
}

func TestListSettleSnapsBack(t *testing.T) {
	m := newList(t, "2024-07-03", fiveDays())
	m.Focus()

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	// The key press schedules the settle tick; draining it ends the gesture.
	drain(t, m, cmd)
	if m.Controller().Gating().IsTouched {
		t.Fatalf("expected the gesture to settle")
	}
	if got := m.Offset(); got != 6 {
		t.Fatalf("expected snap back to line 6, got %d", got)
	}
}

func TestListIgnoresKeysWhenBlurred(t *testing.T) {
	m := newList(t, "2024-07-03", fiveDays())
	press(t, m, "j", 2)
	if got := m.Offset(); got != 6 {
		t.Fatalf("blurred list must not scroll, offset %d", got)
	}
}

func TestListPlaceholderAndEmptyData(t *testing.T) {
	src := fiveDays()
	src.MarkKnown(day.MustParse("2024-07-06"))
	m := newList(t, "2024-07-06", src)
	view := stripANSIString(m.View())
	if !strings.Contains(view, "no reservations") {
		t.Fatalf("expected a placeholder row, got:\n%s", view)
	}

	drain(t, m, m.SetProps(props("2024-07-20")))
	view = stripANSIString(m.View())
	if !strings.Contains(view, "loading July 20, 2024") {
		t.Fatalf("expected the empty-data view, got:\n%s", view)
	}
}

func TestListRefreshKey(t *testing.T) {
	m := newList(t, "2024-07-01", fiveDays())
	m.Focus()
	msgs := press(t, m, "r", 1)
	found := false
	for _, msg := range msgs {
		if _, ok := msg.(events.RefreshMsg); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a refresh request, got %v", msgs)
	}
}

func TestListResizeRemeasures(t *testing.T) {
	src := agenda.MapSource{}
	src.Add(reservation.Reservation{
		ID:    "long",
		Day:   day.MustParse("2024-07-01"),
		Title: "a reservation with a title long enough to wrap on a narrow list",
	})
	m := newList(t, "2024-07-01", src)
	wide, _ := m.Controller().Ledger().Height(0)

	drain(t, m, m.SetSize(20, 5))
	narrow, _ := m.Controller().Ledger().Height(0)
	if narrow <= wide {
		t.Fatalf("expected the row to grow when narrowed: %v -> %v", wide, narrow)
	}
}

func TestListCustomEmptyData(t *testing.T) {
	m := New(props("2024-07-20"), fiveDays(), Options{
		Logger: zap.NewNop(),
		RenderEmptyData: func(d day.Day) string {
			return "nothing fetched for " + d.Key()
		},
	})
	drain(t, m, m.drain()...)
	drain(t, m, m.SetSize(40, 5))

	view := stripANSIString(m.View())
	if !strings.Contains(view, "nothing fetched for 2024-07-20") {
		t.Fatalf("expected the custom empty view, got:\n%s", view)
	}
	if strings.Contains(view, "loading") {
		t.Fatalf("the default view should not show, got:\n%s", view)
	}
}

func TestListSettleWaitsForAdoptedDay(t *testing.T) {
	m := New(props("2024-07-03"), fiveDays(), Options{
		SettleDelay: time.Millisecond,
		// Only the first step is reported; the settle tick reports the rest.
		ScrollThrottle: time.Hour,
		Logger:         zap.NewNop(),
	})
	drain(t, m, m.drain()...)
	drain(t, m, m.SetSize(40, 5))
	m.Focus()

	if got := dayChanges(press(t, m, "j", 3)); len(got) != 0 {
		t.Fatalf("throttled steps must not report, got %v", got)
	}
	if got := m.Offset(); got != 9 {
		t.Fatalf("expected line 9, got %d", got)
	}

	_, cmd := m.Update(settleMsg{id: m.id, seq: m.seq})
	msgs := pump(m, false, cmd)
	if got := dayChanges(msgs); len(got) != 1 || got[0] != "2024-07-04" {
		t.Fatalf("expected the settle tick to report the 4th, got %v", got)
	}
	if got := m.Offset(); got != 9 {
		t.Fatalf("the list must not snap back before the parent answers, got line %d", got)
	}
	if !m.Controller().Gating().IsTouched {
		t.Fatalf("expected the gesture to stay open")
	}

	drain(t, m, m.SetProps(props("2024-07-04")))
	_, cmd = m.Update(settleMsg{id: m.id, seq: m.seq})
	drain(t, m, cmd)
	if m.Controller().Gating().IsTouched {
		t.Fatalf("expected the gesture to settle")
	}
	if got := m.Offset(); got != 9 {
		t.Fatalf("expected the list to rest on the 4th at line 9, got %d", got)
	}
}
