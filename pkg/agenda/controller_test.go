package agenda

import (
	"testing"

	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/day"
)

type fakeWidget struct {
	offsets []float64
}

func (f *fakeWidget) ScrollToOffset(offset float64) {
	f.offsets = append(f.offsets, offset)
}

func (f *fakeWidget) last() float64 {
	if len(f.offsets) == 0 {
		return -1
	}
	return f.offsets[len(f.offsets)-1]
}

type recorder struct {
	days    []day.Day
	scrolls []float64
	refresh int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnDayChange: func(d day.Day) { r.days = append(r.days, d) },
		OnScroll:    func(y float64) { r.scrolls = append(r.scrolls, y) },
		OnRefresh:   func() { r.refresh++ },
	}
}

func threeDaySource() MapSource {
	return MapSource{
		"2024-07-01": {booking("a", "2024-07-01", "A")},
		"2024-07-02": {},
		"2024-07-03": {booking("b", "2024-07-03", "B")},
	}
}

func props(selected string) Props {
	d := day.MustParse(selected)
	return Props{SelectedDay: d, CurrentMonth: d.MonthStart()}
}

// mounted returns a controller showing threeDaySource with rows measured at
// 50, 80 and 40 and the selected 2nd scrolled into place.
func mounted(t *testing.T) (*Controller, *fakeWidget, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewController(props("2024-07-02"), threeDaySource(), rec.callbacks(), WithLogger(zap.NewNop()))
	c.Mount()
	w := &fakeWidget{}
	c.AttachWidget(w)
	if len(w.offsets) != 0 {
		t.Fatalf("no scroll before rows are measured, got %v", w.offsets)
	}
	c.OnRowLayout(2, 40)
	c.OnRowLayout(0, 50)
	if len(w.offsets) != 0 {
		t.Fatalf("no scroll before every row is measured, got %v", w.offsets)
	}
	c.OnRowLayout(1, 80)
	if w.last() != 50 {
		t.Fatalf("expected scroll to 50, got %v", w.offsets)
	}
	if g := c.Gating(); g.ScrollOver || g.NeedToScroll {
		t.Fatalf("unexpected gating after scroll: %+v", g)
	}
	return c, w, rec
}

func TestControllerScrollsOnceMeasured(t *testing.T) {
	c, _, _ := mounted(t)
	if got := len(c.Window()); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if c.CountBefore() != 1 {
		t.Fatalf("expected 1 row before the 2nd, got %d", c.CountBefore())
	}
}

func TestControllerReportsOnlyUserScrolls(t *testing.T) {
	c, _, rec := mounted(t)

	// Echo of the programmatic scroll.
	c.OnScroll(50)
	c.OnScroll(130)
	if len(rec.days) != 0 {
		t.Fatalf("programmatic scroll must not report days, got %v", rec.days)
	}

	c.OnDragBegin()
	c.OnScroll(130)
	c.OnScroll(131)
	if len(rec.days) != 1 || rec.days[0].Key() != "2024-07-03" {
		t.Fatalf("expected a single report of the 3rd, got %v", rec.days)
	}
	if len(rec.scrolls) != 4 {
		t.Fatalf("every offset goes to OnScroll, got %v", rec.scrolls)
	}
}

func TestControllerReportsAgainAfterReturning(t *testing.T) {
	c, _, rec := mounted(t)

	// The parent never adopts the 3rd, so the selected day stays the 2nd.
	c.OnDragBegin()
	c.OnScroll(131)
	c.OnScroll(60)
	c.OnScroll(131)
	if len(rec.days) != 2 {
		t.Fatalf("expected the 3rd reported twice, got %v", rec.days)
	}
	for _, d := range rec.days {
		if d.Key() != "2024-07-03" {
			t.Fatalf("expected only the 3rd, got %v", rec.days)
		}
	}
}

func TestControllerDragEnd(t *testing.T) {
	c, w, _ := mounted(t)
	c.OnDragBegin()

	v := 2.0
	c.OnDragEnd(&v)
	if !c.Gating().IsTouched || len(w.offsets) != 1 {
		t.Fatalf("drag end with velocity must be ignored: %+v %v", c.Gating(), w.offsets)
	}

	c.OnDragEnd(nil)
	if c.Gating().IsTouched {
		t.Fatalf("expected settled drag")
	}
	if len(w.offsets) != 2 || w.last() != 50 {
		t.Fatalf("settled drag snaps back to the selected day, got %v", w.offsets)
	}
}

func TestControllerForwardMove(t *testing.T) {
	c, w, _ := mounted(t)
	c.SetProps(props("2024-07-03"))
	if w.last() != 130 {
		t.Fatalf("expected scroll to 130, got %v", w.offsets)
	}
	if c.Ledger().Len() != 3 {
		t.Fatalf("unchanged rows keep their heights, ledger has %d", c.Ledger().Len())
	}
}

func TestControllerDefersWhileTouched(t *testing.T) {
	c, w, _ := mounted(t)
	c.OnDragBegin()
	c.SetProps(props("2024-07-01"))
	if len(w.offsets) != 1 {
		t.Fatalf("no scroll while touched, got %v", w.offsets)
	}
	c.OnDragEnd(nil)
	if w.last() != 0 {
		t.Fatalf("expected scroll to 0 after the drag settled, got %v", w.offsets)
	}
}

func TestControllerMonthChangeSeeds(t *testing.T) {
	src := threeDaySource()
	for _, k := range []string{"2024-08-01", "2024-08-02", "2024-08-03", "2024-08-04", "2024-08-05"} {
		src.Add(booking(k, k, "item"))
	}
	c := NewController(props("2024-07-02"), src, Callbacks{}, WithLogger(zap.NewNop()), WithEstimatedRowHeight(3))
	c.Mount()
	w := &fakeWidget{}
	c.AttachWidget(w)

	c.SetProps(props("2024-08-05"))
	if len(c.Window()) != 5 || c.CountBefore() != 4 {
		t.Fatalf("unexpected window %v, before %d", keys(c.Window()), c.CountBefore())
	}
	if w.last() != 12 {
		t.Fatalf("expected seed scroll to 12, got %v", w.offsets)
	}
	if !c.Gating().NeedToScroll {
		t.Fatalf("exact scroll should stay pending after the seed")
	}
	for i := 0; i < 5; i++ {
		c.OnRowLayout(i, 10)
	}
	if w.last() != 40 {
		t.Fatalf("expected exact scroll to 40, got %v", w.offsets)
	}
}

func TestControllerSuppression(t *testing.T) {
	rec := &recorder{}
	src := MapSource{
		"2024-07-01": {booking("a", "2024-07-01", "A")},
		"2024-07-02": {booking("b", "2024-07-02", "B")},
	}
	c := NewController(props("2024-07-02"), src, rec.callbacks(), WithLogger(zap.NewNop()))
	c.Mount()
	w := &fakeWidget{}
	c.AttachWidget(w)
	c.OnViewportLayout(100)
	c.OnRowLayout(0, 300)
	c.OnRowLayout(1, 50)
	if w.last() != 300 {
		t.Fatalf("expected scroll to 300, got %v", w.offsets)
	}

	c.OnDragBegin()
	c.OnScroll(100)
	if !c.Gating().NoUpdate || len(rec.days) != 0 {
		t.Fatalf("expected suppression inside the tall row: %+v %v", c.Gating(), rec.days)
	}
	c.OnScroll(290)
	if c.Gating().NoUpdate {
		t.Fatalf("suppression should clear on a short row")
	}
	c.OnScroll(20)
	if len(rec.days) != 1 || rec.days[0].Key() != "2024-07-01" {
		t.Fatalf("expected report of the 1st near the row top, got %v", rec.days)
	}
}

func TestControllerSetSourceRetainsHeights(t *testing.T) {
	c, _, _ := mounted(t)
	src := threeDaySource()
	src.Add(booking("c", "2024-07-02", "C"))
	c.SetSource(src)

	if _, ok := c.Ledger().Height(1); ok {
		t.Fatalf("changed row must be remeasured")
	}
	for _, i := range []int{0, 2} {
		if _, ok := c.Ledger().Height(i); !ok {
			t.Fatalf("unchanged row %d lost its height", i)
		}
	}
	if c.Window()[1].Placeholder() {
		t.Fatalf("expected the new reservation in row 1")
	}
}

func TestControllerEdges(t *testing.T) {
	rec := &recorder{}
	c := NewController(props("2024-07-09"), threeDaySource(), rec.callbacks(), WithLogger(zap.NewNop()))
	if !c.EmptyData() {
		t.Fatalf("the 9th is not loaded")
	}
	c.SetProps(props("2024-07-02"))
	if len(c.Window()) != 0 {
		t.Fatalf("unmounted controller should not build")
	}
	c.Mount()
	if c.EmptyData() {
		t.Fatalf("the 2nd is loaded")
	}
	c.OnRowLayout(10, 5)
	c.OnRowLayout(-1, 5)
	if c.Ledger().Len() != 0 {
		t.Fatalf("out of range rows must be ignored")
	}
	c.Refresh()
	if rec.refresh != 1 {
		t.Fatalf("expected refresh callback")
	}

	only := props("2024-07-02")
	only.ShowOnlySelectedDay = true
	c.SetProps(only)
	if len(c.Window()) != 1 {
		t.Fatalf("expected only the selected day, got %v", keys(c.Window()))
	}
	c.Unmount()
	if len(c.Window()) != 0 || c.Ledger().Len() != 0 {
		t.Fatalf("unmount clears state")
	}
}
