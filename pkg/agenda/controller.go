package agenda

import (
	"go.uber.org/zap"

	"tableflip.dev/agenda/pkg/day"
	"tableflip.dev/agenda/pkg/logging"
)

// Widget is the list renderer driven by the Controller.
type Widget interface {
	ScrollToOffset(offset float64)
}

// Callbacks are fired upward by the Controller. Nil callbacks are skipped.
type Callbacks struct {
	// OnDayChange receives the day the user scrolled to.
	OnDayChange func(day.Day)
	// OnScroll receives every scroll offset.
	OnScroll func(offset float64)
	// OnRefresh is fired on the refresh gesture.
	OnRefresh func()
}

// Props is the configuration handed down by the parent view.
type Props struct {
	SelectedDay  day.Day
	CurrentMonth day.Day
	// ShowOnlySelectedDay limits the list to the selected day.
	ShowOnlySelectedDay bool
	// Refreshing is set while the parent reloads data.
	Refreshing bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger replaces the default logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithForwardDays sets how far windows extend past the selected day.
func WithForwardDays(n int) Option {
	return func(c *Controller) { c.forwardDays = n }
}

// WithEstimatedRowHeight sets the height assumed for unmeasured rows when
// seeding the first scroll after a rebuild.
func WithEstimatedRowHeight(h float64) Option {
	return func(c *Controller) {
		if h > 0 {
			c.estimate = h
		}
	}
}

// Controller owns the window, the height ledger and the gating state for one
// list. It is not safe for concurrent use; every method is meant to run on
// the UI event loop.
type Controller struct {
	props  Props
	src    Source
	cb     Callbacks
	widget Widget

	window      Window
	ledger      Ledger
	gate        GatingState
	countBefore int
	viewport    float64
	reported    day.Day
	mounted     bool

	forwardDays int
	estimate    float64
	log         *zap.Logger
}

// NewController returns an unmounted controller.
func NewController(props Props, src Source, cb Callbacks, opts ...Option) *Controller {
	c := &Controller{
		props:       props,
		src:         src,
		cb:          cb,
		gate:        NewGatingState(),
		forwardDays: DefaultForwardDays,
		estimate:    1,
		log:         logging.New("agenda"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount builds the first window.
func (c *Controller) Mount() {
	c.mounted = true
	c.rebuild("mount")
}

// Unmount discards the window and the ledger.
func (c *Controller) Unmount() {
	c.mounted = false
	c.widget = nil
	c.window = nil
	c.ledger.Reset()
	c.gate = NewGatingState()
}

// AttachWidget connects the list renderer and tries to scroll to the
// selected day.
func (c *Controller) AttachWidget(w Widget) {
	first := c.widget == nil
	c.widget = w
	if first && w != nil {
		c.recomputeScrollTarget()
	}
}

// Props returns the current props.
func (c *Controller) Props() Props { return c.props }

// Window returns the current window. Callers must not modify it.
func (c *Controller) Window() Window { return c.window }

// Ledger returns the height ledger.
func (c *Controller) Ledger() *Ledger { return &c.ledger }

// Gating returns a copy of the gating flags.
func (c *Controller) Gating() GatingState { return c.gate }

// CountBefore returns how many groups precede the selected day.
func (c *Controller) CountBefore() int { return c.countBefore }

// EmptyData reports whether the selected day is not loaded at all, in which
// case the parent renders its empty-data view instead of the list.
func (c *Controller) EmptyData() bool {
	return !Known(c.src, c.props.SelectedDay)
}

// SetProps applies new props from the parent view.
func (c *Controller) SetProps(next Props) {
	prev := c.props
	c.props = next
	c.reported = day.Day{}
	if !c.mounted {
		return
	}

	monthChanged := !prev.SelectedDay.SameMonth(next.SelectedDay)
	dateChanged := !prev.SelectedDay.Equal(next.SelectedDay)
	onlyChanged := prev.ShowOnlySelectedDay != next.ShowOnlySelectedDay

	switch {
	case monthChanged || onlyChanged:
		c.rebuild("month")
	case dateChanged && (next.ShowOnlySelectedDay || prev.SelectedDay.Before(next.SelectedDay)):
		c.rederive("forward")
	}
	if dateChanged {
		c.gate.SelectionMoved()
		c.flushPendingScroll()
	}
}

// SetSource swaps in new data and re-derives the window from the current
// one. Rows whose group is unchanged keep their measured height.
func (c *Controller) SetSource(src Source) {
	c.src = src
	if !c.mounted {
		return
	}
	c.rederive("data")
	c.flushPendingScroll()
}

// Refresh fires the refresh callback.
func (c *Controller) Refresh() {
	if c.cb.OnRefresh != nil {
		c.cb.OnRefresh()
	}
}

// OnViewportLayout records the visible list height.
func (c *Controller) OnViewportLayout(height float64) {
	if height < 0 {
		height = 0
	}
	c.viewport = height
}

// OnTouchCapture handles the touch responder capture.
func (c *Controller) OnTouchCapture() { c.gate.TouchBegan() }

// OnDragBegin handles the start of a drag.
func (c *Controller) OnDragBegin() { c.gate.TouchBegan() }

// OnDragEnd handles the end of a drag. A nil velocity counts as zero.
func (c *Controller) OnDragEnd(velocity *float64) {
	v := 0.0
	if velocity != nil {
		v = *velocity
	}
	if c.gate.DragEnded(v) {
		c.recomputeScrollTarget()
	}
}

// OnRowLayout records the measured height of row index.
func (c *Controller) OnRowLayout(index int, height float64) {
	if index < 0 || index >= len(c.window) {
		return
	}
	c.ledger.Record(index, height)
	c.flushPendingScroll()
}

// OnScroll handles a scroll offset reported by the widget.
func (c *Controller) OnScroll(offset float64) {
	if c.cb.OnScroll != nil {
		c.cb.OnScroll(offset)
	}

	det, ok := OffsetToDay(offset, c.window, &c.ledger, c.viewport)
	if !ok {
		return
	}
	if det.Suppress != c.gate.NoUpdate {
		c.log.Debug("suppression zone", zap.Bool("inside", det.Suppress), zap.Int("row", det.Row))
	}
	c.gate.SuppressionObserved(det.Suppress)

	if det.Day.Equal(c.props.SelectedDay) {
		// Back on the selected day: leaving it again is a new change.
		c.reported = day.Day{}
		return
	}
	if det.Day.Equal(c.reported) {
		return
	}
	if !c.gate.MayReportDayChange() {
		return
	}
	c.reported = det.Day
	c.log.Debug("day change", zap.String("day", det.Day.Key()), zap.Float64("offset", offset))
	if c.cb.OnDayChange != nil {
		c.cb.OnDayChange(det.Day)
	}
}

func (c *Controller) rebuild(reason string) {
	c.window = nil
	c.ledger.Reset()
	c.build(reason)
	c.seedScroll()
	c.recomputeScrollTarget()
}

func (c *Controller) rederive(reason string) {
	prev := c.window
	c.build(reason)
	next := c.window
	c.ledger.Retain(len(next), func(i int) bool {
		return i < len(prev) && prev[i].Equal(next[i])
	})
}

func (c *Controller) build(reason string) {
	res := BuildWith(c.window, c.props.SelectedDay, c.props.CurrentMonth, c.src, BuildOptions{
		ForwardDays:  c.forwardDays,
		OnlySelected: c.props.ShowOnlySelectedDay,
	})
	c.window = res.Window
	c.countBefore = res.CountBefore
	c.log.Debug("window built",
		zap.String("reason", reason),
		zap.String("selected", c.props.SelectedDay.Key()),
		zap.Int("rows", len(res.Window)),
		zap.Int("before", res.CountBefore),
		zap.Bool("restarted", res.Restarted),
	)
}

// seedScroll jumps close to the selected day before any row is measured.
func (c *Controller) seedScroll() {
	if c.widget == nil || !c.gate.MayScroll() || c.countBefore == 0 {
		return
	}
	if c.ledger.IsComplete(len(c.window)) {
		return
	}
	c.widget.ScrollToOffset(SeedOffset(c.countBefore, &c.ledger, c.estimate))
	c.gate.SeedScrollIssued()
}

func (c *Controller) flushPendingScroll() {
	if c.gate.NeedToScroll && c.ledger.IsComplete(len(c.window)) {
		c.recomputeScrollTarget()
	}
}

// recomputeScrollTarget scrolls the widget to the selected day. It is safe to
// call at any time; it defers until the ledger is complete.
func (c *Controller) recomputeScrollTarget() {
	if !c.gate.MayScroll() {
		return
	}
	if c.widget == nil || !c.ledger.IsComplete(len(c.window)) {
		c.gate.ScrollDeferred()
		return
	}
	offset, ok := DayToOffset(c.props.SelectedDay, c.window, &c.ledger)
	if !ok {
		c.gate.ScrollDropped()
		return
	}
	c.widget.ScrollToOffset(offset)
	c.gate.ScrollIssued()
	c.log.Debug("scrolled", zap.String("day", c.props.SelectedDay.Key()), zap.Float64("offset", offset))
}
