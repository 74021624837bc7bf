package agenda

// GatingState holds the flags that keep programmatic scrolling and user
// scrolling apart. Fields are only changed through the transition methods
// below.
type GatingState struct {
	// ScrollOver is set while scroll events come from the user.
	ScrollOver bool
	// IsTouched is set between drag begin and a settled drag end.
	IsTouched bool
	// NeedToScroll marks a scroll to the selected day as pending.
	NeedToScroll bool
	// NoUpdate is set while the viewport sits inside a row taller than
	// itself.
	NoUpdate bool
}

// NewGatingState returns the state of a freshly mounted list.
func NewGatingState() GatingState {
	return GatingState{ScrollOver: true}
}

// SelectionMoved records a new selected day that needs scrolling to. An
// explicit selection also leaves any suppression zone.
func (g *GatingState) SelectionMoved() {
	g.NeedToScroll = true
	g.NoUpdate = false
}

// TouchBegan handles touch capture and drag begin.
func (g *GatingState) TouchBegan() {
	g.IsTouched = true
	g.ScrollOver = true
}

// DragEnded handles drag end. It reports whether the drag settled, that is
// the list was touched and no velocity is left; the caller then recomputes
// the scroll target. A drag still carrying momentum leaves the state alone.
func (g *GatingState) DragEnded(velocity float64) bool {
	if !g.IsTouched || velocity != 0 {
		return false
	}
	g.IsTouched = false
	g.ScrollOver = false
	return true
}

// ScrollDeferred marks the scroll target as pending until heights arrive.
func (g *GatingState) ScrollDeferred() {
	g.NeedToScroll = true
}

// ScrollIssued follows every exact programmatic scroll.
func (g *GatingState) ScrollIssued() {
	g.ScrollOver = false
	g.NeedToScroll = false
}

// SeedScrollIssued follows an approximate programmatic scroll; the exact one
// stays pending.
func (g *GatingState) SeedScrollIssued() {
	g.ScrollOver = false
	g.NeedToScroll = true
}

// ScrollDropped clears a pending scroll that has no row to go to.
func (g *GatingState) ScrollDropped() {
	g.NeedToScroll = false
}

// SuppressionObserved records whether the latest scroll offset is inside the
// suppression zone.
func (g *GatingState) SuppressionObserved(inZone bool) {
	g.NoUpdate = inZone
}

// MayReportDayChange reports whether a detected day may be sent upward.
func (g GatingState) MayReportDayChange() bool {
	return g.ScrollOver && !g.NoUpdate
}

// MayScroll reports whether a programmatic scroll may run now.
func (g GatingState) MayScroll() bool {
	return !g.IsTouched && !g.NoUpdate
}
