// Package view turns changelog data into render-ready records and tracks the
// visibility of list-bearing panels.
package view

// State is the lifecycle of a list-bearing panel.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// Panel tracks which of the loading indicator, the populated list and the
// empty placeholder are visible. The three are derived from State so they can
// never disagree.
type Panel struct {
	State State
	Count int
}

// BeginFetch shows the loading indicator and hides both the list and the placeholder.
func (p *Panel) BeginFetch() {
	p.State = StateLoading
	p.Count = 0
}

// Resolve hides the loading indicator and shows the list, or the placeholder
// when count is zero.
func (p *Panel) Resolve(count int) {
	p.Count = count
	if count > 0 {
		p.State = StatePopulated
		return
	}
	p.State = StateEmpty
}

// Fail hides everything; the error is surfaced as a notification.
func (p *Panel) Fail() {
	p.State = StateFailed
	p.Count = 0
}

// ShowLoading reports whether the loading indicator is visible.
func (p Panel) ShowLoading() bool { return p.State == StateLoading }

// ShowList reports whether the populated list is visible.
func (p Panel) ShowList() bool { return p.State == StatePopulated }

// ShowEmpty reports whether the empty-state placeholder is visible.
func (p Panel) ShowEmpty() bool { return p.State == StateEmpty }
