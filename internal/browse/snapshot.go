package browse

import (
	"github.com/crucial707/changelog-browser/internal/models"
	"github.com/crucial707/changelog-browser/internal/view"
)

// Snapshot is a render-ready copy of a Browser's state.
type Snapshot struct {
	View          View
	Fragment      string
	CountryTerm   string
	CountryPanel  view.Panel
	Countries     []view.CountryCard
	Header        *view.Header
	Criteria      models.FilterCriteria
	ChangesPanel  view.Panel
	Changes       []view.ChangeCard
	Notifications []Notification
}

// Snapshot builds view-models from the current state. Notifications are
// included but not drained.
func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Snapshot{
		View:          b.view,
		Fragment:      b.fragment,
		CountryTerm:   b.countryTerm,
		CountryPanel:  b.countryPanel,
		Countries:     view.CountryCards(b.visible),
		Criteria:      b.criteria,
		ChangesPanel:  b.changesPanel,
		Notifications: append([]Notification(nil), b.notifications...),
	}
	if b.current != nil {
		h := view.CountryHeader(b.current)
		s.Header = &h
		s.Changes = view.ChangeCards(b.filtered, b.now())
	}
	return s
}
