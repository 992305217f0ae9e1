// Package browse holds the state of one browsing session: the country list,
// the selected changelog, the active filters and pending notifications.
package browse

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/models"
	"github.com/crucial707/changelog-browser/internal/view"
)

// Source is the subset of the data client a Browser needs.
type Source interface {
	Stats(ctx context.Context) (*models.Stats, error)
	CountryChangelog(ctx context.Context, code string) (*models.ChangelogDocument, error)
}

// View is one of the two mutually exclusive top-level views.
type View int

const (
	ViewCountryList View = iota
	ViewCountryDetail
)

func (v View) String() string {
	if v == ViewCountryDetail {
		return "detail"
	}
	return "list"
}

// Notification is a user-visible error message.
type Notification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Text renders the notification the way the pages display it.
func (n Notification) Text() string {
	return n.Title + "\n\nDetails: " + n.Message
}

// Browser owns all mutable state of a session. Methods are safe for
// concurrent use; debounced handlers call in from timer goroutines.
type Browser struct {
	src Source
	log *logrus.Logger
	now func() time.Time

	mu            sync.Mutex
	countries     []models.CountrySummary
	visible       []models.CountrySummary
	countryPanel  view.Panel
	countryTerm   string
	current       *models.ChangelogDocument
	filtered      []models.ChangeRecord
	changesPanel  view.Panel
	criteria      models.FilterCriteria
	view          View
	fragment      string
	navigation    uint64
	countryLoads  uint64
	notifications []Notification
}

// New returns a Browser showing the (not yet loaded) country list.
func New(src Source, log *logrus.Logger) *Browser {
	return &Browser{src: src, log: log, now: time.Now}
}

// Start loads the country list and, when fragment names a country, opens its
// detail view directly.
func (b *Browser) Start(ctx context.Context, fragment string) {
	b.LoadCountries(ctx)
	if code := strings.TrimPrefix(strings.TrimSpace(fragment), "#"); code != "" {
		b.SelectCountry(ctx, code)
	}
}

// LoadCountries fetches stats and rebuilds the country list. It returns false
// when the fetch failed or a newer load superseded it.
func (b *Browser) LoadCountries(ctx context.Context) bool {
	b.mu.Lock()
	b.countryLoads++
	load := b.countryLoads
	b.countryPanel.BeginFetch()
	b.mu.Unlock()

	stats, err := b.src.Stats(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if load != b.countryLoads {
		b.log.Debug("dropping stale stats response")
		return false
	}
	if err != nil {
		b.countryPanel.Fail()
		b.notifyLocked("Failed to load countries", err)
		return false
	}

	b.countries = stats.Summaries(filter.CountryName)
	b.visible = filter.Countries(b.countries, b.countryTerm)
	b.countryPanel.Resolve(len(b.visible))
	return true
}

// FilterCountries narrows the visible country list by term.
func (b *Browser) FilterCountries(term string) []models.CountrySummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.countryTerm = term
	b.visible = filter.Countries(b.countries, term)
	if b.countryPanel.State != view.StateLoading && b.countryPanel.State != view.StateFailed {
		b.countryPanel.Resolve(len(b.visible))
	}
	return b.visible
}

// SelectCountry switches to the detail view and loads the changelog for code.
// On failure the browser returns to the list view and records a notification.
// A response that arrives after a newer navigation is dropped.
func (b *Browser) SelectCountry(ctx context.Context, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))

	b.mu.Lock()
	b.navigation++
	nav := b.navigation
	b.fragment = code
	b.view = ViewCountryDetail
	b.changesPanel.BeginFetch()
	b.mu.Unlock()

	doc, err := b.src.CountryChangelog(ctx, code)

	b.mu.Lock()
	defer b.mu.Unlock()
	if nav != b.navigation {
		b.log.WithFields(logrus.Fields{"country": code}).Debug("dropping stale changelog response")
		return false
	}
	if err != nil {
		b.changesPanel.Fail()
		b.notifyLocked("Failed to load changelog for "+code, err)
		b.showCountryListLocked()
		return false
	}

	b.current = doc
	b.criteria = models.FilterCriteria{}
	b.filtered = doc.Changes
	b.changesPanel.Resolve(len(b.filtered))
	return true
}

// ApplyFilters recomputes the visible changes of the current document. It is
// a no-op when no document is loaded.
func (b *Browser) ApplyFilters(criteria models.FilterCriteria) []models.ChangeRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil
	}
	b.criteria = criteria
	b.filtered = filter.Apply(b.current.Changes, criteria)
	b.changesPanel.Resolve(len(b.filtered))
	return b.filtered
}

// ShowCountryList returns to the list view and discards the current document.
func (b *Browser) ShowCountryList() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.navigation++
	b.showCountryListLocked()
}

func (b *Browser) showCountryListLocked() {
	b.fragment = ""
	b.view = ViewCountryList
	b.current = nil
	b.filtered = nil
	b.criteria = models.FilterCriteria{}
	b.changesPanel = view.Panel{}
}

func (b *Browser) notifyLocked(title string, err error) {
	n := Notification{ID: uuid.NewString(), Title: title, Message: err.Error()}
	fields := logrus.Fields{"notification_id": n.ID}
	if f, ok := client.AsFetchFailure(err); ok {
		fields["resource"] = f.Resource
		fields["cause"] = f.Detail()
	}
	b.log.WithFields(fields).WithError(err).Warn(title)
	b.notifications = append(b.notifications, n)
}

// Notifications returns pending notifications without clearing them.
func (b *Browser) Notifications() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notification(nil), b.notifications...)
}

// DrainNotifications returns and clears pending notifications.
func (b *Browser) DrainNotifications() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.notifications
	b.notifications = nil
	return out
}

// Fragment returns the location fragment for the current view: the country
// code in detail view, empty in list view.
func (b *Browser) Fragment() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fragment
}

// Current returns the loaded changelog, or nil in list view.
func (b *Browser) Current() *models.ChangelogDocument {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
