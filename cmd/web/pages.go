package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/browse"
	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/export"
	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/handlers"
	"github.com/crucial707/changelog-browser/internal/models"
	"github.com/crucial707/changelog-browser/internal/view"
)

// pages renders the HTML surface. Every request builds its own Browser, so
// a request is one page load.
type pages struct {
	src handlers.Source
	log *logrus.Logger
	now func() time.Time
}

// archiveYear is one row of the archives page.
type archiveYear struct {
	Year      int
	Total     string
	Countries []view.CountryCard
}

// countries is the home page. ?country=XX opens that country directly, the
// way a location fragment would.
func (p *pages) countries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b := browse.New(p.src, p.log)
	b.FilterCountries(q.Get("q"))
	b.Start(r.Context(), q.Get("country"))

	if b.Snapshot().View == browse.ViewCountryDetail {
		p.renderDetail(w, r, b)
		return
	}
	p.renderList(w, b)
}

// country is the detail page of one country. When the changelog cannot be
// loaded the country list is shown with a notification instead.
func (p *pages) country(w http.ResponseWriter, r *http.Request) {
	b := browse.New(p.src, p.log)
	b.Start(r.Context(), chi.URLParam(r, "code"))

	if b.Snapshot().View != browse.ViewCountryDetail {
		p.renderList(w, b)
		return
	}
	p.renderDetail(w, r, b)
}

func (p *pages) renderList(w http.ResponseWriter, b *browse.Browser) {
	snap := b.Snapshot()
	renderTemplate(w, p.log, http.StatusOK, "countries.html", map[string]interface{}{
		"Title":         "Countries",
		"Notifications": b.DrainNotifications(),
		"Countries":     snap.Countries,
		"CountryTerm":   snap.CountryTerm,
		"Panel":         snap.CountryPanel,
	})
}

func (p *pages) renderDetail(w http.ResponseWriter, r *http.Request, b *browse.Browser) {
	criteria, err := handlers.ParseCriteria(r)
	if err != nil {
		criteria = models.FilterCriteria{}
	}
	b.ApplyFilters(criteria)

	snap := b.Snapshot()
	data := map[string]interface{}{
		"Title":         snap.Header.Title,
		"Notifications": b.DrainNotifications(),
		"Header":        snap.Header,
		"Changes":       snap.Changes,
		"Panel":         snap.ChangesPanel,
		"Filters":       snap.Criteria,
		"Filtered":      !snap.Criteria.IsEmpty(),
		"FormAction":    "/countries/" + snap.Fragment,
		"ExportURL":     "/countries/" + snap.Fragment + "/export",
		"BackURL":       "/",
	}
	if err != nil {
		data["Error"] = "Invalid filter: " + err.Error()
	}
	renderTemplate(w, p.log, http.StatusOK, "changelog.html", data)
}

// export downloads the raw country changelog as changelog-{code}.json.
func (p *pages) export(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	doc, err := p.src.CountryChangelog(r.Context(), code)
	if err != nil {
		handlers.UpstreamError(w, p.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(doc)+`"`)
	if err := export.WriteJSON(w, doc); err != nil {
		p.log.WithError(err).Error("export write")
	}
}

func (p *pages) global(w http.ResponseWriter, r *http.Request) {
	p.changelogPage(w, r, "/global", "", func() (*models.ChangelogDocument, error) {
		return p.src.GlobalChangelog(r.Context())
	})
}

func (p *pages) archive(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if err != nil || year < 1000 || year > 9999 || len(code) != 2 {
		renderTemplate(w, p.log, http.StatusBadRequest, "changelog.html", map[string]interface{}{
			"Title":   "Archive",
			"Error":   "Archives are addressed as /archives/{year}/{code}, e.g. /archives/2024/US",
			"BackURL": "/archives",
		})
		return
	}
	p.changelogPage(w, r, "/archives/"+strconv.Itoa(year)+"/"+code, "/archives", func() (*models.ChangelogDocument, error) {
		return p.src.ArchivedChangelog(r.Context(), year, code)
	})
}

// changelogPage renders a filtered document that is not part of the
// country browsing flow.
func (p *pages) changelogPage(w http.ResponseWriter, r *http.Request, self, back string, load func() (*models.ChangelogDocument, error)) {
	data := map[string]interface{}{"FormAction": self, "BackURL": back}

	criteria, err := handlers.ParseCriteria(r)
	if err != nil {
		data["Error"] = "Invalid filter: " + err.Error()
	}

	var panel view.Panel
	panel.BeginFetch()
	doc, err := load()
	if err != nil {
		panel.Fail()
		data["Title"] = "Changelog"
		data["Panel"] = panel
		data["Notifications"] = []browse.Notification{fetchNotification(err)}
		renderTemplate(w, p.log, statusFor(err), "changelog.html", data)
		return
	}

	changes := filter.Apply(doc.Changes, criteria)
	panel.Resolve(len(changes))
	header := view.CountryHeader(doc)
	data["Title"] = header.Title
	data["Header"] = &header
	data["Changes"] = view.ChangeCards(changes, p.now())
	data["Panel"] = panel
	data["Filters"] = criteria
	data["Filtered"] = !criteria.IsEmpty()
	renderTemplate(w, p.log, http.StatusOK, "changelog.html", data)
}

func (p *pages) archives(w http.ResponseWriter, r *http.Request) {
	ix, err := p.src.ArchiveIndex(r.Context())
	if err != nil {
		renderTemplate(w, p.log, statusFor(err), "archives.html", map[string]interface{}{
			"Title":         "Archives",
			"Notifications": []browse.Notification{fetchNotification(err)},
		})
		return
	}

	years := make([]archiveYear, 0, len(ix.Years))
	for _, y := range ix.Years {
		cards := make([]view.CountryCard, 0, len(y.Countries))
		for _, code := range y.Countries {
			cards = append(cards, view.NewCountryCard(models.CountrySummary{Code: strings.ToUpper(code)}))
		}
		years = append(years, archiveYear{Year: y.Year, Total: view.FormatNumber(y.TotalChanges), Countries: cards})
	}
	renderTemplate(w, p.log, http.StatusOK, "archives.html", map[string]interface{}{
		"Title": "Archives",
		"Years": years,
	})
}

func fetchNotification(err error) browse.Notification {
	return browse.Notification{Title: "Failed to load data", Message: err.Error()}
}

func statusFor(err error) int {
	if client.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
