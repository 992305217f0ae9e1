package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/models"
	"github.com/crucial707/changelog-browser/internal/view"
)

// Source is the upstream data the API serves from.
type Source interface {
	Stats(ctx context.Context) (*models.Stats, error)
	GlobalChangelog(ctx context.Context) (*models.ChangelogDocument, error)
	CountryChangelog(ctx context.Context, code string) (*models.ChangelogDocument, error)
	ArchiveIndex(ctx context.Context) (*models.ArchiveIndex, error)
	ArchivedChangelog(ctx context.Context, year int, code string) (*models.ChangelogDocument, error)
}

// ChangelogHandler serves country lists and changelogs as view-models.
type ChangelogHandler struct {
	Source Source
	Log    *logrus.Logger
	Now    func() time.Time
}

// CountryListResponse is the JSON shape for GET /countries.
type CountryListResponse struct {
	Query     string             `json:"q,omitempty"`
	Total     int                `json:"total"`
	Count     int                `json:"count"`
	Countries []view.CountryCard `json:"countries"`
}

// ChangesResponse is the JSON shape of every changelog endpoint.
type ChangesResponse struct {
	CountryCode string                `json:"country_code,omitempty"`
	Year        int                   `json:"year,omitempty"`
	Header      view.Header           `json:"header"`
	Filters     models.FilterCriteria `json:"filters"`
	Count       int                   `json:"count"`
	Changes     []view.ChangeCard     `json:"changes"`
}

func (h *ChangelogHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// ListCountries returns every country with changes, highest total first,
// narrowed by ?q= over name and code.
func (h *ChangelogHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if len(term) > 200 {
		JSONValidationError(w, "validation failed", map[string]string{"q": "max=200"}, http.StatusBadRequest)
		return
	}

	stats, err := h.Source.Stats(r.Context())
	if err != nil {
		UpstreamError(w, h.Log, err)
		return
	}

	all := stats.Summaries(filter.CountryName)
	visible := filter.Countries(all, term)
	writeJSON(w, CountryListResponse{
		Query:     term,
		Total:     len(all),
		Count:     len(visible),
		Countries: view.CountryCards(visible),
	})
}

// CountryChanges returns the filtered changelog of {code}.
func (h *ChangelogHandler) CountryChanges(w http.ResponseWriter, r *http.Request) {
	code, _, err := parseCountryParams(r)
	if err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}
	h.serveChanges(w, r, func(ctx context.Context) (*models.ChangelogDocument, error) {
		return h.Source.CountryChangelog(ctx, code)
	})
}

// GlobalChanges returns the filtered global changelog.
func (h *ChangelogHandler) GlobalChanges(w http.ResponseWriter, r *http.Request) {
	h.serveChanges(w, r, h.Source.GlobalChangelog)
}

// ArchiveChanges returns the filtered archived changelog of {code} in {year}.
func (h *ChangelogHandler) ArchiveChanges(w http.ResponseWriter, r *http.Request) {
	code, year, err := parseCountryParams(r)
	if err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}
	h.serveChanges(w, r, func(ctx context.Context) (*models.ChangelogDocument, error) {
		return h.Source.ArchivedChangelog(ctx, year, code)
	})
}

// ListArchives returns the archive index.
func (h *ChangelogHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	ix, err := h.Source.ArchiveIndex(r.Context())
	if err != nil {
		UpstreamError(w, h.Log, err)
		return
	}
	if ix.Years == nil {
		ix.Years = []models.ArchiveYear{}
	}
	writeJSON(w, ix)
}

func (h *ChangelogHandler) serveChanges(w http.ResponseWriter, r *http.Request, load func(context.Context) (*models.ChangelogDocument, error)) {
	criteria, err := ParseCriteria(r)
	if err != nil {
		JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	doc, err := load(r.Context())
	if err != nil {
		UpstreamError(w, h.Log, err)
		return
	}

	changes := filter.Apply(doc.Changes, criteria)
	writeJSON(w, ChangesResponse{
		CountryCode: doc.CountryCode,
		Year:        doc.Year,
		Header:      view.CountryHeader(doc),
		Filters:     criteria,
		Count:       len(changes),
		Changes:     view.ChangeCards(changes, h.now()),
	})
}
