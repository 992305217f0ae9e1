package view

import (
	"fmt"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/crucial707/changelog-browser/internal/filter"
	"github.com/crucial707/changelog-browser/internal/models"
)

// Unknown is shown for fields a record does not carry.
const Unknown = "Unknown"

// CountryCard is one tile of the country list.
type CountryCard struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Flag    string `json:"flag"`
	Total   int    `json:"total_changes"`
	Changes string `json:"changes"`
}

// ChangeCard is one rendered change record.
type ChangeCard struct {
	ID         string   `json:"id"`
	Action     string   `json:"action"`
	BadgeClass string   `json:"badge_class"`
	EntityType string   `json:"entity_type"`
	EntityIcon string   `json:"entity_icon"`
	EntityName string   `json:"entity_name"`
	Date       string   `json:"date"`
	Relative   string   `json:"relative,omitempty"`
	Author     string   `json:"author"`
	Message    string   `json:"message,omitempty"`
	Details    *Details `json:"details,omitempty"`
}

// Details is the action-specific block under a change card.
type Details struct {
	Kind  string `json:"kind"`  // add, update, delete
	Label string `json:"label"` // "Added:", "Changes:", "Deleted:"
	Body  string `json:"body"`
	Diff  string `json:"diff,omitempty"`
}

// Header is the title block of a changelog page.
type Header struct {
	Title string `json:"title"`
	Count string `json:"count"`
}

// NewCountryCard builds the card for one country.
func NewCountryCard(c models.CountrySummary) CountryCard {
	name := c.Name
	if name == "" {
		name = filter.CountryName(c.Code)
	}
	return CountryCard{
		Code:    c.Code,
		Name:    name,
		Flag:    filter.Flag(c.Code),
		Total:   c.TotalChanges,
		Changes: FormatNumber(c.TotalChanges),
	}
}

// CountryCards builds cards in input order.
func CountryCards(countries []models.CountrySummary) []CountryCard {
	out := make([]CountryCard, len(countries))
	for i, c := range countries {
		out[i] = NewCountryCard(c)
	}
	return out
}

// GlobalTitle names a document that carries no country code.
const GlobalTitle = "Global Changelog"

// CountryHeader renders "{flag} {name}" and the formatted total for a document.
func CountryHeader(doc *models.ChangelogDocument) Header {
	name := doc.CountryName
	switch {
	case name != "":
	case doc.CountryCode == "":
		name = GlobalTitle
	default:
		name = filter.CountryName(doc.CountryCode)
	}
	if doc.Year > 0 {
		name = fmt.Sprintf("%s (%d)", name, doc.Year)
	}
	return Header{
		Title: filter.Flag(doc.CountryCode) + " " + name,
		Count: FormatNumber(doc.TotalChanges),
	}
}

// NewChangeCard builds the card for one record. Missing fields render as
// Unknown; a payload that does not match the action yields no details.
func NewChangeCard(c models.ChangeRecord, now time.Time) ChangeCard {
	return ChangeCard{
		ID:         orUnknown(c.ID),
		Action:     orUnknown(c.Action),
		BadgeClass: BadgeClass(c.Action),
		EntityType: orUnknown(c.EntityType),
		EntityIcon: EntityIcon(c.EntityType),
		EntityName: orUnknown(c.Entity.Name),
		Date:       FormatDate(c.Timestamp),
		Relative:   RelativeTime(c.Timestamp, now),
		Author:     orUnknown(c.Author),
		Message:    c.Message,
		Details:    NewDetails(c),
	}
}

// ChangeCards builds cards in input order.
func ChangeCards(changes []models.ChangeRecord, now time.Time) []ChangeCard {
	out := make([]ChangeCard, len(changes))
	for i, c := range changes {
		out[i] = NewChangeCard(c, now)
	}
	return out
}

// beforeAfter keeps "before" ahead of "after" in the rendered JSON.
type beforeAfter struct {
	Before map[string]any `json:"before"`
	After  map[string]any `json:"after"`
}

// NewDetails renders the action-specific payload, or nil when there is
// nothing to show.
func NewDetails(c models.ChangeRecord) *Details {
	if !c.HasPayloadFor() {
		return nil
	}
	switch c.Action {
	case models.ActionAdd:
		return &Details{Kind: c.Action, Label: "Added:", Body: PrettyJSON(c.Changes.Added)}
	case models.ActionUpdate:
		return &Details{
			Kind:  c.Action,
			Label: "Changes:",
			Body:  PrettyJSON(beforeAfter{Before: c.Changes.Before, After: c.Changes.After}),
			Diff:  UnifiedDiff(c.Changes.Before, c.Changes.After),
		}
	case models.ActionDelete:
		return &Details{Kind: c.Action, Label: "Deleted:", Body: "ID " + orUnknown(c.Entity.ID.String())}
	}
	return nil
}

// UnifiedDiff renders a line diff between the JSON forms of before and after.
func UnifiedDiff(before, after map[string]any) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(PrettyJSON(before) + "\n"),
		B:        difflib.SplitLines(PrettyJSON(after) + "\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
