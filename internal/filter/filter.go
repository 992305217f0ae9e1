// Package filter narrows country and change lists for display.
package filter

import (
	"strings"

	"github.com/crucial707/changelog-browser/internal/models"
)

// Countries returns the countries whose name or code contains term, ignoring
// case. A blank term returns countries unchanged.
func Countries(countries []models.CountrySummary, term string) []models.CountrySummary {
	term = normalize(term)
	if term == "" {
		return countries
	}
	out := make([]models.CountrySummary, 0, len(countries))
	for _, c := range countries {
		if contains(c.Name, term) || contains(c.Code, term) {
			out = append(out, c)
		}
	}
	return out
}

// Apply narrows changes by action kind, then entity kind, then free text over
// entity name, message and author. Relative order is preserved.
func Apply(changes []models.ChangeRecord, criteria models.FilterCriteria) []models.ChangeRecord {
	action := strings.TrimSpace(criteria.Action)
	entity := strings.TrimSpace(criteria.EntityType)
	term := normalize(criteria.Term)
	if action == "" && entity == "" && term == "" {
		return changes
	}

	out := make([]models.ChangeRecord, 0, len(changes))
	for _, c := range changes {
		if action != "" && c.Action != action {
			continue
		}
		if entity != "" && c.EntityType != entity {
			continue
		}
		if term != "" && !MatchesTerm(c, term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MatchesTerm reports whether the entity name, message or author of c
// contains term. Empty fields never match.
func MatchesTerm(c models.ChangeRecord, term string) bool {
	term = normalize(term)
	return contains(c.Entity.Name, term) ||
		contains(c.Message, term) ||
		contains(c.Author, term)
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// contains expects an already lowered needle.
func contains(field, needle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), needle)
}
