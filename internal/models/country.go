package models

import "sort"

// CountryStats is the per-country entry of stats.json.
type CountryStats struct {
	TotalChanges int            `json:"total_changes"`
	Actions      map[string]int `json:"actions,omitempty"`
	Entities     map[string]int `json:"entities,omitempty"`
}

// Stats is the stats.json document.
type Stats struct {
	TotalChanges int                     `json:"total_changes,omitempty"`
	GeneratedAt  string                  `json:"generated_at,omitempty"`
	ByCountry    map[string]CountryStats `json:"by_country"`
}

// CountrySummary is one row of the country list.
type CountrySummary struct {
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	TotalChanges int            `json:"total_changes"`
	Actions      map[string]int `json:"actions,omitempty"`
	Entities     map[string]int `json:"entities,omitempty"`
}

// Summaries converts the by_country map into a list ordered by total changes,
// highest first, ties broken by code. name maps a code to its display name.
func (s *Stats) Summaries(name func(code string) string) []CountrySummary {
	out := make([]CountrySummary, 0, len(s.ByCountry))
	for code, cs := range s.ByCountry {
		total := cs.TotalChanges
		if total < 0 {
			total = 0
		}
		out = append(out, CountrySummary{
			Code:         code,
			Name:         name(code),
			TotalChanges: total,
			Actions:      cs.Actions,
			Entities:     cs.Entities,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalChanges != out[j].TotalChanges {
			return out[i].TotalChanges > out[j].TotalChanges
		}
		return out[i].Code < out[j].Code
	})
	return out
}
