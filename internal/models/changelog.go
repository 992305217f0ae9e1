package models

import (
	"bytes"
	"encoding/json"
)

// ChangelogDocument is a country (or global, or archived) changelog. Changes are
// kept in delivery order.
type ChangelogDocument struct {
	CountryCode  string         `json:"country_code,omitempty"`
	CountryName  string         `json:"country_name,omitempty"`
	Year         int            `json:"year,omitempty"`
	TotalChanges int            `json:"total_changes"`
	Changes      []ChangeRecord `json:"changes"`
}

// changelogDocumentJSON breaks the UnmarshalJSON recursion.
type changelogDocumentJSON ChangelogDocument

// UnmarshalJSON accepts either a document object or a bare array of change
// records; the global changelog has been published in both shapes.
func (d *ChangelogDocument) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var changes []ChangeRecord
		if err := json.Unmarshal(trimmed, &changes); err != nil {
			return err
		}
		*d = ChangelogDocument{TotalChanges: len(changes), Changes: changes}
		return nil
	}
	var doc changelogDocumentJSON
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return err
	}
	*d = ChangelogDocument(doc)
	if d.TotalChanges == 0 && len(d.Changes) > 0 {
		d.TotalChanges = len(d.Changes)
	}
	return nil
}
