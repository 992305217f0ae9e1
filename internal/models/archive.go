package models

// ArchiveIndex lists the yearly archives that can be fetched.
type ArchiveIndex struct {
	Years []ArchiveYear `json:"years"`
}

// ArchiveYear is one year of archived changelogs.
type ArchiveYear struct {
	Year         int      `json:"year"`
	Countries    []string `json:"countries"`
	TotalChanges int      `json:"total_changes,omitempty"`
}

// Has reports whether the index carries an archive for code in year.
func (ix *ArchiveIndex) Has(year int, code string) bool {
	for _, y := range ix.Years {
		if y.Year != year {
			continue
		}
		for _, c := range y.Countries {
			if c == code {
				return true
			}
		}
	}
	return false
}
