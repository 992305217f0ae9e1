package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/changelog-browser/internal/models"
)

func sampleCountries() []models.CountrySummary {
	return []models.CountrySummary{
		{Code: "US", Name: "United States", TotalChanges: 42},
		{Code: "IN", Name: "India", TotalChanges: 30},
		{Code: "GB", Name: "United Kingdom", TotalChanges: 12},
		{Code: "ZZ", Name: "ZZ", TotalChanges: 1},
	}
}

func sampleChanges() []models.ChangeRecord {
	return []models.ChangeRecord{
		{ID: "1", Action: "add", EntityType: "city", Entity: models.EntityRef{Name: "Pune"}, Author: "alice", Message: "New city"},
		{ID: "2", Action: "update", EntityType: "city", Entity: models.EntityRef{Name: "Mumbai"}, Author: "bob"},
		{ID: "3", Action: "delete", EntityType: "state", Entity: models.EntityRef{Name: "Old State"}, Author: "alice", Message: "merged into Pune district"},
		{ID: "4", Action: "update", EntityType: "country", Author: "carol", Message: "fix ISO code"},
		{ID: "5", Action: "add", EntityType: "state"},
	}
}

func ids(changes []models.ChangeRecord) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.ID
	}
	return out
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "United States", CountryName("US"))
	assert.Equal(t, "Japan", CountryName("JP"))
	assert.Equal(t, "India", CountryName("in"))
	assert.Equal(t, "QQ", CountryName("QQ"))
	assert.Equal(t, "", CountryName(""))
}

func TestFlag(t *testing.T) {
	assert.Equal(t, "\U0001F1FA\U0001F1F8", Flag("US"))
	assert.Equal(t, "\U0001F1EE\U0001F1F3", Flag("IN"))
	assert.Equal(t, Flag("US"), Flag("us"))
	assert.Equal(t, Globe, Flag(""))
	assert.Equal(t, Globe, Flag("U"))
	assert.Equal(t, Globe, Flag("USA"))
	assert.Equal(t, Globe, Flag("é"))
	assert.Equal(t, Globe, Flag("ü"))
	assert.Equal(t, Globe, Flag("日本"))
	assert.Equal(t, Globe, Flag("U1"))
}

func TestCountries_EmptyTermIsIdentity(t *testing.T) {
	in := sampleCountries()
	for _, term := range []string{"", "   ", "\t"} {
		assert.Equal(t, in, Countries(in, term))
	}
}

func TestCountries_SoundAndComplete(t *testing.T) {
	in := sampleCountries()
	for _, term := range []string{"united", "IN", "u", "kingdom", "zz", "nothing"} {
		got := Countries(in, term)
		lower := strings.ToLower(term)

		// every result matches
		for _, c := range got {
			assert.True(t,
				strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(strings.ToLower(c.Code), lower),
				"term %q returned %s", term, c.Code)
		}
		// no match is excluded
		want := 0
		for _, c := range in {
			if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(strings.ToLower(c.Code), lower) {
				want++
			}
		}
		assert.Len(t, got, want, "term %q", term)
	}
}

func TestCountries_KeepsOrder(t *testing.T) {
	got := Countries(sampleCountries(), "united")
	require.Len(t, got, 2)
	assert.Equal(t, "US", got[0].Code)
	assert.Equal(t, "GB", got[1].Code)
}

func TestApply(t *testing.T) {
	changes := sampleChanges()
	cases := []struct {
		name     string
		criteria models.FilterCriteria
		want     []string
	}{
		{"no criteria", models.FilterCriteria{}, []string{"1", "2", "3", "4", "5"}},
		{"action", models.FilterCriteria{Action: "update"}, []string{"2", "4"}},
		{"entity", models.FilterCriteria{EntityType: "state"}, []string{"3", "5"}},
		{"action and entity", models.FilterCriteria{Action: "add", EntityType: "state"}, []string{"5"}},
		{"term on name", models.FilterCriteria{Term: "mumbai"}, []string{"2"}},
		{"term on message", models.FilterCriteria{Term: "PUNE"}, []string{"1", "3"}},
		{"term on author", models.FilterCriteria{Term: "carol"}, []string{"4"}},
		{"term padded", models.FilterCriteria{Term: "  alice "}, []string{"1", "3"}},
		{"all three", models.FilterCriteria{Action: "delete", EntityType: "state", Term: "merged"}, []string{"3"}},
		{"no match", models.FilterCriteria{Action: "update", Term: "pune"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(changes, tc.criteria)))
		})
	}
}

func TestApply_SubsetAndIdempotent(t *testing.T) {
	changes := sampleChanges()
	all := map[string]bool{}
	for _, c := range changes {
		all[c.ID] = true
	}

	criteria := []models.FilterCriteria{
		{},
		{Action: "add"},
		{EntityType: "city", Term: "a"},
		{Action: "update", EntityType: "country", Term: "iso"},
		{Term: "zzz"},
	}
	for _, f := range criteria {
		once := Apply(changes, f)
		for _, c := range once {
			assert.True(t, all[c.ID], "result %s not in input", c.ID)
		}
		assert.Equal(t, ids(once), ids(Apply(once, f)), "criteria %+v", f)
	}
}

func TestApply_OrderOfFiltersIsIrrelevant(t *testing.T) {
	changes := sampleChanges()
	f := models.FilterCriteria{Action: "add", EntityType: "city", Term: "alice"}

	combined := Apply(changes, f)
	stepwise := Apply(Apply(Apply(changes, models.FilterCriteria{Term: f.Term}),
		models.FilterCriteria{EntityType: f.EntityType}),
		models.FilterCriteria{Action: f.Action})

	assert.Equal(t, ids(combined), ids(stepwise))
}

func TestFieldMatch(t *testing.T) {
	obj := map[string]any{
		"author": "Alice",
		"entity": map[string]any{"name": "Pune", "id": float64(7)},
		"tags":   []any{"x"},
	}
	assert.True(t, FieldMatch(obj, "pun", "entity.name"))
	assert.True(t, FieldMatch(obj, "7", "entity.id"))
	assert.True(t, FieldMatch(obj, "ALI", "message", "author"))
	assert.False(t, FieldMatch(obj, "pune", "author", "entity.missing", "tags.name"))

	_, ok := Lookup(obj, "entity.name.deeper")
	assert.False(t, ok)
}

func TestApplyFields(t *testing.T) {
	changes := sampleChanges()
	changes[1].Changes = &models.ChangePayload{
		Before: map[string]any{"population": 100},
		After:  map[string]any{"population": 120},
	}

	assert.Equal(t, []string{"2"}, ids(ApplyFields(changes, "120", "changes.after.population")))
	assert.Equal(t, []string{"1", "3"}, ids(ApplyFields(changes, "ALICE", "author")))
	assert.Empty(t, ApplyFields(changes, "pune", "author"))
	assert.Len(t, ApplyFields(changes, "  ", "author"), len(changes))
}
