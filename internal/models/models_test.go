package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityID_AcceptsStringsAndNumbers(t *testing.T) {
	var refs []EntityRef
	err := json.Unmarshal([]byte(`[{"name":"a","id":42},{"name":"b","id":"x-7"},{"name":"c","id":null},{"name":"d"}]`), &refs)
	require.NoError(t, err)
	require.Len(t, refs, 4)

	assert.Equal(t, EntityID("42"), refs[0].ID)
	assert.Equal(t, EntityID("x-7"), refs[1].ID)
	assert.Equal(t, EntityID(""), refs[2].ID)
	assert.Equal(t, EntityID(""), refs[3].ID)

	out, err := json.Marshal(refs[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","id":42}`, string(out))
}

func TestChangelogDocument_DecodesBareArray(t *testing.T) {
	var doc ChangelogDocument
	err := json.Unmarshal([]byte(`[{"id":"1","action":"add"},{"id":"2","action":"delete"}]`), &doc)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.TotalChanges)
	require.Len(t, doc.Changes, 2)
	assert.Equal(t, "1", doc.Changes[0].ID)
	assert.Equal(t, "2", doc.Changes[1].ID)
}

func TestChangelogDocument_DecodesObject(t *testing.T) {
	var doc ChangelogDocument
	err := json.Unmarshal([]byte(`{"country_code":"US","country_name":"United States","total_changes":9,"changes":[{"id":"b"},{"id":"a"}]}`), &doc)
	require.NoError(t, err)

	assert.Equal(t, "US", doc.CountryCode)
	assert.Equal(t, 9, doc.TotalChanges)
	// delivery order is kept
	assert.Equal(t, "b", doc.Changes[0].ID)
	assert.Equal(t, "a", doc.Changes[1].ID)
}

func TestStats_SummariesOrderedByTotal(t *testing.T) {
	s := Stats{ByCountry: map[string]CountryStats{
		"FR": {TotalChanges: 5},
		"US": {TotalChanges: 42, Actions: map[string]int{"add": 40, "update": 2}},
		"DE": {TotalChanges: 5},
		"XX": {TotalChanges: -3},
	}}

	got := s.Summaries(func(code string) string { return "name-" + code })
	require.Len(t, got, 4)

	codes := []string{got[0].Code, got[1].Code, got[2].Code, got[3].Code}
	assert.Equal(t, []string{"US", "DE", "FR", "XX"}, codes)
	assert.Equal(t, "name-US", got[0].Name)
	assert.Equal(t, 40, got[0].Actions["add"])
	assert.Equal(t, 0, got[3].TotalChanges)
}

func TestChangeRecord_HasPayloadFor(t *testing.T) {
	cases := []struct {
		name string
		rec  ChangeRecord
		want bool
	}{
		{"add with snapshot", ChangeRecord{Action: ActionAdd, Changes: &ChangePayload{Added: map[string]any{"a": 1}}}, true},
		{"add without payload", ChangeRecord{Action: ActionAdd}, false},
		{"update pair", ChangeRecord{Action: ActionUpdate, Changes: &ChangePayload{Before: map[string]any{}, After: map[string]any{}}}, true},
		{"update missing after", ChangeRecord{Action: ActionUpdate, Changes: &ChangePayload{Before: map[string]any{}}}, false},
		{"delete", ChangeRecord{Action: ActionDelete}, true},
		{"unknown", ChangeRecord{Action: "rename"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.HasPayloadFor())
		})
	}
}

func TestArchiveIndex_Has(t *testing.T) {
	ix := ArchiveIndex{Years: []ArchiveYear{{Year: 2024, Countries: []string{"US", "IN"}}}}
	assert.True(t, ix.Has(2024, "IN"))
	assert.False(t, ix.Has(2023, "IN"))
	assert.False(t, ix.Has(2024, "FR"))
}
