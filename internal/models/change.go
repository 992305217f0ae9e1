package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Action kinds carried by a change record.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entity kinds carried by a change record. Other values are passed through untouched.
const (
	EntityCity    = "city"
	EntityState   = "state"
	EntityCountry = "country"
)

// ChangeRecord is one entry of a changelog.
type ChangeRecord struct {
	ID         string         `json:"id"`
	Timestamp  string         `json:"timestamp"`
	Author     string         `json:"author"`
	Action     string         `json:"action"`      // add, update, delete
	EntityType string         `json:"entity_type"` // city, state, country
	Entity     EntityRef      `json:"entity"`
	Message    string         `json:"message,omitempty"`
	Changes    *ChangePayload `json:"changes,omitempty"`
}

// EntityRef identifies the entity a change applies to.
type EntityRef struct {
	Name string   `json:"name,omitempty"`
	ID   EntityID `json:"id,omitempty"`
}

// ChangePayload is the action-specific part of a change record: Added for add,
// Before/After for update. Delete records usually carry none.
type ChangePayload struct {
	Added  map[string]any `json:"added,omitempty"`
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
}

// EntityID accepts both JSON strings and JSON numbers. Numbers keep their
// literal form so large IDs survive a round trip.
type EntityID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = EntityID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs back as numbers and everything else as strings.
func (id EntityID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the ID as text.
func (id EntityID) String() string { return string(id) }

// HasPayloadFor reports whether the payload matches the record's action kind.
func (c ChangeRecord) HasPayloadFor() bool {
	switch c.Action {
	case ActionAdd:
		return c.Changes != nil && c.Changes.Added != nil
	case ActionUpdate:
		return c.Changes != nil && c.Changes.Before != nil && c.Changes.After != nil
	case ActionDelete:
		return true
	}
	return false
}

// IsKnownAction reports whether s is one of the three action kinds.
func IsKnownAction(s string) bool {
	switch strings.TrimSpace(s) {
	case ActionAdd, ActionUpdate, ActionDelete:
		return true
	}
	return false
}
