package models

// FilterCriteria narrows a change list. Each dimension is optional; an empty
// value means no constraint on that dimension.
type FilterCriteria struct {
	Action     string `json:"action,omitempty" validate:"omitempty,oneof=add update delete"`
	EntityType string `json:"entity,omitempty" validate:"omitempty,max=32"`
	Term       string `json:"q,omitempty" validate:"max=200"`
}

// IsEmpty reports whether no dimension is constrained.
func (f FilterCriteria) IsEmpty() bool {
	return f.Action == "" && f.EntityType == "" && f.Term == ""
}
