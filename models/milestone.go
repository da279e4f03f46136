package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Milestone struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectReference primitive.ObjectID `bson:"projectReference" json:"projectReference"`
	Name             string             `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Description      string             `bson:"description" json:"description" validate:"required,min=1,max=1000"`
	Start            time.Time          `bson:"start" json:"start"`
	End              time.Time          `bson:"end" json:"end"`
	IsCompleted      *bool              `bson:"isCompleted" json:"isCompleted"`
	Members          []Member           `bson:"members" json:"members" validate:"dive"`
}

// IsMissingProperties reports whether m is absent, lacks a required field, or carries the
// zero time in start or end. The zero time is how an unset date arrives over JSON.
func (m *Milestone) IsMissingProperties() bool {
	return m == nil ||
		m.ProjectReference.IsZero() ||
		m.Name == "" ||
		m.Description == "" ||
		m.Members == nil ||
		m.IsCompleted == nil ||
		m.Start.IsZero() ||
		m.End.IsZero()
}

func (m *Milestone) Validate() error {
	return validate.Struct(m)
}

// Completed treats an unset flag as not completed.
func (m *Milestone) Completed() bool {
	return m.IsCompleted != nil && *m.IsCompleted
}

// Status derives the milestone status at now. A milestone ending exactly at now is still open.
func (m *Milestone) Status(now time.Time) Status {
	switch {
	case m.Completed():
		return StatusCompleted
	case m.End.Before(now):
		return StatusExpired
	default:
		return StatusOpens
	}
}

// Equal compares every field except the id. Members are compared element-wise in order.
func (m *Milestone) Equal(other *Milestone) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Name != other.Name ||
		m.ProjectReference != other.ProjectReference ||
		!sameInstant(m.Start, other.Start) ||
		!sameInstant(m.End, other.End) ||
		m.Description != other.Description ||
		!sameFlag(m.IsCompleted, other.IsCompleted) ||
		len(m.Members) != len(other.Members) {
		return false
	}
	for i := range m.Members {
		if !m.Members[i].Equal(other.Members[i]) {
			return false
		}
	}
	return true
}

func sameFlag(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UnmarshalJSON reads start and end in any layout ParseDatetime accepts.
func (m *Milestone) UnmarshalJSON(data []byte) error {
	type plain Milestone
	aux := &struct {
		Start jsonTime `json:"start"`
		End   jsonTime `json:"end"`
		*plain
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	m.Start, m.End = aux.Start.Time, aux.End.Time
	return nil
}
