package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Member struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Firstname string             `bson:"firstname" json:"firstname" validate:"required,min=1,max=255"`
	Lastname  string             `bson:"lastname" json:"lastname" validate:"required,min=1,max=255"`
}

// Equal compares firstname and lastname exactly. The id is not part of a member's identity
// as a value, so a stored member and its embedded copy compare equal.
func (m Member) Equal(other Member) bool {
	return m.Firstname == other.Firstname && m.Lastname == other.Lastname
}

// IsMissingProperties reports whether m is absent or lacks a required field.
func (m *Member) IsMissingProperties() bool {
	return m == nil || m.Firstname == "" || m.Lastname == ""
}

func (m *Member) Validate() error {
	return validate.Struct(m)
}
