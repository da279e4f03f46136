package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults applied to a project whose dates were left unset.
var (
	DefaultProjectStart = time.Date(1971, time.November, 3, 0, 0, 0, 0, time.UTC)
	DefaultProjectEnd   = time.Date(1971, time.November, 3, 23, 59, 59, 0, time.UTC)
)

// Project never persists its milestones. They are assembled from the milestone
// collection on every read.
type Project struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required,min=1,max=255"`
	Start      time.Time          `bson:"start" json:"start"`
	End        time.Time          `bson:"end" json:"end"`
	Milestones []Milestone        `bson:"-" json:"milestones"`
}

// IsMissingProperties reports whether p is absent or has no name. Unlike milestones,
// unset project dates are defaulted rather than rejected.
func (p *Project) IsMissingProperties() bool {
	return p == nil || p.Name == ""
}

func (p *Project) Validate() error {
	return validate.Struct(p)
}

func (p *Project) ApplyDefaults() {
	if p.Start.IsZero() {
		p.Start = DefaultProjectStart
	}
	if p.End.IsZero() {
		p.End = DefaultProjectEnd
	}
}

// Status derives the project status at now from its assembled milestones. A project
// without milestones has no status and ok is false.
func (p *Project) Status(now time.Time) (status Status, ok bool) {
	if len(p.Milestones) == 0 {
		return "", false
	}
	if p.allMilestonesCompleted() {
		return StatusCompleted, true
	}
	if p.End.After(now) {
		return StatusOpens, true
	}
	return StatusExpired, true
}

func (p *Project) allMilestonesCompleted() bool {
	for i := range p.Milestones {
		if !p.Milestones[i].Completed() {
			return false
		}
	}
	return true
}

// Equal compares name, dates and the milestone list element-wise. The id is excluded.
func (p *Project) Equal(other *Project) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Name != other.Name ||
		!sameInstant(p.Start, other.Start) ||
		!sameInstant(p.End, other.End) ||
		len(p.Milestones) != len(other.Milestones) {
		return false
	}
	for i := range p.Milestones {
		if !p.Milestones[i].Equal(&other.Milestones[i]) {
			return false
		}
	}
	return true
}

// HasMember reports whether any assembled milestone embeds a member matching match.
func (p *Project) HasMember(match func(Member) bool) bool {
	for i := range p.Milestones {
		for _, member := range p.Milestones[i].Members {
			if match(member) {
				return true
			}
		}
	}
	return false
}

// UnmarshalJSON reads start and end in any layout ParseDatetime accepts.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	aux := &struct {
		Start jsonTime `json:"start"`
		End   jsonTime `json:"end"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	p.Start, p.End = aux.Start.Time, aux.End.Time
	return nil
}
