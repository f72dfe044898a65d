package candidate

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("candidate not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrEmptyUpdate    = errors.New("no fields to update")
)

// Candidate is a recruiting record. ExperienceYears is nil when the source
// document carries no value.
type Candidate struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	FullName        string    `json:"fullname" bson:"fullname"`
	Email           string    `json:"email" bson:"email"`
	Address         string    `json:"address" bson:"address"`
	Education       string    `json:"education" bson:"education"`
	PhoneNumber     string    `json:"phone_number" bson:"phone_number"`
	ExperienceYears *float64  `json:"experience_years" bson:"experience_years,omitempty"`
	Skills          []string  `json:"skills" bson:"skills"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Patch holds the fields of a partial update; nil means unchanged.
type Patch struct {
	FullName        *string
	Email           *string
	Address         *string
	Education       *string
	PhoneNumber     *string
	ExperienceYears *float64
	Skills          []string
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Address == nil && p.Education == nil &&
		p.PhoneNumber == nil && p.ExperienceYears == nil && p.Skills == nil
}

// Apply copies the set fields of p onto c.
func (p Patch) Apply(c *Candidate) {
	if p.FullName != nil {
		c.FullName = *p.FullName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Education != nil {
		c.Education = *p.Education
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.ExperienceYears != nil {
		v := *p.ExperienceYears
		c.ExperienceYears = &v
	}
	if p.Skills != nil {
		c.Skills = append([]string(nil), p.Skills...)
	}
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query selects one page of candidates. Search matches case-insensitively as a
// literal substring of any text field or skill.
type Query struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps page and limit to usable values.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}
