package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StudyGroup is a named, bounded-capacity gathering tied to a course,
// a location and a meeting date. Members are kept in the membership relation.
type StudyGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Course    string    `json:"course"`
	Location  string    `json:"location"`
	Date      time.Time `json:"date"`
	MaxSize   int       `json:"max_size"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupParams is the raw input for a new study group.
type GroupParams struct {
	Name     string
	Course   string
	Location string
	Date     time.Time
	MaxSize  int
}

// NameLookup reports whether a group name is already taken.
type NameLookup func(name string) (bool, error)

// NewStudyGroup runs the validation chain and stops at the first failure:
// name, name uniqueness, course, course catalog, location, location catalog,
// date, max size. nameTaken may be nil when the caller checks uniqueness
// itself. A nil catalog admits no course. A lookup failure is returned
// wrapped and is not a rejection.
func NewStudyGroup(p GroupParams, catalog *Catalog, nameTaken NameLookup) (*StudyGroup, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, rejection("name", ErrEmptyGroupName)
	}
	if nameTaken != nil {
		taken, err := nameTaken(name)
		if err != nil {
			return nil, fmt.Errorf("failed to check group name: %w", err)
		}
		if taken {
			return nil, rejection("name", ErrDuplicateGroupName)
		}
	}

	course := strings.TrimSpace(p.Course)
	if course == "" {
		return nil, rejection("course", ErrEmptyCourse)
	}
	if !catalog.HasCourse(course) {
		return nil, rejection("course", ErrUnknownCourse)
	}

	location := strings.TrimSpace(p.Location)
	if location == "" {
		return nil, rejection("location", ErrEmptyLocation)
	}
	if !catalog.HasLocation(location) {
		return nil, rejection("location", ErrUnknownLocation)
	}

	if p.Date.IsZero() {
		return nil, rejection("date", ErrInvalidDate)
	}
	if p.MaxSize <= 0 {
		return nil, rejection("max_size", ErrInvalidMaxSize)
	}

	return &StudyGroup{
		ID:        uuid.New().String(),
		Name:      name,
		Course:    course,
		Location:  location,
		Date:      p.Date,
		MaxSize:   p.MaxSize,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Valid reports whether g is a constructed group with an identity.
func (g *StudyGroup) Valid() bool {
	return g != nil && g.ID != ""
}

// CanAdmit decides whether a user may join given the current member count
// and whether the user is already a member.
func (g *StudyGroup) CanAdmit(memberCount int, isMember bool) error {
	switch {
	case !g.Valid():
		return ErrInvalidGroup
	case isMember:
		return ErrAlreadyMember
	case memberCount >= g.MaxSize:
		return ErrGroupFull
	}
	return nil
}

// CanRelease decides whether a user may leave. The last member never may.
func (g *StudyGroup) CanRelease(memberCount int, isMember bool) error {
	switch {
	case !g.Valid():
		return ErrInvalidGroup
	case !isMember:
		return ErrNotMember
	case memberCount <= 1:
		return ErrLastMember
	}
	return nil
}

func (g *StudyGroup) String() string {
	return fmt.Sprintf("%s (%s @ %s, %s, max %d)", g.Name, g.Course, g.Location, g.Date.Format(time.DateTime), g.MaxSize)
}
