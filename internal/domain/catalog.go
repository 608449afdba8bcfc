package domain

import (
	"slices"
	"strings"
)

// Catalog is the fixed pair of reference sets a study group is checked
// against. It is immutable after construction.
type Catalog struct {
	courses   []string
	locations []string
	courseSet map[string]struct{}
	placeSet  map[string]struct{}
}

// NewCatalog trims the entries, drops blanks and duplicates, and keeps the
// first-seen order.
func NewCatalog(courses, locations []string) *Catalog {
	c := &Catalog{
		courseSet: make(map[string]struct{}, len(courses)),
		placeSet:  make(map[string]struct{}, len(locations)),
	}
	c.courses = addAll(c.courseSet, courses)
	c.locations = addAll(c.placeSet, locations)
	return c
}

func addAll(set map[string]struct{}, values []string) []string {
	ordered := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		ordered = append(ordered, v)
	}
	return ordered
}

// Courses returns a copy of the course codes in configured order.
func (c *Catalog) Courses() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.courses)
}

// Locations returns a copy of the building codes in configured order.
func (c *Catalog) Locations() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.locations)
}

// HasCourse matches the trimmed course exactly. A nil catalog has no courses.
func (c *Catalog) HasCourse(course string) bool {
	if c == nil {
		return false
	}
	_, ok := c.courseSet[strings.TrimSpace(course)]
	return ok
}

// HasLocation matches the trimmed location exactly. A nil catalog has no
// locations.
func (c *Catalog) HasLocation(location string) bool {
	if c == nil {
		return false
	}
	_, ok := c.placeSet[strings.TrimSpace(location)]
	return ok
}
