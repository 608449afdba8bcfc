package domain

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate converts user input into a meeting time in loc. Blank or
// unrecognised input is rejected with ErrInvalidDate so that strings never
// reach NewStudyGroup.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, rejection("date", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, rejection("date", fmt.Errorf("%w: %q", ErrInvalidDate, s))
}
