package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog([]string{" CS3377", "CS3377", "", "CS4337"}, []string{"ECSW", "  ", "Library"})

	assert.Equal(t, []string{"CS3377", "CS4337"}, c.Courses())
	assert.Equal(t, []string{"ECSW", "Library"}, c.Locations())
	assert.True(t, c.HasCourse("CS3377"))
	assert.True(t, c.HasCourse(" CS4337 "))
	assert.False(t, c.HasCourse("cs3377"))
	assert.True(t, c.HasLocation("Library"))
	assert.False(t, c.HasLocation("Gym"))

	courses := c.Courses()
	courses[0] = "mutated"
	assert.True(t, c.HasCourse("CS3377"), "returned slices must not alias the catalog")
}

func TestCatalog_Nil(t *testing.T) {
	var c *Catalog

	assert.Empty(t, c.Courses())
	assert.Empty(t, c.Locations())
	assert.False(t, c.HasCourse("CS3377"))
	assert.False(t, c.HasLocation("ECSW"))
}

func TestParseDate(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-09-01T10:30:00Z", time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-09-01 10:30:00", time.Date(2024, 9, 1, 10, 30, 0, 0, loc)},
		{"2024-09-01 10:30", time.Date(2024, 9, 1, 10, 30, 0, 0, loc)},
		{"2024-09-01T10:30", time.Date(2024, 9, 1, 10, 30, 0, 0, loc)},
		{" 2024-09-01 ", time.Date(2024, 9, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}

	for _, bad := range []string{"", "   ", "Invalid Date Format", "2024-13-01"} {
		_, err := ParseDate(bad, loc)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
		assert.True(t, IsRejection(err))
	}
}

func TestIsRejection(t *testing.T) {
	assert.False(t, IsRejection(nil))
	assert.True(t, IsRejection(ErrGroupFull))
	assert.True(t, IsRejection(ErrLastMember))
	assert.False(t, IsRejection(assert.AnError))
	assert.Equal(t, "construction", KindConstruction.String())
	assert.Equal(t, "rejection", KindRejection.String())
}
