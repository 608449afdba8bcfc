package domain

import (
	"errors"
	"fmt"
)

// User construction errors.
var (
	ErrEmptyUserName = errors.New("user name cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
)

// Study group validation errors, in validation order.
var (
	ErrEmptyGroupName     = errors.New("group name cannot be empty")
	ErrDuplicateGroupName = errors.New("group name already exists")
	ErrEmptyCourse        = errors.New("course cannot be empty")
	ErrUnknownCourse      = errors.New("course is not in the course catalog")
	ErrEmptyLocation      = errors.New("location cannot be empty")
	ErrUnknownLocation    = errors.New("location is not in the location catalog")
	ErrInvalidDate        = errors.New("date must be a valid date/time")
	ErrInvalidMaxSize     = errors.New("max size must be greater than 0")
)

// Operation rejections.
var (
	ErrInvalidGroup     = errors.New("group is not valid")
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupExists      = errors.New("group already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrNotMember        = errors.New("user is not a member of this group")
	ErrGroupFull        = errors.New("group is full")
	ErrLastMember       = errors.New("last member cannot leave the group")
	ErrEmptyContent     = errors.New("message content cannot be empty")
	ErrMissingUser      = errors.New("user is required")
	ErrMissingRecipient = errors.New("recipient is required")
	ErrMissingGroup     = errors.New("group is required")
)

var rejections = []error{
	ErrEmptyGroupName, ErrDuplicateGroupName, ErrEmptyCourse, ErrUnknownCourse,
	ErrEmptyLocation, ErrUnknownLocation, ErrInvalidDate, ErrInvalidMaxSize,
	ErrInvalidGroup, ErrGroupNotFound, ErrGroupExists, ErrUserNotFound, ErrAlreadyMember, ErrNotMember,
	ErrGroupFull, ErrLastMember, ErrEmptyContent, ErrMissingUser, ErrMissingRecipient,
	ErrMissingGroup,
}

// Kind tells a failed construction apart from a refused operation.
type Kind int

const (
	// KindConstruction is fatal to the construction attempt (invalid user).
	KindConstruction Kind = iota + 1
	// KindRejection is a refused group or message operation.
	KindRejection
)

func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindRejection:
		return "rejection"
	default:
		return "unknown"
	}
}

// ValidationError reports which field failed and why.
type ValidationError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func constructionError(field string, err error) error {
	return &ValidationError{Kind: KindConstruction, Field: field, Err: err}
}

func rejection(field string, err error) error {
	return &ValidationError{Kind: KindRejection, Field: field, Err: err}
}

// IsConstructionError reports whether err came from a failed User construction.
func IsConstructionError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == KindConstruction
}

// IsRejection reports whether err is an expected refusal by a domain rule,
// as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
