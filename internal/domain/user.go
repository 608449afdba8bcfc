package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a validated identity record. Group memberships are not stored on
// the user; they are read from the membership relation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser validates name, password and email in that order and returns a
// construction error for the first one that is blank.
func NewUser(name, password, email string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, constructionError("name", ErrEmptyUserName)
	}
	if strings.TrimSpace(password) == "" {
		return nil, constructionError("password", ErrEmptyPassword)
	}
	if strings.TrimSpace(email) == "" {
		return nil, constructionError("email", ErrEmptyEmail)
	}

	return &User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (u *User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}
