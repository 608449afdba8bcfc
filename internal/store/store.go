// Package store holds users, study groups, the membership relation and
// messages for one directory. Stores are constructed explicitly and handed
// to the services; there is no process-wide instance.
package store

import (
	"context"

	"github.com/Gopher0727/StudyGroup/internal/domain"
)

// Store is the directory of users, groups, memberships and messages.
// Every read-modify-write is atomic with respect to the other operations.
type Store interface {
	// SaveUser records the user and its credentials under the user name.
	// It returns false when a user with the same ID was already saved.
	SaveUser(ctx context.Context, user *domain.User) (bool, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CheckCredentials(ctx context.Context, name, password string) (bool, error)

	// SaveStudyGroup returns false when the same group was already saved and
	// domain.ErrDuplicateGroupName when another group holds the name.
	SaveStudyGroup(ctx context.Context, group *domain.StudyGroup) (bool, error)
	// CreateStudyGroup saves the group and its creator as first member in one step.
	CreateStudyGroup(ctx context.Context, group *domain.StudyGroup, creatorID string) error
	GetStudyGroup(ctx context.Context, id string) (*domain.StudyGroup, error)
	ListStudyGroups(ctx context.Context) ([]*domain.StudyGroup, error)
	GroupNameExists(ctx context.Context, name string) (bool, error)

	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	// Members returns user IDs in join order.
	Members(ctx context.Context, groupID string) ([]string, error)
	// UserGroups returns the groups of userID in join order.
	UserGroups(ctx context.Context, userID string) ([]*domain.StudyGroup, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// SaveMessage returns false when sender or message is missing.
	SaveMessage(ctx context.Context, sender *domain.User, msg *domain.Message) (bool, error)
	// MessagesForUser returns, in send order, the direct messages addressed
	// to the user's name and the messages of every group the user belongs to
	// at the time of the call.
	MessagesForUser(ctx context.Context, user *domain.User) ([]*domain.Message, error)

	Catalog() *domain.Catalog
	// Reset drops all users, groups, memberships and messages. The catalog is kept.
	Reset(ctx context.Context) error
	Close() error
}
