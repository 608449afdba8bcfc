// Package facade is the in-process entry point. Every rejection is logged by
// the services and surfaced here as nil or false.
package facade

import (
	"context"
	"time"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/service"
)

// Facade answers with plain values; errors stay in the service logs.
type Facade struct {
	users    service.IUserService
	groups   service.IGroupService
	messages service.IMessageService
}

// New wires the three services behind one entry point.
func New(users service.IUserService, groups service.IGroupService, messages service.IMessageService) *Facade {
	return &Facade{users: users, groups: groups, messages: messages}
}

// RegisterUser returns the saved user, or nil when registration is rejected
// (a blank field, for example) or fails.
func (f *Facade) RegisterUser(ctx context.Context, name, password, email string) *domain.User {
	user, err := f.users.Register(ctx, name, password, email)
	if err != nil {
		return nil
	}
	return user
}

// CreateStudyGroup returns the new group with creator as its only member,
// or nil when validation fails.
func (f *Facade) CreateStudyGroup(ctx context.Context, name, course, location string, date time.Time, maxSize int, creator *domain.User) *domain.StudyGroup {
	group, err := f.groups.CreateGroup(ctx, domain.GroupParams{
		Name:     name,
		Course:   course,
		Location: location,
		Date:     date,
		MaxSize:  maxSize,
	}, creator)
	if err != nil {
		return nil
	}
	return group
}

// JoinStudyGroup reports whether user is now a member of the group.
func (f *Facade) JoinStudyGroup(ctx context.Context, groupID string, user *domain.User) bool {
	return f.groups.JoinGroup(ctx, groupID, user) == nil
}

// LeaveStudyGroup reports whether user left the group. The last member cannot
// leave.
func (f *Facade) LeaveStudyGroup(ctx context.Context, groupID string, user *domain.User) bool {
	return f.groups.LeaveGroup(ctx, groupID, user) == nil
}

// SendDirectMessage reports whether the message was stored.
func (f *Facade) SendDirectMessage(ctx context.Context, sender, recipient *domain.User, content string) bool {
	_, err := f.messages.SendDirect(ctx, sender, recipient, content)
	return err == nil
}

// SendGroupMessage reports whether the message was stored. Only members may
// post.
func (f *Facade) SendGroupMessage(ctx context.Context, sender *domain.User, group *domain.StudyGroup, content string) bool {
	_, err := f.messages.SendGroup(ctx, sender, group, content)
	return err == nil
}

// GetMessages returns the user's inbox, or nil on failure.
func (f *Facade) GetMessages(ctx context.Context, user *domain.User) []*domain.Message {
	messages, err := f.messages.MessagesFor(ctx, user)
	if err != nil {
		return nil
	}
	return messages
}

// GroupMembers returns member user IDs in join order.
func (f *Facade) GroupMembers(ctx context.Context, groupID string) []string {
	members, err := f.groups.Members(ctx, groupID)
	if err != nil {
		return nil
	}
	return members
}

// UserGroups returns the groups user belongs to, or nil on failure.
func (f *Facade) UserGroups(ctx context.Context, user *domain.User) []*domain.StudyGroup {
	groups, err := f.groups.UserGroups(ctx, user)
	if err != nil {
		return nil
	}
	return groups
}

// ListStudyGroups returns every group in creation order, or nil on failure.
func (f *Facade) ListStudyGroups(ctx context.Context) []*domain.StudyGroup {
	groups, err := f.groups.ListGroups(ctx)
	if err != nil {
		return nil
	}
	return groups
}
