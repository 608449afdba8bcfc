package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/membership"
)

type credential struct {
	hash  []byte
	email string
}

// Directory is the in-memory Store. A single RWMutex guards all state.
type Directory struct {
	mu sync.RWMutex

	catalog    *domain.Catalog
	bcryptCost int

	users       map[string]*domain.User
	credentials map[string]credential
	groups      map[string]*domain.StudyGroup
	groupOrder  []string
	groupNames  map[string]string // name -> group ID
	members     *membership.Table
	messages    []*domain.Message
}

type Option func(*Directory)

// WithBcryptCost sets the cost used to hash stored passwords.
func WithBcryptCost(cost int) Option {
	return func(d *Directory) {
		d.bcryptCost = cost
	}
}

// NewDirectory returns an empty in-memory store validating groups against
// catalog.
//
// Parameters:
//   - catalog: The course and location reference sets
//   - opts: Optional settings such as WithBcryptCost
//
// Returns:
//   - *Directory: The store
func NewDirectory(catalog *domain.Catalog, opts ...Option) *Directory {
	d := &Directory{
		catalog:    catalog,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.clear()
	return d
}

func (d *Directory) clear() {
	d.users = make(map[string]*domain.User)
	d.credentials = make(map[string]credential)
	d.groups = make(map[string]*domain.StudyGroup)
	d.groupOrder = nil
	d.groupNames = make(map[string]string)
	d.members = membership.NewTable()
	d.messages = nil
}

func (d *Directory) SaveUser(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, domain.ErrMissingUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), d.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[user.ID]; ok {
		return false, nil
	}
	d.users[user.ID] = user
	d.credentials[user.Name] = credential{hash: hash, email: user.Email}
	return true, nil
}

func (d *Directory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (d *Directory) CheckCredentials(ctx context.Context, name, password string) (bool, error) {
	d.mu.RLock()
	cred, ok := d.credentials[strings.TrimSpace(name)]
	d.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword(cred.hash, []byte(password)) == nil, nil
}

func (d *Directory) SaveStudyGroup(ctx context.Context, group *domain.StudyGroup) (bool, error) {
	if !group.Valid() {
		return false, domain.ErrInvalidGroup
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.groups[group.ID]; ok {
		return false, nil
	}
	if err := d.insertGroup(group); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Directory) CreateStudyGroup(ctx context.Context, group *domain.StudyGroup, creatorID string) error {
	if !group.Valid() {
		return domain.ErrInvalidGroup
	}
	if creatorID == "" {
		return domain.ErrMissingUser
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.groups[group.ID]; ok {
		return domain.ErrGroupExists
	}
	if err := group.CanAdmit(0, false); err != nil {
		return err
	}
	if err := d.insertGroup(group); err != nil {
		return err
	}
	d.members.Add(group.ID, creatorID)
	return nil
}

func (d *Directory) insertGroup(group *domain.StudyGroup) error {
	if _, taken := d.groupNames[group.Name]; taken {
		return domain.ErrDuplicateGroupName
	}
	d.groups[group.ID] = group
	d.groupNames[group.Name] = group.ID
	d.groupOrder = append(d.groupOrder, group.ID)
	return nil
}

func (d *Directory) GetStudyGroup(ctx context.Context, id string) (*domain.StudyGroup, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	group, ok := d.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return group, nil
}

func (d *Directory) ListStudyGroups(ctx context.Context) ([]*domain.StudyGroup, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	groups := make([]*domain.StudyGroup, 0, len(d.groupOrder))
	for _, id := range d.groupOrder {
		groups = append(groups, d.groups[id])
	}
	return groups, nil
}

func (d *Directory) GroupNameExists(ctx context.Context, name string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.groupNames[strings.TrimSpace(name)]
	return ok, nil
}

func (d *Directory) AddMember(ctx context.Context, groupID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	group, ok := d.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if err := group.CanAdmit(d.members.Count(groupID), d.members.Has(groupID, userID)); err != nil {
		return err
	}
	d.members.Add(groupID, userID)
	return nil
}

func (d *Directory) RemoveMember(ctx context.Context, groupID, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	group, ok := d.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	if err := group.CanRelease(d.members.Count(groupID), d.members.Has(groupID, userID)); err != nil {
		return err
	}
	d.members.Remove(groupID, userID)
	return nil
}

func (d *Directory) Members(ctx context.Context, groupID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.groups[groupID]; !ok {
		return nil, domain.ErrGroupNotFound
	}
	return d.members.Members(groupID), nil
}

func (d *Directory) UserGroups(ctx context.Context, userID string) ([]*domain.StudyGroup, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := d.members.Groups(userID)
	groups := make([]*domain.StudyGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, d.groups[id])
	}
	return groups, nil
}

func (d *Directory) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.members.Has(groupID, userID), nil
}

func (d *Directory) SaveMessage(ctx context.Context, sender *domain.User, msg *domain.Message) (bool, error) {
	if sender == nil || msg == nil {
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.messages = append(d.messages, msg)
	return true, nil
}

func (d *Directory) MessagesForUser(ctx context.Context, user *domain.User) ([]*domain.Message, error) {
	if user == nil {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	groupIDs := d.members.Groups(user.ID)
	var result []*domain.Message
	for _, msg := range d.messages {
		switch msg.Kind() {
		case domain.MessageDirect:
			if msg.RecipientName == user.Name {
				result = append(result, msg)
			}
		case domain.MessageGroup:
			if slices.Contains(groupIDs, msg.GroupID) {
				result = append(result, msg)
			}
		}
	}
	return result, nil
}

func (d *Directory) Catalog() *domain.Catalog {
	return d.catalog
}

func (d *Directory) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clear()
	return nil
}

func (d *Directory) Close() error {
	return nil
}

var _ Store = (*Directory)(nil)
