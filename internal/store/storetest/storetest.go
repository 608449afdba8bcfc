// Package storetest is a behavioural test suite shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/store"
)

// Factory returns an empty store backed by Catalog().
type Factory func(t *testing.T) store.Store

// Catalog is the reference set the suite's groups are validated against.
func Catalog() *domain.Catalog {
	return domain.NewCatalog([]string{"CS3377", "CS4348", "CS2336"}, []string{"ECSW", "Library", "SLC"})
}

// Run executes the whole suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Credentials", func(t *testing.T) { testCredentials(t, newStore(t)) })
	t.Run("CreateStudyGroup", func(t *testing.T) { testCreateStudyGroup(t, newStore(t)) })
	t.Run("SaveStudyGroup", func(t *testing.T) { testSaveStudyGroup(t, newStore(t)) })
	t.Run("Membership", func(t *testing.T) { testMembership(t, newStore(t)) })
	t.Run("Capacity", func(t *testing.T) { testCapacity(t, newStore(t)) })
	t.Run("LastMember", func(t *testing.T) { testLastMember(t, newStore(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("MessagesFollowCurrentMembership", func(t *testing.T) { testMessagesFollowMembership(t, newStore(t)) })
	t.Run("ConcurrentJoins", func(t *testing.T) { testConcurrentJoins(t, newStore(t)) })
	t.Run("Reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

// NewUser builds a valid user or fails the test.
func NewUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, name+"-secret", name+"@utdallas.edu")
	require.NoError(t, err)
	return user
}

// NewGroup builds a valid group against Catalog() or fails the test.
func NewGroup(t *testing.T, name string, maxSize int) *domain.StudyGroup {
	t.Helper()
	group, err := domain.NewStudyGroup(domain.GroupParams{
		Name:     name,
		Course:   "CS3377",
		Location: "ECSW",
		Date:     time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC),
		MaxSize:  maxSize,
	}, Catalog(), nil)
	require.NoError(t, err)
	return group
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser(t, "alice")

	saved, err := s.SaveUser(ctx, alice)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.SaveUser(ctx, alice)
	require.NoError(t, err)
	assert.False(t, saved, "saving the same user twice")

	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "alice@utdallas.edu", got.Email)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testCredentials(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.SaveUser(ctx, NewUser(t, "bob"))
	require.NoError(t, err)

	ok, err := s.CheckCredentials(ctx, "bob", "bob-secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CheckCredentials(ctx, "bob", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.CheckCredentials(ctx, "nobody", "bob-secret")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testCreateStudyGroup(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser(t, "alice")
	g1 := NewGroup(t, "G1", 5)

	require.NoError(t, s.CreateStudyGroup(ctx, g1, alice.ID))

	got, err := s.GetStudyGroup(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, "G1", got.Name)
	assert.Equal(t, "CS3377", got.Course)
	assert.Equal(t, "ECSW", got.Location)
	assert.Equal(t, 5, got.MaxSize)
	assert.True(t, g1.Date.Equal(got.Date))

	members, err := s.Members(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, members)

	exists, err := s.GroupNameExists(ctx, "G1")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.GroupNameExists(ctx, "G2")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.CreateStudyGroup(ctx, NewGroup(t, "G1", 3), alice.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateGroupName)

	groups, err := s.ListStudyGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	err = s.CreateStudyGroup(ctx, NewGroup(t, "G3", 3), "")
	assert.ErrorIs(t, err, domain.ErrMissingUser)
	err = s.CreateStudyGroup(ctx, nil, alice.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidGroup)

	_, err = s.GetStudyGroup(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func testSaveStudyGroup(t *testing.T, s store.Store) {
	ctx := context.Background()
	g := NewGroup(t, "Solo", 2)

	saved, err := s.SaveStudyGroup(ctx, g)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.SaveStudyGroup(ctx, g)
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = s.SaveStudyGroup(ctx, NewGroup(t, "Solo", 2))
	assert.ErrorIs(t, err, domain.ErrDuplicateGroupName)

	members, err := s.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func testMembership(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice, bob := NewUser(t, "alice"), NewUser(t, "bob")
	g1, g2 := NewGroup(t, "G1", 5), NewGroup(t, "G2", 5)
	require.NoError(t, s.CreateStudyGroup(ctx, g1, alice.ID))
	require.NoError(t, s.CreateStudyGroup(ctx, g2, bob.ID))

	require.NoError(t, s.AddMember(ctx, g1.ID, bob.ID))
	assert.ErrorIs(t, s.AddMember(ctx, g1.ID, bob.ID), domain.ErrAlreadyMember)
	assert.ErrorIs(t, s.AddMember(ctx, "missing", bob.ID), domain.ErrGroupNotFound)

	members, err := s.Members(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, members)

	groups, err := s.UserGroups(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, g2.ID, groups[0].ID)
	assert.Equal(t, g1.ID, groups[1].ID)

	isMember, err := s.IsMember(ctx, g1.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	require.NoError(t, s.RemoveMember(ctx, g1.ID, bob.ID))
	assert.ErrorIs(t, s.RemoveMember(ctx, g1.ID, bob.ID), domain.ErrNotMember)

	isMember, err = s.IsMember(ctx, g1.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	groups, err = s.UserGroups(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, g2.ID, groups[0].ID)
}

func testCapacity(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice, bob := NewUser(t, "alice"), NewUser(t, "bob")
	g := NewGroup(t, "Tiny", 1)
	require.NoError(t, s.CreateStudyGroup(ctx, g, alice.ID))

	assert.ErrorIs(t, s.AddMember(ctx, g.ID, bob.ID), domain.ErrGroupFull)

	members, err := s.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func testLastMember(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser(t, "alice")
	g := NewGroup(t, "Alone", 3)
	require.NoError(t, s.CreateStudyGroup(ctx, g, alice.ID))

	assert.ErrorIs(t, s.RemoveMember(ctx, g.ID, alice.ID), domain.ErrLastMember)

	members, err := s.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, members)
}

func testMessages(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice, bob, carol := NewUser(t, "alice"), NewUser(t, "bob"), NewUser(t, "carol")
	g := NewGroup(t, "G1", 5)
	require.NoError(t, s.CreateStudyGroup(ctx, g, alice.ID))
	require.NoError(t, s.AddMember(ctx, g.ID, bob.ID))

	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	direct, err := domain.NewDirectMessage(1, alice, bob, "hi bob", at)
	require.NoError(t, err)
	toCarol, err := domain.NewDirectMessage(2, alice, carol, "hi carol", at.Add(time.Second))
	require.NoError(t, err)
	group, err := domain.NewGroupMessage(3, alice, g, "meeting at 3", at.Add(2*time.Second))
	require.NoError(t, err)

	for _, msg := range []*domain.Message{direct, toCarol, group} {
		saved, err := s.SaveMessage(ctx, alice, msg)
		require.NoError(t, err)
		assert.True(t, saved)
	}

	saved, err := s.SaveMessage(ctx, nil, direct)
	require.NoError(t, err)
	assert.False(t, saved)
	saved, err = s.SaveMessage(ctx, alice, nil)
	require.NoError(t, err)
	assert.False(t, saved)

	got, err := s.MessagesForUser(ctx, bob)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, domain.MessageDirect, got[0].Kind())
	assert.Equal(t, "hi bob", got[0].Content)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, domain.MessageGroup, got[1].Kind())
	assert.Equal(t, "G1", got[1].GroupName)

	got, err = s.MessagesForUser(ctx, carol)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi carol", got[0].Content)

	got, err = s.MessagesForUser(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testMessagesFollowMembership(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice, dave := NewUser(t, "alice"), NewUser(t, "dave")
	g := NewGroup(t, "G1", 5)
	require.NoError(t, s.CreateStudyGroup(ctx, g, alice.ID))

	before, err := domain.NewGroupMessage(10, alice, g, "sent before dave joined", time.Now())
	require.NoError(t, err)
	_, err = s.SaveMessage(ctx, alice, before)
	require.NoError(t, err)

	got, err := s.MessagesForUser(ctx, dave)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.AddMember(ctx, g.ID, dave.ID))
	got, err = s.MessagesForUser(ctx, dave)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)

	require.NoError(t, s.RemoveMember(ctx, g.ID, dave.ID))
	got, err = s.MessagesForUser(ctx, dave)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testConcurrentJoins(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser(t, "owner")
	g := NewGroup(t, "Popular", 4)
	require.NoError(t, s.CreateStudyGroup(ctx, g, owner.ID))

	const joiners = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := range joiners {
		wg.Go(func() {
			err := s.AddMember(ctx, g.ID, fmt.Sprintf("user-%d", i))
			if err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrGroupFull)
		})
	}
	wg.Wait()

	assert.Equal(t, 3, admitted)
	members, err := s.Members(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, members, 4)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser(t, "alice")
	_, err := s.SaveUser(ctx, alice)
	require.NoError(t, err)
	g := NewGroup(t, "G1", 5)
	require.NoError(t, s.CreateStudyGroup(ctx, g, alice.ID))
	msg, err := domain.NewGroupMessage(1, alice, g, "hello", time.Now())
	require.NoError(t, err)
	_, err = s.SaveMessage(ctx, alice, msg)
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	_, err = s.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	groups, err := s.ListStudyGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
	exists, err := s.GroupNameExists(ctx, "G1")
	require.NoError(t, err)
	assert.False(t, exists)
	got, err := s.MessagesForUser(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.True(t, s.Catalog().HasCourse("CS3377"))
}
