package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, name string) *User {
	t.Helper()
	u, err := NewUser(name, "password", name+"@example.com")
	require.NoError(t, err)
	return u
}

func TestNewDirectMessage(t *testing.T) {
	alice, bob := mustUser(t, "alice"), mustUser(t, "bob")
	at := time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)

	msg, err := NewDirectMessage(7, alice, bob, "hi", at)
	require.NoError(t, err)

	assert.Equal(t, int64(7), msg.ID)
	assert.Equal(t, MessageDirect, msg.Kind())
	assert.Equal(t, "alice", msg.SenderName)
	assert.Equal(t, "bob", msg.RecipientName)
	assert.Equal(t, bob.ID, msg.RecipientID)
	assert.Empty(t, msg.GroupID)
	assert.Equal(t, "[2024-09-01 10:30:00] alice -> bob: hi", msg.String())

	_, err = NewDirectMessage(1, nil, bob, "hi", at)
	assert.ErrorIs(t, err, ErrMissingUser)
	_, err = NewDirectMessage(1, alice, nil, "hi", at)
	assert.ErrorIs(t, err, ErrMissingRecipient)
	_, err = NewDirectMessage(1, alice, bob, "   ", at)
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestNewGroupMessage(t *testing.T) {
	alice := mustUser(t, "alice")
	group, err := NewStudyGroup(validParams(), testCatalog(), nil)
	require.NoError(t, err)
	at := time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC)

	msg, err := NewGroupMessage(9, alice, group, "hi group", at)
	require.NoError(t, err)

	assert.Equal(t, MessageGroup, msg.Kind())
	assert.Equal(t, group.ID, msg.GroupID)
	assert.Equal(t, "G1", msg.GroupName)
	assert.Empty(t, msg.RecipientID)
	assert.Empty(t, msg.RecipientName)
	assert.Equal(t, "[2024-09-01 10:30:00] alice -> Group 'G1': hi group", msg.String())

	_, err = NewGroupMessage(1, alice, nil, "hi", at)
	assert.ErrorIs(t, err, ErrMissingGroup)
	_, err = NewGroupMessage(1, alice, &StudyGroup{}, "hi", at)
	assert.ErrorIs(t, err, ErrMissingGroup)
	_, err = NewGroupMessage(1, alice, group, "\n", at)
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.True(t, IsRejection(err))
}
