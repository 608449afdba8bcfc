package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gopher0727/StudyGroup/internal/domain"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, " alice ", "pw", "alice@utdallas.edu")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)

	got, err := f.store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	tests := []struct {
		name     string
		username string
		password string
		email    string
		want     error
	}{
		{"blank name", "   ", "pw", "a@b.c", domain.ErrEmptyUserName},
		{"blank password", "bob", "", "a@b.c", domain.ErrEmptyPassword},
		{"blank email", "bob", "pw", " ", domain.ErrEmptyEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.users.Register(ctx, tt.username, tt.password, tt.email)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsConstructionError(err))
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "carol")

	ok, err := f.users.Authenticate(ctx, "carol", "carol-pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.users.Authenticate(ctx, "carol", "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.users.Authenticate(ctx, "mallory", "carol-pw")
	require.NoError(t, err)
	assert.False(t, ok)
}
