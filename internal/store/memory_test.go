package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"pgregory.net/rapid"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/store"
	"github.com/Gopher0727/StudyGroup/internal/store/storetest"
)

func newDirectory(t *testing.T) store.Store {
	return store.NewDirectory(storetest.Catalog(), store.WithBcryptCost(bcrypt.MinCost))
}

func TestDirectory(t *testing.T) {
	storetest.Run(t, newDirectory)
}

func TestDirectory_PasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	d := store.NewDirectory(storetest.Catalog(), store.WithBcryptCost(bcrypt.MinCost))
	user := storetest.NewUser(t, "erin")

	_, err := d.SaveUser(ctx, user)
	require.NoError(t, err)

	ok, err := d.CheckCredentials(ctx, "  erin ", "erin-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

// Membership count stays within [1, MaxSize] whatever sequence of joins and
// leaves is applied to a created group.
func TestDirectory_MembershipBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		d := store.NewDirectory(storetest.Catalog(), store.WithBcryptCost(bcrypt.MinCost))

		maxSize := rapid.IntRange(1, 5).Draw(t, "maxSize")
		group, err := domain.NewStudyGroup(domain.GroupParams{
			Name:     "G",
			Course:   "CS3377",
			Location: "ECSW",
			Date:     time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
			MaxSize:  maxSize,
		}, d.Catalog(), nil)
		if err != nil {
			t.Fatalf("NewStudyGroup: %v", err)
		}
		if err := d.CreateStudyGroup(ctx, group, "u0"); err != nil {
			t.Fatalf("CreateStudyGroup: %v", err)
		}

		users := []string{"u0", "u1", "u2", "u3", "u4", "u5"}
		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for range steps {
			user := rapid.SampledFrom(users).Draw(t, "user")
			if rapid.Bool().Draw(t, "join") {
				_ = d.AddMember(ctx, group.ID, user)
			} else {
				_ = d.RemoveMember(ctx, group.ID, user)
			}

			members, err := d.Members(ctx, group.ID)
			if err != nil {
				t.Fatalf("Members: %v", err)
			}
			if len(members) < 1 || len(members) > maxSize {
				t.Fatalf("member count %d outside [1, %d]", len(members), maxSize)
			}
		}
	})
}
