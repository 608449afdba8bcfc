package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/facade"
)

// RunDemo walks through a typical session: five users, two valid groups and
// three rejected ones, joins, direct and group messages and a leave. It
// writes a readable transcript to w. Groups meet at meeting, or now when it
// is zero.
func RunDemo(ctx context.Context, w io.Writer, f *facade.Facade, meeting time.Time) error {
	users := make([]*domain.User, 5)
	for i := range users {
		n := i + 1
		users[i] = f.RegisterUser(ctx,
			fmt.Sprintf("testUser%d", n),
			fmt.Sprintf("testPassword%d", n),
			fmt.Sprintf("testUser%d@exampleEmail.com", n),
		)
		if users[i] == nil {
			return fmt.Errorf("failed to register testUser%d", n)
		}
	}
	user1, user2, user3, user4, user5 := users[0], users[1], users[2], users[3], users[4]

	now := meeting
	if now.IsZero() {
		now = time.Now()
	}
	group1 := f.CreateStudyGroup(ctx, "groupName1", "CS3377", "ECSW", now, 10, user1)
	group2 := f.CreateStudyGroup(ctx, "groupName2", "CS4337", "ECSS", now, 10, user2)
	if group1 == nil || group2 == nil {
		return fmt.Errorf("failed to create demo groups")
	}

	rejected := []struct {
		name, course, location string
		maxSize                int
	}{
		{"groupName3", "", "ECSS", 10},
		{"groupName4", "CS4337", " ", 10},
		{"groupName5", "CS4337", "ECSS", 0},
	}
	for _, r := range rejected {
		if g := f.CreateStudyGroup(ctx, r.name, r.course, r.location, now, r.maxSize, user2); g == nil {
			fmt.Fprintf(w, "Group %s was rejected\n", r.name)
		}
	}

	f.JoinStudyGroup(ctx, group1.ID, user2)
	f.JoinStudyGroup(ctx, group1.ID, user4)
	f.JoinStudyGroup(ctx, group1.ID, user5)
	f.JoinStudyGroup(ctx, group2.ID, user3)
	f.JoinStudyGroup(ctx, group2.ID, user5)
	f.JoinStudyGroup(ctx, group2.ID, user4)

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	var groupNames []string
	for _, g := range f.UserGroups(ctx, user5) {
		groupNames = append(groupNames, g.Name)
	}
	fmt.Fprintf(w, "User 5 groups: [%s]\n", strings.Join(groupNames, ", "))

	for _, g := range []*domain.StudyGroup{group1, group2} {
		fmt.Fprintf(w, "Members of %s:\n", g.Name)
		for _, id := range f.GroupMembers(ctx, g.ID) {
			fmt.Fprintln(w, names[id])
		}
		fmt.Fprintln(w, "---------")
	}

	f.SendDirectMessage(ctx, user1, user2, "hi")
	f.SendDirectMessage(ctx, user1, user2, "hi again")
	printInbox(ctx, w, f, user2)

	f.SendGroupMessage(ctx, user3, group2, "hi group")
	f.SendGroupMessage(ctx, user2, group1, "hi gang")
	printInbox(ctx, w, f, user5)

	if f.LeaveStudyGroup(ctx, group2.ID, user5) {
		fmt.Fprintf(w, "%s left %s\n", user5.Name, group2.Name)
	}
	printInbox(ctx, w, f, user5)
	return nil
}

func printInbox(ctx context.Context, w io.Writer, f *facade.Facade, user *domain.User) {
	fmt.Fprintf(w, "\nMessages for %s:\n", user.Name)
	for _, msg := range f.GetMessages(ctx, user) {
		fmt.Fprintln(w, msg)
	}
	fmt.Fprintf(w, "End of messages for %s\n", user.Name)
}
