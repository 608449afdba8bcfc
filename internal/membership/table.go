// Package membership keeps the single authoritative relation between users
// and study groups. The group view (members) and the user view (groups) are
// both derived from it, so they cannot drift apart.
package membership

import (
	"sort"
	"time"
)

// Membership is one (group, user) row.
type Membership struct {
	GroupID  string
	UserID   string
	Seq      uint64
	JoinedAt time.Time
}

type key struct {
	groupID string
	userID  string
}

// Table is not safe for concurrent use; the owning store serialises access.
type Table struct {
	seq     uint64
	rows    map[key]*Membership
	byGroup map[string]map[string]*Membership
	byUser  map[string]map[string]*Membership
	now     func() time.Time
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		rows:    make(map[key]*Membership),
		byGroup: make(map[string]map[string]*Membership),
		byUser:  make(map[string]map[string]*Membership),
		now:     time.Now,
	}
}

// Add records the membership. It returns false if the pair already exists.
func (t *Table) Add(groupID, userID string) bool {
	k := key{groupID, userID}
	if _, ok := t.rows[k]; ok {
		return false
	}

	t.seq++
	m := &Membership{GroupID: groupID, UserID: userID, Seq: t.seq, JoinedAt: t.now().UTC()}
	t.rows[k] = m

	if t.byGroup[groupID] == nil {
		t.byGroup[groupID] = make(map[string]*Membership)
	}
	t.byGroup[groupID][userID] = m

	if t.byUser[userID] == nil {
		t.byUser[userID] = make(map[string]*Membership)
	}
	t.byUser[userID][groupID] = m
	return true
}

// Remove deletes the membership. It returns false if the pair is absent.
func (t *Table) Remove(groupID, userID string) bool {
	k := key{groupID, userID}
	if _, ok := t.rows[k]; !ok {
		return false
	}

	delete(t.rows, k)
	delete(t.byGroup[groupID], userID)
	if len(t.byGroup[groupID]) == 0 {
		delete(t.byGroup, groupID)
	}
	delete(t.byUser[userID], groupID)
	if len(t.byUser[userID]) == 0 {
		delete(t.byUser, userID)
	}
	return true
}

// Has reports whether userID is a member of groupID.
func (t *Table) Has(groupID, userID string) bool {
	_, ok := t.rows[key{groupID, userID}]
	return ok
}

// Count returns the number of members of groupID.
func (t *Table) Count(groupID string) int {
	return len(t.byGroup[groupID])
}

// Members returns the user IDs of groupID in join order.
func (t *Table) Members(groupID string) []string {
	rows := ordered(t.byGroup[groupID])
	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.UserID
	}
	return ids
}

// Groups returns the group IDs userID belongs to in join order.
func (t *Table) Groups(userID string) []string {
	rows := ordered(t.byUser[userID])
	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.GroupID
	}
	return ids
}

// Len returns the total number of memberships.
func (t *Table) Len() int {
	return len(t.rows)
}

// Reset drops every membership.
func (t *Table) Reset() {
	t.rows = make(map[key]*Membership)
	t.byGroup = make(map[string]map[string]*Membership)
	t.byUser = make(map[string]map[string]*Membership)
}

func ordered(set map[string]*Membership) []*Membership {
	rows := make([]*Membership, 0, len(set))
	for _, m := range set {
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })
	return rows
}
