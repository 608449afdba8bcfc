package membership

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTable_AddRemove(t *testing.T) {
	tbl := NewTable()

	assert.True(t, tbl.Add("g1", "u1"))
	assert.False(t, tbl.Add("g1", "u1"), "duplicate add must be refused")
	assert.True(t, tbl.Add("g1", "u2"))
	assert.True(t, tbl.Add("g2", "u1"))

	assert.Equal(t, 2, tbl.Count("g1"))
	assert.Equal(t, []string{"u1", "u2"}, tbl.Members("g1"))
	assert.Equal(t, []string{"g1", "g2"}, tbl.Groups("u1"))
	assert.True(t, tbl.Has("g2", "u1"))
	assert.Equal(t, 3, tbl.Len())

	assert.True(t, tbl.Remove("g1", "u1"))
	assert.False(t, tbl.Remove("g1", "u1"), "second remove must be refused")
	assert.False(t, tbl.Remove("g9", "u1"))

	assert.Equal(t, []string{"u2"}, tbl.Members("g1"))
	assert.Equal(t, []string{"g2"}, tbl.Groups("u1"))
	assert.False(t, tbl.Has("g1", "u1"))
}

func TestTable_RejoinMovesToEnd(t *testing.T) {
	tbl := NewTable()
	tbl.Add("g", "a")
	tbl.Add("g", "b")
	tbl.Remove("g", "a")
	tbl.Add("g", "a")

	assert.Equal(t, []string{"b", "a"}, tbl.Members("g"))
}

func TestTable_EmptyViews(t *testing.T) {
	tbl := NewTable()

	assert.Empty(t, tbl.Members("missing"))
	assert.Empty(t, tbl.Groups("missing"))
	assert.Equal(t, 0, tbl.Count("missing"))

	tbl.Add("g", "u")
	tbl.Reset()
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Groups("u"))
}

// Both views must always describe the same relation, whatever sequence of
// adds and removes is applied.
func TestProperty_ViewsStayConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tbl := NewTable()
		model := make(map[[2]string]bool)

		groups := []string{"g0", "g1", "g2"}
		users := []string{"u0", "u1", "u2", "u3"}

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			g := rapid.SampledFrom(groups).Draw(rt, fmt.Sprintf("g%d", i))
			u := rapid.SampledFrom(users).Draw(rt, fmt.Sprintf("u%d", i))
			k := [2]string{g, u}

			if rapid.Bool().Draw(rt, fmt.Sprintf("add%d", i)) {
				if got := tbl.Add(g, u); got == model[k] {
					rt.Fatalf("Add(%s,%s)=%v but model membership=%v", g, u, got, model[k])
				}
				model[k] = true
			} else {
				if got := tbl.Remove(g, u); got != model[k] {
					rt.Fatalf("Remove(%s,%s)=%v but model membership=%v", g, u, got, model[k])
				}
				delete(model, k)
			}
		}

		if tbl.Len() != len(model) {
			rt.Fatalf("Len=%d want %d", tbl.Len(), len(model))
		}
		for _, g := range groups {
			for _, u := range tbl.Members(g) {
				if !model[[2]string{g, u}] {
					rt.Fatalf("%s listed in %s but not a member", u, g)
				}
			}
		}
		for _, u := range users {
			seen := make(map[string]bool)
			for _, g := range tbl.Groups(u) {
				if seen[g] {
					rt.Fatalf("duplicate group %s in view of %s", g, u)
				}
				seen[g] = true
				if !tbl.Has(g, u) {
					rt.Fatalf("%s listed for %s but Has is false", g, u)
				}
			}
		}
	})
}
