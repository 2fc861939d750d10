package contest_test

import (
	"testing"
	"time"

	"github.com/programme-lv/resolver/contest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePutReplacesWholeRecord(t *testing.T) {
	teams := contest.Table[contest.Team]{}
	org := "org-1"

	replaced := teams.Put(contest.Team{ID: "t1", Name: "First", OrganizationID: &org, GroupIDs: []string{"g1"}})
	assert.False(t, replaced)

	replaced = teams.Put(contest.Team{ID: "t1", Name: "Renamed"})
	assert.True(t, replaced)

	// no partial-field merge
	assert.Equal(t, "Renamed", teams["t1"].Name)
	assert.Nil(t, teams["t1"].OrganizationID)
	assert.Empty(t, teams["t1"].GroupIDs)
}

func TestTableSortedByID(t *testing.T) {
	groups := contest.Table[contest.Group]{}
	groups.Put(contest.Group{ID: "b"})
	groups.Put(contest.Group{ID: "c"})
	groups.Put(contest.Group{ID: "a"})

	assert.Equal(t, []string{"a", "b", "c"}, groups.IDs())
	sorted := groups.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "a", sorted[0].ID)
	assert.True(t, groups.Has("c"))
	assert.False(t, groups.Has("d"))
}

func TestStateCloneIsIndependent(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	st := contest.NewState()
	st.Contest = &contest.Contest{ID: "c", StartTime: &start}
	st.Teams.Put(contest.Team{ID: "t1", GroupIDs: []string{"g1"}})
	st.Awards.Put(contest.Award{ID: "a", TeamIDs: []string{"t1"}})
	st.Submissions.Put(contest.Submission{ID: "s1", TeamID: "t1", ProblemID: "p"})

	c := st.Clone()
	c.Contest.ID = "changed"
	team := c.Teams["t1"]
	team.GroupIDs[0] = "g2"
	award := c.Awards["a"]
	award.TeamIDs[0] = "t2"
	delete(c.Submissions, "s1")

	assert.Equal(t, "c", st.Contest.ID)
	assert.Equal(t, []string{"g1"}, st.Teams["t1"].GroupIDs)
	assert.Equal(t, []string{"t1"}, st.Awards["a"].TeamIDs)
	assert.True(t, st.Submissions.Has("s1"))
}
