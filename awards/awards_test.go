package awards_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/resolver/awards"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// board of six teams in rank order; "obs" is the only observer
func fixture() (scoring.Leaderboard, contest.Table[contest.Team]) {
	teams := contest.Table[contest.Team]{}
	var board scoring.Leaderboard
	for _, tc := range []struct{ id, group string }{
		{"t1", "participants"},
		{"obs", "observers"},
		{"t2", "participants"},
		{"t3", "participants"},
		{"t4", "participants"},
		{"t5", "participants"},
	} {
		teams.Put(contest.Team{ID: tc.id, Name: "Team " + tc.id, GroupIDs: []string{tc.group}})
		board = append(board, scoring.TeamStatus{TeamID: tc.id, TeamName: "Team " + tc.id, ProblemStats: map[string]scoring.ProblemStat{}})
	}
	return board, teams
}

func ids(entries []awards.Entry) []string {
	res := []string{}
	for _, e := range entries {
		res = append(res, e.TeamID)
	}
	return res
}

func TestPlanMedals(t *testing.T) {
	board, teams := fixture()

	tests := []struct {
		name                 string
		groups               []string
		counts               awards.Counts
		gold, silver, bronze []string
		short                bool
	}{
		{
			name:   "skips teams outside selected groups",
			groups: []string{"participants"},
			counts: awards.Counts{Gold: 1, Silver: 2, Bronze: 1},
			gold:   []string{"t1"},
			silver: []string{"t2", "t3"},
			bronze: []string{"t4"},
		},
		{
			name:   "clamps at eligible size",
			groups: []string{"participants"},
			counts: awards.Counts{Gold: 2, Silver: 2, Bronze: 4},
			gold:   []string{"t1", "t2"},
			silver: []string{"t3", "t4"},
			bronze: []string{"t5"},
			short:  true,
		},
		{
			name:   "negative counts are zero",
			groups: []string{"participants", "observers"},
			counts: awards.Counts{Gold: -3, Silver: 1, Bronze: 0},
			gold:   []string{},
			silver: []string{"t1"},
			bronze: []string{},
		},
		{
			name:   "nothing selected",
			counts: awards.Counts{Gold: 3},
			gold:   []string{},
			silver: []string{},
			bronze: []string{},
			short:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := awards.PlanMedals(board, teams, tt.groups, tt.counts)
			assert.Equal(t, tt.gold, ids(plan.Gold))
			assert.Equal(t, tt.silver, ids(plan.Silver))
			assert.Equal(t, tt.bronze, ids(plan.Bronze))
			assert.Equal(t, tt.short, plan.Short(tt.counts))
		})
	}
}

func TestApplyMedals(t *testing.T) {
	board, teams := fixture()
	table := contest.Table[contest.Award]{}
	table.Put(contest.Award{ID: awards.GoldID, Citation: "old", TeamIDs: []string{"t5"}})

	plan := awards.PlanMedals(board, teams, []string{"participants"}, awards.Counts{Gold: 1, Silver: 1})
	awards.ApplyMedals(table, plan, awards.Citations{Gold: "  Champions ", Silver: ""})

	assert.Equal(t, contest.Award{ID: awards.GoldID, Citation: "Champions", TeamIDs: []string{"t1"}}, table[awards.GoldID])
	assert.Equal(t, "Silver Medal", table[awards.SilverID].Citation)
	assert.Equal(t, []string{"t2"}, table[awards.SilverID].TeamIDs)
	assert.Empty(t, table[awards.BronzeID].TeamIDs)
}

func TestUpsertAndDelete(t *testing.T) {
	table := contest.Table[contest.Award]{}

	_, err := awards.Upsert(table, contest.Award{ID: "best", Citation: "Best", TeamIDs: []string{" ", ""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one team ID")
	assert.Empty(t, table)

	a, err := awards.Upsert(table, contest.Award{ID: " first-solve ", Citation: "First to solve A", TeamIDs: []string{" t1", "t2 "}})
	require.NoError(t, err)
	assert.Equal(t, "first-solve", a.ID)
	assert.Equal(t, []string{"t1", "t2"}, table["first-solve"].TeamIDs)

	require.NoError(t, awards.Delete(table, "first-solve"))
	err = awards.Delete(table, "first-solve")
	assert.ErrorIs(t, err, awards.ErrAwardNotFound())
}

func TestByTeam(t *testing.T) {
	table := contest.Table[contest.Award]{}
	table.Put(contest.Award{ID: "medal-gold", Citation: "Gold Medal", TeamIDs: []string{"t1"}})
	table.Put(contest.Award{ID: "first-to-solve-a", Citation: "First to solve A", TeamIDs: []string{"t1", "t2"}})

	assert.Equal(t, map[string][]string{
		"t1": {"First to solve A", "Gold Medal"},
		"t2": {"First to solve A"},
	}, awards.ByTeam(table))
}

func TestPrepareForPresentation(t *testing.T) {
	st := contest.NewState()
	st.Teams.Put(contest.Team{ID: "t1", GroupIDs: []string{"participants"}})
	st.Teams.Put(contest.Team{ID: "obs", GroupIDs: []string{"observers"}})
	st.Accounts.Put(contest.Account{ID: "a1", TeamID: ptr("t1")})
	st.Accounts.Put(contest.Account{ID: "a2", TeamID: ptr("obs")})
	st.Accounts.Put(contest.Account{ID: "admin"})
	st.Submissions.Put(contest.Submission{ID: "s1", TeamID: "t1"})
	st.Submissions.Put(contest.Submission{ID: "s2", TeamID: "obs"})
	st.Judgements.Put(contest.Judgement{ID: "j1", SubmissionID: "s1"})
	st.Judgements.Put(contest.Judgement{ID: "j2", SubmissionID: "s2"})
	st.Awards.Put(contest.Award{ID: "x", Citation: "X", TeamIDs: []string{"obs", "t1"}})

	frozen := scoring.Leaderboard{
		{TeamID: "obs", ProblemStats: map[string]scoring.ProblemStat{}},
		{TeamID: "t1", ProblemStats: map[string]scoring.ProblemStat{"A": {Solved: true}}},
	}

	board, sum := awards.PrepareForPresentation(st, frozen, []string{"participants"})

	require.Len(t, board, 1)
	assert.Equal(t, "t1", board[0].TeamID)
	assert.Equal(t, []string{"t1"}, st.Teams.IDs())
	assert.Equal(t, []string{"a1"}, st.Accounts.IDs())
	assert.Equal(t, []string{"s1"}, st.Submissions.IDs())
	assert.Equal(t, []string{"j1"}, st.Judgements.IDs())
	assert.Equal(t, []string{"t1"}, st.Awards["x"].TeamIDs)
	assert.Equal(t, "Filtered presentation set: teams 2 -> 1, submissions 2 -> 1, judgements 2 -> 1", sum.String())

	// copies, not shared rows
	board[0].ProblemStats["A"] = scoring.ProblemStat{}
	assert.True(t, frozen[1].ProblemStats["A"].Solved)
}

func sampleTable() contest.Table[contest.Award] {
	table := contest.Table[contest.Award]{}
	table.Put(contest.Award{ID: "medal-gold", Citation: "Gold Medal", TeamIDs: []string{"t1"}})
	table.Put(contest.Award{ID: "honor", Citation: "Honorable mention", TeamIDs: []string{"t2", "t3"}})
	return table
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := logger.Discard(context.Background())
	store := awards.NewFileStore(filepath.Join(t.TempDir(), "awards.json"))

	require.NoError(t, store.Save(ctx, sampleTable()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), loaded)
}

func TestFileStoreLoadRekeysByID(t *testing.T) {
	ctx := logger.Discard(context.Background())
	path := filepath.Join(t.TempDir(), "awards.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"whatever":{"id":"real","citation":"C","team_ids":["t1"]}}`), 0o644))

	loaded, err := awards.NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, loaded.IDs())
}

func TestFileStoreLoadFailures(t *testing.T) {
	ctx := logger.Discard(context.Background())
	dir := t.TempDir()

	_, err := awards.NewFileStore(filepath.Join(dir, "missing.json")).Load(ctx)
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1,2`), 0o644))
	_, err = awards.NewFileStore(bad).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse awards JSON")
}

type fakeBucket struct {
	objects map[string][]byte
	failPut bool
}

func (b *fakeBucket) Name() string { return "bucket" }

func (b *fakeBucket) Upload(_ context.Context, content []byte, key, _ string) (string, error) {
	if b.failPut {
		return "", errors.New("access denied")
	}
	b.objects[key] = content
	return "https://bucket/" + key, nil
}

func (b *fakeBucket) Download(_ context.Context, key string) ([]byte, error) {
	return b.objects[key], nil
}

func (b *fakeBucket) Exists(_ context.Context, key string) (bool, error) {
	_, ok := b.objects[key]
	return ok, nil
}

func TestS3Store(t *testing.T) {
	ctx := logger.Discard(context.Background())
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := awards.NewS3Store(bucket, "wf/awards.json")
	assert.Equal(t, "s3://bucket/wf/awards.json", store.Location())

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, awards.ErrNoSavedAwards)

	require.NoError(t, store.Save(ctx, sampleTable()))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), loaded)

	bucket.failPut = true
	assert.Error(t, store.Save(ctx, sampleTable()))
}
