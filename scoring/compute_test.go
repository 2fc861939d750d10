package scoring_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/scoring"
	"github.com/programme-lv/resolver/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func at(minute int) *time.Time {
	t := start.Add(time.Duration(minute) * time.Minute)
	return &t
}

func ptr[T any](v T) *T { return &v }

// newState builds a five hour contest with a one hour freeze (freeze at minute 240).
func newState() *contest.State {
	dur, _ := contest.ParseRelTime("5:00:00")
	freeze, _ := contest.ParseRelTime("1:00:00")
	c := &contest.Contest{ID: "wf", StartTime: ptr(start), Duration: &dur, ScoreboardFreezeDuration: &freeze}
	c.DeriveFreezeTime()

	st := contest.NewState()
	st.Contest = c
	st.JudgementTypes.Put(contest.JudgementType{ID: "AC", Solved: true})
	st.JudgementTypes.Put(contest.JudgementType{ID: "WA", Penalty: true})
	st.JudgementTypes.Put(contest.JudgementType{ID: "CE"})
	st.Groups.Put(contest.Group{ID: "participants", SortOrder: 0})
	st.Groups.Put(contest.Group{ID: "observers", SortOrder: 1})
	st.Problems.Put(contest.Problem{ID: "A"})
	st.Problems.Put(contest.Problem{ID: "B"})
	return st
}

func addTeam(st *contest.State, id string, groups ...string) {
	st.Teams.Put(contest.Team{ID: id, Name: "Team " + id, OrganizationID: ptr("org-" + id), GroupIDs: groups})
}

func addRun(st *contest.State, id, team, problem string, minute int, verdict string) {
	st.Submissions.Put(contest.Submission{ID: id, TeamID: team, ProblemID: problem, Time: at(minute)})
	st.Judgements.Put(contest.Judgement{ID: "j" + id, SubmissionID: id, JudgementTypeID: ptr(verdict)})
}

func compute(t *testing.T, st *contest.State, opts scoring.Options) *scoring.Result {
	t.Helper()
	res, err := scoring.Compute(logger.Discard(context.Background()), st, opts)
	require.NoError(t, err)
	return res
}

func row(t *testing.T, lb scoring.Leaderboard, teamID string) scoring.TeamStatus {
	t.Helper()
	i := lb.IndexOf(teamID)
	require.GreaterOrEqual(t, i, 0, "team %s not on leaderboard", teamID)
	return lb[i]
}

func TestPenaltyWithRejectedAttempt(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "A", 10, "WA")
	addRun(st, "2", "T", "A", 25, "AC")

	res := compute(t, st, scoring.Options{})

	for _, lb := range []scoring.Leaderboard{res.PreFreeze, res.Finalized} {
		r := row(t, lb, "T")
		stat := r.ProblemStats["A"]
		assert.True(t, stat.Solved)
		assert.False(t, stat.AttemptedDuringFreeze)
		assert.Equal(t, 2, stat.SubmissionsBeforeSolved)
		assert.EqualValues(t, 45, stat.Penalty)
		assert.EqualValues(t, 25, stat.LastSubmissionMinute)
		assert.Equal(t, 1, r.TotalPoints)
		assert.EqualValues(t, 45, r.TotalPenalty)
		require.NotNil(t, r.LastACTime)
		assert.Equal(t, *at(25), *r.LastACTime)
	}
}

func TestSolveDuringFreezeHiddenOnlyInFrozenBoard(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "A", 10, "WA")
	addRun(st, "2", "T", "A", 250, "AC")

	res := compute(t, st, scoring.Options{})

	frozen := row(t, res.PreFreeze, "T")
	assert.Equal(t, 0, frozen.TotalPoints)
	assert.EqualValues(t, 0, frozen.TotalPenalty)
	assert.Nil(t, frozen.LastACTime)
	stat := frozen.ProblemStats["A"]
	assert.True(t, stat.AttemptedDuringFreeze)
	assert.True(t, stat.Solved)
	assert.EqualValues(t, 270, stat.Penalty)

	final := row(t, res.Finalized, "T")
	assert.Equal(t, 1, final.TotalPoints)
	assert.EqualValues(t, 270, final.TotalPenalty)
	// finalized totals ignore the freeze, the flag itself is kept
	assert.True(t, final.ProblemStats["A"].AttemptedDuringFreeze)
}

func TestRejectedOnlyDuringFreezeIsPending(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "B", 245, "WA")
	addRun(st, "2", "T", "A", 20, "AC")

	res := compute(t, st, scoring.Options{})
	frozen := row(t, res.PreFreeze, "T")
	assert.Equal(t, []string{"B"}, frozen.PendingProblems())
	assert.Equal(t, 1, frozen.TotalPoints)
}

func TestNonCountingVerdictIgnored(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "A", 5, "CE")
	addRun(st, "2", "T", "A", 30, "AC")
	addRun(st, "3", "T", "A", 40, "WA")

	res := compute(t, st, scoring.Options{})
	stat := row(t, res.PreFreeze, "T").ProblemStats["A"]
	assert.Equal(t, 1, stat.SubmissionsBeforeSolved)
	assert.EqualValues(t, 30, stat.Penalty)
	// solved stats are never touched again
	assert.EqualValues(t, 30, stat.LastSubmissionMinute)
}

func TestSolveBeforeStartCostsNoTime(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "A", -10, "WA")
	addRun(st, "2", "T", "A", -5, "AC")

	res := compute(t, st, scoring.Options{})
	for _, lb := range []scoring.Leaderboard{res.PreFreeze, res.Finalized} {
		r := row(t, lb, "T")
		stat := r.ProblemStats["A"]
		assert.True(t, stat.Solved)
		assert.EqualValues(t, -5, stat.LastSubmissionMinute)
		assert.EqualValues(t, 20, stat.Penalty)
		assert.Equal(t, 1, r.TotalPoints)
		assert.EqualValues(t, 20, r.TotalPenalty)
	}
}

func TestTotalsStayWithinBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	verdicts := []string{"AC", "WA", "CE"}
	problems := []string{"A", "B"}

	for round := 0; round < 50; round++ {
		st := newState()
		teams := []string{"t1", "t2", "t3"}
		for _, id := range teams {
			addTeam(st, id, "participants")
		}
		for i := 0; i < 12; i++ {
			addRun(st, fmt.Sprintf("%d", i),
				teams[rnd.Intn(len(teams))],
				problems[rnd.Intn(len(problems))],
				rnd.Intn(330)-30,
				verdicts[rnd.Intn(len(verdicts))])
		}

		res := compute(t, st, scoring.Options{})
		for _, lb := range []scoring.Leaderboard{res.PreFreeze, res.Finalized} {
			for _, r := range lb {
				attempted := 0
				for _, stat := range r.ProblemStats {
					assert.GreaterOrEqual(t, stat.Penalty, int64(0))
					if stat.SubmissionsBeforeSolved > 0 {
						attempted++
					}
				}
				assert.LessOrEqual(t, r.TotalPoints, attempted, "round %d team %s", round, r.TeamID)
				assert.GreaterOrEqual(t, r.TotalPenalty, int64(0), "round %d team %s", round, r.TeamID)
			}
		}
	}
}

func TestLeaderboardOrder(t *testing.T) {
	st := newState()
	addTeam(st, "a", "participants")
	addTeam(st, "b", "participants")
	addTeam(st, "c", "participants")
	addTeam(st, "d", "participants")
	addTeam(st, "obs", "observers", "participants")
	addTeam(st, "x", "observers")

	addRun(st, "1", "a", "A", 10, "AC")
	addRun(st, "2", "b", "A", 10, "AC")
	addRun(st, "3", "b", "B", 20, "AC")
	addRun(st, "4", "c", "A", 5, "AC")
	addRun(st, "5", "x", "A", 1, "AC")
	addRun(st, "6", "x", "B", 2, "AC")

	res := compute(t, st, scoring.Options{})

	var ids []string
	for _, r := range res.PreFreeze {
		ids = append(ids, r.TeamID)
	}
	// obs belongs to both groups and takes the smaller sortorder
	assert.Equal(t, []string{"b", "c", "a", "d", "obs", "x"}, ids)
	assert.Equal(t, 0, row(t, res.PreFreeze, "obs").SortOrder)
	assert.Equal(t, 1, row(t, res.PreFreeze, "x").SortOrder)
}

func TestCompare(t *testing.T) {
	withAC := scoring.TeamStatus{TeamID: "z", TotalPoints: 1, TotalPenalty: 10, LastACTime: at(10)}
	noAC := scoring.TeamStatus{TeamID: "a", TotalPoints: 1, TotalPenalty: 10}
	earlier := scoring.TeamStatus{TeamID: "y", TotalPoints: 1, TotalPenalty: 10, LastACTime: at(5)}
	sameTime := scoring.TeamStatus{TeamID: "b", TotalPoints: 1, TotalPenalty: 10, LastACTime: at(10)}

	assert.Negative(t, scoring.Compare(withAC, noAC))
	assert.Positive(t, scoring.Compare(noAC, withAC))
	assert.Negative(t, scoring.Compare(earlier, withAC))
	assert.Negative(t, scoring.Compare(sameTime, withAC))
	assert.Zero(t, scoring.Compare(withAC, withAC))

	lowerRankKey := scoring.TeamStatus{TeamID: "q", SortOrder: -1}
	assert.Negative(t, scoring.Compare(lowerRankKey, withAC))
}

func TestComputeIsPureAndDeterministic(t *testing.T) {
	st := newState()
	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		addTeam(st, id, "participants")
	}
	addTeam(st, "ex", "participants")
	addRun(st, "1", "t1", "A", 10, "WA")
	addRun(st, "2", "t1", "A", 12, "AC")
	addRun(st, "3", "t2", "A", 22, "AC")
	addRun(st, "4", "t3", "B", 250, "AC")
	addRun(st, "5", "t4", "B", 10, "WA")
	addRun(st, "6", "ex", "A", 1, "AC")

	opts := scoring.Options{
		FilterTeamSubmissions: []string{"ex"},
		TeamGroupMap:          map[string]string{"t4": "observers"},
	}
	first := compute(t, st, opts)
	second := compute(t, st, opts)

	b1, err := json.Marshal([]any{first.PreFreeze, first.Finalized})
	require.NoError(t, err)
	b2, err := json.Marshal([]any{second.PreFreeze, second.Finalized})
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))

	// input untouched, working copy normalized
	assert.True(t, st.Submissions.Has("6"))
	assert.Equal(t, []string{"participants"}, st.Teams["t4"].GroupIDs)
	assert.False(t, first.State.Submissions.Has("6"))
	assert.False(t, first.State.Judgements.Has("j6"))
	assert.Equal(t, []string{"observers"}, first.State.Teams["t4"].GroupIDs)

	for _, lb := range []scoring.Leaderboard{first.PreFreeze, first.Finalized} {
		for _, r := range lb {
			assert.LessOrEqual(t, r.TotalPoints, len(r.ProblemStats))
			assert.GreaterOrEqual(t, r.TotalPenalty, int64(0))
		}
	}
}

func TestMissingSubmissionIsWarning(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	addRun(st, "1", "T", "A", 10, "AC")
	st.Judgements.Put(contest.Judgement{ID: "orphan", SubmissionID: "s404", JudgementTypeID: ptr("AC")})

	res := compute(t, st, scoring.Options{})
	assert.Equal(t, []string{"Skipping judgement orphan because submission s404 is missing"}, res.Warnings)
	assert.Equal(t, 1, row(t, res.PreFreeze, "T").TotalPoints)
}

func TestContestTimeFallback(t *testing.T) {
	st := newState()
	addTeam(st, "T", "participants")
	rel, err := contest.ParseRelTime("0:33:59.900")
	require.NoError(t, err)
	st.Submissions.Put(contest.Submission{ID: "1", TeamID: "T", ProblemID: "A", ContestTime: &rel})
	st.Judgements.Put(contest.Judgement{ID: "j1", SubmissionID: "1", JudgementTypeID: ptr("AC")})

	res := compute(t, st, scoring.Options{})
	assert.EqualValues(t, 33, row(t, res.PreFreeze, "T").TotalPenalty)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var se *srvcerror.Error
	require.True(t, errors.As(err, &se), "not a service error: %v", err)
	return se.ErrorCode()
}

func TestValidationErrors(t *testing.T) {
	ctx := logger.Discard(context.Background())

	t.Run("team group map aggregates every entry", func(t *testing.T) {
		st := newState()
		addTeam(st, "T", "participants")
		_, err := scoring.Compute(ctx, st, scoring.Options{TeamGroupMap: map[string]string{
			"T":     "nope",
			"ghost": "participants",
		}})
		require.Error(t, err)
		assert.Equal(t, scoring.ErrCodeInvalidTeamGroupMap, errCode(t, err))
		assert.Contains(t, err.Error(), "(2)")
		assert.Contains(t, err.Error(), "target group nope for team T does not exist")
		assert.Contains(t, err.Error(), "team_group_map team ghost does not exist in event feed")
	})

	t.Run("group validation aggregates per team", func(t *testing.T) {
		st := newState()
		addTeam(st, "t1")
		addTeam(st, "t2", "participants", "g9")
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, scoring.ErrCodeInvalidTeamGroups, errCode(t, err))
		var se *srvcerror.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []string{
			"t1 (Team t1) has no group_ids",
			"t2 (Team t2) has unknown group_ids: g9",
		}, se.Details())
	})

	t.Run("unjudged submission fails fast", func(t *testing.T) {
		st := newState()
		addTeam(st, "T", "participants")
		st.Submissions.Put(contest.Submission{ID: "s2", TeamID: "T", ProblemID: "A", Time: at(3)})
		st.Submissions.Put(contest.Submission{ID: "s1", TeamID: "T", ProblemID: "A", Time: at(1)})
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, "Submission s1 not judged", err.Error())
	})

	t.Run("missing start time", func(t *testing.T) {
		st := newState()
		st.Contest.StartTime = nil
		st.Contest.DeriveFreezeTime()
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, "Contest start time not defined", err.Error())
	})

	t.Run("missing contest", func(t *testing.T) {
		st := newState()
		st.Contest = nil
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, scoring.ErrCodeContestTiming, errCode(t, err))
	})

	t.Run("missing organization", func(t *testing.T) {
		st := newState()
		st.Teams.Put(contest.Team{ID: "T", GroupIDs: []string{"participants"}})
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, "Missing organization_id for team T", err.Error())
	})

	t.Run("submission of unknown team", func(t *testing.T) {
		st := newState()
		addTeam(st, "T", "participants")
		addRun(st, "1", "ghost", "A", 10, "AC")
		_, err := scoring.Compute(ctx, st, scoring.Options{})
		require.Error(t, err)
		assert.Equal(t, scoring.ErrCodeUnknownTeam, errCode(t, err))
	})
}
