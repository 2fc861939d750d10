package awards

import (
	"fmt"
	"slices"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/scoring"
)

type Summary struct {
	TeamsBefore       int `json:"teams_before"`
	TeamsAfter        int `json:"teams_after"`
	SubmissionsBefore int `json:"submissions_before"`
	SubmissionsAfter  int `json:"submissions_after"`
	JudgementsBefore  int `json:"judgements_before"`
	JudgementsAfter   int `json:"judgements_after"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Filtered presentation set: teams %d -> %d, submissions %d -> %d, judgements %d -> %d",
		s.TeamsBefore, s.TeamsAfter,
		s.SubmissionsBefore, s.SubmissionsAfter,
		s.JudgementsBefore, s.JudgementsAfter)
}

// PrepareForPresentation narrows st to the teams of the selected groups:
// teams, accounts, submissions, judgements and award team lists are filtered
// in place. The returned board holds copies of the surviving frozen rows.
func PrepareForPresentation(st *contest.State, frozen scoring.Leaderboard, groups []string) (scoring.Leaderboard, Summary) {
	selected := groupSet(groups)
	sum := Summary{
		TeamsBefore:       len(st.Teams),
		SubmissionsBefore: len(st.Submissions),
		JudgementsBefore:  len(st.Judgements),
	}

	allowed := map[string]bool{}
	for id, team := range st.Teams {
		if team.InAnyGroup(selected) {
			allowed[id] = true
		}
	}

	for id := range st.Teams {
		if !allowed[id] {
			delete(st.Teams, id)
		}
	}
	for id, acc := range st.Accounts {
		if acc.TeamID == nil || !allowed[*acc.TeamID] {
			delete(st.Accounts, id)
		}
	}
	for id, sub := range st.Submissions {
		if !allowed[sub.TeamID] {
			delete(st.Submissions, id)
		}
	}
	for id, j := range st.Judgements {
		if !st.Submissions.Has(j.SubmissionID) {
			delete(st.Judgements, id)
		}
	}
	for id, a := range st.Awards {
		a.TeamIDs = slices.DeleteFunc(slices.Clone(a.TeamIDs), func(teamID string) bool {
			return !allowed[teamID]
		})
		st.Awards[id] = a
	}

	board := make(scoring.Leaderboard, 0, len(frozen))
	for _, row := range frozen {
		if allowed[row.TeamID] {
			board = append(board, row.Clone())
		}
	}

	sum.TeamsAfter = len(st.Teams)
	sum.SubmissionsAfter = len(st.Submissions)
	sum.JudgementsAfter = len(st.Judgements)
	return board, sum
}
