package scoring

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"time"
)

// PenaltyPerAttempt is added for every rejected attempt before the accepted one.
// The contest's penalty_time field is not consulted.
const PenaltyPerAttempt = 20

type ProblemStat struct {
	Solved                  bool       `json:"solved"`
	AttemptedDuringFreeze   bool       `json:"attempted_during_freeze"`
	Penalty                 int64      `json:"penalty"`
	SubmissionsBeforeSolved int        `json:"submissions_before_solved"`
	FirstACTime             *time.Time `json:"first_ac_time"`
	LastSubmissionMinute    int64      `json:"last_submission_minute"`
}

// TeamStatus is one leaderboard row. It owns its problem stats; rows are
// never shared between leaderboards.
type TeamStatus struct {
	TeamID          string                 `json:"team_id"`
	TeamName        string                 `json:"team_name"`
	TeamAffiliation string                 `json:"team_affiliation"`
	SortOrder       int                    `json:"sortorder"`
	TotalPoints     int                    `json:"total_points"`
	TotalPenalty    int64                  `json:"total_penalty"`
	LastACTime      *time.Time             `json:"last_ac_time"`
	ProblemStats    map[string]ProblemStat `json:"problem_stats"`
}

func newTeamStatus(id, name, affiliation string, sortOrder int) TeamStatus {
	return TeamStatus{
		TeamID:          id,
		TeamName:        name,
		TeamAffiliation: affiliation,
		SortOrder:       sortOrder,
		ProblemStats:    map[string]ProblemStat{},
	}
}

func (t TeamStatus) Clone() TeamStatus {
	t.ProblemStats = maps.Clone(t.ProblemStats)
	if t.ProblemStats == nil {
		t.ProblemStats = map[string]ProblemStat{}
	}
	return t
}

// Credit adds a solved problem to the row totals and raises the last
// accepted time when the solve is later.
func (t *TeamStatus) Credit(stat ProblemStat) {
	t.TotalPoints++
	t.TotalPenalty += stat.Penalty
	t.raiseLastAC(stat.FirstACTime)
}

func (t *TeamStatus) raiseLastAC(at *time.Time) {
	if at == nil {
		return
	}
	if t.LastACTime == nil || at.After(*t.LastACTime) {
		v := *at
		t.LastACTime = &v
	}
}

// RecomputeTotals rebuilds points, penalty and last accepted time from every
// solved problem, ignoring the freeze flag.
func (t *TeamStatus) RecomputeTotals() {
	t.TotalPoints = 0
	t.TotalPenalty = 0
	t.LastACTime = nil
	for _, stat := range t.ProblemStats {
		if stat.Solved {
			t.Credit(stat)
		}
	}
}

// PendingProblems lists problems whose result is hidden by the freeze,
// in ascending problem id order.
func (t TeamStatus) PendingProblems() []string {
	var ids []string
	for id, stat := range t.ProblemStats {
		if stat.AttemptedDuringFreeze {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Compare orders rows: rank key ascending, points descending, penalty
// ascending, last accepted time ascending, team id ascending. A row without an
// accepted time sorts after one that has it.
func Compare(a, b TeamStatus) int {
	if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TotalPenalty, b.TotalPenalty); c != 0 {
		return c
	}
	switch {
	case a.LastACTime != nil && b.LastACTime != nil:
		if c := a.LastACTime.Compare(*b.LastACTime); c != 0 {
			return c
		}
	case a.LastACTime != nil:
		return -1
	case b.LastACTime != nil:
		return 1
	}
	return strings.Compare(a.TeamID, b.TeamID)
}

type Leaderboard []TeamStatus

func (lb Leaderboard) Sort() {
	slices.SortFunc(lb, Compare)
}

func (lb Leaderboard) Clone() Leaderboard {
	res := make(Leaderboard, len(lb))
	for i, row := range lb {
		res[i] = row.Clone()
	}
	return res
}

// IndexOf returns the position of the team's row or -1.
func (lb Leaderboard) IndexOf(teamID string) int {
	return slices.IndexFunc(lb, func(row TeamStatus) bool {
		return row.TeamID == teamID
	})
}
