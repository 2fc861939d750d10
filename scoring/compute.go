package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
)

type Options struct {
	// submissions of these teams are dropped together with their judgements
	FilterTeamSubmissions []string
	// team id -> the only group the team is placed in
	TeamGroupMap map[string]string
}

type Result struct {
	// normalized working copy: filtered submissions, remapped groups
	State     *contest.State
	PreFreeze Leaderboard
	Finalized Leaderboard
	Warnings  []string
}

// Compute validates the store and builds the frozen and the finalized
// leaderboard. The input store is not modified.
func Compute(ctx context.Context, st *contest.State, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)
	log.Info("event feed parse complete, validating")

	work := st.Clone()

	filterSubmissions(log, work, opts.FilterTeamSubmissions)
	if err := remapTeamGroups(log, work, opts.TeamGroupMap); err != nil {
		return nil, err
	}
	if err := validateTeamGroups(work); err != nil {
		return nil, err
	}
	if err := validateAllJudged(work); err != nil {
		return nil, err
	}
	start, freeze, err := contestTiming(work.Contest)
	if err != nil {
		return nil, err
	}

	order := judgementOrder(work, start)
	f := folder{st: work, start: start, freeze: freeze}

	preFreeze, warnings, err := f.fold(order)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	finalized, _, err := f.fold(order)
	if err != nil {
		return nil, err
	}
	for i := range finalized {
		finalized[i].RecomputeTotals()
	}

	preFreeze.Sort()
	finalized.Sort()

	log.Info("pre-freeze leaderboard built",
		"judgements", len(work.Judgements),
		"teams", len(preFreeze),
		"warnings", len(warnings))

	return &Result{
		State:     work,
		PreFreeze: preFreeze,
		Finalized: finalized,
		Warnings:  warnings,
	}, nil
}

func filterSubmissions(log *slog.Logger, st *contest.State, teamIDs []string) {
	if len(teamIDs) == 0 {
		return
	}
	excluded := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		excluded[id] = true
	}

	removed := map[string]bool{}
	for id, s := range st.Submissions {
		if excluded[s.TeamID] {
			removed[id] = true
		}
	}
	if len(removed) == 0 {
		log.Info("no submissions matched filter_team_submissions")
		return
	}

	for id := range removed {
		delete(st.Submissions, id)
	}
	for id, j := range st.Judgements {
		if removed[j.SubmissionID] {
			delete(st.Judgements, id)
		}
	}
	log.Info("filtered out submissions and related judgements",
		"submissions", len(removed),
		"teams", teamIDs)
}

func remapTeamGroups(log *slog.Logger, st *contest.State, remap map[string]string) error {
	if len(remap) == 0 {
		return nil
	}

	var issues []string
	teamIDs := make([]string, 0, len(remap))
	for id := range remap {
		teamIDs = append(teamIDs, id)
	}
	slices.Sort(teamIDs)

	for _, teamID := range teamIDs {
		groupID := remap[teamID]
		if !st.Groups.Has(groupID) {
			issues = append(issues, fmt.Sprintf(
				"team_group_map target group %s for team %s does not exist", groupID, teamID))
			continue
		}
		team, ok := st.Teams[teamID]
		if !ok {
			issues = append(issues, fmt.Sprintf(
				"team_group_map team %s does not exist in event feed", teamID))
			continue
		}
		team.GroupIDs = []string{groupID}
		st.Teams[teamID] = team
		log.Info("remapped team", "team_id", team.ID, "team_name", team.Name, "group_id", groupID)
	}

	if len(issues) > 0 {
		return ErrInvalidTeamGroupMap(issues)
	}
	return nil
}

func validateTeamGroups(st *contest.State) error {
	var issues []string
	for _, team := range st.Teams.Sorted() {
		if len(team.GroupIDs) == 0 {
			issues = append(issues, fmt.Sprintf("%s (%s) has no group_ids", team.ID, team.Name))
			continue
		}
		var unknown []string
		for _, g := range team.GroupIDs {
			if !st.Groups.Has(g) {
				unknown = append(unknown, g)
			}
		}
		if len(unknown) > 0 {
			issues = append(issues, fmt.Sprintf("%s (%s) has unknown group_ids: %s",
				team.ID, team.Name, strings.Join(unknown, ", ")))
		}
	}
	if len(issues) > 0 {
		return ErrInvalidTeamGroups(issues)
	}
	return nil
}

func validateAllJudged(st *contest.State) error {
	judged := make(map[string]bool, len(st.Judgements))
	for _, j := range st.Judgements {
		judged[j.SubmissionID] = true
	}
	for _, id := range st.Submissions.IDs() {
		if !judged[id] {
			return ErrSubmissionNotJudged(id)
		}
	}
	return nil
}

func contestTiming(c *contest.Contest) (start, freeze time.Time, err error) {
	if c == nil {
		return start, freeze, ErrContestNotDefined()
	}
	if c.StartTime == nil {
		return start, freeze, ErrStartTimeNotDefined()
	}
	if c.ScoreboardFreezeTime == nil {
		return start, freeze, ErrFreezeTimeNotDefined()
	}
	return *c.StartTime, *c.ScoreboardFreezeTime, nil
}

type orderedJudgement struct {
	judgement contest.Judgement
	at        *time.Time
}

// judgementOrder sorts judgements by submission time, falling back to the
// judgement start time. Judgements without any time come first; equal times
// are ordered by judgement id.
func judgementOrder(st *contest.State, start time.Time) []orderedJudgement {
	res := make([]orderedJudgement, 0, len(st.Judgements))
	for _, j := range st.Judgements {
		var at *time.Time
		if s, ok := st.Submissions[j.SubmissionID]; ok {
			at = s.EffectiveTime(&start)
		}
		if at == nil {
			at = j.StartTime
		}
		res = append(res, orderedJudgement{judgement: j, at: at})
	}
	slices.SortFunc(res, func(a, b orderedJudgement) int {
		switch {
		case a.at == nil && b.at != nil:
			return -1
		case a.at != nil && b.at == nil:
			return 1
		case a.at != nil && b.at != nil:
			if c := a.at.Compare(*b.at); c != 0 {
				return c
			}
		}
		return strings.Compare(a.judgement.ID, b.judgement.ID)
	})
	return res
}

type folder struct {
	st     *contest.State
	start  time.Time
	freeze time.Time
}

// fold builds fresh rows and applies every judgement in order.
func (f folder) fold(order []orderedJudgement) (Leaderboard, []string, error) {
	rows, index, err := f.initialRows()
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, oj := range order {
		j := oj.judgement
		sub, ok := f.st.Submissions[j.SubmissionID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"Skipping judgement %s because submission %s is missing", j.ID, j.SubmissionID))
			continue
		}
		i, ok := index[sub.TeamID]
		if !ok {
			return nil, nil, ErrUnknownTeam(sub.TeamID)
		}
		at := sub.EffectiveTime(&f.start)
		if at == nil {
			return nil, nil, ErrUnknownSubmissionTime(sub.ID)
		}
		var jt *contest.JudgementType
		if j.JudgementTypeID != nil {
			if v, ok := f.st.JudgementTypes[*j.JudgementTypeID]; ok {
				jt = &v
			}
		}
		f.apply(&rows[i], sub.ProblemID, *at, jt)
	}
	return rows, warnings, nil
}

func (f folder) initialRows() (Leaderboard, map[string]int, error) {
	teams := f.st.Teams.Sorted()
	rows := make(Leaderboard, 0, len(teams))
	index := make(map[string]int, len(teams))
	for _, team := range teams {
		if team.OrganizationID == nil {
			return nil, nil, ErrMissingOrganization(team.ID)
		}
		sortOrder := 0
		for k, g := range team.GroupIDs {
			so := f.st.Groups[g].SortOrder
			if k == 0 || so < sortOrder {
				sortOrder = so
			}
		}
		index[team.ID] = len(rows)
		rows = append(rows, newTeamStatus(team.ID, team.Name, *team.OrganizationID, sortOrder))
	}
	return rows, index, nil
}

func (f folder) apply(row *TeamStatus, problemID string, at time.Time, jt *contest.JudgementType) {
	stat := row.ProblemStats[problemID]
	defer func() { row.ProblemStats[problemID] = stat }()

	if stat.Solved || jt == nil {
		return
	}
	if !jt.Penalty && !jt.Solved {
		return
	}

	stat.SubmissionsBeforeSolved++
	stat.AttemptedDuringFreeze = at.After(f.freeze)
	minute := contest.ContestMinutes(at.Sub(f.start))
	stat.LastSubmissionMinute = minute

	if !jt.Solved {
		return
	}
	ac := at
	stat.Solved = true
	stat.FirstACTime = &ac
	// submissions before the start cost no time
	stat.Penalty = max(minute, 0) + int64(PenaltyPerAttempt*(stat.SubmissionsBeforeSolved-1))

	// solves inside the freeze wait for the reveal
	if stat.AttemptedDuringFreeze {
		return
	}
	row.Credit(stat)
}
