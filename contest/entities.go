package contest

import "time"

// Entity is anything stored in a Table.
type Entity interface {
	GetID() string
}

type Contest struct {
	ID                       string     `json:"id" validate:"required"`
	Name                     string     `json:"name"`
	FormalName               string     `json:"formal_name"`
	ShortName                string     `json:"shortname"`
	ScoreboardType           string     `json:"scoreboard_type"`
	StartTime                *time.Time `json:"start_time"`
	EndTime                  *time.Time `json:"end_time"`
	ScoreboardThawTime       *time.Time `json:"scoreboard_thaw_time"`
	Duration                 *RelTime   `json:"duration" validate:"required"`
	ScoreboardFreezeDuration *RelTime   `json:"scoreboard_freeze_duration" validate:"required"`
	PenaltyTime              int        `json:"penalty_time"`

	// derived on ingest: start + (duration - freeze duration)
	ScoreboardFreezeTime *time.Time `json:"-"`
}

// DeriveFreezeTime fills ScoreboardFreezeTime. It stays nil without a start time.
func (c *Contest) DeriveFreezeTime() {
	c.ScoreboardFreezeTime = nil
	if c.StartTime == nil || c.Duration == nil || c.ScoreboardFreezeDuration == nil {
		return
	}
	freeze := c.StartTime.Add(c.Duration.Duration() - c.ScoreboardFreezeDuration.Duration())
	c.ScoreboardFreezeTime = &freeze
}

type JudgementType struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Penalty bool   `json:"penalty"`
	Solved  bool   `json:"solved"`
}

func (j JudgementType) GetID() string { return j.ID }

type Group struct {
	ID        string  `json:"id" validate:"required"`
	ICPCID    *string `json:"icpc_id"`
	Name      string  `json:"name"`
	Hidden    bool    `json:"hidden"`
	SortOrder int     `json:"sortorder"`
	Color     *string `json:"color"`
}

func (g Group) GetID() string { return g.ID }

type Organization struct {
	ID         string  `json:"id" validate:"required"`
	ICPCID     *string `json:"icpc_id"`
	Name       string  `json:"name"`
	FormalName string  `json:"formal_name"`
	ShortName  string  `json:"shortname"`
	Country    string  `json:"country"`
}

func (o Organization) GetID() string { return o.ID }

type Team struct {
	ID             string   `json:"id" validate:"required"`
	ICPCID         *string  `json:"icpc_id"`
	Label          *string  `json:"label"`
	Name           string   `json:"name"`
	DisplayName    *string  `json:"display_name"`
	OrganizationID *string  `json:"organization_id"`
	GroupIDs       []string `json:"group_ids"`
	Hidden         bool     `json:"hidden"`
}

func (t Team) GetID() string { return t.ID }

// InAnyGroup reports whether the team belongs to at least one of groups.
func (t Team) InAnyGroup(groups map[string]bool) bool {
	for _, id := range t.GroupIDs {
		if groups[id] {
			return true
		}
	}
	return false
}

type Account struct {
	ID       string  `json:"id" validate:"required"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	TeamID   *string `json:"team_id"`
}

func (a Account) GetID() string { return a.ID }

type Problem struct {
	ID        string  `json:"id" validate:"required"`
	Label     string  `json:"label"`
	Name      string  `json:"name"`
	ShortName string  `json:"short_name"`
	Ordinal   int     `json:"ordinal"`
	RGB       string  `json:"rgb"`
	Color     string  `json:"color"`
	TimeLimit float64 `json:"time_limit"`
}

func (p Problem) GetID() string { return p.ID }

type Submission struct {
	ID          string     `json:"id" validate:"required"`
	LanguageID  string     `json:"language_id"`
	TeamID      string     `json:"team_id" validate:"required"`
	ProblemID   string     `json:"problem_id" validate:"required"`
	Time        *time.Time `json:"time"`
	ContestTime *RelTime   `json:"contest_time" validate:"required_without=Time"`
}

func (s Submission) GetID() string { return s.ID }

// EffectiveTime is the absolute submission time, falling back to
// contest start + contest_time when only the relative time is known.
func (s Submission) EffectiveTime(start *time.Time) *time.Time {
	if s.Time != nil {
		return s.Time
	}
	if start == nil || s.ContestTime == nil {
		return nil
	}
	t := start.Add(s.ContestTime.Duration())
	return &t
}

type Judgement struct {
	ID               string     `json:"id" validate:"required"`
	SubmissionID     string     `json:"submission_id" validate:"required"`
	JudgementTypeID  *string    `json:"judgement_type_id"`
	StartTime        *time.Time `json:"start_time"`
	StartContestTime *RelTime   `json:"start_contest_time"`
	EndTime          *time.Time `json:"end_time"`
	EndContestTime   *RelTime   `json:"end_contest_time"`
	Valid            bool       `json:"valid"`
	MaxRunTime       *float64   `json:"max_run_time"`
}

func (j Judgement) GetID() string { return j.ID }

type Award struct {
	ID       string   `json:"id" validate:"required"`
	Citation string   `json:"citation"`
	TeamIDs  []string `json:"team_ids"`
}

func (a Award) GetID() string { return a.ID }
