package awards

import (
	"strings"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/scoring"
)

const (
	GoldID   = "medal-gold"
	SilverID = "medal-silver"
	BronzeID = "medal-bronze"
)

type Counts struct {
	Gold   int `json:"gold" validate:"gte=0"`
	Silver int `json:"silver" validate:"gte=0"`
	Bronze int `json:"bronze" validate:"gte=0"`
}

func (c Counts) Total() int {
	return max(c.Gold, 0) + max(c.Silver, 0) + max(c.Bronze, 0)
}

type Citations struct {
	Gold   string `json:"gold"`
	Silver string `json:"silver"`
	Bronze string `json:"bronze"`
}

func DefaultCitations() Citations {
	return Citations{
		Gold:   "Gold Medal",
		Silver: "Silver Medal",
		Bronze: "Bronze Medal",
	}
}

type Entry struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

type MedalPlan struct {
	Gold     []Entry `json:"gold"`
	Silver   []Entry `json:"silver"`
	Bronze   []Entry `json:"bronze"`
	Eligible int     `json:"eligible"`
}

// Short reports whether more medals were requested than there are eligible teams.
func (p MedalPlan) Short(requested Counts) bool {
	return requested.Total() > p.Eligible
}

// PlanMedals walks the finalized board and hands out gold, silver and bronze
// to consecutive eligible teams. A team is eligible when it belongs to at
// least one of the selected groups.
func PlanMedals(board scoring.Leaderboard, teams contest.Table[contest.Team], groups []string, n Counts) MedalPlan {
	selected := groupSet(groups)

	var eligible []Entry
	for _, row := range board {
		team, ok := teams[row.TeamID]
		if !ok || !team.InAnyGroup(selected) {
			continue
		}
		eligible = append(eligible, Entry{TeamID: row.TeamID, TeamName: row.TeamName})
	}

	goldEnd := min(max(n.Gold, 0), len(eligible))
	silverEnd := min(goldEnd+max(n.Silver, 0), len(eligible))
	bronzeEnd := min(silverEnd+max(n.Bronze, 0), len(eligible))

	return MedalPlan{
		Gold:     eligible[:goldEnd:goldEnd],
		Silver:   eligible[goldEnd:silverEnd:silverEnd],
		Bronze:   eligible[silverEnd:bronzeEnd:bronzeEnd],
		Eligible: len(eligible),
	}
}

// ApplyMedals writes the three medal awards, replacing earlier ones.
// Blank citations fall back to the defaults.
func ApplyMedals(table contest.Table[contest.Award], plan MedalPlan, c Citations) {
	def := DefaultCitations()
	table.Put(contest.Award{ID: GoldID, Citation: orDefault(c.Gold, def.Gold), TeamIDs: teamIDs(plan.Gold)})
	table.Put(contest.Award{ID: SilverID, Citation: orDefault(c.Silver, def.Silver), TeamIDs: teamIDs(plan.Silver)})
	table.Put(contest.Award{ID: BronzeID, Citation: orDefault(c.Bronze, def.Bronze), TeamIDs: teamIDs(plan.Bronze)})
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func teamIDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.TeamID
	}
	return ids
}

func groupSet(groups []string) map[string]bool {
	set := make(map[string]bool, len(groups))
	for _, g := range groups {
		set[g] = true
	}
	return set
}
