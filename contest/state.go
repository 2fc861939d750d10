package contest

import (
	"maps"
	"slices"
)

// Table holds entities of one kind keyed by their opaque id.
type Table[T Entity] map[string]T

// Put inserts or fully replaces the entity with the same id.
// It reports whether an existing entity was replaced.
func (t Table[T]) Put(v T) bool {
	_, replaced := t[v.GetID()]
	t[v.GetID()] = v
	return replaced
}

func (t Table[T]) Has(id string) bool {
	_, ok := t[id]
	return ok
}

// IDs returns the keys in ascending order.
func (t Table[T]) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Sorted returns the values ordered by id.
func (t Table[T]) Sorted() []T {
	res := make([]T, 0, len(t))
	for _, id := range t.IDs() {
		res = append(res, t[id])
	}
	return res
}

// State is the entity store populated from an event feed.
type State struct {
	Contest        *Contest
	JudgementTypes Table[JudgementType]
	Groups         Table[Group]
	Organizations  Table[Organization]
	Teams          Table[Team]
	Accounts       Table[Account]
	Problems       Table[Problem]
	Submissions    Table[Submission]
	Judgements     Table[Judgement]
	Awards         Table[Award]
}

func NewState() *State {
	return &State{
		JudgementTypes: Table[JudgementType]{},
		Groups:         Table[Group]{},
		Organizations:  Table[Organization]{},
		Teams:          Table[Team]{},
		Accounts:       Table[Account]{},
		Problems:       Table[Problem]{},
		Submissions:    Table[Submission]{},
		Judgements:     Table[Judgement]{},
		Awards:         Table[Award]{},
	}
}

// Clone copies every table. Slices owned by teams and awards are copied too,
// the remaining pointer fields are treated as immutable and shared.
func (s *State) Clone() *State {
	c := &State{
		JudgementTypes: maps.Clone(s.JudgementTypes),
		Groups:         maps.Clone(s.Groups),
		Organizations:  maps.Clone(s.Organizations),
		Teams:          make(Table[Team], len(s.Teams)),
		Accounts:       maps.Clone(s.Accounts),
		Problems:       maps.Clone(s.Problems),
		Submissions:    maps.Clone(s.Submissions),
		Judgements:     maps.Clone(s.Judgements),
		Awards:         make(Table[Award], len(s.Awards)),
	}
	if s.Contest != nil {
		contest := *s.Contest
		c.Contest = &contest
	}
	for id, team := range s.Teams {
		team.GroupIDs = slices.Clone(team.GroupIDs)
		c.Teams[id] = team
	}
	for id, award := range s.Awards {
		award.TeamIDs = slices.Clone(award.TeamIDs)
		c.Awards[id] = award
	}
	return c
}
