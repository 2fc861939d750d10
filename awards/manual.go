package awards

import (
	"net/http"
	"slices"
	"strings"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeInvalidAward = "invalid_award"

func ErrInvalidAward() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidAward,
		"Award ID, citation, and at least one team ID are required",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeAwardNotFound = "award_not_found"

func ErrAwardNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAwardNotFound,
		"Award not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

// Upsert adds or replaces a manual award. Blank team ids are dropped.
// No exclusivity against other awards is checked.
func Upsert(table contest.Table[contest.Award], a contest.Award) (contest.Award, error) {
	a.ID = strings.TrimSpace(a.ID)
	a.Citation = strings.TrimSpace(a.Citation)

	var ids []string
	for _, id := range a.TeamIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	a.TeamIDs = ids

	if a.ID == "" || a.Citation == "" || len(a.TeamIDs) == 0 {
		return contest.Award{}, ErrInvalidAward()
	}
	table.Put(a)
	return a, nil
}

func Delete(table contest.Table[contest.Award], id string) error {
	if !table.Has(id) {
		return ErrAwardNotFound()
	}
	delete(table, id)
	return nil
}

// ByTeam maps every awarded team to its citations, ordered by award id.
func ByTeam(table contest.Table[contest.Award]) map[string][]string {
	res := map[string][]string{}
	for _, a := range table.Sorted() {
		for _, teamID := range a.TeamIDs {
			if slices.Contains(res[teamID], a.Citation) {
				continue
			}
			res[teamID] = append(res[teamID], a.Citation)
		}
	}
	return res
}
