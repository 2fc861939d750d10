package scoring

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeInvalidTeamGroupMap = "invalid_team_group_map"

func ErrInvalidTeamGroupMap(issues []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidTeamGroupMap,
		"Invalid team_group_map entries",
	).SetDetails(issues).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeInvalidTeamGroups = "invalid_team_groups"

func ErrInvalidTeamGroups(issues []string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidTeamGroups,
		"Invalid team group data",
	).SetDetails(issues).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeSubmissionNotJudged = "submission_not_judged"

func ErrSubmissionNotJudged(submissionID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmissionNotJudged,
		fmt.Sprintf("Submission %s not judged", submissionID),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeContestTiming = "contest_timing_undefined"

func ErrContestNotDefined() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestTiming,
		"Contest not defined",
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

func ErrStartTimeNotDefined() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestTiming,
		"Contest start time not defined",
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

func ErrFreezeTimeNotDefined() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestTiming,
		"Contest freeze time not defined",
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeMissingOrganization = "missing_organization"

func ErrMissingOrganization(teamID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMissingOrganization,
		fmt.Sprintf("Missing organization_id for team %s", teamID),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeUnknownTeam = "unknown_team"

func ErrUnknownTeam(teamID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownTeam,
		fmt.Sprintf("Unknown team id %s", teamID),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeUnknownSubmissionTime = "unknown_submission_time"

func ErrUnknownSubmissionTime(submissionID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownSubmissionTime,
		fmt.Sprintf("Unknown submission time for submission %s", submissionID),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}
