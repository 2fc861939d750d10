package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeUnknownLeaderboard = "unknown_leaderboard"

func ErrUnknownLeaderboard(name string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnknownLeaderboard,
		fmt.Sprintf("Unknown leaderboard %q, expected frozen or final", name),
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidRequest = "invalid_request"

func ErrInvalidRequest(cause error) *srvcerror.Error {
	var issues []string
	var verrs validator.ValidationErrors
	if errors.As(cause, &verrs) {
		for _, fe := range verrs {
			issues = append(issues, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	} else if cause != nil {
		issues = []string{cause.Error()}
	}
	return srvcerror.New(
		ErrCodeInvalidRequest,
		"Invalid request body",
	).SetDetails(issues).SetDebug(cause).SetHttpStatusCode(http.StatusBadRequest)
}
