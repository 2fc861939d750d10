package session

import (
	"fmt"
	"net/http"

	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeAlreadyPresented = "already_presented"

func ErrAlreadyPresented() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAlreadyPresented,
		"Presentation already started, contest state can no longer change",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeNotPresented = "not_presented"

func ErrNotPresented() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNotPresented,
		"Presentation has not started",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeAwardStore = "award_store_failure"

func ErrAwardStore(op string, cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAwardStore,
		fmt.Sprintf("Failed to %s awards: %v", op, cause),
	).SetDebug(cause).SetHttpStatusCode(http.StatusBadGateway)
}

const ErrCodeNoAwardStore = "no_award_store"

func ErrNoAwardStore() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNoAwardStore,
		"No award store configured",
	).SetHttpStatusCode(http.StatusNotImplemented)
}
