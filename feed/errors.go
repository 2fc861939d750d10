package feed

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/resolver/srvcerror"
)

const ErrCodeMalformedLine = "malformed_line"

func ErrMalformedLine(cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMalformedLine,
		fmt.Sprintf("Malformed event line: %v", cause),
	).SetDebug(cause).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeLineTooLong = "line_too_long"

func ErrLineTooLong(limit int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLineTooLong,
		fmt.Sprintf("Event line exceeds %d bytes", limit),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeUnsupportedEventType = "unsupported_event_type"

func ErrUnsupportedEventType(kind Kind) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeUnsupportedEventType,
		fmt.Sprintf("Unsupported event type %q", string(kind)),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeContestUndefined = "contest_undefined"

func ErrContestUndefined(kind Kind) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestUndefined,
		fmt.Sprintf("Contest must be defined before %s", kind),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeMalformedPayload = "malformed_payload"

func ErrMalformedPayload(kind Kind, cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMalformedPayload,
		fmt.Sprintf("Failed to parse %s payload: %v", kind, cause),
	).SetDebug(cause).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeMissingField = "missing_required_field"

func ErrMissingField(kind Kind, cause error) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMissingField,
		fmt.Sprintf("Invalid %s payload: %s", kind, describeValidation(cause)),
	).SetDebug(cause).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "missing required field " + strings.Join(fields, ", ")
}
