package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/resolver/contest"
)

type Kind string

const (
	KindContest        Kind = "contest"
	KindJudgementTypes Kind = "judgement-types"
	KindLanguages      Kind = "languages"
	KindProblems       Kind = "problems"
	KindGroups         Kind = "groups"
	KindOrganizations  Kind = "organizations"
	KindTeams          Kind = "teams"
	KindPersons        Kind = "persons"
	KindAccounts       Kind = "accounts"
	KindState          Kind = "state"
	KindSubmissions    Kind = "submissions"
	KindJudgements     Kind = "judgements"
	KindRuns           Kind = "runs"
	KindClarifications Kind = "clarifications"
	KindAwards         Kind = "awards"
)

// kinds that are recognised but carry nothing the resolver needs
var ignoredKinds = map[Kind]bool{
	KindLanguages:      true,
	KindRuns:           true,
	KindState:          true,
	KindClarifications: true,
	KindPersons:        true,
}

// Envelope is one line of the event feed.
type Envelope struct {
	Type  Kind            `json:"type"`
	Data  json.RawMessage `json:"data"`
	Token *string         `json:"token"`
	ID    *string         `json:"id"`
	Time  *string         `json:"time"`
}

// Event is a decoded feed line. The set of implementations is closed.
type Event interface {
	Kind() Kind
	isEvent()
}

type ContestEvent struct{ Contest contest.Contest }
type JudgementTypeEvent struct{ JudgementType contest.JudgementType }
type GroupEvent struct{ Group contest.Group }
type OrganizationEvent struct{ Organization contest.Organization }
type TeamEvent struct{ Team contest.Team }
type AccountEvent struct{ Account contest.Account }
type ProblemEvent struct{ Problem contest.Problem }
type SubmissionEvent struct{ Submission contest.Submission }
type JudgementEvent struct{ Judgement contest.Judgement }
type AwardEvent struct{ Award contest.Award }

// Ignored is a recognised kind the resolver does not use.
type Ignored struct{ Of Kind }

// Empty is a line of a known kind whose data is null or absent.
type Empty struct{ Of Kind }

func (ContestEvent) Kind() Kind       { return KindContest }
func (JudgementTypeEvent) Kind() Kind { return KindJudgementTypes }
func (GroupEvent) Kind() Kind         { return KindGroups }
func (OrganizationEvent) Kind() Kind  { return KindOrganizations }
func (TeamEvent) Kind() Kind          { return KindTeams }
func (AccountEvent) Kind() Kind       { return KindAccounts }
func (ProblemEvent) Kind() Kind       { return KindProblems }
func (SubmissionEvent) Kind() Kind    { return KindSubmissions }
func (JudgementEvent) Kind() Kind     { return KindJudgements }
func (AwardEvent) Kind() Kind         { return KindAwards }
func (e Ignored) Kind() Kind          { return e.Of }
func (e Empty) Kind() Kind            { return e.Of }

func (ContestEvent) isEvent()       {}
func (JudgementTypeEvent) isEvent() {}
func (GroupEvent) isEvent()         {}
func (OrganizationEvent) isEvent()  {}
func (TeamEvent) isEvent()          {}
func (AccountEvent) isEvent()       {}
func (ProblemEvent) isEvent()       {}
func (SubmissionEvent) isEvent()    {}
func (JudgementEvent) isEvent()     {}
func (AwardEvent) isEvent()         {}
func (Ignored) isEvent()            {}
func (Empty) isEvent()              {}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report payload field names the way they appear in the feed
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses one non-blank feed line. Errors are local to the line.
func Decode(line []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, ErrMalformedLine(err)
	}
	if env.Type == "" {
		return nil, ErrMalformedLine(errors.New("missing event type"))
	}
	if !knownKind(env.Type) {
		return nil, ErrUnsupportedEventType(env.Type)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Empty{Of: env.Type}, nil
	}

	if ignoredKinds[env.Type] {
		return Ignored{Of: env.Type}, nil
	}

	switch env.Type {
	case KindContest:
		v, err := decodePayload[contest.Contest](env.Type, data)
		return ContestEvent{Contest: v}, err
	case KindJudgementTypes:
		v, err := decodePayload[contest.JudgementType](env.Type, data)
		return JudgementTypeEvent{JudgementType: v}, err
	case KindGroups:
		v, err := decodePayload[contest.Group](env.Type, data)
		return GroupEvent{Group: v}, err
	case KindOrganizations:
		v, err := decodePayload[contest.Organization](env.Type, data)
		return OrganizationEvent{Organization: v}, err
	case KindTeams:
		v, err := decodePayload[contest.Team](env.Type, data)
		return TeamEvent{Team: v}, err
	case KindAccounts:
		v, err := decodePayload[contest.Account](env.Type, data)
		return AccountEvent{Account: v}, err
	case KindProblems:
		v, err := decodePayload[contest.Problem](env.Type, data)
		return ProblemEvent{Problem: v}, err
	case KindSubmissions:
		v, err := decodePayload[contest.Submission](env.Type, data)
		return SubmissionEvent{Submission: v}, err
	case KindJudgements:
		v, err := decodePayload[contest.Judgement](env.Type, data)
		return JudgementEvent{Judgement: v}, err
	case KindAwards:
		v, err := decodePayload[contest.Award](env.Type, data)
		return AwardEvent{Award: v}, err
	}
	return nil, ErrUnsupportedEventType(env.Type)
}

func knownKind(k Kind) bool {
	switch k {
	case KindContest, KindJudgementTypes, KindGroups, KindOrganizations,
		KindTeams, KindAccounts, KindProblems, KindSubmissions,
		KindJudgements, KindAwards:
		return true
	}
	return ignoredKinds[k]
}

func decodePayload[T any](kind Kind, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, ErrMalformedPayload(kind, err)
	}
	if err := validate.Struct(v); err != nil {
		return v, ErrMissingField(kind, err)
	}
	return v, nil
}
