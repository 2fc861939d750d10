package feed

import (
	"context"
	"log/slog"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
)

// Apply folds a decoded event into the store. Every kind except the contest
// itself requires a contest record to exist already.
func Apply(ctx context.Context, st *contest.State, ev Event) error {
	log := logger.FromContext(ctx)

	switch ev := ev.(type) {
	case ContestEvent:
		c := ev.Contest
		c.DeriveFreezeTime()
		if st.Contest != nil {
			log.Info("updating contest data", "contest_id", c.ID)
		} else {
			log.Info("new contest data parsed", "contest_id", c.ID)
		}
		st.Contest = &c
		return nil
	case Empty:
		log.Warn("empty data for event", "type", ev.Of)
		return nil
	case Ignored:
		log.Debug("skipping event", "type", ev.Of)
		return nil
	}

	if st.Contest == nil {
		return ErrContestUndefined(ev.Kind())
	}

	switch ev := ev.(type) {
	case JudgementTypeEvent:
		upsert(log, st.JudgementTypes, ev.Kind(), ev.JudgementType)
	case GroupEvent:
		upsert(log, st.Groups, ev.Kind(), ev.Group)
	case OrganizationEvent:
		upsert(log, st.Organizations, ev.Kind(), ev.Organization)
	case TeamEvent:
		upsert(log, st.Teams, ev.Kind(), ev.Team)
	case AccountEvent:
		upsert(log, st.Accounts, ev.Kind(), ev.Account)
	case ProblemEvent:
		upsert(log, st.Problems, ev.Kind(), ev.Problem)
	case SubmissionEvent:
		upsert(log, st.Submissions, ev.Kind(), ev.Submission)
	case JudgementEvent:
		upsert(log, st.Judgements, ev.Kind(), ev.Judgement)
	case AwardEvent:
		upsert(log, st.Awards, ev.Kind(), ev.Award)
	default:
		return ErrUnsupportedEventType(ev.Kind())
	}
	return nil
}

func upsert[T contest.Entity](log *slog.Logger, table contest.Table[T], kind Kind, v T) {
	if table.Put(v) {
		log.Debug("updated existing entity", "type", kind, "id", v.GetID())
		return
	}
	log.Debug("added new entity", "type", kind, "id", v.GetID())
}
