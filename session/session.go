package session

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/programme-lv/resolver/awards"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/resolver"
	"github.com/programme-lv/resolver/scoring"
)

// Session owns one loaded contest from award setup through the reveal
// ceremony. Every entry point takes the same lock.
type Session struct {
	mu sync.Mutex
	id uuid.UUID

	state     *contest.State
	frozen    scoring.Leaderboard
	finalized scoring.Leaderboard
	warnings  []string

	store awards.Store

	presented bool
	summary   awards.Summary
	ctrl      *resolver.Controller
}

// New takes ownership of res. store may be nil when award bindings are not
// persisted.
func New(ctx context.Context, res *scoring.Result, store awards.Store) *Session {
	s := &Session{
		id:        uuid.New(),
		state:     res.State,
		frozen:    res.PreFreeze,
		finalized: res.Finalized,
		warnings:  res.Warnings,
		store:     store,
	}
	logger.FromContext(s.withID(ctx)).Info("session created",
		"teams", len(s.state.Teams),
		"awards", len(s.state.Awards))
	return s
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) withID(ctx context.Context) context.Context {
	return logger.WithSessionID(ctx, s.id.String())
}

func (s *Session) Contest() contest.Contest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Contest == nil {
		return contest.Contest{}
	}
	return *s.state.Contest
}

func (s *Session) Problems() []contest.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	problems := s.state.Problems.Sorted()
	slices.SortStableFunc(problems, func(a, b contest.Problem) int {
		return a.Ordinal - b.Ordinal
	})
	return problems
}

// Leaderboards returns copies of the frozen and the finalized board.
// After Present the frozen board is the narrowed one.
func (s *Session) Leaderboards() (frozen, finalized scoring.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen.Clone(), s.finalized.Clone()
}

func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.warnings)
}

func (s *Session) Groups() []contest.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Groups.Sorted()
}

func (s *Session) Team(id string) (contest.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state.Teams[id]
	return t, ok
}

func (s *Session) Awards() []contest.Award {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Awards.Sorted()
}

func (s *Session) PreviewMedals(groups []string, n awards.Counts) awards.MedalPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return awards.PlanMedals(s.finalized, s.state.Teams, groups, n)
}

func (s *Session) ApplyMedals(ctx context.Context, groups []string, n awards.Counts, c awards.Citations) (awards.MedalPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		return awards.MedalPlan{}, ErrAlreadyPresented()
	}
	plan := awards.PlanMedals(s.finalized, s.state.Teams, groups, n)
	awards.ApplyMedals(s.state.Awards, plan, c)
	logger.FromContext(s.withID(ctx)).Info("medal awards applied",
		"gold", len(plan.Gold),
		"silver", len(plan.Silver),
		"bronze", len(plan.Bronze))
	return plan, nil
}

func (s *Session) UpsertAward(ctx context.Context, a contest.Award) (contest.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		return contest.Award{}, ErrAlreadyPresented()
	}
	a, err := awards.Upsert(s.state.Awards, a)
	if err != nil {
		return contest.Award{}, err
	}
	logger.FromContext(s.withID(ctx)).Info("award upserted", "award_id", a.ID, "teams", len(a.TeamIDs))
	return a, nil
}

func (s *Session) DeleteAward(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		return ErrAlreadyPresented()
	}
	if err := awards.Delete(s.state.Awards, id); err != nil {
		return err
	}
	logger.FromContext(s.withID(ctx)).Info("award deleted", "award_id", id)
	return nil
}

// SaveAwards writes the current award table and returns a status message.
func (s *Session) SaveAwards(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return "", ErrNoAwardStore()
	}
	if err := s.store.Save(s.withID(ctx), s.state.Awards); err != nil {
		return "", ErrAwardStore("save", err)
	}
	return fmt.Sprintf("Saved awards to %s", s.store.Location()), nil
}

// LoadAwards replaces the award table. On failure nothing changes.
func (s *Session) LoadAwards(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		return "", ErrAlreadyPresented()
	}
	if s.store == nil {
		return "", ErrNoAwardStore()
	}
	table, err := s.store.Load(s.withID(ctx))
	if err != nil {
		return "", ErrAwardStore("load", err)
	}
	s.state.Awards = table
	return fmt.Sprintf("Loaded %d award(s) from %s", len(table), s.store.Location()), nil
}

func (s *Session) Presented() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Present narrows the contest to the selected groups and starts the
// ceremony. It can be called once per session.
func (s *Session) Present(ctx context.Context, groups []string) (awards.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presented {
		return awards.Summary{}, ErrAlreadyPresented()
	}
	ctx = s.withID(ctx)

	board, sum := awards.PrepareForPresentation(s.state, s.frozen, groups)
	s.frozen = board
	s.summary = sum
	s.ctrl = resolver.New(ctx, board, awards.ByTeam(s.state.Awards))
	s.presented = true

	logger.FromContext(ctx).Info(sum.String(), "groups", groups)
	return sum, nil
}

func (s *Session) Advance(ctx context.Context) (resolver.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl == nil {
		return resolver.Step{}, ErrNotPresented()
	}
	wasDone := s.ctrl.Done()
	step := s.ctrl.Advance()
	if !wasDone && s.ctrl.Done() {
		logger.FromContext(s.withID(ctx)).Info("resolution complete")
	}
	return step, nil
}

type ResolverView struct {
	resolver.Snapshot
	Summary awards.Summary `json:"summary"`
}

func (s *Session) Resolver() (ResolverView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl == nil {
		return ResolverView{}, ErrNotPresented()
	}
	return ResolverView{Snapshot: s.ctrl.Snapshot(), Summary: s.summary}, nil
}
