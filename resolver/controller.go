package resolver

import (
	"context"
	"log/slog"
	"slices"

	"github.com/emirpasic/gods/v2/queues/linkedlistqueue"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/scoring"
)

type Phase int

const (
	RowInProgress Phase = iota
	RowInProgressAwaitResort
	RowCompleteAwardShowing
	RowCompleteReadyToAdvance
)

func (p Phase) String() string {
	switch p {
	case RowInProgress:
		return "row_in_progress"
	case RowInProgressAwaitResort:
		return "row_in_progress_await_resort"
	case RowCompleteAwardShowing:
		return "row_complete_award_showing"
	case RowCompleteReadyToAdvance:
		return "row_complete_ready_to_advance"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MovedUp is emitted once per resort that lifted the revealed team.
// RequestID grows strictly; consumers drop ids they have already seen.
type MovedUp struct {
	TeamID    string `json:"team_id"`
	OldIndex  int    `json:"old_index"`
	NewIndex  int    `json:"new_index"`
	RequestID uint64 `json:"request_id"`
}

type Reveal struct {
	TeamID    string `json:"team_id"`
	ProblemID string `json:"problem_id"`
	Solved    bool   `json:"solved"`
}

type Award struct {
	TeamID    string   `json:"team_id"`
	Citations []string `json:"citations"`
}

// Step describes what a single Advance did. A zero Step with From == To
// and no payload is a no-op.
type Step struct {
	From       Phase    `json:"from"`
	To         Phase    `json:"to"`
	Reveal     *Reveal  `json:"reveal,omitempty"`
	MovedUp    *MovedUp `json:"moved_up,omitempty"`
	Award      *Award   `json:"award,omitempty"`
	FocusMoved bool     `json:"focus_moved"`
}

type row struct {
	status  scoring.TeamStatus
	pending *linkedlistqueue.Queue[string]
	rank    int
}

// Controller drives the reveal ceremony over its own copy of the frozen
// rows. It is not safe for concurrent use.
type Controller struct {
	log *slog.Logger

	rows  []row
	index map[string]int

	awards  map[string][]string
	current *Award

	phase      Phase
	focus      int
	resortTeam string

	requestSeq  uint64
	lastMovedUp *MovedUp
}

// New copies the frozen board; later changes to board or awardsByTeam are
// not seen by the controller and vice versa.
func New(ctx context.Context, board scoring.Leaderboard, awardsByTeam map[string][]string) *Controller {
	c := &Controller{
		log:    logger.FromContext(logger.WithComponent(ctx, "resolver")),
		rows:   make([]row, len(board)),
		awards: make(map[string][]string, len(awardsByTeam)),
		phase:  RowInProgress,
		focus:  -1,
	}
	for teamID, citations := range awardsByTeam {
		c.awards[teamID] = slices.Clone(citations)
	}

	for i, status := range board {
		q := linkedlistqueue.New[string]()
		for _, problemID := range status.PendingProblems() {
			q.Enqueue(problemID)
		}
		c.rows[i] = row{status: status.Clone(), pending: q}
		if !q.Empty() {
			c.focus = i
		}
	}
	c.reindex()

	c.log.Info("resolver initialized", "rows", len(c.rows), "focus", c.focus, "awarded_teams", len(c.awards))
	return c
}

func (c *Controller) reindex() {
	c.index = make(map[string]int, len(c.rows))
	for i := range c.rows {
		c.index[c.rows[i].status.TeamID] = i
		c.rows[i].rank = i + 1
	}
}

func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) Focus() int {
	return c.focus
}

func (c *Controller) focused() *row {
	if c.focus < 0 || c.focus >= len(c.rows) {
		return nil
	}
	return &c.rows[c.focus]
}

// HasPendingReveal reports whether the focused row still hides results.
func (c *Controller) HasPendingReveal() bool {
	r := c.focused()
	return r != nil && !r.pending.Empty()
}

func (c *Controller) CanMoveUp() bool {
	return c.focus > 0 && c.focus < len(c.rows)
}

// HasAward reports whether the focused team has citations not yet shown.
func (c *Controller) HasAward() bool {
	r := c.focused()
	return r != nil && len(c.awards[r.status.TeamID]) > 0
}

// CurrentAward is the award being shown, if any.
func (c *Controller) CurrentAward() *Award {
	if c.phase != RowCompleteAwardShowing || c.current == nil {
		return nil
	}
	a := *c.current
	a.Citations = slices.Clone(a.Citations)
	return &a
}

// Done reports that the ceremony reached the top: nothing left to reveal,
// move or award. Advance is a no-op from here on.
func (c *Controller) Done() bool {
	return c.phase == RowInProgress &&
		!c.CanMoveUp() &&
		!c.HasPendingReveal() &&
		!c.HasAward()
}

func (c *Controller) LastMovedUp() *MovedUp {
	if c.lastMovedUp == nil {
		return nil
	}
	m := *c.lastMovedUp
	return &m
}

// Advance performs exactly one transition.
func (c *Controller) Advance() Step {
	step := Step{From: c.phase}

	switch c.phase {
	case RowInProgress:
		switch {
		case c.HasPendingReveal():
			step.Reveal = c.reveal()
			if c.needsResort(c.focus) {
				c.resortTeam = step.Reveal.TeamID
				c.phase = RowInProgressAwaitResort
			}
		case c.HasAward():
			teamID := c.rows[c.focus].status.TeamID
			c.current = &Award{TeamID: teamID, Citations: c.awards[teamID]}
			delete(c.awards, teamID)
			step.Award = c.CurrentAward()
			c.phase = RowCompleteAwardShowing
		default:
			step.FocusMoved = c.moveUp()
		}
	case RowInProgressAwaitResort:
		step.MovedUp = c.resort()
		c.phase = RowInProgress
	case RowCompleteAwardShowing:
		c.phase = RowCompleteReadyToAdvance
	case RowCompleteReadyToAdvance:
		c.current = nil
		step.FocusMoved = c.moveUp()
		c.phase = RowInProgress
	}

	step.To = c.phase
	if step.From != step.To {
		c.log.Debug("resolver phase changed", "from", step.From, "to", step.To, "focus", c.focus)
	}
	return step
}

func (c *Controller) reveal() *Reveal {
	r := &c.rows[c.focus]
	problemID, _ := r.pending.Dequeue()

	stat := r.status.ProblemStats[problemID]
	stat.AttemptedDuringFreeze = false
	r.status.ProblemStats[problemID] = stat
	if stat.Solved {
		r.status.Credit(stat)
	}

	c.log.Info("revealed problem",
		"team_id", r.status.TeamID,
		"problem_id", problemID,
		"solved", stat.Solved)
	return &Reveal{TeamID: r.status.TeamID, ProblemID: problemID, Solved: stat.Solved}
}

// needsResort tells whether row i is out of place. Only the focused row
// changes between resorts, so its target index is the number of rows
// ordered before it.
func (c *Controller) needsResort(i int) bool {
	target := 0
	for j := range c.rows {
		if j != i && scoring.Compare(c.rows[j].status, c.rows[i].status) < 0 {
			target++
		}
	}
	return target != i
}

func (c *Controller) resort() *MovedUp {
	teamID := c.resortTeam
	c.resortTeam = ""
	oldIndex, ok := c.index[teamID]

	slices.SortStableFunc(c.rows, func(a, b row) int {
		return scoring.Compare(a.status, b.status)
	})
	c.reindex()

	if !ok {
		return nil
	}
	newIndex := c.index[teamID]
	if newIndex >= oldIndex {
		return nil
	}

	c.requestSeq++
	c.lastMovedUp = &MovedUp{
		TeamID:    teamID,
		OldIndex:  oldIndex,
		NewIndex:  newIndex,
		RequestID: c.requestSeq,
	}
	c.log.Info("team moved up", "team_id", teamID, "from", oldIndex, "to", newIndex)
	m := *c.lastMovedUp
	return &m
}

func (c *Controller) moveUp() bool {
	if !c.CanMoveUp() {
		return false
	}
	c.focus--
	return true
}

// RowView is a read-only copy of a row.
type RowView struct {
	scoring.TeamStatus
	Rank    int      `json:"rank"`
	Pending []string `json:"pending"`
}

func (c *Controller) Rows() []RowView {
	res := make([]RowView, len(c.rows))
	for i, r := range c.rows {
		res[i] = RowView{
			TeamStatus: r.status.Clone(),
			Rank:       r.rank,
			Pending:    r.pending.Values(),
		}
	}
	return res
}

// Snapshot is the externally visible controller state.
type Snapshot struct {
	Phase         Phase               `json:"phase"`
	Focus         int                 `json:"focus"`
	Done          bool                `json:"done"`
	Award         *Award              `json:"award"`
	LastMovedUp   *MovedUp            `json:"last_moved_up"`
	PendingAwards map[string][]string `json:"pending_awards"`
	Rows          []RowView           `json:"rows"`
}

func (c *Controller) Snapshot() Snapshot {
	pending := make(map[string][]string, len(c.awards))
	for k, v := range c.awards {
		pending[k] = slices.Clone(v)
	}
	return Snapshot{
		Phase:         c.phase,
		Focus:         c.focus,
		Done:          c.Done(),
		Award:         c.CurrentAward(),
		LastMovedUp:   c.LastMovedUp(),
		PendingAwards: pending,
		Rows:          c.Rows(),
	}
}
