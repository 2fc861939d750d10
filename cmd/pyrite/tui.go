package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/feed"
	"github.com/programme-lv/resolver/resolver"
	"github.com/programme-lv/resolver/session"
)

type resolveState int

const (
	resolveStateLoading resolveState = iota
	resolveStatePresenting
	resolveStateFailed
)

type progressMsg feed.Progress

type progressDoneMsg struct{}

type readyMsg struct {
	sess        *session.Session
	rowsPerPage int
}

type failedMsg struct {
	err error
}

type resolveModel struct {
	ctx  context.Context
	dir  string
	opts resolveOptions

	state    resolveState
	spinner  spinner.Model
	bar      progress.Model
	lastProg feed.Progress
	progress chan feed.Progress

	sess        *session.Session
	contestName string
	problems    []contest.Problem
	rowsPerPage int
	view        session.ResolverView
	status      string

	err error
}

func newResolveModel(ctx context.Context, dir string, opts resolveOptions) resolveModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))

	return resolveModel{
		ctx:      ctx,
		dir:      dir,
		opts:     opts,
		state:    resolveStateLoading,
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		progress: make(chan feed.Progress, 1),
	}
}

func (m resolveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), waitForProgress(m.progress))
}

// load runs the whole setup off the UI goroutine; progress is forwarded
// through m.progress, keeping only the newest snapshot.
func (m resolveModel) load() tea.Cmd {
	ch := m.progress
	return func() tea.Msg {
		defer close(ch)
		loaded, err := cdp.Load(m.ctx, m.dir, func(p feed.Progress) {
			select {
			case <-ch:
			default:
			}
			ch <- p
		})
		if err != nil {
			return failedMsg{err: err}
		}
		sess, err := prepareSession(m.ctx, loaded, m.opts)
		if err != nil {
			return failedMsg{err: err}
		}
		return readyMsg{sess: sess, rowsPerPage: loaded.Config.Presentation.RowsPerPage}
	}
}

func waitForProgress(ch <-chan feed.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return progressDoneMsg{}
		}
		return progressMsg(p)
	}
}

func (m resolveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "ctrl+c" || key.String() == "q") {
		return m, tea.Quit
	}

	switch m.state {
	case resolveStateLoading:
		switch msg := msg.(type) {
		case progressMsg:
			m.lastProg = feed.Progress(msg)
			return m, waitForProgress(m.progress)
		case progressDoneMsg:
			return m, nil
		case failedMsg:
			m.state = resolveStateFailed
			m.err = msg.err
			return m, nil
		case readyMsg:
			m.state = resolveStatePresenting
			m.sess = msg.sess
			m.rowsPerPage = max(msg.rowsPerPage, 1)
			c := msg.sess.Contest()
			m.contestName = c.Name
			if m.contestName == "" {
				m.contestName = c.ID
			}
			m.problems = msg.sess.Problems()
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resolveStatePresenting:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case " ", "enter", "right":
				step, err := m.sess.Advance(m.ctx)
				if err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.status = describeStep(step)
				m.refresh()
			}
		}

	case resolveStateFailed:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *resolveModel) refresh() {
	view, err := m.sess.Resolver()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.view = view
}

func describeStep(step resolver.Step) string {
	switch {
	case step.Reveal != nil && step.Reveal.Solved:
		return fmt.Sprintf("%s solved %s", step.Reveal.TeamID, step.Reveal.ProblemID)
	case step.Reveal != nil:
		return fmt.Sprintf("%s did not solve %s", step.Reveal.TeamID, step.Reveal.ProblemID)
	case step.MovedUp != nil:
		return fmt.Sprintf("%s moves up from #%d to #%d",
			step.MovedUp.TeamID, step.MovedUp.OldIndex+1, step.MovedUp.NewIndex+1)
	case step.Award != nil:
		return fmt.Sprintf("%s: %s", step.Award.TeamID, strings.Join(step.Award.Citations, ", "))
	}
	return ""
}

// window returns the slice of row indexes to draw so the focused row stays
// visible, a few rows above the bottom edge.
func window(focus, rows, perPage int) (start, end int) {
	if rows <= perPage {
		return 0, rows
	}
	start = focus - perPage + 3
	start = max(0, min(start, rows-perPage))
	return start, start + perPage
}

func (m resolveModel) View() string {
	switch m.state {
	case resolveStateLoading:
		return fmt.Sprintf("\n %s Loading %s\n\n %s  %d/%d lines\n\n Press q to quit.\n",
			m.spinner.View(), m.dir,
			m.bar.ViewAs(m.lastProg.Ratio()), m.lastProg.LinesRead, m.lastProg.TotalLines)
	case resolveStateFailed:
		return fmt.Sprintf("\n %s\n\n Press any key to exit.\n", failedStyle.Render(m.err.Error()))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.contestName))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  [%s]", m.view.Phase)))
	b.WriteString("\n\n")
	b.WriteString(renderHeader(m.problems))
	b.WriteString("\n")

	start, end := window(m.view.Focus, len(m.view.Rows), m.rowsPerPage)
	for i := start; i < end; i++ {
		row := m.view.Rows[i]
		line := renderRow(row.Rank, row.TeamStatus, m.problems)
		if i == m.view.Focus {
			line = focusStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.view.Award != nil {
		b.WriteString("\n")
		b.WriteString(awardStyle.Render(fmt.Sprintf("%s\n%s",
			teamName(m.view.Rows, m.view.Award.TeamID),
			strings.Join(m.view.Award.Citations, "\n"))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.view.Done {
		b.WriteString(solvedStyle.Render("Resolution complete."))
		b.WriteString(dimStyle.Render("  q: quit\n"))
	} else {
		b.WriteString(dimStyle.Render("space/enter: next  q: quit\n"))
	}
	return b.String()
}

func teamName(rows []resolver.RowView, teamID string) string {
	for _, r := range rows {
		if r.TeamID == teamID {
			return r.TeamName
		}
	}
	return teamID
}
