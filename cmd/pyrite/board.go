package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/scoring"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	solvedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1c40f"))
	focusStyle   = lipgloss.NewStyle().Reverse(true)
	awardStyle   = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e056fd")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	dimStyle = lipgloss.NewStyle().Faint(true)
)

const (
	cellWidth = 5
	nameWidth = 28
)

// cellText renders one problem: "+" solved on the first try, "+2" after two
// rejections, "-3" three rejections, "?" hidden by the freeze, "." untried.
func cellText(stat scoring.ProblemStat, ok bool) string {
	switch {
	case !ok || stat.SubmissionsBeforeSolved == 0:
		return "."
	case stat.AttemptedDuringFreeze:
		return fmt.Sprintf("?%d", stat.SubmissionsBeforeSolved)
	case stat.Solved && stat.SubmissionsBeforeSolved == 1:
		return "+"
	case stat.Solved:
		return fmt.Sprintf("+%d", stat.SubmissionsBeforeSolved-1)
	}
	return fmt.Sprintf("-%d", stat.SubmissionsBeforeSolved)
}

func renderCell(stat scoring.ProblemStat, ok bool) string {
	text := fmt.Sprintf("%-*s", cellWidth, cellText(stat, ok))
	switch {
	case !ok || stat.SubmissionsBeforeSolved == 0:
		return dimStyle.Render(text)
	case stat.AttemptedDuringFreeze:
		return pendingStyle.Render(text)
	case stat.Solved:
		return solvedStyle.Render(text)
	}
	return failedStyle.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderHeader(problems []contest.Problem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4s  %-*s %3s %6s  ", "#", nameWidth, "Team", "Pts", "Pen")
	for _, p := range problems {
		label := p.Label
		if label == "" {
			label = p.ID
		}
		fmt.Fprintf(&b, "%-*s", cellWidth, truncate(label, cellWidth-1))
	}
	return headerStyle.Render(b.String())
}

func renderRow(rank int, row scoring.TeamStatus, problems []contest.Problem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %-*s %3d %6d  ",
		rank, nameWidth, truncate(row.TeamName, nameWidth), row.TotalPoints, row.TotalPenalty)
	for _, p := range problems {
		stat, ok := row.ProblemStats[p.ID]
		b.WriteString(renderCell(stat, ok))
	}
	return b.String()
}

// renderStandings prints a whole board; limit <= 0 prints every row.
func renderStandings(board scoring.Leaderboard, problems []contest.Problem, limit int) string {
	var b strings.Builder
	b.WriteString(renderHeader(problems))
	b.WriteString("\n")
	for i, row := range board {
		if limit > 0 && i >= limit {
			fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more", len(board)-limit)))
			break
		}
		b.WriteString(renderRow(i+1, row, problems))
		b.WriteString("\n")
	}
	return b.String()
}
