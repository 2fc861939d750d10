package main

import (
	"fmt"
	"slices"

	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/conf"
	"github.com/programme-lv/resolver/contest"
	"github.com/spf13/cobra"
)

func newStandingsCmd() *cobra.Command {
	var final bool
	var limit int

	cmd := &cobra.Command{
		Use:   "standings <cdp-folder>",
		Short: "Print the frozen (or final) leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadWithProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			board := loaded.Scoring.PreFreeze
			if final {
				board = loaded.Scoring.Finalized
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStandings(board, sortedProblems(loaded.Scoring.State.Problems), limit))
			return nil
		},
	}

	cmd.Flags().BoolVar(&final, "final", false, "Show the finalized leaderboard instead of the frozen one")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Print at most this many rows")
	return cmd
}

func sortedProblems(t contest.Table[contest.Problem]) []contest.Problem {
	problems := t.Sorted()
	slices.SortStableFunc(problems, func(a, b contest.Problem) int {
		return a.Ordinal - b.Ordinal
	})
	return problems
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <cdp-folder>",
		Short: "Print the effective config.toml of a contest data package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cdp.Validate(args[0]); err != nil {
				return err
			}
			cfg, err := conf.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			content, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}
