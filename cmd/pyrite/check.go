package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/feed"
	"github.com/programme-lv/resolver/srvcerror"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loadWithProgress loads a CDP folder, logging ingest progress in steps
// of roughly ten percent.
func loadWithProgress(ctx context.Context, dir string) (*cdp.Loaded, error) {
	lastDecile := -1
	loaded, err := cdp.Load(ctx, dir, func(p feed.Progress) {
		decile := int(p.Ratio() * 10)
		if decile == lastDecile {
			return
		}
		lastDecile = decile
		log.Info().
			Int("lines_read", p.LinesRead).
			Int("total_lines", p.TotalLines).
			Msgf("ingesting event feed %3.0f%%", p.Ratio()*100)
	})
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("failed to load contest data package")
	}
	return loaded, err
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <cdp-folder>",
		Short: "Validate a contest data package, ingest and score it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadWithProgress(cmd.Context(), args[0])
			return reportCheck(cmd.OutOrStdout(), loaded, err)
		},
	}
}

func reportCheck(w io.Writer, loaded *cdp.Loaded, err error) error {
	var se *srvcerror.Error
	if err != nil && errors.As(err, &se) && len(se.Details()) > 0 {
		fmt.Fprintf(w, "%s:\n", se.Message())
		for _, d := range se.Details() {
			fmt.Fprintf(w, "  - %s\n", d)
		}
		return errors.New("check failed")
	}
	if err != nil {
		return err
	}

	st := loaded.Scoring.State
	fmt.Fprintf(w, "Contest %s: %d teams, %d problems, %d submissions, %d judgements\n",
		st.Contest.ID, len(st.Teams), len(st.Problems), len(st.Submissions), len(st.Judgements))
	fmt.Fprintf(w, "Event feed: %d lines read\n", loaded.Feed.LinesRead)
	if len(loaded.Scoring.Warnings) == 0 {
		fmt.Fprintln(w, "No warnings")
		return nil
	}
	fmt.Fprintf(w, "Warnings (%d):\n", len(loaded.Scoring.Warnings))
	for _, warning := range loaded.Scoring.Warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
