package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/programme-lv/resolver/awards"
	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	groups     []string
	counts     awards.Counts
	citations  awards.Citations
	awardsFile string
	saveAwards bool
}

func newResolveCmd() *cobra.Command {
	opts := resolveOptions{citations: awards.DefaultCitations()}

	cmd := &cobra.Command{
		Use:   "resolve <cdp-folder>",
		Short: "Run the reveal ceremony in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newResolveModel(cmd.Context(), args[0], opts), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(resolveModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.groups, "groups", "g", nil, "Groups to present and award (default: all groups)")
	f.IntVar(&opts.counts.Gold, "gold", 0, "Number of gold medals")
	f.IntVar(&opts.counts.Silver, "silver", 0, "Number of silver medals")
	f.IntVar(&opts.counts.Bronze, "bronze", 0, "Number of bronze medals")
	f.StringVar(&opts.citations.Gold, "gold-citation", opts.citations.Gold, "Citation of the gold medal award")
	f.StringVar(&opts.citations.Silver, "silver-citation", opts.citations.Silver, "Citation of the silver medal award")
	f.StringVar(&opts.citations.Bronze, "bronze-citation", opts.citations.Bronze, "Citation of the bronze medal award")
	f.StringVar(&opts.awardsFile, "awards", "", "Awards JSON file, loaded before medals are applied when it exists")
	f.BoolVar(&opts.saveAwards, "save-awards", false, "Write the final award table back to --awards")
	return cmd
}

// prepareSession turns a loaded package into a presented session: stored
// awards are loaded, medals applied, then the selected groups presented.
func prepareSession(ctx context.Context, loaded *cdp.Loaded, opts resolveOptions) (*session.Session, error) {
	var store awards.Store
	if opts.awardsFile != "" {
		store = awards.NewFileStore(opts.awardsFile)
	}
	sess := session.New(ctx, loaded.Scoring, store)

	groups := opts.groups
	if len(groups) == 0 {
		for _, g := range sess.Groups() {
			groups = append(groups, g.ID)
		}
	}

	if store != nil && exists(opts.awardsFile) {
		msg, err := sess.LoadAwards(ctx)
		if err != nil {
			return nil, err
		}
		log.Info().Msg(msg)
	}

	if opts.counts.Total() > 0 {
		plan, err := sess.ApplyMedals(ctx, groups, opts.counts, opts.citations)
		if err != nil {
			return nil, err
		}
		if plan.Short(opts.counts) {
			log.Warn().
				Int("requested", opts.counts.Total()).
				Int("eligible", plan.Eligible).
				Msg("fewer eligible teams than requested medals")
		}
	}

	if opts.saveAwards {
		if store == nil {
			return nil, fmt.Errorf("--save-awards needs --awards")
		}
		msg, err := sess.SaveAwards(ctx)
		if err != nil {
			return nil, err
		}
		log.Info().Msg(msg)
	}

	if _, err := sess.Present(ctx, groups); err != nil {
		return nil, err
	}
	return sess, nil
}
