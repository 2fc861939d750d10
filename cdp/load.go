package cdp

import (
	"context"
	"fmt"

	"github.com/programme-lv/resolver/conf"
	"github.com/programme-lv/resolver/feed"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/scoring"
	"golang.org/x/sync/errgroup"
)

// maxReportedFeedErrors caps the line errors folded into ErrFeedErrors.
const maxReportedFeedErrors = 20

type Loaded struct {
	Dir     string
	Config  conf.Config
	Feed    *feed.Result
	Scoring *scoring.Result
}

// Load validates dir, ingests its event feed and scores it. onProgress,
// when set, receives ingest progress from the calling goroutine. When the
// feed has line errors the returned Loaded carries the ingest result and
// the error is ErrFeedErrors.
func Load(ctx context.Context, dir string, onProgress func(feed.Progress)) (*Loaded, error) {
	ctx = logger.WithComponent(ctx, "cdp")
	if err := Validate(dir); err != nil {
		return nil, err
	}
	feedPath, err := FeedPath(dir)
	if err != nil {
		return nil, err
	}

	res := &Loaded{Dir: dir}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg, err := conf.Load(gctx, dir)
		res.Config = cfg
		return err
	})
	g.Go(func() error {
		rc, err := feed.Open(feedPath)
		if err != nil {
			return err
		}
		defer rc.Close()
		total, err = feed.CountLines(rc)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rc, err := feed.Open(feedPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	logger.FromContext(ctx).Info("ingesting event feed", "path", feedPath, "lines", total)
	job := feed.Start(ctx, rc, total)
	for p := range job.Progress() {
		if onProgress != nil {
			onProgress(p)
		}
	}
	ing, err := job.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", feedPath, err)
	}
	res.Feed = ing

	if !ing.Ready() {
		issues := make([]string, 0, min(len(ing.Errors), maxReportedFeedErrors))
		for _, lineErr := range ing.Errors[:cap(issues)] {
			issues = append(issues, lineErr.Error())
		}
		if len(ing.Errors) > len(issues) {
			issues = append(issues, fmt.Sprintf("and %d more", len(ing.Errors)-len(issues)))
		}
		return res, ErrFeedErrors(issues)
	}

	scored, err := scoring.Compute(ctx, ing.State, res.Config.ScoringOptions())
	if err != nil {
		return res, err
	}
	res.Scoring = scored
	return res, nil
}
