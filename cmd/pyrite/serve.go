package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/programme-lv/resolver/awards"
	"github.com/programme-lv/resolver/cdp"
	"github.com/programme-lv/resolver/conf"
	resolverhttp "github.com/programme-lv/resolver/http"
	"github.com/programme-lv/resolver/s3bucket"
	"github.com/programme-lv/resolver/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var envFile string
	var statsInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve <cdp-folder>",
		Short: "Serve the award setup and reveal ceremony over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := args[0]

			env, err := conf.LoadServerEnv(envFile)
			if err != nil {
				return err
			}

			var loaded *cdp.Loaded
			var store awards.Store

			// scoring and award store setup are independent
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				loaded, err = loadWithProgress(gctx, dir)
				return err
			})
			g.Go(func() error {
				var err error
				store, err = newAwardStore(gctx, env, dir)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			sess := session.New(ctx, loaded.Scoring, store)
			assets := cdp.NewAssets(dir, loaded.Config.Presentation, cdp.DefaultMaxDimension)

			var level slog.Level
			if err := level.UnmarshalText([]byte(env.LogLevel)); err != nil {
				return fmt.Errorf("invalid PYRITE_LOG_LEVEL %q: %w", env.LogLevel, err)
			}

			server := resolverhttp.NewHttpServer(ctx, sess, assets, resolverhttp.Options{
				CorsOrigins:   env.CORSOrigins,
				LogLevel:      level,
				StatsInterval: statsInterval,
			})

			log.Info().
				Str("address", env.Addr).
				Str("session_id", sess.ID()).
				Str("awards", store.Location()).
				Msg("starting server")
			err = server.Start(ctx, env.Addr)
			log.Info().Err(err).Msg("server stopped")
			return err
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file when it exists")
	cmd.Flags().DurationVar(&statsInterval, "stats-interval", 0, "Log per-route request stats at this interval (0 disables)")
	return cmd
}

func newAwardStore(ctx context.Context, env conf.ServerEnv, dir string) (awards.Store, error) {
	if env.UsesS3() {
		bucket, err := s3bucket.NewS3Bucket(ctx, env.AwardsS3Region, env.AwardsS3Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 bucket client: %w", err)
		}
		return awards.NewS3Store(bucket, env.AwardsS3Key), nil
	}
	return awards.NewFileStore(awardsPath(dir, env.AwardsFile)), nil
}

// awardsPath resolves a relative awards file against the CDP folder.
func awardsPath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "."+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(dir, path)
}
