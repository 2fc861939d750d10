package conf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/scoring"
)

const FileName = "config.toml"

// Config is the optional config.toml of a contest data package.
type Config struct {
	// submissions of these teams are dropped, e.g. a judge's validation team
	FilterTeamSubmissions []string `toml:"filter_team_submissions"`
	// team id -> group id, for teams registered in the wrong group
	TeamGroupMap map[string]string `toml:"team_group_map"`
	Presentation Presentation      `toml:"presentation"`
}

// Presentation knobs are passed through to the presenter; scoring ignores them.
type Presentation struct {
	RowsPerPage            int     `toml:"rows_per_page" json:"rows_per_page"`
	ScrollAnimationSeconds float64 `toml:"scroll_animation_seconds" json:"scroll_animation_seconds"`
	RowFlyAnimationSeconds float64 `toml:"row_fly_animation_seconds" json:"row_fly_animation_seconds"`
	LogoExtension          string  `toml:"logo_extension" json:"logo_extension"`
	TeamPhotoExtension     string  `toml:"team_photo_extension" json:"team_photo_extension"`
}

func Default() Config {
	return Config{
		TeamGroupMap: map[string]string{},
		Presentation: Presentation{
			RowsPerPage:            16,
			ScrollAnimationSeconds: 0.4,
			RowFlyAnimationSeconds: 0.6,
			LogoExtension:          "png",
			TeamPhotoExtension:     "jpg",
		},
	}
}

func (c Config) ScoringOptions() scoring.Options {
	return scoring.Options{
		FilterTeamSubmissions: c.FilterTeamSubmissions,
		TeamGroupMap:          c.TeamGroupMap,
	}
}

// file mirrors Config with optional presentation keys so that absent keys
// keep their defaults and the row_move alias can be told apart.
type file struct {
	FilterTeamSubmissions []string          `toml:"filter_team_submissions"`
	TeamGroupMap          map[string]string `toml:"team_group_map"`
	Presentation          struct {
		RowsPerPage             *int     `toml:"rows_per_page"`
		ScrollAnimationSeconds  *float64 `toml:"scroll_animation_seconds"`
		RowFlyAnimationSeconds  *float64 `toml:"row_fly_animation_seconds"`
		RowMoveAnimationSeconds *float64 `toml:"row_move_animation_seconds"`
		LogoExtension           *string  `toml:"logo_extension"`
		TeamPhotoExtension      *string  `toml:"team_photo_extension"`
	} `toml:"presentation"`
}

// Parse decodes config.toml content on top of the defaults.
func Parse(content []byte) (Config, error) {
	var f file
	if err := toml.Unmarshal(content, &f); err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.FilterTeamSubmissions = f.FilterTeamSubmissions
	if f.TeamGroupMap != nil {
		cfg.TeamGroupMap = f.TeamGroupMap
	}

	p := f.Presentation
	setIf(&cfg.Presentation.RowsPerPage, p.RowsPerPage)
	setIf(&cfg.Presentation.ScrollAnimationSeconds, p.ScrollAnimationSeconds)
	setIf(&cfg.Presentation.RowFlyAnimationSeconds, p.RowMoveAnimationSeconds)
	setIf(&cfg.Presentation.RowFlyAnimationSeconds, p.RowFlyAnimationSeconds)
	setIf(&cfg.Presentation.LogoExtension, p.LogoExtension)
	setIf(&cfg.Presentation.TeamPhotoExtension, p.TeamPhotoExtension)
	return cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Load reads config.toml from the package folder. A missing file yields
// the defaults.
func Load(ctx context.Context, dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Info("config.toml not found in CDP folder, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config.toml at %s: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config.toml at %s: %w", path, err)
	}
	logger.FromContext(ctx).Info("loaded config.toml",
		"path", path,
		"filtered_teams", len(cfg.FilterTeamSubmissions),
		"group_overrides", len(cfg.TeamGroupMap))
	return cfg, nil
}

// Encode renders the effective configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0))
	err := toml.NewEncoder(buf).
		SetTablesInline(false).
		SetIndentTables(true).Encode(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config.toml: %w", err)
	}
	return buf.Bytes(), nil
}
