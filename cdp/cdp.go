// Package cdp reads a contest data package folder: the event feed, the
// optional config.toml and the team photo and affiliation logo assets.
package cdp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/programme-lv/resolver/conf"
)

const (
	FeedFile     = "event-feed.ndjson"
	FeedFileZstd = "event-feed.ndjson.zst"
	TeamsDir     = "teams"
	LogosDir     = "affiliations"
)

// Validate checks the folder layout and reports every problem at once.
func Validate(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return ErrInvalidFolder([]string{fmt.Sprintf("CDP folder does not exist: %s", dir)})
	}
	if !info.IsDir() {
		return ErrInvalidFolder([]string{fmt.Sprintf("Path is not a folder: %s", dir)})
	}

	var issues []string
	if _, err := FeedPath(dir); err != nil {
		issues = append(issues, fmt.Sprintf("Missing required file: %s", filepath.Join(dir, FeedFile)))
	}
	for _, sub := range []string{TeamsDir, LogosDir} {
		path := filepath.Join(dir, sub)
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			issues = append(issues, fmt.Sprintf("Missing required folder: %s", path))
		}
	}

	cfgPath := filepath.Join(dir, conf.FileName)
	if info, err := os.Stat(cfgPath); err == nil && !info.Mode().IsRegular() {
		issues = append(issues, fmt.Sprintf("config.toml exists but is not a file: %s", cfgPath))
	}

	if len(issues) > 0 {
		return ErrInvalidFolder(issues)
	}
	return nil
}

// FeedPath returns the event feed inside dir. The plain file wins over the
// compressed one when both exist.
func FeedPath(dir string) (string, error) {
	for _, name := range []string{FeedFile, FeedFileZstd} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("no event feed in %s: %w", dir, os.ErrNotExist)
}

func LogoPath(dir, organizationID, ext string) string {
	return filepath.Join(dir, LogosDir, organizationID+"."+ext)
}

func PhotoPath(dir, teamID, ext string) string {
	return filepath.Join(dir, TeamsDir, teamID+"."+ext)
}
