package awards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/logger"
)

// Store persists award bindings as a JSON document keyed by award id.
type Store interface {
	Save(ctx context.Context, table contest.Table[contest.Award]) error
	Load(ctx context.Context) (contest.Table[contest.Award], error)
	Location() string
}

func encode(table contest.Table[contest.Award]) ([]byte, error) {
	content, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize awards: %w", err)
	}
	return content, nil
}

// decode re-keys the document by each award's own id.
func decode(content []byte) (contest.Table[contest.Award], error) {
	var parsed map[string]contest.Award
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse awards JSON: %w", err)
	}
	table := make(contest.Table[contest.Award], len(parsed))
	for key, a := range parsed {
		if a.ID == "" {
			return nil, fmt.Errorf("award under key %q has no id", key)
		}
		table.Put(a)
	}
	return table, nil
}

type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Location() string {
	return s.Path
}

func (s *FileStore) Save(ctx context.Context, table contest.Table[contest.Award]) error {
	content, err := encode(table)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write awards file %s: %w", s.Path, err)
	}
	logger.FromContext(ctx).Info("saved awards", "path", s.Path, "count", len(table))
	return nil
}

func (s *FileStore) Load(ctx context.Context) (contest.Table[contest.Award], error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read awards file %s: %w", s.Path, err)
	}
	table, err := decode(content)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("loaded awards", "path", s.Path, "count", len(table))
	return table, nil
}

// ObjectStore is the subset of s3bucket.S3Bucket used by S3Store.
type ObjectStore interface {
	Upload(ctx context.Context, content []byte, key string, mediaType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Name() string
}

var ErrNoSavedAwards = errors.New("no saved awards")

type S3Store struct {
	bucket ObjectStore
	key    string
}

func NewS3Store(bucket ObjectStore, key string) *S3Store {
	return &S3Store{bucket: bucket, key: key}
}

func (s *S3Store) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket.Name(), s.key)
}

func (s *S3Store) Save(ctx context.Context, table contest.Table[contest.Award]) error {
	content, err := encode(table)
	if err != nil {
		return err
	}
	url, err := s.bucket.Upload(ctx, content, s.key, "application/json")
	if err != nil {
		return fmt.Errorf("failed to upload awards: %w", err)
	}
	logger.FromContext(ctx).Info("saved awards", "url", url, "count", len(table))
	return nil
}

func (s *S3Store) Load(ctx context.Context) (contest.Table[contest.Award], error) {
	exists, err := s.bucket.Exists(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w at %s", ErrNoSavedAwards, s.Location())
	}
	content, err := s.bucket.Download(ctx, s.key)
	if err != nil {
		return nil, err
	}
	table, err := decode(content)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("loaded awards", "location", s.Location(), "count", len(table))
	return table, nil
}
