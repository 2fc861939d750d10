package feed

import (
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zstd"
)

const mimeZstd = "application/zstd"

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// Open returns a reader over the event feed at path. Zstandard-compressed
// feeds are recognised by content and decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect event feed type: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event feed: %w", err)
	}
	if !mtype.Is(mimeZstd) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return zstdFile{Decoder: dec, f: f}, nil
}
