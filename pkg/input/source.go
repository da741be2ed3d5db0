package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnknownCodec is returned when a compressed source cannot be
// decoded with its extension's codec.
var ErrUnknownCodec = errors.New("unknown compression codec")

// Source is a readable input stream plus whatever needs closing
// underneath it.
type Source struct {
	io.Reader
	closers []io.Closer
}

// Close closes the decompressor (if any) and the underlying file.
func (s *Source) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open opens path for reading, transparently decompressing .gz and
// .zst files by extension. Anything else is read as-is.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: gzip: %v", ErrUnknownCodec, err)
		}
		return &Source{Reader: gz, closers: []io.Closer{gz, f}}, nil

	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: zstd: %v", ErrUnknownCodec, err)
		}
		rc := zr.IOReadCloser()
		return &Source{Reader: rc, closers: []io.Closer{rc, f}}, nil

	default:
		return &Source{Reader: f, closers: []io.Closer{f}}, nil
	}
}
