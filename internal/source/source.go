package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source produces fresh readable handles on a token stream.
// Every call to Open returns a new handle positioned at the start of the
// stream; the caller owns it and must close it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ReaderSource adapts a handle factory into a Source.
type ReaderSource struct {
	open func() (io.ReadCloser, error)
}

// NewReaderSource creates a Source that calls open for every new handle.
func NewReaderSource(open func() (io.ReadCloser, error)) *ReaderSource {
	return &ReaderSource{open: open}
}

// FromString returns a Source over an in-memory string.
func FromString(s string) *ReaderSource {
	return NewReaderSource(func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(s)), nil
	})
}

// FromBytes returns a Source over an in-memory byte slice.
func FromBytes(b []byte) *ReaderSource {
	return NewReaderSource(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	})
}

// Open implements Source.
func (s *ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpenFailed, err)
	}
	return rc, nil
}

// FileSource reads tokens from a file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrEmptyFilePath
	}
	return &FileSource{path: path}, nil
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Open implements Source. The file is opened read-only.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpenFailed, err)
	}
	return f, nil
}

type decodedReader struct {
	io.Reader
	io.Closer
}

// Decode wraps rc so that its bytes are decoded as text: UTF-8 unless a
// byte order mark announces UTF-16, with the mark itself removed. Closing
// the result closes rc.
func Decode(rc io.ReadCloser) io.ReadCloser {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return decodedReader{
		Reader: transform.NewReader(rc, decoder),
		Closer: rc,
	}
}
