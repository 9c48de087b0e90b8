package unarr

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Stream is the byte source an archive is decoded from.
//
// A Stream stays open for as long as the Archive wrapping it; Archive.Close
// closes the decoder first and the stream after, since the decoder may still
// hold state referring into the stream.
type Stream struct {
	ra     io.ReaderAt
	size   int64
	closer io.Closer
}

// NewFileStream opens the named file as a Stream.
func NewFileStream(name string) (*Stream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf(`open file "%s" error: %w`, name, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf(`stat file "%s" error: %w`, name, err)
	}

	return &Stream{ra: f, size: fi.Size(), closer: f}, nil
}

// NewMemoryStream wraps an in-memory buffer as a Stream.
//
// The stream reads from b directly without copying, so b must not be modified
// while the stream is in use.
func NewMemoryStream(b []byte) *Stream {
	return &Stream{ra: bytes.NewReader(b), size: int64(len(b))}
}

// NewReaderAtStream wraps any io.ReaderAt with a known size as a Stream, for
// sources that are neither files nor buffers such as [s3stream.Stream].
//
// If ra also implements io.Closer, closing the stream closes it.
func NewReaderAtStream(ra io.ReaderAt, size int64) *Stream {
	s := &Stream{ra: ra, size: size}
	if c, ok := ra.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	return s.ra.ReadAt(p, off)
}

// Size returns the total number of bytes in the stream.
func (s *Stream) Size() int64 {
	return s.size
}

// Close releases the underlying source. Close is called by Archive.Close once
// the decoder has been torn down; call it directly only if Open never
// succeeded on this stream.
func (s *Stream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
