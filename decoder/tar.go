package decoder

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression selects the stream compression wrapped around a tar archive.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionXz
)

// tarDecoder adapts archive/tar, optionally behind a decompressor, to the
// Decoder contract. Like rar the stream is single-pass: offsets are 1-based
// ordinals and seeking backwards rebuilds the whole read chain.
type tarDecoder struct {
	src         Source
	compression Compression

	tr     *tar.Reader
	closer io.Closer // decompressor, if the compression has one to close
	ord    int64

	name    string
	size    int64
	modTime time.Time
}

// OpenTar opens src as a tar archive with the given stream compression.
func OpenTar(src Source, compression Compression) (Decoder, error) {
	d := &tarDecoder{src: src, compression: compression}
	if err := d.rewind(); err != nil {
		return nil, err
	}

	// tar has no leading magic; reject non-tar streams by parsing the first
	// header now. An immediate EOF is a valid, empty tar.
	if err := d.advance(); err != nil && err != io.EOF {
		_ = d.Close()
		return nil, fmt.Errorf("open tar error: %w", err)
	}
	if err := d.rewind(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *tarDecoder) rewind() error {
	if d.closer != nil {
		_, d.closer = d.closer.Close(), nil
	}

	var r io.Reader = io.NewSectionReader(d.src, 0, d.src.Size())

	switch d.compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("create gzip reader error: %w", err)
		}
		d.closer, r = zr, zr

	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("create zstd reader error: %w", err)
		}
		d.closer, r = &zstdDecoder{zr}, zr

	case CompressionXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return fmt.Errorf("create xz reader error: %w", err)
		}
		r = xr
	}

	d.tr, d.ord = tar.NewReader(r), 0
	return nil
}

func (d *tarDecoder) advance() error {
	hdr, err := d.tr.Next()
	if err != nil {
		return err
	}

	d.ord++
	d.name = hdr.Name
	d.size = hdr.Size
	d.modTime = hdr.ModTime
	return nil
}

func (d *tarDecoder) ParseEntryAt(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("tar: no entry at offset %d", offset)
	}

	target := offset
	if target == 0 {
		target = 1
	}

	// resetting an entry's data cursor requires coming at it from the front.
	if target <= d.ord {
		if err := d.rewind(); err != nil {
			return err
		}
	}

	for d.ord < target {
		if err := d.advance(); err != nil {
			return fmt.Errorf("tar: no entry at offset %d: %w", offset, err)
		}
	}
	return nil
}

func (d *tarDecoder) ParseNextEntry() error {
	return d.advance()
}

func (d *tarDecoder) EntryOffset() int64 {
	return d.ord
}

func (d *tarDecoder) EntrySize() int64 {
	return d.size
}

func (d *tarDecoder) EntryName() string {
	return d.name
}

func (d *tarDecoder) EntryModTime() time.Time {
	return d.modTime
}

func (d *tarDecoder) Decompress(p []byte) error {
	if d.ord == 0 {
		return fmt.Errorf("tar: no entry parsed")
	}
	if _, err := io.ReadFull(d.tr, p); err != nil {
		return fmt.Errorf("decompress entry error: %w", err)
	}
	return nil
}

func (d *tarDecoder) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// zstdDecoder adapts zstd.Decoder.Close which doesn't return error.
type zstdDecoder struct {
	*zstd.Decoder
}

func (z *zstdDecoder) Close() error {
	z.Decoder.Close()
	return nil
}
