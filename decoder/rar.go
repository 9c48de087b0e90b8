package decoder

import (
	"fmt"
	"io"
	"time"

	"github.com/nwaples/rardecode/v2"
)

// rarDecoder adapts rardecode to the Decoder contract. The rar stream is
// genuinely single-pass, so entry offsets are 1-based ordinals and seeking
// backwards means rebuilding the reader from the start of the source.
type rarDecoder struct {
	src      Source
	password string

	rr  *rardecode.Reader
	ord int64 // ordinal of the current entry, 0 when none parsed

	name    string
	size    int64
	modTime time.Time
}

// OpenRar opens src as a rar archive. The password may be empty for
// unencrypted archives.
func OpenRar(src Source, password string) (Decoder, error) {
	d := &rarDecoder{src: src, password: password}
	if err := d.rewind(); err != nil {
		return nil, err
	}

	// rardecode validates lazily; force the first header read so that probing
	// rejects non-rar streams. An immediate EOF is still a valid, empty rar.
	if err := d.advance(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("open rar error: %w", err)
	}
	if err := d.rewind(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *rarDecoder) rewind() error {
	var opts []rardecode.Option
	if d.password != "" {
		opts = append(opts, rardecode.Password(d.password))
	}

	rr, err := rardecode.NewReader(io.NewSectionReader(d.src, 0, d.src.Size()), opts...)
	if err != nil {
		return fmt.Errorf("open rar error: %w", err)
	}

	d.rr, d.ord = rr, 0
	return nil
}

func (d *rarDecoder) advance() error {
	hdr, err := d.rr.Next()
	if err != nil {
		return err
	}

	d.ord++
	d.name = hdr.Name
	d.size = hdr.UnPackedSize
	d.modTime = hdr.ModificationTime
	if hdr.IsDir {
		d.size = 0
	}
	return nil
}

func (d *rarDecoder) ParseEntryAt(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("rar: no entry at offset %d", offset)
	}

	target := offset
	if target == 0 {
		target = 1
	}

	// even when already at the target entry, its data cursor must be reset to
	// the first byte, and forward is the only way there.
	if target <= d.ord {
		if err := d.rewind(); err != nil {
			return err
		}
	}

	for d.ord < target {
		if err := d.advance(); err != nil {
			return fmt.Errorf("rar: no entry at offset %d: %w", offset, err)
		}
	}
	return nil
}

func (d *rarDecoder) ParseNextEntry() error {
	return d.advance()
}

func (d *rarDecoder) EntryOffset() int64 {
	return d.ord
}

func (d *rarDecoder) EntrySize() int64 {
	return d.size
}

func (d *rarDecoder) EntryName() string {
	return d.name
}

func (d *rarDecoder) EntryModTime() time.Time {
	return d.modTime
}

func (d *rarDecoder) Decompress(p []byte) error {
	if d.ord == 0 {
		return fmt.Errorf("rar: no entry parsed")
	}
	if _, err := io.ReadFull(d.rr, p); err != nil {
		return fmt.Errorf("decompress entry error: %w", err)
	}
	return nil
}

func (d *rarDecoder) Close() error {
	return nil
}
