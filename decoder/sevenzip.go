package decoder

import (
	"fmt"
	"io"
	"time"

	"github.com/bodgit/sevenzip"
)

// sevenZipDecoder adapts bodgit/sevenzip to the Decoder contract. The archive
// header lists every entry up front, so offsets are 1-based ordinals into
// that list; each ParseEntryAt reopens the entry's stream from its start.
type sevenZipDecoder struct {
	zr *sevenzip.Reader

	cur int // index into zr.File, -1 when no entry is parsed
	rc  io.ReadCloser
}

// OpenSevenZip opens src as a 7z archive. The password may be empty for
// unencrypted archives.
func OpenSevenZip(src Source, password string) (Decoder, error) {
	var (
		zr  *sevenzip.Reader
		err error
	)
	if password != "" {
		zr, err = sevenzip.NewReaderWithPassword(src, src.Size(), password)
	} else {
		zr, err = sevenzip.NewReader(src, src.Size())
	}
	if err != nil {
		return nil, fmt.Errorf("open 7z error: %w", err)
	}

	return &sevenZipDecoder{zr: zr, cur: -1}, nil
}

func (d *sevenZipDecoder) ParseEntryAt(offset int64) error {
	idx := 0
	if offset != 0 {
		if offset < 1 || offset > int64(len(d.zr.File)) {
			return fmt.Errorf("7z: no entry at offset %d", offset)
		}
		idx = int(offset - 1)
	} else if len(d.zr.File) == 0 {
		return fmt.Errorf("7z: archive has no entries")
	}

	return d.open(idx)
}

func (d *sevenZipDecoder) ParseNextEntry() error {
	if d.cur+1 >= len(d.zr.File) {
		return io.EOF
	}
	return d.open(d.cur + 1)
}

func (d *sevenZipDecoder) open(idx int) error {
	if d.rc != nil {
		_, d.rc = d.rc.Close(), nil
	}

	rc, err := d.zr.File[idx].Open()
	if err != nil {
		return fmt.Errorf(`open entry "%s" error: %w`, d.zr.File[idx].Name, err)
	}

	d.cur, d.rc = idx, rc
	return nil
}

func (d *sevenZipDecoder) EntryOffset() int64 {
	if d.cur < 0 {
		return 0
	}
	return int64(d.cur + 1)
}

func (d *sevenZipDecoder) EntrySize() int64 {
	if d.cur < 0 {
		return 0
	}
	return d.zr.File[d.cur].FileInfo().Size()
}

func (d *sevenZipDecoder) EntryName() string {
	if d.cur < 0 {
		return ""
	}
	return d.zr.File[d.cur].Name
}

func (d *sevenZipDecoder) EntryModTime() time.Time {
	if d.cur < 0 {
		return time.Time{}
	}
	return d.zr.File[d.cur].Modified
}

func (d *sevenZipDecoder) Decompress(p []byte) error {
	if d.rc == nil {
		return fmt.Errorf("7z: no entry parsed")
	}
	if _, err := io.ReadFull(d.rc, p); err != nil {
		return fmt.Errorf("decompress entry error: %w", err)
	}
	return nil
}

func (d *sevenZipDecoder) Close() error {
	if d.rc != nil {
		return d.rc.Close()
	}
	return nil
}
