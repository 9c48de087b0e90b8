package decoder

import (
	"archive/zip"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// zipDecoder adapts archive/zip to the forward-only Decoder contract. The
// central directory gives random access for free, so ParseEntryAt is a plain
// lookup; entry offsets are the real local-header data offsets, ordered
// ascending.
type zipDecoder struct {
	files   []*zip.File
	offsets []int64

	cur int // index into files, -1 when no entry is parsed
	rc  io.ReadCloser
}

// OpenZip opens src as a zip archive.
func OpenZip(src Source) (Decoder, error) {
	zr, err := zip.NewReader(io.NewSectionReader(src, 0, src.Size()), src.Size())
	if err != nil {
		return nil, fmt.Errorf("open zip error: %w", err)
	}

	d := &zipDecoder{
		files:   slices.Clone(zr.File),
		offsets: make([]int64, len(zr.File)),
		cur:     -1,
	}

	// central directory order is not guaranteed to match file order; iterate
	// by position in the container like the sequential formats do.
	for i, f := range d.files {
		if d.offsets[i], err = f.DataOffset(); err != nil {
			return nil, fmt.Errorf(`locate entry "%s" error: %w`, f.Name, err)
		}
	}
	sort.Sort(byOffset{d.files, d.offsets})

	return d, nil
}

func (d *zipDecoder) ParseEntryAt(offset int64) error {
	idx := 0
	if offset != 0 {
		i, ok := slices.BinarySearch(d.offsets, offset)
		if !ok {
			return fmt.Errorf("zip: no entry at offset %d", offset)
		}
		idx = i
	} else if len(d.files) == 0 {
		return fmt.Errorf("zip: archive has no entries")
	}

	return d.open(idx)
}

func (d *zipDecoder) ParseNextEntry() error {
	if d.cur+1 >= len(d.files) {
		return io.EOF
	}
	return d.open(d.cur + 1)
}

func (d *zipDecoder) open(idx int) error {
	if d.rc != nil {
		_, d.rc = d.rc.Close(), nil
	}

	rc, err := d.files[idx].Open()
	if err != nil {
		return fmt.Errorf(`open entry "%s" error: %w`, d.files[idx].Name, err)
	}

	d.cur, d.rc = idx, rc
	return nil
}

func (d *zipDecoder) EntryOffset() int64 {
	if d.cur < 0 {
		return 0
	}
	return d.offsets[d.cur]
}

func (d *zipDecoder) EntrySize() int64 {
	if d.cur < 0 {
		return 0
	}
	return int64(d.files[d.cur].UncompressedSize64)
}

func (d *zipDecoder) EntryName() string {
	if d.cur < 0 {
		return ""
	}

	f := d.files[d.cur]
	if f.NonUTF8 && !utf8.ValidString(f.Name) {
		// legacy names without the UTF-8 flag are CP437 by convention; names
		// in some other codepage survive the mapping and can be fixed up by
		// the caller's name decoder.
		if name, err := charmap.CodePage437.NewDecoder().String(f.Name); err == nil {
			return name
		}
	}
	return f.Name
}

func (d *zipDecoder) EntryModTime() time.Time {
	if d.cur < 0 {
		return time.Time{}
	}
	return d.files[d.cur].Modified
}

func (d *zipDecoder) Decompress(p []byte) error {
	if d.rc == nil {
		return fmt.Errorf("zip: no entry parsed")
	}
	if _, err := io.ReadFull(d.rc, p); err != nil {
		return fmt.Errorf("decompress entry error: %w", err)
	}
	return nil
}

func (d *zipDecoder) Close() error {
	if d.rc != nil {
		return d.rc.Close()
	}
	return nil
}

// byOffset sorts files and offsets together by ascending offset.
type byOffset struct {
	files   []*zip.File
	offsets []int64
}

func (s byOffset) Len() int           { return len(s.offsets) }
func (s byOffset) Less(i, j int) bool { return s.offsets[i] < s.offsets[j] }
func (s byOffset) Swap(i, j int) {
	s.files[i], s.files[j] = s.files[j], s.files[i]
	s.offsets[i], s.offsets[j] = s.offsets[j], s.offsets[i]
}
