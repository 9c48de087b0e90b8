package unarr

import (
	"errors"
	"fmt"
	"time"

	"github.com/htngo/unarr/decoder"
)

// fakeEntry is one scripted entry served by fakeDecoder.
type fakeEntry struct {
	name   string
	offset int64
	data   []byte
}

// fakeDecoder implements decoder.Decoder over scripted entries and keeps
// counters so tests can assert exactly how the core drives the cursor.
type fakeDecoder struct {
	entries []fakeEntry

	cur int // index into entries, -1 when no entry is parsed
	pos int // bytes decompressed of the current entry

	parseAtCalls   int
	parseNextCalls int
	decompressed   int64 // total bytes decompressed, discards included

	failParseAt    bool
	failDecompress bool
}

var _ decoder.Decoder = (*fakeDecoder)(nil)

func newFakeDecoder(entries ...fakeEntry) *fakeDecoder {
	return &fakeDecoder{entries: entries, cur: -1}
}

// newFakeArchive wires a fakeDecoder into an Archive without probing.
func newFakeArchive(dec *fakeDecoder) *Archive {
	return &Archive{dec: dec, stream: NewMemoryStream(nil), format: FormatZip}
}

func (d *fakeDecoder) ParseEntryAt(offset int64) error {
	d.parseAtCalls++
	if d.failParseAt {
		return errors.New("scripted parse failure")
	}

	if offset == 0 {
		if len(d.entries) == 0 {
			return errors.New("no entries")
		}
		d.cur, d.pos = 0, 0
		return nil
	}

	for i, e := range d.entries {
		if e.offset == offset {
			d.cur, d.pos = i, 0
			return nil
		}
	}
	return fmt.Errorf("no entry at offset %d", offset)
}

func (d *fakeDecoder) ParseNextEntry() error {
	d.parseNextCalls++
	if d.cur+1 >= len(d.entries) {
		return errors.New("end of archive")
	}
	d.cur, d.pos = d.cur+1, 0
	return nil
}

func (d *fakeDecoder) EntryOffset() int64 {
	if d.cur < 0 {
		return 0
	}
	return d.entries[d.cur].offset
}

func (d *fakeDecoder) EntrySize() int64 {
	if d.cur < 0 {
		return 0
	}
	return int64(len(d.entries[d.cur].data))
}

func (d *fakeDecoder) EntryName() string {
	if d.cur < 0 {
		return ""
	}
	return d.entries[d.cur].name
}

func (d *fakeDecoder) EntryModTime() time.Time {
	return time.Time{}
}

func (d *fakeDecoder) Decompress(p []byte) error {
	if d.cur < 0 {
		return errors.New("no entry parsed")
	}
	if d.failDecompress {
		return errors.New("scripted decompress failure")
	}

	data := d.entries[d.cur].data
	if d.pos+len(p) > len(data) {
		return fmt.Errorf("decompress %d bytes with only %d left", len(p), len(data)-d.pos)
	}

	copy(p, data[d.pos:])
	d.pos += len(p)
	d.decompressed += int64(len(p))
	return nil
}

func (d *fakeDecoder) Close() error {
	return nil
}
