package unarr

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testData returns n deterministic, non-repeating-looking bytes.
func testData(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)*7 + seed
	}
	return b
}

func collectEntries(t *testing.T, a *Archive) []Entry {
	t.Helper()

	var entries []Entry
	for e := range a.Entries() {
		entries = append(entries, e)
	}
	return entries
}

func TestEntryReader_UninterruptedRead(t *testing.T) {
	content := testData(100, 1)
	dec := newFakeDecoder(fakeEntry{name: "a.txt", offset: 10, data: content})
	a := newFakeArchive(dec)

	entries := collectEntries(t, a)
	assert.Len(t, entries, 1)

	r, err := a.ReaderFor(entries[0])
	assert.NoError(t, err)

	// first read re-establishes the position since the reader has never owned
	// the cursor; everything after must be direct decode calls.
	buf := make([]byte, 30)
	n, err := r.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 30, n)

	parseAtBefore := dec.parseAtCalls
	got := append([]byte(nil), buf[:n]...)
	for {
		n, err = r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		assert.NoError(t, err)
	}

	assert.Equal(t, content, got)
	assert.Equal(t, parseAtBefore, dec.parseAtCalls, "uninterrupted reads must not reposition")

	// end of entry stays terminal.
	n, err = r.Read(buf)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	assert.NoError(t, r.Close())
}

func TestEntryReader_EmptyEntry(t *testing.T) {
	dec := newFakeDecoder(fakeEntry{name: "empty", offset: 10, data: nil})
	a := newFakeArchive(dec)

	r, err := a.ReaderFor(collectEntries(t, a)[0])
	assert.NoError(t, err)

	decompressedBefore := dec.decompressed
	n, err := r.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, decompressedBefore, dec.decompressed, "reading an empty entry must not touch the decoder")
	assert.Nil(t, r.skipBuf, "reading an empty entry must not allocate the scratch buffer")
}

func TestEntryReader_Interleave(t *testing.T) {
	contentA := testData(100, 1)
	contentB := testData(50, 2)
	dec := newFakeDecoder(
		fakeEntry{name: "a", offset: 10, data: contentA},
		fakeEntry{name: "b", offset: 20, data: contentB},
	)
	a := newFakeArchive(dec)
	entries := collectEntries(t, a)

	ra, err := a.ReaderFor(entries[0])
	assert.NoError(t, err)
	rb, err := a.ReaderFor(entries[1])
	assert.NoError(t, err)

	// 40 bytes of A, all of B, then the remaining 60 bytes of A.
	got := make([]byte, 100)
	_, err = io.ReadFull(ra, got[:40])
	assert.NoError(t, err)

	gotB, err := io.ReadAll(rb)
	assert.NoError(t, err)
	assert.Equal(t, contentB, gotB)

	decompressedBefore := dec.decompressed
	_, err = io.ReadFull(ra, got[40:])
	assert.NoError(t, err)
	assert.Equal(t, contentA, got)

	// resuming A re-decoded its consumed prefix: 40 discarded + 60 delivered.
	assert.Equal(t, decompressedBefore+100, dec.decompressed)
}

func TestEntryReader_TwoReadersSameEntry(t *testing.T) {
	content := testData(64, 3)
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: content})
	a := newFakeArchive(dec)
	e := collectEntries(t, a)[0]

	r1, err := a.ReaderFor(e)
	assert.NoError(t, err)
	got1, err := io.ReadAll(r1)
	assert.NoError(t, err)
	assert.Equal(t, content, got1)

	// the cursor still points at the same entry but is exhausted; only the
	// cookie tells the second reader it must re-parse.
	r2, err := a.ReaderFor(e)
	assert.NoError(t, err)
	got2, err := io.ReadAll(r2)
	assert.NoError(t, err)
	assert.Equal(t, content, got2)
}

func TestEntryReader_NewReaderInvalidatesCursor(t *testing.T) {
	content := testData(64, 14)
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: content})
	a := newFakeArchive(dec)
	e := collectEntries(t, a)[0]

	r1, err := a.ReaderFor(e)
	assert.NoError(t, err)

	got := make([]byte, 64)
	_, err = io.ReadFull(r1, got[:20])
	assert.NoError(t, err)

	// creating another reader for the same entry resets the cursor to the
	// entry's start; r1 must notice and resume rather than re-deliver the
	// first bytes.
	r2, err := a.ReaderFor(e)
	assert.NoError(t, err)

	_, err = io.ReadFull(r1, got[20:])
	assert.NoError(t, err)
	assert.Equal(t, content, got)

	got2, err := io.ReadAll(r2)
	assert.NoError(t, err)
	assert.Equal(t, content, got2)
}

func TestEntryReader_IteratorInvalidatesCursor(t *testing.T) {
	contentA := testData(80, 4)
	dec := newFakeDecoder(
		fakeEntry{name: "a", offset: 10, data: contentA},
		fakeEntry{name: "b", offset: 20, data: testData(30, 5)},
	)
	a := newFakeArchive(dec)
	entries := collectEntries(t, a)

	r, err := a.ReaderFor(entries[0])
	assert.NoError(t, err)

	got := make([]byte, 80)
	_, err = io.ReadFull(r, got[:32])
	assert.NoError(t, err)

	// advancing any catalog iterator moves the cursor and clears the
	// last-reader cookie.
	for range a.Entries() {
		break
	}
	assert.Equal(t, noCookie, a.lastReaderCookie)

	_, err = io.ReadFull(r, got[32:])
	assert.NoError(t, err)
	assert.Equal(t, contentA, got)
}

func TestEntryReader_ScratchBufferPerReader(t *testing.T) {
	dec := newFakeDecoder(
		fakeEntry{name: "a", offset: 10, data: testData(100, 6)},
		fakeEntry{name: "b", offset: 20, data: testData(100, 7)},
	)
	a := newFakeArchive(dec)
	entries := collectEntries(t, a)

	ra, _ := a.ReaderFor(entries[0])
	rb, _ := a.ReaderFor(entries[1])

	// force both readers through a resumption.
	_, _ = io.ReadFull(ra, make([]byte, 10))
	_, _ = io.ReadFull(rb, make([]byte, 10))
	_, _ = io.ReadFull(ra, make([]byte, 10))
	_, _ = io.ReadFull(rb, make([]byte, 10))

	assert.NotNil(t, ra.skipBuf)
	assert.NotNil(t, rb.skipBuf)
	assert.NotSame(t, &ra.skipBuf[0], &rb.skipBuf[0])

	assert.NoError(t, ra.Close())
	assert.Nil(t, ra.skipBuf)
}

func TestEntryReader_PositionFailure(t *testing.T) {
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: testData(10, 8)})
	a := newFakeArchive(dec)
	e := collectEntries(t, a)[0]

	r, err := a.ReaderFor(e)
	assert.NoError(t, err)

	dec.failParseAt = true
	_, err = r.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrPosition)
}

func TestEntryReader_DiscardFailure(t *testing.T) {
	dec := newFakeDecoder(
		fakeEntry{name: "a", offset: 10, data: testData(40, 9)},
		fakeEntry{name: "b", offset: 20, data: testData(40, 10)},
	)
	a := newFakeArchive(dec)
	entries := collectEntries(t, a)

	ra, _ := a.ReaderFor(entries[0])
	rb, _ := a.ReaderFor(entries[1])

	_, err := io.ReadFull(ra, make([]byte, 16))
	assert.NoError(t, err)
	_, err = io.ReadFull(rb, make([]byte, 16))
	assert.NoError(t, err)

	// resuming A now requires discarding 16 bytes; fail that decode call.
	dec.failDecompress = true
	_, err = ra.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrDiscard)
}

func TestEntryReader_DecodeFailure(t *testing.T) {
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: testData(40, 11)})
	a := newFakeArchive(dec)

	r, err := a.ReaderFor(collectEntries(t, a)[0])
	assert.NoError(t, err)

	// the first read resumes with nothing to discard, so the failure lands on
	// the delivery call.
	dec.failDecompress = true
	_, err = r.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestReaderFor_UnknownOffset(t *testing.T) {
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: testData(10, 12)})
	a := newFakeArchive(dec)

	_, err := a.ReaderFor(Entry{Name: "bogus", Offset: 999, Size: 10})
	assert.ErrorIs(t, err, ErrPosition)
}

func TestEntryReader_ZeroLengthRead(t *testing.T) {
	dec := newFakeDecoder(fakeEntry{name: "a", offset: 10, data: testData(10, 13)})
	a := newFakeArchive(dec)

	r, err := a.ReaderFor(collectEntries(t, a)[0])
	assert.NoError(t, err)

	parseAtBefore := dec.parseAtCalls
	n, err := r.Read(nil)
	assert.Equal(t, 0, n)
	assert.NoError(t, err)
	assert.Equal(t, parseAtBefore, dec.parseAtCalls, "empty reads must not resume")

	got, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, testData(10, 13), got)
}
