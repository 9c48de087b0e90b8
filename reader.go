package unarr

import (
	"fmt"
	"io"
)

// maxSkipBufferSize caps the scratch buffer a reader discards into while
// fast-forwarding. Large so that catching up costs as few decode calls as
// possible; the buffer is only ever as big as the bytes actually consumed.
const maxSkipBufferSize = 1 << 30

// EntryReader reads the decompressed bytes of one archive entry.
//
// Readers share the archive's single decode cursor. A reader that finds the
// cursor moved since its last Read re-parses its entry and decompresses-and-
// discards everything it had already delivered before producing the next
// byte, so interleaved reads across several readers always see the same bytes
// as uninterrupted ones. That catch-up costs O(bytes this reader already
// consumed) and is paid only when control actually changed hands.
type EntryReader struct {
	archive *Archive
	offset  int64
	size    int64
	cookie  cookie

	// consumed counts bytes already delivered to the caller.
	consumed int64

	// skipBuf is allocated on first fast-forward and never shared between
	// readers; two readers discarding through one buffer would corrupt each
	// other's catch-up.
	skipBuf []byte
}

var _ io.ReadCloser = (*EntryReader)(nil)

// Read fills p with the next decompressed bytes of the entry, resuming the
// reader's position first if another reader or a catalog iterator used the
// cursor in between. Returns io.EOF once the whole entry has been delivered.
func (r *EntryReader) Read(p []byte) (int, error) {
	if r.consumed == r.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if err := r.resume(); err != nil {
		return 0, err
	}

	n := int(min(r.size-r.consumed, int64(len(p))))
	if err := r.archive.dec.Decompress(p[:n]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	r.consumed += int64(n)
	return n, nil
}

// resume makes the decode cursor deliver this reader's next byte. When the
// cursor is still where this reader left it (same entry, and no other reader
// or iterator touched it since) this is a no-op; otherwise the entry is
// re-parsed from its start and the consumed prefix is decompressed into
// skipBuf and thrown away.
func (r *EntryReader) resume() error {
	a := r.archive
	if a.dec.EntryOffset() == r.offset && a.lastReaderCookie == r.cookie {
		return nil
	}

	a.lastReaderCookie = r.cookie

	if err := a.dec.ParseEntryAt(r.offset); err != nil {
		return fmt.Errorf("%w offset %d: %v", ErrPosition, r.offset, err)
	}

	if want := min(r.consumed, maxSkipBufferSize); int64(len(r.skipBuf)) < want {
		r.skipBuf = make([]byte, want)
	}

	for skip := r.consumed; skip > 0; {
		n := min(skip, int64(len(r.skipBuf)))
		if err := a.dec.Decompress(r.skipBuf[:n]); err != nil {
			return fmt.Errorf("%w: %v", ErrDiscard, err)
		}
		skip -= n
	}

	return nil
}

// Size returns the entry's total uncompressed size in bytes.
func (r *EntryReader) Size() int64 {
	return r.size
}

// Close releases the reader's scratch buffer. The reader must not be used
// afterwards; the archive itself is unaffected.
func (r *EntryReader) Close() error {
	r.skipBuf = nil
	return nil
}
