// Package decoder defines the forward-only primitive surface the unarr core
// drives, and implements it for zip, rar, 7z, and plain or compressed tar
// archives.
//
// A Decoder has exactly one cursor. Parsing any entry invalidates whatever
// the cursor pointed at before; decompression always continues from wherever
// the cursor currently is. The core's job is to make that usable; this
// package's job is only to honour the contract below per format.
package decoder

import (
	"io"
	"time"
)

// Source is the byte source a decoder reads from. unarr.Stream implements it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Decoder is a single-pass decode engine over one archive.
//
// Entry offsets are opaque 64-bit keys: strictly increasing in container
// order, never 0 for a real entry, and meaningful only to the decoder that
// produced them. Offset 0 passed to ParseEntryAt means "the first entry".
type Decoder interface {
	// ParseEntryAt positions the cursor at the entry with the given offset
	// and resets its decompression state to the entry's first byte.
	ParseEntryAt(offset int64) error

	// ParseNextEntry advances the cursor from the current entry to the next
	// one. Failure means the catalog has ended (or cannot be advanced any
	// further, which the engine cannot tell apart).
	ParseNextEntry() error

	// EntryOffset returns the current entry's offset, or 0 when no entry has
	// been parsed yet.
	EntryOffset() int64

	// EntrySize returns the current entry's uncompressed size in bytes.
	EntrySize() int64

	// EntryName returns the current entry's name. Only valid until the cursor
	// moves; callers copy what they need.
	EntryName() string

	// EntryModTime returns the current entry's modification time, zero if the
	// format does not record one.
	EntryModTime() time.Time

	// Decompress produces exactly len(p) decompressed bytes of the current
	// entry, continuing from wherever the previous Decompress stopped.
	// Callers never request more bytes than the entry has left.
	Decompress(p []byte) error

	// Close releases decoder state. It does not close the Source.
	Close() error
}
