package unarr

import "time"

// Entry is an immutable snapshot of one archive entry's identity and
// metadata.
//
// The decoder's idea of "current entry" is invalidated the moment its cursor
// moves, so the catalog iterator copies these fields out as each entry is
// parsed. An Entry stays valid for the life of the Archive that produced it
// and may be stored or copied freely.
type Entry struct {
	// Name is the entry's full name as recorded in the archive. Non-UTF-8 zip
	// names are mapped through CP437 unless a WithNameDecoder hook was
	// installed to do better.
	Name string

	// Offset is the entry's opaque position key within the container. Only
	// the archive that produced it can interpret it; callers may compare
	// offsets for equality and order but not do arithmetic on them.
	Offset int64

	// Size is the uncompressed size in bytes.
	Size int64

	// ModTime is the entry's modification time, zero if the format does not
	// record one.
	ModTime time.Time
}
