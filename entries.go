package unarr

import (
	"fmt"
	"iter"
)

// Entries returns a lazy iterator over the archive's catalog in container
// order.
//
// Iteration is forward-only and cannot be restarted in place; ranging again
// calls Entries for a fresh iterator that begins at the first entry. Every
// iterator and every EntryReader share the archive's one decode cursor, so
// advancing the catalog invalidates any reader's claim on the cursor (the
// reader transparently re-establishes its position on its next Read) and any
// cursor movement in between steps is detected and undone before advancing.
//
// A parse failure ends the sequence; it is indistinguishable from reaching the
// end of the archive, matching the underlying engine which cannot advance past
// a bad entry anyway.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		// offset of the entry this iterator saw last; 0 before the first.
		var last int64

		for {
			// the cursor is about to move for catalog advancement, so no
			// reader owns it anymore.
			a.lastReaderCookie = noCookie

			if last == 0 {
				if a.dec.ParseEntryAt(0) != nil {
					return
				}
			} else {
				// a reader may have repositioned the cursor since the last
				// step; advancing from the wrong entry would silently yield
				// the wrong catalog.
				if a.dec.EntryOffset() != last {
					if a.dec.ParseEntryAt(last) != nil {
						return
					}
				}
				if a.dec.ParseNextEntry() != nil {
					return
				}
			}

			name := a.dec.EntryName()
			if a.decodeName != nil && a.format == FormatZip {
				name = a.decodeName(name)
			}

			e := Entry{
				Name:    name,
				Offset:  a.dec.EntryOffset(),
				Size:    a.dec.EntrySize(),
				ModTime: a.dec.EntryModTime(),
			}

			// offsets must come back in strictly increasing order; anything
			// else means the decoder broke its contract and continuing would
			// loop or misread.
			if e.Offset != 0 && e.Offset <= last {
				panic(fmt.Sprintf("unarr: decoder returned entry offset %d after %d", e.Offset, last))
			}
			last = e.Offset

			if !yield(e) {
				return
			}
		}
	}
}
