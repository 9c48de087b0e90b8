// Package unarr reads entries out of zip, rar, 7z, and tar archives through a
// strictly forward-only decode engine, while letting callers hold many entry
// readers open at once and interleave reads between them freely.
//
// The underlying decoder has exactly one cursor: decompressing entry N
// requires positioning at N and pulling bytes in order, and any other
// operation moves the cursor away. Each [EntryReader] therefore remembers how
// many bytes it has already delivered; whenever it finds the cursor somewhere
// else, it re-parses its entry and discards that many bytes before continuing,
// so every reader behaves as if it had the archive to itself.
//
// Typical use:
//
//	stream, err := unarr.NewFileStream("photos.zip")
//	// handle err
//	a, err := unarr.Open(stream)
//	// handle err
//	defer a.Close()
//
//	for e := range a.Entries() {
//		r, err := a.ReaderFor(e)
//		// handle err
//		_, err = io.Copy(dst, r)
//		_ = r.Close()
//	}
//
// An Archive and everything derived from it may be handed off between
// goroutines but must only ever be driven by one goroutine at a time; there is
// a single decode cursor and nothing here locks around it.
package unarr
