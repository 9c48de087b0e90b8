package unarr

import "errors"

var (
	// ErrNoMatchingFormat is returned by Open when no candidate format could
	// open the stream, or when an explicit format hint did not match.
	ErrNoMatchingFormat = errors.New("unarr: no matching archive format")

	// ErrPosition is returned when the decoder could not be repositioned at an
	// entry's offset, either by ReaderFor or while resuming an interrupted
	// read. The offset is invalid or the archive is corrupt.
	ErrPosition = errors.New("unarr: cannot position at entry")

	// ErrDiscard is returned when a decode call failed while fast-forwarding
	// through bytes a reader had already consumed.
	ErrDiscard = errors.New("unarr: discard previously consumed bytes")

	// ErrDecode is returned when a decode call failed while delivering bytes
	// to the caller. Reads never request more than the entry has left, so this
	// is a genuine decode fault rather than a bounds problem.
	ErrDecode = errors.New("unarr: decode entry bytes")
)
