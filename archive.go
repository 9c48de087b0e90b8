package unarr

import (
	"fmt"

	"github.com/htngo/unarr/decoder"
)

// cookie identifies which EntryReader most recently positioned the decode
// cursor. Values are never reused; 0 means no reader owns the cursor.
type cookie uint64

const noCookie cookie = 0

// Options customises Open.
type Options struct {
	// Format, if non-nil, is the only format tried; probing is skipped.
	Format *Format

	// Password is forwarded to formats that support encrypted archives (rar
	// and 7z). An empty string means unencrypted.
	Password string

	// DecodeName, if non-nil, is applied to every zip entry name before it is
	// surfaced, for archives whose names use a legacy codepage instead of
	// UTF-8. [charset.Guess] is a ready-made implementation. Names from other
	// formats are passed through untouched.
	DecodeName func(string) string
}

// WithFormat makes Open try only the given format instead of probing.
func WithFormat(f Format) func(*Options) {
	return func(opts *Options) {
		opts.Format = &f
	}
}

// WithPassword supplies the password for encrypted rar and 7z archives.
func WithPassword(password string) func(*Options) {
	return func(opts *Options) {
		opts.Password = password
	}
}

// WithNameDecoder installs a decoder for legacy-encoded zip entry names.
func WithNameDecoder(fn func(string) string) func(*Options) {
	return func(opts *Options) {
		opts.DecodeName = fn
	}
}

// Archive owns the single-pass decoder over one stream and arbitrates its one
// decode cursor between the entry readers and catalog iterators derived from
// it.
//
// An Archive may be moved between goroutines, but only one goroutine may be
// inside any of its methods, readers, or iterators at a time.
type Archive struct {
	dec    decoder.Decoder
	stream *Stream
	format Format

	decodeName func(string) string

	// cookieCounter hands out reader identities; lastReaderCookie is the
	// reader that most recently positioned the cursor, or noCookie after the
	// catalog iterator moved it.
	cookieCounter    cookie
	lastReaderCookie cookie
}

// Open opens an archive over the given stream, trying formats in the order
// zip, rar, 7z, tar, tar.gz, tar.zst, tar.xz until one succeeds, or only the
// format given by WithFormat.
//
// On success the stream's ownership transfers to the returned Archive and
// Archive.Close will close it. On failure the stream is untouched and still
// belongs to the caller.
func Open(stream *Stream, optFns ...func(*Options)) (*Archive, error) {
	opts := &Options{}
	for _, fn := range optFns {
		fn(opts)
	}

	tries := probeOrder
	if opts.Format != nil {
		tries = []Format{*opts.Format}
	}

	for _, f := range tries {
		dec, err := openDecoder(f, stream, opts.Password)
		if err != nil {
			continue
		}

		return &Archive{
			dec:        dec,
			stream:     stream,
			format:     f,
			decodeName: opts.DecodeName,
		}, nil
	}

	return nil, ErrNoMatchingFormat
}

func openDecoder(f Format, src decoder.Source, password string) (decoder.Decoder, error) {
	switch f {
	case FormatZip:
		return decoder.OpenZip(src)
	case FormatRar:
		return decoder.OpenRar(src, password)
	case Format7z:
		return decoder.OpenSevenZip(src, password)
	case FormatTar:
		return decoder.OpenTar(src, decoder.CompressionNone)
	case FormatTarGz:
		return decoder.OpenTar(src, decoder.CompressionGzip)
	case FormatTarZst:
		return decoder.OpenTar(src, decoder.CompressionZstd)
	case FormatTarXz:
		return decoder.OpenTar(src, decoder.CompressionXz)
	default:
		return nil, fmt.Errorf("unknown format %v", f)
	}
}

// Format returns the format the archive was opened as.
func (a *Archive) Format() Format {
	return a.format
}

// ReaderFor returns a new EntryReader for the given entry, which must have
// been produced by this archive's Entries.
//
// Any number of readers may be live at once, including several for the same
// entry; each one reads the entry from the beginning independently of the
// others. Returns an error wrapping ErrPosition if no entry exists at the
// descriptor's offset.
func (a *Archive) ReaderFor(e Entry) (*EntryReader, error) {
	if err := a.dec.ParseEntryAt(e.Offset); err != nil {
		return nil, fmt.Errorf("%w offset %d: %v", ErrPosition, e.Offset, err)
	}

	// the validating parse above reset the cursor to the entry's first byte;
	// a reader mid-way through the same entry must not mistake it for its own
	// position.
	a.lastReaderCookie = noCookie

	a.cookieCounter++

	return &EntryReader{
		archive: a,
		offset:  e.Offset,
		size:    e.Size,
		cookie:  a.cookieCounter,
	}, nil
}

// Close tears the archive down: the decoder first, then the stream it was
// opened on. The decoder may hold state referring into the stream, so this
// order is required and Close is the only place the stream gets closed.
func (a *Archive) Close() error {
	err := a.dec.Close()
	if err2 := a.stream.Close(); err == nil {
		err = err2
	}
	return err
}
