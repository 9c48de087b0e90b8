// Package charset guesses the real encoding of legacy zip entry names.
//
// Zip archives created by older tools store entry names in whatever codepage
// the creating machine used, with nothing in the archive saying which. By the
// time such a name reaches Go it has been mapped byte-for-byte through CP437,
// so the original bytes are still recoverable: map them back, run charset
// detection over them, and decode with whatever was detected.
//
// This is a best-effort side feature: every failure falls back to returning
// the name unchanged. Pass Guess to unarr.WithNameDecoder to enable it.
package charset

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Guess re-detects the encoding of a CP437-mapped zip entry name and returns
// the name decoded with the detected encoding, or the input unchanged if any
// step fails.
//
// Names that never went through the CP437 mapping (genuine UTF-8 names with
// characters outside CP437) fail the round-trip immediately and come back
// untouched.
func Guess(name string) string {
	raw, err := charmap.CodePage437.NewEncoder().String(name)
	if err != nil {
		return name
	}

	best, err := chardet.NewTextDetector().DetectBest([]byte(raw))
	if err != nil {
		return name
	}

	enc, err := lookup(best.Charset)
	if err != nil {
		return name
	}

	decoded, err := enc.NewDecoder().String(raw)
	if err != nil {
		return name
	}
	return decoded
}

// lookup maps a detector charset name to an encoding. The detector's names
// are mostly valid WHATWG labels already, but not all ("GB-18030" vs the
// label "gb18030"), so retry without hyphens before giving up.
func lookup(charset string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		enc, err = htmlindex.Get(strings.ReplaceAll(charset, "-", ""))
	}
	return enc, err
}
