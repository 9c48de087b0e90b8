package unarr

import "fmt"

// Format identifies a container format the prober can try.
type Format int

const (
	FormatZip Format = iota
	FormatRar
	Format7z
	FormatTar
	FormatTarGz
	FormatTarZst
	FormatTarXz
)

// probeOrder is the fixed priority order Open tries when no explicit format is
// given. The compressed tar flavors come last since plain tar must get the
// first shot at an uncompressed stream.
var probeOrder = []Format{
	FormatZip,
	FormatRar,
	Format7z,
	FormatTar,
	FormatTarGz,
	FormatTarZst,
	FormatTarXz,
}

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatRar:
		return "rar"
	case Format7z:
		return "7z"
	case FormatTar:
		return "tar"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarZst:
		return "tar.zst"
	case FormatTarXz:
		return "tar.xz"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses the string names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	for _, f := range probeOrder {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf(`unknown archive format "%s"`, s)
}
