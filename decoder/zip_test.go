package decoder

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTestZip(t *testing.T, names []string, sizes []int) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		assert.NoError(t, err)
		_, err = w.Write(bytes.Repeat([]byte{byte(i + 1)}, sizes[i]))
		assert.NoError(t, err)
	}
	assert.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestZipDecoder_OffsetsIncrease(t *testing.T) {
	data := buildTestZip(t, []string{"a", "b", "c"}, []int{100, 50, 0})

	d, err := OpenZip(newMemSource(data))
	assert.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.ParseEntryAt(0))
	prev := d.EntryOffset()
	assert.Greater(t, prev, int64(0), "zip entry offsets are real data offsets, never 0")

	for d.ParseNextEntry() == nil {
		assert.Greater(t, d.EntryOffset(), prev)
		prev = d.EntryOffset()
	}
}

func TestZipDecoder_ParseAtRestartsEntry(t *testing.T) {
	data := buildTestZip(t, []string{"a", "b"}, []int{32, 32})

	d, err := OpenZip(newMemSource(data))
	assert.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.ParseEntryAt(0))
	assert.NoError(t, d.ParseNextEntry())
	off := d.EntryOffset()

	buf := make([]byte, 16)
	assert.NoError(t, d.Decompress(buf))

	assert.NoError(t, d.ParseEntryAt(off))
	assert.NoError(t, d.Decompress(buf))
	assert.Equal(t, bytes.Repeat([]byte{2}, 16), buf)
}

func TestZipDecoder_DecompressWithoutParse(t *testing.T) {
	data := buildTestZip(t, []string{"a"}, []int{4})

	d, err := OpenZip(newMemSource(data))
	assert.NoError(t, err)
	defer d.Close()

	assert.Error(t, d.Decompress(make([]byte, 1)))
}

func TestOpenZip_RejectsGarbage(t *testing.T) {
	_, err := OpenZip(newMemSource([]byte("definitely not a zip archive")))
	assert.Error(t, err)

	_, err = OpenZip(newMemSource(nil))
	assert.Error(t, err)
}

func TestZipDecoder_ReadAcrossCalls(t *testing.T) {
	content := bytes.Repeat([]byte{1}, 64)
	data := buildTestZip(t, []string{"a"}, []int{64})

	d, err := OpenZip(newMemSource(data))
	assert.NoError(t, err)
	defer d.Close()

	assert.NoError(t, d.ParseEntryAt(0))

	got := make([]byte, 64)
	for i := 0; i < 64; i += 16 {
		assert.NoError(t, d.Decompress(got[i:i+16]))
	}
	assert.Equal(t, content, got)
}
