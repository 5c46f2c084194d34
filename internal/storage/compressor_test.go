package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompressor(t *testing.T) *ZstdCompression {
	t.Helper()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c.(*ZstdCompression)
}

func TestZstdCompression_CollectionDocument(t *testing.T) {
	c := newTestCompressor(t)

	doc := []byte(`{"format":"GOOD","version":2,"source":"goodsync","characters":[],"artifacts":[],"weapons":[]}`)
	packed, err := c.Compress(doc)
	require.NoError(t, err)

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, doc, unpacked)
}

func TestZstdCompression_Empty(t *testing.T) {
	c := newTestCompressor(t)

	packed, err := c.Compress(nil)
	require.NoError(t, err)

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Empty(t, unpacked)
}

func TestZstdCompression_RepetitiveTablesShrink(t *testing.T) {
	c := newTestCompressor(t)

	tables := bytes.Repeat([]byte(`"15001":"EQUIP_BRACER",`), 20_000)
	packed, err := c.Compress(tables)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(tables)/10)

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, tables, unpacked)
}

func TestZstdCompression_RejectsGarbage(t *testing.T) {
	c := newTestCompressor(t)

	for _, in := range [][]byte{
		[]byte("not zstd at all"),
		{0xff, 0xfe, 0xfd, 0xfc, 0x00, 0x01},
	} {
		_, err := c.Decompress(in)
		assert.Error(t, err)
	}
}

func TestZstdCompression_CompressOverLimit(t *testing.T) {
	c := newTestCompressor(t)

	_, err := c.Compress(make([]byte, MaxDecodedSize+1))
	assert.ErrorIs(t, err, ErrDecodedTooLarge)
}

func TestZstdCompression_DecompressOverLimit(t *testing.T) {
	c := newTestCompressor(t)

	// The frame header declares a content size above the cap.
	packed := c.encoder.EncodeAll(make([]byte, MaxDecodedSize+1024), nil)

	_, err := c.Decompress(packed)
	assert.ErrorIs(t, err, ErrDecodedTooLarge)
}
