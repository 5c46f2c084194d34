package lookup

import (
	"goodsync/internal/storage"
	"goodsync/internal/structures"
	"goodsync/internal/testutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadBundle_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	comp := &testutil.MockCompressor{}

	require.NoError(t, WriteBundle(path, sampleBundle(), comp))

	tables, err := Load(path, comp)
	require.NoError(t, err)
	name, ok := tables.Name("3782508715")
	require.True(t, ok)
	assert.Equal(t, "TravelingDoctor", name)
}

func TestWriteAndLoadBundle_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json.zst")
	comp, err := storage.NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	require.NoError(t, WriteBundle(path, sampleBundle(), comp))

	b, err := ReadBundle(path, comp)
	require.NoError(t, err)
	assert.Equal(t, sampleBundle().Characters, b.Characters)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), &testutil.MockCompressor{})
	assert.Error(t, err)
}

func TestLoad_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path, &testutil.MockCompressor{})
	assert.Error(t, err)
}

func TestNewTablesProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	comp := &testutil.MockCompressor{}
	require.NoError(t, WriteBundle(path, sampleBundle(), comp))

	logger := &testutil.MockLogger{}
	conf := &structures.Config{Tables: structures.TablesConfig{Path: path}}

	tables, err := NewTablesProvider(conf, comp, logger)
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Len(t, logger.Messages("info"), 1)
}
