package lookup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"goodsync/internal/providers"
	"goodsync/internal/storage/interfaces"
	"goodsync/internal/structures"
)

const compressedSuffix = ".zst"

// ReadBundle reads a bundle file, zstd-compressed when the name ends in ".zst".
func ReadBundle(path string, compressor interfaces.CompressorInterface) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lookup tables: %w", err)
	}
	if strings.HasSuffix(path, compressedSuffix) {
		data, err = compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress lookup tables %s: %w", path, err)
		}
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse lookup tables %s: %w", path, err)
	}
	return &b, nil
}

func WriteBundle(path string, b *Bundle, compressor interfaces.CompressorInterface) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, compressedSuffix) {
		data, err = compressor.Compress(data)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

func Load(path string, compressor interfaces.CompressorInterface) (*Tables, error) {
	b, err := ReadBundle(path, compressor)
	if err != nil {
		return nil, err
	}
	return New(b)
}

// NewTablesProvider loads the tables once for the lifetime of the process.
func NewTablesProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (*Tables, error) {
	t, err := Load(conf.Tables.Path, compressor)
	if err != nil {
		return nil, err
	}
	names, characters := t.Len()
	logger.Infof(providers.TypeApp, "Loaded lookup tables from %s: %d names, %d skill orders", conf.Tables.Path, names, characters)
	return t, nil
}
