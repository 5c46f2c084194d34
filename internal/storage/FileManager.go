package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"goodsync/internal/good"
	"goodsync/internal/providers"
	"goodsync/internal/storage/interfaces"
)

const CompressedSuffix = ".zst"

var ErrNotFound = errors.New("collection file not found")

type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

// FileName builds the per-account output path "{nickname}-{uid}.json".
func FileName(dir, nickname, uid string, compress bool) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, nickname)
	name := fmt.Sprintf("%s-%s.json", safe, uid)
	if compress {
		name += CompressedSuffix
	}
	return filepath.Join(dir, name)
}

// Load reads a collection. A missing file yields ErrNotFound; any other
// failure means the file exists but cannot be used and is returned as is.
func (f *FileManager) Load(fileName string) (*good.Collection, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if strings.HasSuffix(fileName, CompressedSuffix) {
		data, err = f.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", fileName, err)
		}
	}

	var collection good.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}
	if collection.Format != good.Format {
		return nil, fmt.Errorf("parse %s: unexpected format %q", fileName, collection.Format)
	}
	if collection.Version != good.Version {
		f.logger.Warnf(providers.TypeSync, "File %s has GOOD version %d, expected %d", fileName, collection.Version, good.Version)
	}
	return &collection, nil
}

func (f *FileManager) Save(collection *good.Collection, fileName string) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return err
	}

	if strings.HasSuffix(fileName, CompressedSuffix) {
		data, err = f.compressor.Compress(data)
		if err != nil {
			return err
		}
	} else {
		data = append(data, '\n')
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
