package storage

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"goodsync/internal/storage/interfaces"
)

// MaxDecodedSize bounds what a single Decompress call may produce. Profiles,
// lookup bundles and collection files are all far below it.
const MaxDecodedSize = 64 << 20

var ErrDecodedTooLarge = errors.New("decoded payload exceeds size limit")

// ZstdCompression is shared by the fetcher (remote zstd bodies), the lookup
// bundle reader and the collection store. Decoding is capped because one of
// those inputs comes from the network.
type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(MaxDecodedSize),
	)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	if len(val) > MaxDecodedSize {
		return nil, fmt.Errorf("compress %d bytes: %w", len(val), ErrDecodedTooLarge)
	}
	return z.encoder.EncodeAll(val, nil), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(val, nil)
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
		return nil, fmt.Errorf("decompress: %w", ErrDecodedTooLarge)
	}
	return out, err
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}
