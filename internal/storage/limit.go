package storage

import (
	"fmt"
	"io"
)

// ReadLimited reads r to the end, failing with ErrDecodedTooLarge once more
// than limit bytes arrive.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("read over %d bytes: %w", limit, ErrDecodedTooLarge)
	}
	return data, nil
}
