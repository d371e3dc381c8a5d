package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool reuses lz4.Compressor hash tables across snapshot payloads.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxDecodedSize bounds the decode buffer for corrupted input.
const lz4MaxDecodedSize = 128 * 1024 * 1024

// LZ4Compressor uses the lz4 block format. It is the fastest codec to decode, which
// suits memo entries that are read far more often than written.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an lz4 codec.
//
// Returns:
//   - LZ4Compressor: stateless codec, safe for concurrent use
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress encodes one snapshot payload as a single lz4 block using a pooled
// compressor.
//
// Parameters:
//   - data: payload to compress (names, index, values or counts column)
//
// Returns:
//   - []byte: compressed block, nil for empty input
//   - error: compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decodes one lz4 block.
//
// Blocks do not record their decoded size. The buffer starts at 4x the input and
// doubles on short-buffer errors until lz4MaxDecodedSize, so highly repetitive columns
// such as all-zero counts still decode.
//
// Parameters:
//   - data: block produced by Compress
//
// Returns:
//   - []byte: decoded payload, nil for empty input
//   - error: lz4.ErrInvalidSourceShortBuffer past the size limit, or a decode error
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for size := len(data) * 4; size <= lz4MaxDecodedSize; size *= 2 {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, err
		}
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
