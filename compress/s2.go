package compress

import "github.com/klauspost/compress/s2"

// S2Compressor trades ratio for speed; it suits snapshots that are rewritten often.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an s2 codec.
//
// Returns:
//   - S2Compressor: stateless codec, safe for concurrent use
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data in the s2 block format.
//
// Returns:
//   - []byte: compressed block, nil for empty input
//   - error: always nil
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an s2 block.
//
// Returns:
//   - []byte: decoded payload, nil for empty input
//   - error: s2.ErrCorrupt for malformed blocks
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
