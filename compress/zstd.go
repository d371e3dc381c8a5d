package compress

// ZstdCompressor is the densest codec, used for cached snapshots that are decoded far
// more often than they are written. The pure-Go klauspost implementation is the default;
// building with the gozstd tag switches to the cgo binding.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
