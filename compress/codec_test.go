package compress

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/combocurve/typecurve/format"
)

// declineColumn mimics a raw value column of a rollup: slowly decaying float64s.
func declineColumn(n int) []byte {
	buf := make([]byte, 0, n*8)
	for i := range n {
		v := math.Round(1000*math.Exp(-0.002*float64(i))*100) / 100
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func TestCodecsRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":    nil,
		"short":    []byte("p50"),
		"repeated": bytes.Repeat([]byte{0x01, 0x00}, 4096),
		"column":   declineColumn(2000),
	}
	types := []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	}

	for _, ct := range types {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, data := range payloads {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				back, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, len(data), len(back))
				if len(data) > 0 {
					require.Equal(t, data, back)
				}
			})
		}
	}
}

func TestCompressedColumnsShrink(t *testing.T) {
	data := bytes.Repeat([]byte{0x01, 0x00}, 4096)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, Ratio(len(data), len(compressed)), 0.5, ct.String())
	}
}

func TestGetCodecUnknown(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
	require.Zero(t, Ratio(0, 10))
}

func TestCorruptedInput(t *testing.T) {
	garbage := []byte{0x05, 0xff, 0xff, 0xff, 0xff, 0xff}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage)
		require.Error(t, err, ct.String())
	}
}

func TestLZ4DecompressGrowsBuffer(t *testing.T) {
	codec := NewLZ4Compressor()
	counts := make([]byte, 1<<20)

	compressed, err := codec.Compress(counts)
	require.NoError(t, err)
	require.Less(t, len(compressed)*4, len(counts), "input must outgrow the first buffer")

	back, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, counts, back)
}

func BenchmarkCodecs(b *testing.B) {
	data := declineColumn(8192)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, _ := GetCodec(ct)
		compressed, _ := codec.Compress(data)

		b.Run("Compress/"+ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
		b.Run("Decompress/"+ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}
