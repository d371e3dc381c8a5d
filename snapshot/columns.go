package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/combocurve/typecurve/endian"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/format"
)

// appendIndex writes one series' offsets. TypeDelta stores the first offset, then the
// first delta, then delta-of-deltas, each zigzag varint encoded: regular grids cost one
// byte per point. TypeRaw stores fixed 8-byte words.
func appendIndex(buf []byte, index []int, enc format.EncodingType, engine endian.EndianEngine) []byte {
	if enc == format.TypeRaw {
		for _, v := range index {
			buf = engine.AppendUint64(buf, uint64(int64(v)))
		}

		return buf
	}

	var prev, prevDelta int64
	for i, v := range index {
		cur := int64(v)
		switch i {
		case 0:
			buf = binary.AppendVarint(buf, cur)
		case 1:
			prevDelta = cur - prev
			buf = binary.AppendVarint(buf, prevDelta)
		default:
			delta := cur - prev
			buf = binary.AppendVarint(buf, delta-prevDelta)
			prevDelta = delta
		}
		prev = cur
	}

	return buf
}

// readIndex decodes n offsets from data and returns the bytes consumed.
func readIndex(data []byte, n int, enc format.EncodingType, engine endian.EndianEngine) ([]int, int, error) {
	out := make([]int, n)
	if enc == format.TypeRaw {
		if len(data) < n*8 {
			return nil, 0, fmt.Errorf("%w: raw index needs %d bytes, have %d", errs.ErrInvalidSnapshotPayload, n*8, len(data))
		}
		for i := range out {
			out[i] = int(int64(engine.Uint64(data[i*8:])))
		}

		return out, n * 8, nil
	}

	pos := 0
	var prev, prevDelta int64
	for i := range out {
		v, w := binary.Varint(data[pos:])
		if w <= 0 {
			return nil, 0, fmt.Errorf("%w: truncated delta index at point %d", errs.ErrInvalidSnapshotPayload, i)
		}
		pos += w
		switch i {
		case 0:
			prev = v
		case 1:
			prevDelta = v
			prev += v
		default:
			prevDelta += v
			prev += prevDelta
		}
		out[i] = int(prev)
	}

	return out, pos, nil
}

func appendValues(buf []byte, values []float64, engine endian.EndianEngine) []byte {
	for _, v := range values {
		buf = engine.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func readValues(data []byte, n int, engine endian.EndianEngine) ([]float64, int, error) {
	if len(data) < n*8 {
		return nil, 0, fmt.Errorf("%w: value column needs %d bytes, have %d", errs.ErrInvalidSnapshotPayload, n*8, len(data))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(engine.Uint64(data[i*8:]))
	}

	return out, n * 8, nil
}

func appendCounts(buf []byte, counts []int) []byte {
	for _, c := range counts {
		buf = binary.AppendUvarint(buf, uint64(max(c, 0)))
	}

	return buf
}

func readCounts(data []byte, n int) ([]int, int, error) {
	out := make([]int, n)
	pos := 0
	for i := range out {
		v, w := binary.Uvarint(data[pos:])
		if w <= 0 {
			return nil, 0, fmt.Errorf("%w: truncated count column at point %d", errs.ErrInvalidSnapshotPayload, i)
		}
		pos += w
		out[i] = int(v)
	}

	return out, pos, nil
}

// appendNames writes uvarint length-prefixed UTF-8 names.
func appendNames(buf []byte, names []string) []byte {
	for _, name := range names {
		buf = binary.AppendUvarint(buf, uint64(len(name)))
		buf = append(buf, name...)
	}

	return buf
}

func readNames(data []byte, n int) ([]string, error) {
	out := make([]string, n)
	pos := 0
	for i := range out {
		l, w := binary.Uvarint(data[pos:])
		if w <= 0 || uint64(len(data)-pos-w) < l {
			return nil, fmt.Errorf("%w: truncated name %d", errs.ErrInvalidSnapshotPayload, i)
		}
		pos += w
		out[i] = string(data[pos : pos+int(l)])
		pos += int(l)
	}

	return out, nil
}
