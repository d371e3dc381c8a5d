package snapshot

import (
	"fmt"
	"hash/crc32"
	"math"

	"github.com/combocurve/typecurve/compress"
	"github.com/combocurve/typecurve/endian"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/format"
	"github.com/combocurve/typecurve/internal/collision"
	"github.com/combocurve/typecurve/internal/hash"
	"github.com/combocurve/typecurve/internal/options"
	"github.com/combocurve/typecurve/internal/pool"
	"github.com/combocurve/typecurve/series"
)

type config struct {
	compression   format.CompressionType
	indexEncoding format.EncodingType
	bigEndian     bool
}

// Option configures Encode.
type Option = options.Option[*config]

var defaultConfig = config{
	compression:   format.CompressionNone,
	indexEncoding: format.TypeDelta,
}

// WithCompression selects the codec applied to every payload section.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithIndexEncoding selects TypeDelta (default) or TypeRaw for the offset column.
func WithIndexEncoding(enc format.EncodingType) Option {
	return options.New(func(c *config) error {
		if enc != format.TypeRaw && enc != format.TypeDelta {
			return fmt.Errorf("unsupported index encoding: %s", enc)
		}
		c.indexEncoding = enc

		return nil
	})
}

// WithBigEndian writes multi-byte fields in big-endian order.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}

// Encode serializes a set of aggregated series.
//
// Series names must be unique and non-empty. Every Count column must be empty or as
// long as its Values.
func Encode(set []series.Aggregated, opts ...Option) ([]byte, error) {
	cfg, err := options.Build(defaultConfig, opts...)
	if err != nil {
		return nil, err
	}
	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	if uint64(len(set)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d series", errs.ErrInvalidSnapshotPayload, len(set))
	}

	engine := endian.Engine(cfg.bigEndian)
	tracker := collision.NewTracker()
	entries := make([]IndexEntry, len(set))

	indexBuf, valueBuf, countBuf := pool.GetBuffer(), pool.GetBuffer(), pool.GetBuffer()
	defer pool.PutBuffer(indexBuf)
	defer pool.PutBuffer(valueBuf)
	defer pool.PutBuffer(countBuf)

	for i, a := range set {
		if len(a.Index) != len(a.Values) || (len(a.Count) > 0 && len(a.Count) != len(a.Values)) {
			return nil, fmt.Errorf("series %q: %w", a.Name, errs.ErrShapeMismatch)
		}
		if uint64(len(a.Index)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: series %q has %d points", errs.ErrInvalidSnapshotPayload, a.Name, len(a.Index))
		}

		id := hash.ID(a.Name)
		if err := tracker.Track(a.Name, id); err != nil {
			return nil, err
		}
		entries[i] = IndexEntry{ID: id, Len: uint32(len(a.Index)), HasCount: len(a.Count) > 0}

		indexBuf.B = appendIndex(indexBuf.B, a.Index, cfg.indexEncoding, engine)
		valueBuf.B = appendValues(valueBuf.B, a.Values, engine)
		if entries[i].HasCount {
			countBuf.B = appendCounts(countBuf.B, a.Count)
		}
	}

	sections := make([][]byte, 4)
	for i, raw := range [][]byte{appendNames(nil, tracker.Names()), indexBuf.Bytes(), valueBuf.Bytes(), countBuf.Bytes()} {
		if sections[i], err = codec.Compress(raw); err != nil {
			return nil, fmt.Errorf("compress section %d: %w", i, err)
		}
	}

	h := newHeader(cfg.bigEndian, cfg.indexEncoding, cfg.compression)
	if tracker.HasCollision() {
		h.Flags |= flagHashCollision
	}
	h.SeriesCount = uint32(len(set))

	size := HeaderSize + len(entries)*IndexEntrySize
	for _, s := range sections {
		size += len(s)
	}
	out := make([]byte, HeaderSize, size)
	for _, e := range entries {
		out = e.appendTo(out, engine)
	}

	offsets := make([]uint32, len(sections))
	for i, s := range sections {
		offsets[i] = uint32(len(out))
		out = append(out, s...)
	}
	h.NamesOffset, h.IndexOffset, h.ValueOffset, h.CountOffset = offsets[0], offsets[1], offsets[2], offsets[3]
	h.Checksum = crc32.ChecksumIEEE(out[HeaderSize:])
	copy(out[:HeaderSize], h.Bytes())

	return out, nil
}
