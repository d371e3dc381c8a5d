package snapshot

import (
	"fmt"

	"github.com/combocurve/typecurve/endian"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/format"
)

const (
	// Flag bits of the first header word.
	flagBigEndian     = 0x0001
	flagHashCollision = 0x0002
	magicMask         = 0xFFF0

	// MagicV1 tags the snapshot format in bits 4-15.
	MagicV1 = 0xC710
	// Version is the layout version written by Encode.
	Version = 1

	// HeaderSize is the fixed header length.
	HeaderSize = 32
	// IndexEntrySize is the fixed length of one series entry.
	IndexEntrySize = 16
)

// Header is the fixed 32-byte prefix of a snapshot.
//
//	0-1   flags | magic (always little-endian)
//	2     version
//	3     index encoding (bits 0-3) | value encoding (bits 4-7)
//	4     compression
//	5-7   reserved
//	8-11  series count
//	12-15 names payload offset
//	16-19 index payload offset
//	20-23 value payload offset
//	24-27 count payload offset
//	28-31 CRC32 (IEEE) of every byte after the header
type Header struct {
	Flags         uint16
	Version       uint8
	IndexEncoding format.EncodingType
	ValueEncoding format.EncodingType
	Compression   format.CompressionType
	SeriesCount   uint32
	NamesOffset   uint32
	IndexOffset   uint32
	ValueOffset   uint32
	CountOffset   uint32
	Checksum      uint32
}

func newHeader(big bool, indexEncoding format.EncodingType, compression format.CompressionType) Header {
	h := Header{
		Flags:         MagicV1,
		Version:       Version,
		IndexEncoding: indexEncoding,
		ValueEncoding: format.TypeRaw,
		Compression:   compression,
	}
	if big {
		h.Flags |= flagBigEndian
	}

	return h
}

// BigEndian reports whether multi-byte fields use big-endian order.
func (h Header) BigEndian() bool {
	return h.Flags&flagBigEndian != 0
}

// HasCollision reports whether two series names share an xxhash ID.
func (h Header) HasCollision() bool {
	return h.Flags&flagHashCollision != 0
}

func (h Header) engine() endian.EndianEngine {
	return endian.Engine(h.BigEndian())
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.engine()

	endian.GetLittleEndianEngine().PutUint16(b[0:2], h.Flags)
	b[2] = h.Version
	b[3] = uint8(h.IndexEncoding) | uint8(h.ValueEncoding)<<4
	b[4] = uint8(h.Compression)
	engine.PutUint32(b[8:12], h.SeriesCount)
	engine.PutUint32(b[12:16], h.NamesOffset)
	engine.PutUint32(b[16:20], h.IndexOffset)
	engine.PutUint32(b[20:24], h.ValueOffset)
	engine.PutUint32(b[24:28], h.CountOffset)
	engine.PutUint32(b[28:32], h.Checksum)

	return b
}

// ParseHeader reads and validates the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", errs.ErrInvalidSnapshotSize, len(data))
	}

	h := Header{Flags: endian.GetLittleEndianEngine().Uint16(data[0:2])}
	if h.Flags&magicMask != MagicV1 {
		return Header{}, fmt.Errorf("%w: 0x%04x", errs.ErrInvalidSnapshotMagic, h.Flags&magicMask)
	}
	h.Version = data[2]
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrInvalidSnapshotVersion, h.Version)
	}
	h.IndexEncoding = format.EncodingType(data[3] & 0x0F)
	h.ValueEncoding = format.EncodingType(data[3] >> 4)
	h.Compression = format.CompressionType(data[4])

	engine := h.engine()
	h.SeriesCount = engine.Uint32(data[8:12])
	h.NamesOffset = engine.Uint32(data[12:16])
	h.IndexOffset = engine.Uint32(data[16:20])
	h.ValueOffset = engine.Uint32(data[20:24])
	h.CountOffset = engine.Uint32(data[24:28])
	h.Checksum = engine.Uint32(data[28:32])

	if err := h.validate(len(data)); err != nil {
		return Header{}, err
	}

	return h, nil
}

func (h Header) validate(size int) error {
	if h.IndexEncoding != format.TypeRaw && h.IndexEncoding != format.TypeDelta {
		return fmt.Errorf("%w: index encoding %s", errs.ErrInvalidSnapshotPayload, h.IndexEncoding)
	}
	if h.ValueEncoding != format.TypeRaw {
		return fmt.Errorf("%w: value encoding %s", errs.ErrInvalidSnapshotPayload, h.ValueEncoding)
	}

	entriesEnd := uint64(HeaderSize) + uint64(h.SeriesCount)*IndexEntrySize
	offsets := []uint64{entriesEnd, uint64(h.NamesOffset), uint64(h.IndexOffset), uint64(h.ValueOffset), uint64(h.CountOffset), uint64(size)}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: section offsets out of order", errs.ErrInvalidSnapshotSize)
		}
	}

	return nil
}

// IndexEntry describes one series. Payload positions are implied by the order of
// entries and their lengths.
//
//	0-7   xxhash64 of the series name
//	8-11  number of points
//	12-15 flags (bit 0: count column present)
type IndexEntry struct {
	ID       uint64
	Len      uint32
	HasCount bool
}

func (e IndexEntry) appendTo(buf []byte, engine endian.EndianEngine) []byte {
	var flags uint32
	if e.HasCount {
		flags = 1
	}
	buf = engine.AppendUint64(buf, e.ID)
	buf = engine.AppendUint32(buf, e.Len)

	return engine.AppendUint32(buf, flags)
}

func parseIndexEntry(b []byte, engine endian.EndianEngine) IndexEntry {
	return IndexEntry{
		ID:       engine.Uint64(b[0:8]),
		Len:      engine.Uint32(b[8:12]),
		HasCount: engine.Uint32(b[12:16])&1 != 0,
	}
}
