package snapshot

import (
	"fmt"
	"hash/crc32"

	"github.com/combocurve/typecurve/compress"
	"github.com/combocurve/typecurve/errs"
	"github.com/combocurve/typecurve/internal/hash"
	"github.com/combocurve/typecurve/series"
)

// Snapshot is a decoded snapshot.
type Snapshot struct {
	Header Header
	Series []series.Aggregated

	byID map[uint64]int
}

// Decode returns the series stored in data.
func Decode(data []byte) ([]series.Aggregated, error) {
	s, err := Open(data)
	if err != nil {
		return nil, err
	}

	return s.Series, nil
}

// Open validates and decodes data.
func Open(data []byte) (*Snapshot, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if sum := crc32.ChecksumIEEE(data[HeaderSize:]); sum != h.Checksum {
		return nil, fmt.Errorf("%w: stored 0x%08x, computed 0x%08x", errs.ErrSnapshotChecksum, h.Checksum, sum)
	}
	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshotPayload, err)
	}

	engine := h.engine()
	n := int(h.SeriesCount)
	entries := make([]IndexEntry, n)
	for i := range entries {
		off := HeaderSize + i*IndexEntrySize
		entries[i] = parseIndexEntry(data[off:off+IndexEntrySize], engine)
	}

	bounds := []uint32{h.NamesOffset, h.IndexOffset, h.ValueOffset, h.CountOffset, uint32(len(data))}
	sections := make([][]byte, 4)
	for i := range sections {
		if sections[i], err = codec.Decompress(data[bounds[i]:bounds[i+1]]); err != nil {
			return nil, fmt.Errorf("%w: section %d: %w", errs.ErrInvalidSnapshotPayload, i, err)
		}
	}

	names, err := readNames(sections[0], n)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{Header: h, Series: make([]series.Aggregated, n), byID: make(map[uint64]int, n)}
	var indexPos, valuePos, countPos int
	for i, e := range entries {
		if hash.ID(names[i]) != e.ID {
			return nil, fmt.Errorf("%w: name %q does not match id 0x%016x", errs.ErrInvalidSnapshotPayload, names[i], e.ID)
		}
		if _, dup := s.byID[e.ID]; dup && !h.HasCollision() {
			return nil, fmt.Errorf("%w: id 0x%016x", errs.ErrHashCollision, e.ID)
		}
		s.byID[e.ID] = i

		count := int(e.Len)
		a := series.Aggregated{Name: names[i]}
		var w int
		if a.Index, w, err = readIndex(sections[1][indexPos:], count, h.IndexEncoding, engine); err != nil {
			return nil, fmt.Errorf("series %q: %w", a.Name, err)
		}
		indexPos += w
		if a.Values, w, err = readValues(sections[2][valuePos:], count, engine); err != nil {
			return nil, fmt.Errorf("series %q: %w", a.Name, err)
		}
		valuePos += w
		if e.HasCount {
			if a.Count, w, err = readCounts(sections[3][countPos:], count); err != nil {
				return nil, fmt.Errorf("series %q: %w", a.Name, err)
			}
			countPos += w
		}
		s.Series[i] = a
	}

	return s, nil
}

// Names returns the series names in stored order.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.Series))
	for i, a := range s.Series {
		out[i] = a.Name
	}

	return out
}

// Find returns the series called name. Lookups go through the ID index unless the
// snapshot recorded a hash collision.
func (s *Snapshot) Find(name string) (series.Aggregated, bool) {
	if !s.Header.HasCollision() {
		i, ok := s.byID[hash.ID(name)]
		if ok && s.Series[i].Name == name {
			return s.Series[i], true
		}

		return series.Aggregated{}, false
	}

	for _, a := range s.Series {
		if a.Name == name {
			return a, true
		}
	}

	return series.Aggregated{}, false
}
