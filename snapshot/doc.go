// Package snapshot serializes sets of aggregated series into a compact columnar binary
// container, used by the result memo and by the CLI's binary output.
//
// Layout:
//
//	header (32 bytes) | index entries (16 bytes each) | names | offsets | values | counts
//
// Series are identified by the xxhash64 of their name; the names payload is always
// stored and verified against the IDs on decode. Offsets are delta-of-delta zigzag
// varints by default, values are raw IEEE-754 words (NaN payloads survive) and counts
// are uvarints. Each payload section is compressed independently with the configured
// codec, and the CRC32 in the header covers everything after it.
package snapshot
