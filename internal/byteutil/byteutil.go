// Package byteutil provides the little-endian byte-slicing primitives the
// rest of the decoder builds on: inclusive-range extraction and fixed-width
// unsigned integer unpacking. Little-endian is the only endian policy used
// anywhere in this module.
package byteutil

import (
	"encoding/binary"
	"fmt"
)

// SliceInclusive returns data[start:end+1], matching the source decoder's
// byte_range(data, start, end) helper. When end is omitted (EndAbsent),
// a single byte is returned.
const EndAbsent = -1

func SliceInclusive(data []byte, start, end int) ([]byte, error) {
	if end == EndAbsent {
		end = start
	}
	if start < 0 || end < start || end >= len(data) {
		return nil, fmt.Errorf("byteutil: range [%d,%d] out of bounds for %d-byte buffer", start, end, len(data))
	}
	return data[start : end+1], nil
}

// MustSliceInclusive is SliceInclusive without the error return, for callers
// that have already bounds-checked the surrounding buffer (e.g. a fixed-size
// struct layout parsed from a buffer whose length was validated up front).
func MustSliceInclusive(data []byte, start, end int) []byte {
	b, err := SliceInclusive(data, start, end)
	if err != nil {
		panic(err)
	}
	return b
}

// Uint16 unpacks a little-endian uint16 at the given inclusive byte range.
func Uint16(data []byte, start int) (uint16, error) {
	b, err := SliceInclusive(data, start, start+1)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 unpacks a little-endian uint32 at the given inclusive byte range.
func Uint32(data []byte, start int) (uint32, error) {
	b, err := SliceInclusive(data, start, start+3)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 unpacks a little-endian uint64 at the given inclusive byte range.
func Uint64(data []byte, start int) (uint64, error) {
	b, err := SliceInclusive(data, start, start+7)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// UnpackUint unpacks a little-endian unsigned integer of the given width
// (1, 2, 4, or 8 bytes) from raw. Mirrors the source's format_options table.
func UnpackUint(raw []byte) (uint64, error) {
	switch len(raw) {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(raw)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw)), nil
	case 8:
		return binary.LittleEndian.Uint64(raw), nil
	default:
		return 0, fmt.Errorf("byteutil: unsupported field width %d", len(raw))
	}
}
