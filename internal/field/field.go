// Package field implements the typed rendering layer described in the NTFS
// decoder design: every raw byte slice pulled out of a boot sector, MFT
// entry, or attribute is wrapped in a Field before it reaches a caller, so
// integers, flags, Windows timestamps, and strings all get a uniform
// (title, hex, rendered-value) surface instead of leaking raw bytes.
package field

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/s0up4200/go-ntfsinfo/internal/byteutil"
)

// Field is the shared rendering surface every field type below implements.
// Title is empty for fields with no export label.
type Field interface {
	Title() string
	Hex() string
	Render() string
}

// Base carries the raw bytes and optional export title every field wraps.
type Base struct {
	raw   []byte
	title string
}

func New(raw []byte, title string) Base {
	return Base{raw: raw, title: title}
}

func (b Base) Raw() []byte    { return b.raw }
func (b Base) Title() string  { return b.title }
func (b Base) Hex() string {
	return "0x" + fmt.Sprintf("%x", b.raw)
}

// Integer unpacks a little-endian unsigned integer of width 1, 2, 4, or 8
// bytes. A 16-byte field is handled separately by GUID.
type Integer struct{ Base }

func NewInteger(raw []byte, title string) Integer { return Integer{New(raw, title)} }

func (f Integer) Value() (uint64, error) { return byteutil.UnpackUint(f.raw) }

func (f Integer) Render() string {
	v, err := f.Value()
	if err != nil {
		return f.Hex()
	}
	return fmt.Sprintf("%d (%s)", v, f.Hex())
}

// GUID interprets a 16-byte field as two little-endian uint64 halves, the
// same "GUID-shaped content" accommodation the integer field documents.
type GUID struct{ Base }

func NewGUID(raw []byte, title string) GUID { return GUID{New(raw, title)} }

func (f GUID) Value() (low, high uint64) {
	if len(f.raw) != 16 {
		return 0, 0
	}
	return binary.LittleEndian.Uint64(f.raw[0:8]), binary.LittleEndian.Uint64(f.raw[8:16])
}

func (f GUID) Render() string {
	lo, hi := f.Value()
	return fmt.Sprintf("%016x-%016x (%s)", lo, hi, f.Hex())
}

// String decodes raw bytes as UTF-8. Decode failure is not surfaced as an
// error: the raw bytes are rendered instead, matching the source's
// preference for a viewable fallback over a propagated error.
type String struct{ Base }

func NewString(raw []byte, title string) String { return String{New(raw, title)} }

func (f String) Value() string {
	if utf8.Valid(f.raw) {
		return string(f.raw)
	}
	return string(f.raw)
}

func (f String) Render() string { return f.Value() }

// FileName tries UTF-8, then UTF-16LE, then UTF-32LE, stripping embedded NUL
// code units at each step; if none decode cleanly the raw bytes are
// rendered verbatim. NTFS stores names as UTF-16LE, but the source accepts
// any legal decoding to stay robust against malformed or short content.
type FileName struct{ Base }

func NewFileName(raw []byte, title string) FileName { return FileName{New(raw, title)} }

func (f FileName) Value() string {
	if utf8.Valid(f.raw) {
		return stripNUL(string(f.raw))
	}
	if s, ok := decodeUTF16LE(f.raw); ok {
		return stripNUL(s)
	}
	if s, ok := decodeUTF32LE(f.raw); ok {
		return stripNUL(s)
	}
	return string(f.raw)
}

func (f FileName) Render() string { return f.Value() }

func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func decodeUTF16LE(raw []byte) (string, bool) {
	if len(raw)%2 != 0 || len(raw) == 0 {
		return "", false
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[2*i : 2*i+2])
	}
	runes := utf16.Decode(units)
	for _, r := range runes {
		if r == utf8.RuneError {
			return "", false
		}
	}
	return string(runes), true
}

func decodeUTF32LE(raw []byte) (string, bool) {
	if len(raw)%4 != 0 || len(raw) == 0 {
		return "", false
	}
	var b strings.Builder
	for i := 0; i < len(raw); i += 4 {
		cp := binary.LittleEndian.Uint32(raw[i : i+4])
		if cp > 0x10FFFF {
			return "", false
		}
		b.WriteRune(rune(cp))
	}
	return b.String(), true
}

// WindowsTime decodes two little-endian uint32s (low, high) forming a
// 64-bit FILETIME: a count of 100-ns intervals since 1601-01-01 UTC.
type WindowsTime struct{ Base }

func NewWindowsTime(raw []byte, title string) WindowsTime { return WindowsTime{New(raw, title)} }

// filetimeUnixEpochDelta is the number of 100-ns intervals between the
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeUnixEpochDelta = 116444736000000000

func (f WindowsTime) unpack() (low, high uint32) {
	if len(f.raw) != 8 {
		return 0, 0
	}
	return binary.LittleEndian.Uint32(f.raw[0:4]), binary.LittleEndian.Uint32(f.raw[4:8])
}

// Time returns the decoded time and whether the FILETIME value fell within
// the representable Unix range.
func (f WindowsTime) Time() (time.Time, bool) {
	low, high := f.unpack()
	filetime := (uint64(high) << 32) | uint64(low)
	if filetime < filetimeUnixEpochDelta {
		return time.Time{}, false
	}
	unixSeconds := int64(filetime-filetimeUnixEpochDelta) / 10000000
	// time.Unix never "fails"; clamp to a sane sentinel range instead, since
	// an enormous FILETIME would otherwise render as an implausible year.
	if unixSeconds < 0 || unixSeconds > 253402300799 { // year 9999
		return time.Time{}, false
	}
	return time.Unix(unixSeconds, 0).UTC(), true
}

func (f WindowsTime) Render() string {
	t, ok := f.Time()
	if !ok {
		return "Invalid date and time"
	}
	return t.Format("2006/01/02 15:04")
}

// MftFlags renders the MFT entry's flags word as a single label when it
// matches exactly one of the known bits, or the raw number otherwise.
type MftFlags struct{ Base }

func NewMftFlags(raw []byte, title string) MftFlags { return MftFlags{New(raw, title)} }

func (f MftFlags) Value() uint16 {
	if len(f.raw) != 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(f.raw)
}

func (f MftFlags) Render() string {
	switch f.Value() {
	case 0x01:
		return "In use"
	case 0x02:
		return "Directory"
	default:
		return fmt.Sprintf("%d", f.Value())
	}
}

// NonResidentFlag renders a single byte as a boolean: non-resident iff the
// raw value equals 1.
type NonResidentFlag struct{ Base }

func NewNonResidentFlag(raw []byte, title string) NonResidentFlag {
	return NonResidentFlag{New(raw, title)}
}

func (f NonResidentFlag) Value() bool {
	return len(f.raw) == 1 && f.raw[0] == 1
}

func (f NonResidentFlag) Render() string { return fmt.Sprintf("%t", f.Value()) }

// siFlagBits maps a single $STANDARD_INFORMATION flag bit to its label.
// Order matters for deterministic rendering.
var siFlagBits = []struct {
	mask  uint32
	label string
}{
	{0x0001, "Read Only"},
	{0x0002, "Hidden"},
	{0x0004, "System"},
	{0x0020, "Archive"},
	{0x0040, "Device"},
	{0x0080, "Normal"},
	{0x0100, "Temporary"},
	{0x0200, "Sparse file"},
	{0x0400, "Reparse point"},
	{0x0800, "Compressed"},
	{0x1000, "Offline"},
	{0x2000, "Content not being indexed for faster searches"},
	{0x4000, "Encrypted"},
}

// SiFlags decodes the $STANDARD_INFORMATION flags word as a bitmask over
// the flag table, returning every label whose bit is set. The source
// treats this as an exact-match enum lookup, which it flags as incorrect
// (`FIXME: This is not returning the correct value`); this decodes it as
// the bitmask NTFS actually uses.
type SiFlags struct{ Base }

func NewSiFlags(raw []byte, title string) SiFlags { return SiFlags{New(raw, title)} }

func (f SiFlags) Value() uint32 {
	if len(f.raw) != 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(f.raw)
}

func (f SiFlags) Labels() []string {
	v := f.Value()
	var labels []string
	for _, bit := range siFlagBits {
		if v&bit.mask == bit.mask {
			labels = append(labels, bit.label)
		}
	}
	return labels
}

func (f SiFlags) Render() string {
	labels := f.Labels()
	if len(labels) == 0 {
		return fmt.Sprintf("%d", f.Value())
	}
	return strings.Join(labels, ", ")
}

// ParentDirectory decodes 8 bytes as (u16, u16, u32) — the source's literal
// ParentDirField byte split, preserved exactly: record = low_u16 | (high_u32
// >> 16), where low_u16 is the *second* u16 and high_u32 is the trailing
// 4 bytes. The first u16 is returned as sequence. This is not the same bit
// layout as the conventional packed MftReference (see ntfsmft.Reference);
// it is only used for $FILE_NAME's parent-directory field, matching the
// source's ParentDirField exactly.
type ParentDirectory struct{ Base }

func NewParentDirectory(raw []byte, title string) ParentDirectory {
	return ParentDirectory{New(raw, title)}
}

func (f ParentDirectory) Value() (record uint32, sequence uint16) {
	if len(f.raw) != 8 {
		return 0, 0
	}
	x1 := binary.LittleEndian.Uint16(f.raw[0:2])
	x2 := binary.LittleEndian.Uint16(f.raw[2:4])
	x3 := binary.LittleEndian.Uint32(f.raw[4:8])
	return uint32(x2) | (x3 >> 16), x1
}

func (f ParentDirectory) Render() string {
	record, sequence := f.Value()
	return fmt.Sprintf("%d / %d (%s)", record, sequence, f.Hex())
}
