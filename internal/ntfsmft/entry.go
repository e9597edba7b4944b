package ntfsmft

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NoFilenameAttribute is the sentinel returned by MftEntry.Filename when an
// entry carries no $FILE_NAME attribute.
const NoFilenameAttribute = "*[No Filename Attribute]*"

const entryHeaderLength = 42

var (
	signatureFile = [4]byte{'F', 'I', 'L', 'E'}
	signatureBaad = [4]byte{'B', 'A', 'A', 'D'}
	signatureZero = [4]byte{0, 0, 0, 0}
)

// Offsets within an MFT entry's 42-byte header.
const (
	entryOffSignature         = 0
	entryOffFixupArrayOffset  = 4
	entryOffFixupArrayEntries = 6
	entryOffLSN               = 8
	entryOffSequenceValue     = 16
	entryOffLinkCount         = 18
	entryOffAttributeOffset   = 20
	entryOffFlags             = 22
	entryOffUsedSize          = 24
	entryOffAllocatedSize     = 28
	entryOffBaseFileReference = 32
	entryOffNextAttrID        = 40
)

// MftEntry is a decoded MFT entry header plus the raw buffer backing its
// attribute stream. All offsets below are relative to Raw().
type MftEntry struct {
	raw []byte

	Signature         [4]byte
	FixupArrayOffset  uint16
	FixupArrayEntries uint16
	LSN               uint64
	SequenceValue     uint16
	LinkCount         uint16
	AttributeOffset   uint16
	Flags             uint16
	UsedSize          uint32
	AllocatedSize     uint32
	BaseFileReference Reference
	NextAttrID        uint16
}

// ParseEntry decodes the 42-byte header of an MFT entry. buf should be the
// full entry block (1024 bytes in the common case, or at least UsedSize);
// excess trailing bytes are legal and retained for attribute iteration.
func ParseEntry(buf []byte) (*MftEntry, error) {
	if len(buf) < entryHeaderLength {
		return nil, fmt.Errorf("%w: mft entry header needs %d bytes, got %d", ErrTruncatedInput, entryHeaderLength, len(buf))
	}
	var sig [4]byte
	copy(sig[:], buf[entryOffSignature:entryOffSignature+4])
	return &MftEntry{
		raw:               buf,
		Signature:         sig,
		FixupArrayOffset:  binary.LittleEndian.Uint16(buf[entryOffFixupArrayOffset : entryOffFixupArrayOffset+2]),
		FixupArrayEntries: binary.LittleEndian.Uint16(buf[entryOffFixupArrayEntries : entryOffFixupArrayEntries+2]),
		LSN:               binary.LittleEndian.Uint64(buf[entryOffLSN : entryOffLSN+8]),
		SequenceValue:     binary.LittleEndian.Uint16(buf[entryOffSequenceValue : entryOffSequenceValue+2]),
		LinkCount:         binary.LittleEndian.Uint16(buf[entryOffLinkCount : entryOffLinkCount+2]),
		AttributeOffset:   binary.LittleEndian.Uint16(buf[entryOffAttributeOffset : entryOffAttributeOffset+2]),
		Flags:             binary.LittleEndian.Uint16(buf[entryOffFlags : entryOffFlags+2]),
		UsedSize:          binary.LittleEndian.Uint32(buf[entryOffUsedSize : entryOffUsedSize+4]),
		AllocatedSize:     binary.LittleEndian.Uint32(buf[entryOffAllocatedSize : entryOffAllocatedSize+4]),
		BaseFileReference: NewReference(binary.LittleEndian.Uint64(buf[entryOffBaseFileReference : entryOffBaseFileReference+8])),
		NextAttrID:        binary.LittleEndian.Uint16(buf[entryOffNextAttrID : entryOffNextAttrID+2]),
	}, nil
}

// Raw returns the entry's full underlying buffer.
func (e *MftEntry) Raw() []byte { return e.raw }

// Validate reports whether the entry's signature is one this decoder
// recognizes: "FILE", "BAAD", or all-zero (an unused slot).
func (e *MftEntry) Validate() bool {
	return e.Signature == signatureFile || e.Signature == signatureBaad || e.Signature == signatureZero
}

// IsEmptySlot reports whether this entry is a zeroed, never-allocated MFT
// slot: zero signature and no next attribute ID assigned.
func (e *MftEntry) IsEmptySlot() bool {
	return e.Signature == signatureZero && e.NextAttrID == 0
}

// Attributes returns a fresh forward-only iterator over this entry's
// attribute stream. legacy is passed to ParseAttribute, which also consults
// the 1.2-era attribute-name table when deciding whether a type code is
// known; attributes' own names are decoded the same way either way.
func (e *MftEntry) Attributes(legacy bool) *AttributeIterator {
	return &AttributeIterator{buf: e.raw, cursor: int(e.AttributeOffset), legacy: legacy}
}

// Filename scans the entry's attributes for the first $FILE_NAME and
// returns its decoded name, or NoFilenameAttribute if none is present.
func (e *MftEntry) Filename() string {
	it := e.Attributes(false)
	for {
		attr, ok, err := it.Next()
		if err != nil || !ok {
			return NoFilenameAttribute
		}
		if attr.Header.AttrType != TypeFileName {
			continue
		}
		fn, err := decodeFileName(attr.Content)
		if err != nil {
			return NoFilenameAttribute
		}
		return fn.Name.Value()
	}
}

// AttributeIterator walks an entry's attribute stream lazily: each call to
// Next decodes exactly one attribute and advances the cursor by its
// declared length. It stops at the terminator, at a decode error, or when
// advancing would leave the buffer. Restarting means constructing a new
// iterator via MftEntry.Attributes; this type never rewinds.
type AttributeIterator struct {
	buf    []byte
	cursor int
	legacy bool
	done   bool
}

// Next returns the next attribute, or ok=false once iteration has ended
// (terminator reached or the buffer exhausted). A non-nil error means the
// stream was malformed; the iterator is done after that regardless.
func (it *AttributeIterator) Next() (*Attribute, bool, error) {
	if it.done || it.cursor >= len(it.buf) {
		return nil, false, nil
	}
	attr, ok, err := ParseAttribute(it.buf[it.cursor:], it.legacy)
	if err != nil {
		it.done = true
		return nil, false, err
	}
	if !ok {
		it.done = true
		return nil, false, nil
	}
	it.cursor += int(attr.Header.Length)
	return attr, true, nil
}

// Fixup is the parsed fixup array: the update sequence number every
// sector trailer should match, paired with the original bytes that belong
// there once restored.
type Fixup struct {
	UpdateSequenceNumber uint16
	OriginalBytes        [][2]byte
	SectorTrailerOffsets []int
}

// Fixup parses the entry's fixup array at FixupArrayOffset, without
// applying it. See ValidatedBuffer to apply it.
func (e *MftEntry) Fixup() (Fixup, error) {
	offset := int(e.FixupArrayOffset)
	entries := int(e.FixupArrayEntries)
	if entries == 0 {
		return Fixup{}, nil
	}
	need := offset + entries*2
	if need > len(e.raw) {
		return Fixup{}, fmt.Errorf("%w: fixup array needs %d bytes, got %d", ErrTruncatedInput, need, len(e.raw))
	}
	usn := binary.LittleEndian.Uint16(e.raw[offset : offset+2])
	sectorCount := entries - 1
	original := make([][2]byte, sectorCount)
	offsets := make([]int, sectorCount)
	for i := 0; i < sectorCount; i++ {
		slot := e.raw[offset+2+i*2 : offset+2+i*2+2]
		original[i] = [2]byte{slot[0], slot[1]}
		offsets[i] = i*512 + 510
	}
	return Fixup{UpdateSequenceNumber: usn, OriginalBytes: original, SectorTrailerOffsets: offsets}, nil
}

// ValidatedBuffer returns a copy of the entry's buffer with fixups applied:
// each sector's trailing two bytes are checked against the update sequence
// number and then replaced with the stored original bytes. It returns
// ErrTornWrite if a trailer doesn't match, meaning the write that produced
// this entry was interrupted partway through. The default decode path does
// not call this; it is an opt-in hook for callers that need torn-write
// detection.
func (e *MftEntry) ValidatedBuffer() ([]byte, error) {
	fx, err := e.Fixup()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(e.raw))
	copy(out, e.raw)

	usn := make([]byte, 2)
	binary.LittleEndian.PutUint16(usn, fx.UpdateSequenceNumber)

	for i, off := range fx.SectorTrailerOffsets {
		if off+2 > len(out) {
			break
		}
		if !bytes.Equal(out[off:off+2], usn) {
			return nil, fmt.Errorf("%w: sector %d trailer does not match update sequence number", ErrTornWrite, i)
		}
		out[off], out[off+1] = fx.OriginalBytes[i][0], fx.OriginalBytes[i][1]
	}
	return out, nil
}
