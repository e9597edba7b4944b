package ntfsmft

import (
	"encoding/binary"
	"fmt"

	"github.com/s0up4200/go-ntfsinfo/internal/field"
)

const (
	attributeHeaderLength       = 16
	attributeResidentTailLength = attributeHeaderLength + 6  // + content_size, content_offset
	attributeNonResTailLength   = attributeHeaderLength + 48 // vcn_start..initialized_size
)

// AttributeHeader is the 16-byte header common to every attribute.
type AttributeHeader struct {
	AttrType   uint32
	Length     uint32
	NameLength uint8
	NameOffset uint16
	Flags      uint16
	AttrID     uint16
}

// ResidentTail is the tail that follows AttributeHeader when the
// attribute's content lives inline in the entry buffer.
type ResidentTail struct {
	ContentSize   uint32
	ContentOffset uint16
}

// NonResidentTail is the tail that follows AttributeHeader when the
// attribute's content lives in clusters elsewhere on disk, referenced by a
// runlist this decoder does not walk.
type NonResidentTail struct {
	VCNStart            uint64
	VCNEnd              uint64
	RunlistOffset       uint16
	CompressionUnitSize uint16
	AllocatedSize       uint64
	ActualSize          uint64
	InitializedSize     uint64
}

// Attribute is a single decoded attribute record: its header, whichever
// tail its residency calls for, and (for resident attributes) the content
// slice ready for a kind-specific decoder.
type Attribute struct {
	Header      AttributeHeader
	NonResident bool
	Resident    *ResidentTail
	NonResTail  *NonResidentTail

	// Content is the resident content slice, or nil for a non-resident
	// attribute.
	Content []byte
	// Name is the attribute's own name (distinct from file names carried
	// inside $FILE_NAME content), decoded from the name_offset/name_length
	// region when present.
	Name string

	raw []byte // the full attribute buffer, length == Header.Length
}

// Raw returns the attribute's full underlying buffer.
func (a *Attribute) Raw() []byte { return a.raw }

// ParseAttribute decodes the attribute beginning at buf[0]. ok is false
// when the 4-byte type code is the terminator (0xFFFFFFFF); no tail is
// read in that case and the caller must stop iterating.
func ParseAttribute(buf []byte, legacy bool) (attr *Attribute, ok bool, err error) {
	if len(buf) < 4 {
		return nil, false, fmt.Errorf("%w: attribute type code needs 4 bytes, got %d", ErrTruncatedInput, len(buf))
	}
	attrType := binary.LittleEndian.Uint32(buf[0:4])
	if attrType == attributeTypeTerminator {
		return nil, false, nil
	}
	if AttributeTypeName(attrType, legacy) == "" {
		// A code absent from both attribute-type tables is "no attribute":
		// the dispatch factory declines to construct anything and iteration
		// ends, the same as hitting the terminator.
		return nil, false, nil
	}
	if len(buf) < attributeHeaderLength {
		return nil, false, fmt.Errorf("%w: attribute header needs %d bytes, got %d", ErrTruncatedInput, attributeHeaderLength, len(buf))
	}

	length := binary.LittleEndian.Uint32(buf[4:8])
	if length == 0 {
		return nil, false, fmt.Errorf("%w: attribute length must be nonzero", ErrTruncatedAttributeContent)
	}
	if uint64(length) > uint64(len(buf)) {
		return nil, false, fmt.Errorf("%w: attribute declares length %d beyond buffer of %d", ErrTruncatedAttributeContent, length, len(buf))
	}
	full := buf[:length]

	nonResidentFlag := full[8]
	header := AttributeHeader{
		AttrType:   attrType,
		Length:     length,
		NameLength: full[9],
		NameOffset: binary.LittleEndian.Uint16(full[10:12]),
		Flags:      binary.LittleEndian.Uint16(full[12:14]),
		AttrID:     binary.LittleEndian.Uint16(full[14:16]),
	}

	a := &Attribute{Header: header, raw: full}

	if header.NameLength > 0 {
		nameStart := int(header.NameOffset)
		nameEnd := nameStart + int(header.NameLength)*2
		if nameEnd <= len(full) {
			a.Name = field.NewFileName(full[nameStart:nameEnd], "Name").Value()
		}
	}

	if nonResidentFlag != 0 {
		a.NonResident = true
		if len(full) < attributeNonResTailLength {
			return nil, false, fmt.Errorf("%w: non-resident tail needs %d bytes, got %d", ErrTruncatedAttributeContent, attributeNonResTailLength, len(full))
		}
		a.NonResTail = &NonResidentTail{
			VCNStart:            binary.LittleEndian.Uint64(full[16:24]),
			VCNEnd:              binary.LittleEndian.Uint64(full[24:32]),
			RunlistOffset:       binary.LittleEndian.Uint16(full[32:34]),
			CompressionUnitSize: binary.LittleEndian.Uint16(full[34:36]),
			AllocatedSize:       binary.LittleEndian.Uint64(full[40:48]),
			ActualSize:          binary.LittleEndian.Uint64(full[48:56]),
			InitializedSize:     binary.LittleEndian.Uint64(full[56:64]),
		}
		return a, true, nil
	}

	if len(full) < attributeResidentTailLength {
		return nil, false, fmt.Errorf("%w: resident tail needs %d bytes, got %d", ErrTruncatedAttributeContent, attributeResidentTailLength, len(full))
	}
	contentSize := binary.LittleEndian.Uint32(full[16:20])
	contentOffset := binary.LittleEndian.Uint16(full[20:22])
	a.Resident = &ResidentTail{ContentSize: contentSize, ContentOffset: contentOffset}

	contentStart := int(contentOffset)
	contentEnd := contentStart + int(contentSize)
	if contentStart < 0 || contentEnd > len(full) || contentEnd < contentStart {
		return nil, false, fmt.Errorf("%w: resident content [%d,%d) exceeds attribute of length %d", ErrTruncatedAttributeContent, contentStart, contentEnd, len(full))
	}
	a.Content = full[contentStart:contentEnd]

	return a, true, nil
}
