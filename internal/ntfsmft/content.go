package ntfsmft

import (
	"encoding/binary"
	"fmt"

	"github.com/s0up4200/go-ntfsinfo/internal/field"
)

// Attribute type codes with a specialized content decoder.
const (
	TypeStandardInformation = 0x10
	TypeAttributeList       = 0x20
	TypeFileName            = 0x30
	TypeObjectID            = 0x40
	TypeData                = 0x80
	TypeIndexRoot           = 0x90
	TypeIndexAllocation     = 0xA0
	TypeReparsePoint        = 0xC0
)

// StandardInformation is $STANDARD_INFORMATION's content (attribute type
// 0x10): file-level timestamps, flags, and NTFS 3.0 quota/USN fields.
type StandardInformation struct {
	Created     field.WindowsTime
	Altered     field.WindowsTime
	MftAltered  field.WindowsTime
	Accessed    field.WindowsTime
	Flags       field.SiFlags
	MaxVersions uint32
	Version     uint32
	ClassID     uint32
	OwnerID     uint32
	SecurityID  uint32
	Quota       uint64
	USN         uint64
}

// siMinLength covers the four FILETIMEs plus the flags word; the NTFS 3.0
// extension fields beyond that are decoded only when present.
const siMinLength = 36

func decodeStandardInformation(content []byte) (StandardInformation, error) {
	if len(content) < siMinLength {
		return StandardInformation{}, fmt.Errorf("%w: $STANDARD_INFORMATION needs %d bytes, got %d", ErrTruncatedAttributeContent, siMinLength, len(content))
	}
	si := StandardInformation{
		Created:    field.NewWindowsTime(content[0:8], "Created"),
		Altered:    field.NewWindowsTime(content[8:16], "Altered"),
		MftAltered: field.NewWindowsTime(content[16:24], "MFT altered"),
		Accessed:   field.NewWindowsTime(content[24:32], "Accessed"),
		Flags:      field.NewSiFlags(content[32:36], "Flags"),
	}
	if len(content) >= 72 {
		si.MaxVersions = binary.LittleEndian.Uint32(content[36:40])
		si.Version = binary.LittleEndian.Uint32(content[40:44])
		si.ClassID = binary.LittleEndian.Uint32(content[44:48])
		si.OwnerID = binary.LittleEndian.Uint32(content[48:52])
		si.SecurityID = binary.LittleEndian.Uint32(content[52:56])
		si.Quota = binary.LittleEndian.Uint64(content[56:64])
		si.USN = binary.LittleEndian.Uint64(content[64:72])
	}
	return si, nil
}

// AttributeListEntry is one entry of $ATTRIBUTE_LIST's content. Only the
// first entry is ever decoded (see decodeAttributeList), matching the
// source's AttributeList.__init__ behavior exactly.
type AttributeListEntry struct {
	Type          uint32
	EntryLength   uint16
	NameLength    uint8
	NameOffset    uint8
	VCNStart      uint64
	FileReference Reference
	AttrID        uint16
}

const attributeListEntryLength = 26

// decodeAttributeList decodes only the first entry of $ATTRIBUTE_LIST's
// content, never looping over subsequent entries even when more are
// present. This is preserved unchanged from the source, which is ground
// truth for this field rather than a flagged defect.
func decodeAttributeList(content []byte) (AttributeListEntry, error) {
	if len(content) < attributeListEntryLength {
		return AttributeListEntry{}, fmt.Errorf("%w: $ATTRIBUTE_LIST needs %d bytes, got %d", ErrTruncatedAttributeContent, attributeListEntryLength, len(content))
	}
	return AttributeListEntry{
		Type:          binary.LittleEndian.Uint32(content[0:4]),
		EntryLength:   binary.LittleEndian.Uint16(content[4:6]),
		NameLength:    content[6],
		NameOffset:    content[7],
		VCNStart:      binary.LittleEndian.Uint64(content[8:16]),
		FileReference: NewReference(binary.LittleEndian.Uint64(content[16:24])),
		AttrID:        binary.LittleEndian.Uint16(content[24:26]),
	}, nil
}

// FileName is $FILE_NAME's content (attribute type 0x30).
type FileName struct {
	Parent        ParentReference
	Created       field.WindowsTime
	Altered       field.WindowsTime
	MftAltered    field.WindowsTime
	Accessed      field.WindowsTime
	AllocatedSize uint64
	ActualSize    uint64
	Flags         uint32
	ReparseValue  uint32
	NameLength    uint8
	Namespace     uint8
	Name          field.FileName
}

const fileNameMinLength = 66

// decodeFileName reads the name from byte 66 through the end of content,
// not the declared name_length*2 bytes — preserved from the source, which
// does not trust the declared length either.
func decodeFileName(content []byte) (FileName, error) {
	if len(content) < fileNameMinLength {
		return FileName{}, fmt.Errorf("%w: $FILE_NAME needs %d bytes, got %d", ErrTruncatedAttributeContent, fileNameMinLength, len(content))
	}
	return FileName{
		Parent:        NewParentReference(content[0:8]),
		Created:       field.NewWindowsTime(content[8:16], "Created"),
		Altered:       field.NewWindowsTime(content[16:24], "Altered"),
		MftAltered:    field.NewWindowsTime(content[24:32], "MFT altered"),
		Accessed:      field.NewWindowsTime(content[32:40], "Accessed"),
		AllocatedSize: binary.LittleEndian.Uint64(content[40:48]),
		ActualSize:    binary.LittleEndian.Uint64(content[48:56]),
		Flags:         binary.LittleEndian.Uint32(content[56:60]),
		ReparseValue:  binary.LittleEndian.Uint32(content[60:64]),
		NameLength:    content[64],
		Namespace:     content[65],
		Name:          field.NewFileName(content[66:], "Name"),
	}, nil
}

// ObjectID is $OBJECT_ID's content (attribute type 0x40): four GUIDs.
type ObjectID struct {
	ObjectID      field.GUID
	BirthVolumeID field.GUID
	BirthObjectID field.GUID
	BirthDomainID field.GUID
}

const objectIDLength = 64

func decodeObjectID(content []byte) (ObjectID, error) {
	if len(content) < objectIDLength {
		return ObjectID{}, fmt.Errorf("%w: $OBJECT_ID needs %d bytes, got %d", ErrTruncatedAttributeContent, objectIDLength, len(content))
	}
	return ObjectID{
		ObjectID:      field.NewGUID(content[0:16], "Object ID"),
		BirthVolumeID: field.NewGUID(content[16:32], "Birth volume ID"),
		BirthObjectID: field.NewGUID(content[32:48], "Birth object ID"),
		BirthDomainID: field.NewGUID(content[48:64], "Birth domain ID"),
	}, nil
}

// Data is $DATA's content (attribute type 0x80): opaque resident bytes, or
// nothing when the attribute is non-resident (its allocated/actual/
// initialized sizes live on the attribute's non-resident tail instead).
type Data struct {
	Content []byte
}

func decodeData(content []byte) (Data, error) {
	return Data{Content: content}, nil
}

// IndexRoot is $INDEX_ROOT's content (attribute type 0x90): the fields
// needed to locate and size the root index record. The B-tree entries
// inside the index record are out of scope.
type IndexRoot struct {
	IndexedAttrType     AttributeTypeField
	CollationRule       uint32
	IndexRecordBytes    uint32
	IndexRecordClusters uint8
}

const indexRootMinLength = 13

func decodeIndexRoot(content []byte) (IndexRoot, error) {
	if len(content) < indexRootMinLength {
		return IndexRoot{}, fmt.Errorf("%w: $INDEX_ROOT needs %d bytes, got %d", ErrTruncatedAttributeContent, indexRootMinLength, len(content))
	}
	return IndexRoot{
		IndexedAttrType:     NewAttributeTypeField(content[0:4], false),
		CollationRule:       binary.LittleEndian.Uint32(content[4:8]),
		IndexRecordBytes:    binary.LittleEndian.Uint32(content[8:12]),
		IndexRecordClusters: content[12],
	}, nil
}

// IndexAllocation is $INDEX_ALLOCATION's content (attribute type 0xA0):
// treated entirely as opaque, since walking the index record body is out
// of scope.
type IndexAllocation struct {
	Raw []byte
}

func decodeIndexAllocation(content []byte) (IndexAllocation, error) {
	return IndexAllocation{Raw: content}, nil
}

// ReparsePoint is $REPARSE_POINT's content (attribute type 0xC0).
type ReparsePoint struct {
	Flags            uint32
	Size             uint16
	TargetNameOffset uint16
	TargetNameLength uint16
	PrintNameOffset  uint16
	PrintNameLength  uint16
}

const reparsePointMinLength = 16

func decodeReparsePoint(content []byte) (ReparsePoint, error) {
	if len(content) < reparsePointMinLength {
		return ReparsePoint{}, fmt.Errorf("%w: $REPARSE_POINT needs %d bytes, got %d", ErrTruncatedAttributeContent, reparsePointMinLength, len(content))
	}
	return ReparsePoint{
		Flags:            binary.LittleEndian.Uint32(content[0:4]),
		Size:             binary.LittleEndian.Uint16(content[4:6]),
		TargetNameOffset: binary.LittleEndian.Uint16(content[8:10]),
		TargetNameLength: binary.LittleEndian.Uint16(content[10:12]),
		PrintNameOffset:  binary.LittleEndian.Uint16(content[12:14]),
		PrintNameLength:  binary.LittleEndian.Uint16(content[14:16]),
	}, nil
}

// DecodeContent dispatches on a's attribute type and decodes its resident
// content into the matching typed variant. Non-resident attributes and
// attribute types without a specialized decoder return (nil, nil): the
// caller still has the attribute header and raw content/tail available.
func (a *Attribute) DecodeContent() (any, error) {
	if a.NonResident {
		return nil, nil
	}
	switch a.Header.AttrType {
	case TypeStandardInformation:
		return decodeStandardInformation(a.Content)
	case TypeAttributeList:
		return decodeAttributeList(a.Content)
	case TypeFileName:
		return decodeFileName(a.Content)
	case TypeObjectID:
		return decodeObjectID(a.Content)
	case TypeData:
		return decodeData(a.Content)
	case TypeIndexRoot:
		return decodeIndexRoot(a.Content)
	case TypeIndexAllocation:
		return decodeIndexAllocation(a.Content)
	case TypeReparsePoint:
		return decodeReparsePoint(a.Content)
	default:
		return nil, nil
	}
}
