package ntfsmft

import "github.com/s0up4200/go-ntfsinfo/internal/field"

// attributeTypeTerminator marks the end of an attribute stream.
const attributeTypeTerminator = 0xFFFFFFFF

// attributeTypeNames is the current (post-NT4) attribute-type table. It is
// computed once and never mutated, unlike the source's
// get_attribute_type(key, version), which rewrites its shared dict in
// place when version == 1.2 — a documented bug this decoder avoids by
// keeping the alternate names in a separate table selected per call.
var attributeTypeNames = map[uint32]string{
	0x10:  "$STANDARD_INFORMATION",
	0x20:  "$ATTRIBUTE_LIST",
	0x30:  "$FILE_NAME",
	0x40:  "$OBJECT_ID",
	0x50:  "$SECURITY_DESCRIPTOR",
	0x60:  "$VOLUME_NAME",
	0x70:  "$VOLUME_INFORMATION",
	0x80:  "$DATA",
	0x90:  "$INDEX_ROOT",
	0xA0:  "$INDEX_ALLOCATION",
	0xB0:  "$BITMAP",
	0xC0:  "$REPARSE_POINT",
	0xD0:  "$EA_INFORMATION",
	0xE0:  "$EA",
	0xF0:  "$PROPERTY_SET",
	0x100: "$LOGGED_UTILITY_STREAM",
}

// legacyAttributeTypeNames holds the NTFS 1.2-era names for codes that were
// renamed in later versions. Reachable only via AttributeTypeName's legacy
// parameter, never merged into attributeTypeNames.
var legacyAttributeTypeNames = map[uint32]string{
	0x40: "$VOLUME_VERSION",
	0xC0: "$SYMBOLIC_LINK",
}

// AttributeTypeName resolves an attribute-type code to its symbolic name.
// When legacy is true, the 1.2-era alternate name is tried first. Returns
// the empty string for a code absent from both tables.
func AttributeTypeName(code uint32, legacy bool) string {
	if legacy {
		if name, ok := legacyAttributeTypeNames[code]; ok {
			return name
		}
	}
	return attributeTypeNames[code]
}

// AttributeTypeField renders an attribute-type code via AttributeTypeName,
// falling back to its hex form when the code is unrecognized.
type AttributeTypeField struct {
	field.Base
	legacy bool
}

func NewAttributeTypeField(raw []byte, legacy bool) AttributeTypeField {
	return AttributeTypeField{field.New(raw, "Attribute type"), legacy}
}

func (f AttributeTypeField) ID() uint32 {
	v, _ := field.NewInteger(f.Raw(), "").Value()
	return uint32(v)
}

func (f AttributeTypeField) Render() string {
	name := AttributeTypeName(f.ID(), f.legacy)
	if name == "" {
		return f.Hex()
	}
	return name
}
